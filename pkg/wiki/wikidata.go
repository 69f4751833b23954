package wiki

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/wikifetch/wikifetch/pkg/query"
)

const actionWikidata = "wikidata"

// imageClaim is the Wikidata property holding a page image file name.
const imageClaim = "P18"

// Wikidata fetches entity data via wbgetentities, looked up by entity id
// or by the wiki sitelink for the configured title.
//
// Data captured: wikibase id and lookup URL, label, description, sitelink
// title, an image record derived from the P18 claim, and the wikidata key
// of the modified-dates map.
type Wikidata struct {
	*Core
}

// NewWikidata creates a Wikidata source for one entity id or title.
func NewWikidata(opts Options) *Wikidata {
	return &Wikidata{Core: newCore(opts)}
}

// Get fetches the wikidata action.
func (w *Wikidata) Get(ctx context.Context, opts FetchOptions) error {
	return w.fetch(ctx, w, actionWikidata, opts)
}

func (w *Wikidata) buildQuery(action string, b *query.Builder) (string, error) {
	// Prefer an explicit entity id, then one collected by an earlier fetch
	// into the shared record, then the sitelink lookup by title.
	if w.params.Wikibase != "" {
		return b.Wikidata([]string{w.params.Wikibase}, ""), nil
	}
	if wikibase := asString(w.data["wikibase"]); wikibase != "" {
		return b.Wikidata([]string{wikibase}, ""), nil
	}
	if w.params.Title != "" {
		return b.Wikidata(nil, w.params.Title), nil
	}
	return "", fmt.Errorf("%w: wikidata needs a wikibase id or title", ErrMissingTitle)
}

func (w *Wikidata) normalize(action string) error {
	res, err := w.load(actionWikidata)
	if err != nil {
		return err
	}
	entities, ok := res["entities"].(map[string]any)
	if !ok || len(entities) == 0 {
		q, _ := w.Query(actionWikidata)
		return fmt.Errorf("%w: %s", ErrAPIError, q)
	}

	// Single-entity lookups still arrive keyed by id; take the first key
	// in sorted order for determinism.
	ids := make([]string, 0, len(entities))
	for id := range entities {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	entity, ok := entities[ids[0]].(map[string]any)
	if !ok {
		q, _ := w.Query(actionWikidata)
		return fmt.Errorf("%w: %s", ErrAPIError, q)
	}

	if id := asString(entity["id"]); id != "" {
		w.data["wikibase"] = id
		w.data["wikidata_url"] = wikidataURL(id)
	}
	w.mergeModified("wikidata", asString(entity["modified"]))

	w.setData("label", localizedValue(entity["labels"], w.params.Lang))
	w.setData("description", localizedValue(entity["descriptions"], w.params.Lang))

	if sitelinks, ok := entity["sitelinks"].(map[string]any); ok {
		if link, ok := sitelinks[w.params.Lang+"wiki"].(map[string]any); ok {
			if title := asString(link["title"]); title != "" {
				w.data["title"] = strings.ReplaceAll(title, " ", "_")
			}
		}
	}

	if file := claimValue(entity["claims"], imageClaim); file != "" {
		w.appendImage("wikidata-image", map[string]any{
			"file": file,
			"url":  commonsFileURL(file),
		}, "")
	}
	return nil
}

// localizedValue extracts the value for lang from a labels- or
// descriptions-shaped map. Returns nil when absent so setData discards it.
func localizedValue(field any, lang string) any {
	m, ok := field.(map[string]any)
	if !ok {
		return nil
	}
	entry, ok := m[lang].(map[string]any)
	if !ok {
		return nil
	}
	return entry["value"]
}

// claimValue extracts the first string value of a claim property.
func claimValue(claims any, property string) string {
	m, ok := claims.(map[string]any)
	if !ok {
		return ""
	}
	statements, ok := m[property].([]any)
	if !ok || len(statements) == 0 {
		return ""
	}
	statement, ok := statements[0].(map[string]any)
	if !ok {
		return ""
	}
	mainsnak, ok := statement["mainsnak"].(map[string]any)
	if !ok {
		return ""
	}
	datavalue, ok := mainsnak["datavalue"].(map[string]any)
	if !ok {
		return ""
	}
	return asString(datavalue["value"])
}

// commonsFileURL derives the Wikimedia Commons file URL for an image file
// name reported by a P18 claim.
func commonsFileURL(file string) string {
	name := strings.ReplaceAll(file, " ", "_")
	return "https://commons.wikimedia.org/wiki/Special:FilePath/" + url.PathEscape(name)
}
