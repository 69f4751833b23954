package wiki

import (
	"context"
	"fmt"
	"strings"

	"github.com/wikifetch/wikifetch/pkg/query"
)

const actionRESTBase = "restbase"

// rootEndpoint is the entry-point listing; fetching it yields the available
// sub-resources rather than page data.
const rootEndpoint = "/page/"

// RESTBase fetches page data from the resource-oriented REST API
// (/api/rest_v1/page/...). Endpoints of interest include:
//
//	/page/summary/{title}
//	/page/html/{title}
//	/page/mobile-sections-lead/{title}
//
// Data captured: description, pageid, exrest and exhtml extracts, lead
// section text, html (verbatim, for HTML endpoints), title, canonical and
// raw URLs, wikibase id with its lookup URL, tagged image records, and the
// page key of the modified-dates map.
type RESTBase struct {
	*Core
}

// NewRESTBase creates a RESTBase source. The endpoint in opts is resolved
// against the title immediately; resolution failures (missing or
// conflicting title) are returned here.
func NewRESTBase(opts Options) (*RESTBase, error) {
	r := &RESTBase{Core: newCore(opts)}

	endpoint, err := r.parseEndpoint(opts.Endpoint, r.params.Title)
	if err != nil {
		return nil, err
	}
	r.params.Endpoint = endpoint
	return r, nil
}

// Get fetches the resolved endpoint. A non-empty endpoint argument is
// re-resolved first and overwrites the stored endpoint parameter; prior
// cached fetches are kept.
func (r *RESTBase) Get(ctx context.Context, endpoint string, opts FetchOptions) error {
	if endpoint != "" || r.params.Endpoint == "" {
		resolved, err := r.parseEndpoint(endpoint, r.params.Title)
		if err != nil {
			return err
		}
		r.params.Endpoint = resolved
	}
	return r.fetch(ctx, r, actionRESTBase, opts)
}

// parseEndpoint validates a caller-supplied endpoint path against the
// available title and returns its canonical slash-joined form.
//
// An empty endpoint resolves to the root entry-point listing. Otherwise the
// path is split on slashes, empty segments dropped, and the fixed "page"
// root prepended when absent. A two-segment path needs a title to append;
// a three-segment path must agree with the supplied title, and its title
// segment is adopted when none was previously known.
func (r *RESTBase) parseEndpoint(endpoint, title string) (string, error) {
	if endpoint == "" {
		return rootEndpoint, nil
	}

	var parts []string
	for _, p := range strings.Split(endpoint, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 || parts[0] != "page" {
		parts = append([]string{"page"}, parts...)
	}

	if len(parts) == 2 {
		if title == "" {
			return "", fmt.Errorf("%w: endpoint %s", ErrMissingTitle, endpoint)
		}
		parts = append(parts, title)
	}

	if len(parts) == 3 {
		if title != "" && title != parts[2] {
			return "", fmt.Errorf("%w: %s != %s", ErrConflictingTitle, parts[2], title)
		}
		if r.params.Title == "" {
			r.params.Title = parts[2]
		}
	}

	return "/" + strings.Join(parts, "/"), nil
}

func (r *RESTBase) buildQuery(action string, b *query.Builder) (string, error) {
	return b.RESTBase(r.params.Endpoint), nil
}

func (r *RESTBase) normalize(action string) error {
	entry := r.cache[actionRESTBase]

	// HTML endpoints carry no structured data; keep the body verbatim.
	if entry.info.HTML() {
		r.data["html"] = string(entry.response)
		return nil
	}

	res, err := r.load(actionRESTBase)
	if err != nil {
		return err
	}

	if entry.info.Status == 404 {
		return fmt.Errorf("%w: %s", ErrNotFound, strippedQuery(entry.query))
	}

	// The root listing carries no page data; report the entry points and
	// drop the cache entry.
	if r.params.Endpoint == rootEndpoint {
		r.notice("RESTBase %s entry points: %v", rootEndpoint, res["items"])
		delete(r.cache, actionRESTBase)
		return nil
	}

	r.setData("description", res["description"])
	if id, ok := asInt(firstNonNil(res["id"], res["pageid"])); ok {
		r.data["pageid"] = id
	}
	r.setData("exrest", res["extract"])
	r.setData("exhtml", res["extract_html"])

	r.mergeModified("page", asString(res["lastmodified"]))

	if sections, ok := res["sections"].([]any); ok && len(sections) > 0 {
		if lead, ok := sections[0].(map[string]any); ok {
			r.setData("lead", lead["text"])
		}
	}

	title := asString(firstNonNil(res["title"], res["normalizedtitle"]))
	if title != "" {
		r.data["title"] = strings.ReplaceAll(title, " ", "_")
	}

	if wikibase := asString(res["wikibase_item"]); wikibase != "" {
		r.data["wikibase"] = wikibase
		r.data["wikidata_url"] = wikidataURL(wikibase)
	}

	if pageURL, rawURL := pageURLs(entry.query, r.params.Title); pageURL != "" {
		r.data["url"] = pageURL
		r.data["url_raw"] = rawURL
	}

	r.unpackImages(res)
	return nil
}

// unpackImages appends a tagged image record for each image shape the
// response carries: a generic image (/page/mobile-sections-lead), an
// original image, and a thumbnail (both /page/summary). The list only
// grows; records are never replaced or deduplicated.
func (r *RESTBase) unpackImages(res map[string]any) {
	if image, ok := res["image"].(map[string]any); ok {
		r.appendImage("restbase-image", image, "")
	}
	if original, ok := res["originalimage"].(map[string]any); ok {
		r.appendImage("restbase-original", original, "source")
	}
	if thumbnail, ok := res["thumbnail"].(map[string]any); ok {
		r.appendImage("restbase-thumb", thumbnail, "source")
	}
}
