package wiki

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wikifetch/wikifetch/pkg/query"
)

const (
	actionQuery     = "query"
	actionParse     = "parse"
	actionImageInfo = "imageinfo"
)

// Page fetches article metadata from the generic /w/api.php query API.
//
// Data captured by the query action: title, pageid, description, extract,
// page image and thumbnail records, the page key of the modified-dates map,
// wikibase id with its lookup URL, and canonical/raw URLs. The parse action
// adds wikitext. The imageinfo action fills in URL and dimensions for image
// records collected by earlier fetches; it is the one action allowed to
// re-fetch.
type Page struct {
	*Core
}

// NewPage creates a Page source for one title or pageid.
func NewPage(opts Options) *Page {
	return &Page{Core: newCore(opts)}
}

// GetQuery fetches the generic query action.
func (p *Page) GetQuery(ctx context.Context, opts FetchOptions) error {
	return p.fetch(ctx, p, actionQuery, opts)
}

// GetParse fetches the parse action.
func (p *Page) GetParse(ctx context.Context, opts FetchOptions) error {
	return p.fetch(ctx, p, actionParse, opts)
}

// GetWikidata fetches entity data into the same shared record, using the
// wikibase id collected by an earlier fetch when the instance has one.
func (p *Page) GetWikidata(ctx context.Context, opts FetchOptions) error {
	return p.fetch(ctx, &Wikidata{Core: p.Core}, actionWikidata, opts)
}

// GetRESTBase fetches a resource-oriented endpoint into the same shared
// record. The endpoint is resolved against the instance title; an empty
// endpoint keeps the previously resolved one (or the root listing).
func (p *Page) GetRESTBase(ctx context.Context, endpoint string, opts FetchOptions) error {
	return (&RESTBase{Core: p.Core}).Get(ctx, endpoint, opts)
}

// GetImageInfo fetches URL and size details for image records that do not
// have a URL yet. It is a no-op when every record already has one. Unlike
// other actions, repeated calls re-fetch, so images added by later fetches
// can be filled in.
func (p *Page) GetImageInfo(ctx context.Context, opts FetchOptions) error {
	if len(p.missingImageFiles()) == 0 {
		p.notice("+ no images to update")
		return nil
	}
	return p.fetch(ctx, p, actionImageInfo, opts)
}

// missingImageFiles lists the file names of image records lacking a url.
func (p *Page) missingImageFiles() []string {
	list, _ := p.data["image"].([]map[string]any)
	var files []string
	for _, img := range list {
		if img["url"] != nil {
			continue
		}
		if file := asString(img["file"]); file != "" {
			files = append(files, normalizeFile(file))
		}
	}
	return files
}

func (p *Page) buildQuery(action string, b *query.Builder) (string, error) {
	switch action {
	case actionQuery:
		if p.params.Title != "" {
			return b.Query([]string{p.params.Title}, nil), nil
		}
		if p.params.PageID != 0 {
			return b.Query(nil, []int{p.params.PageID}), nil
		}
		return "", fmt.Errorf("%w: query needs a title or pageid", ErrMissingTitle)
	case actionParse:
		if p.params.Title == "" && p.params.PageID == 0 {
			return "", fmt.Errorf("%w: parse needs a title or pageid", ErrMissingTitle)
		}
		return b.Parse(p.params.Title, p.params.PageID), nil
	case actionImageInfo:
		files := p.missingImageFiles()
		if len(files) == 0 {
			return "", errors.New("no images to get imageinfo for")
		}
		return b.ImageInfo(files), nil
	}
	return "", fmt.Errorf("unknown action %q", action)
}

func (p *Page) normalize(action string) error {
	switch action {
	case actionQuery:
		return p.setQueryData()
	case actionParse:
		return p.setParseData()
	case actionImageInfo:
		return p.setImageInfoData()
	}
	return fmt.Errorf("unknown action %q", action)
}

func (p *Page) setQueryData() error {
	res, err := p.load(actionQuery)
	if err != nil {
		return err
	}
	page, err := p.firstPage(res, actionQuery)
	if err != nil {
		return err
	}
	if missing, ok := page["missing"].(bool); ok && missing {
		return fmt.Errorf("%w: no such page %+v", ErrAPIError, p.params)
	}

	if id, ok := asInt(page["pageid"]); ok {
		p.data["pageid"] = id
	}
	if title := asString(page["title"]); title != "" {
		p.data["title"] = strings.ReplaceAll(title, " ", "_")
	}
	if terms, ok := page["terms"].(map[string]any); ok {
		if descs, ok := terms["description"].([]any); ok && len(descs) > 0 {
			p.setData("description", descs[0])
		}
	}
	p.setData("extract", page["extract"])

	p.mergeModified("page", asString(page["touched"]))

	if props, ok := page["pageprops"].(map[string]any); ok {
		if wikibase := asString(props["wikibase_item"]); wikibase != "" {
			p.data["wikibase"] = wikibase
			p.data["wikidata_url"] = wikidataURL(wikibase)
		}
	}

	if fullurl := asString(page["fullurl"]); fullurl != "" {
		p.data["url"] = fullurl
		p.data["url_raw"] = fullurl + "?action=raw"
	}

	if pageimage := asString(page["pageimage"]); pageimage != "" {
		p.appendImage("query-pageimage", map[string]any{"file": pageimage}, "")
	}
	if thumbnail, ok := page["thumbnail"].(map[string]any); ok {
		p.appendImage("query-thumbnail", thumbnail, "source")
	}
	return nil
}

func (p *Page) setParseData() error {
	res, err := p.load(actionParse)
	if err != nil {
		return err
	}
	parse, ok := res["parse"].(map[string]any)
	if !ok {
		return fmt.Errorf("%w: %s", ErrAPIError, p.queryFor(actionParse))
	}

	if id, ok := asInt(parse["pageid"]); ok {
		p.data["pageid"] = id
	}
	if title := asString(parse["title"]); title != "" {
		p.data["title"] = strings.ReplaceAll(title, " ", "_")
	}
	p.setData("wikitext", parse["wikitext"])
	return nil
}

// setImageInfoData merges fetched url, size, and dimensions into the image
// records that requested them. Records that already have a url are left
// untouched.
func (p *Page) setImageInfoData() error {
	res, err := p.load(actionImageInfo)
	if err != nil {
		return err
	}
	q, ok := res["query"].(map[string]any)
	if !ok {
		return fmt.Errorf("%w: %s", ErrAPIError, p.queryFor(actionImageInfo))
	}
	pages, _ := q["pages"].([]any)

	list, _ := p.data["image"].([]map[string]any)
	for _, raw := range pages {
		page, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		file := asString(page["title"])
		infos, _ := page["imageinfo"].([]any)
		if file == "" || len(infos) == 0 {
			continue
		}
		info, ok := infos[0].(map[string]any)
		if !ok {
			continue
		}
		for _, img := range list {
			if img["url"] != nil || !sameFile(asString(img["file"]), file) {
				continue
			}
			for _, key := range []string{"url", "size", "width", "height", "timestamp"} {
				if v, ok := info[key]; ok {
					img[key] = v
				}
			}
		}
	}
	return nil
}

// firstPage extracts the first (and for single-title requests, only) page
// from an action=query response.
func (p *Page) firstPage(res map[string]any, action string) (map[string]any, error) {
	q, ok := res["query"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAPIError, p.queryFor(action))
	}
	pages, _ := q["pages"].([]any)
	if len(pages) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrAPIError, p.queryFor(action))
	}
	page, ok := pages[0].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAPIError, p.queryFor(action))
	}
	return page, nil
}

func (p *Page) queryFor(action string) string {
	q, _ := p.Query(action)
	return q
}

// normalizeFile ensures a file name carries the File: prefix expected by
// the imageinfo query.
func normalizeFile(file string) string {
	if strings.HasPrefix(file, "File:") || strings.HasPrefix(file, "Image:") {
		return file
	}
	return "File:" + file
}

// sameFile compares two file names, ignoring namespace prefix and the
// space/underscore distinction.
func sameFile(a, b string) bool {
	return canonicalFile(a) == canonicalFile(b)
}

func canonicalFile(f string) string {
	f = strings.TrimPrefix(f, "File:")
	f = strings.TrimPrefix(f, "Image:")
	return strings.ReplaceAll(f, " ", "_")
}
