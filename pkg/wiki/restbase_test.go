package wiki

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/wikifetch/wikifetch/pkg/transport"
)

func TestParseEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		title    string
		want     string
		wantErr  error
	}{
		{"no endpoint", "", "X", "/page/", nil},
		{"bare sub-resource", "summary", "X", "/page/summary/X", nil},
		{"full path", "page/summary/X", "X", "/page/summary/X", nil},
		{"leading slash", "/page/summary/X", "X", "/page/summary/X", nil},
		{"conflicting title", "page/summary/Y", "X", "", ErrConflictingTitle},
		{"missing title", "summary", "", "", ErrMissingTitle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &RESTBase{Core: newCore(Options{Title: tt.title, Silent: true, Diag: &bytes.Buffer{}})}
			got, err := r.parseEndpoint(tt.endpoint, tt.title)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("parseEndpoint() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseEndpoint() failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("parseEndpoint() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseEndpointAdoptsPathTitle(t *testing.T) {
	r := &RESTBase{Core: newCore(Options{Silent: true, Diag: &bytes.Buffer{}})}
	got, err := r.parseEndpoint("page/summary/Douglas_Adams", "")
	if err != nil {
		t.Fatalf("parseEndpoint() failed: %v", err)
	}
	if got != "/page/summary/Douglas_Adams" {
		t.Errorf("parseEndpoint() = %q", got)
	}
	if r.params.Title != "Douglas_Adams" {
		t.Errorf("expected adopted title, got %q", r.params.Title)
	}
}

const summaryResponse = `{
	"title": "Douglas Adams",
	"pageid": 8091,
	"description": "English writer and humorist",
	"extract": "Douglas Adams was an English author.",
	"extract_html": "<p>Douglas Adams was an English author.</p>",
	"lastmodified": "2018-08-01T03:05:01Z",
	"wikibase_item": "Q42",
	"originalimage": {
		"source": "https://upload.wikimedia.org/Douglas_adams_portrait_cropped.jpg",
		"width": 2775,
		"height": 3809
	},
	"thumbnail": {
		"source": "https://upload.wikimedia.org/240px-Douglas_adams_portrait_cropped.jpg",
		"width": 240,
		"height": 329
	}
}`

func newTestRESTBase(t *testing.T, fake Getter, opts Options) (*RESTBase, *bytes.Buffer) {
	t.Helper()
	diag := &bytes.Buffer{}
	opts.Transport = fake
	opts.Diag = diag
	r, err := NewRESTBase(opts)
	if err != nil {
		t.Fatalf("NewRESTBase failed: %v", err)
	}
	return r, diag
}

func TestRESTBaseNormalize(t *testing.T) {
	fake := &fakeGetter{responses: map[string]string{"/api/rest_v1/page/summary/": summaryResponse}}
	r, _ := newTestRESTBase(t, fake, Options{Title: "Douglas Adams", Endpoint: "summary", Silent: true})

	if err := r.Get(context.Background(), "", FetchOptions{}); err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	data := r.Data()
	want := map[string]any{
		"description":  "English writer and humorist",
		"exrest":       "Douglas Adams was an English author.",
		"exhtml":       "<p>Douglas Adams was an English author.</p>",
		"title":        "Douglas_Adams",
		"wikibase":     "Q42",
		"wikidata_url": "https://www.wikidata.org/wiki/Q42",
		"url":          "https://en.wikipedia.org/wiki/Douglas Adams",
		"url_raw":      "https://en.wikipedia.org/wiki/Douglas Adams?action=raw",
	}
	for key, val := range want {
		if data[key] != val {
			t.Errorf("data[%s] = %v, want %v", key, data[key], val)
		}
	}
	if data["pageid"] != 8091 {
		t.Errorf("data[pageid] = %v, want 8091", data["pageid"])
	}

	modified, ok := data["modified"].(map[string]any)
	if !ok || modified["page"] != "2018-08-01T03:05:01Z" {
		t.Errorf("data[modified] = %v", data["modified"])
	}
}

func TestRESTBaseImageUnpacking(t *testing.T) {
	fake := &fakeGetter{responses: map[string]string{"/api/rest_v1/page/summary/": summaryResponse}}
	r, _ := newTestRESTBase(t, fake, Options{Title: "Douglas Adams", Endpoint: "summary", Silent: true})

	if err := r.Get(context.Background(), "", FetchOptions{}); err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	images, ok := r.Data()["image"].([]map[string]any)
	if !ok || len(images) != 2 {
		t.Fatalf("expected 2 image records, got %v", r.Data()["image"])
	}
	if images[0]["kind"] != "restbase-original" || images[1]["kind"] != "restbase-thumb" {
		t.Errorf("image kinds = %v, %v", images[0]["kind"], images[1]["kind"])
	}
	if images[0]["url"] != "https://upload.wikimedia.org/Douglas_adams_portrait_cropped.jpg" {
		t.Errorf("original url not normalized from source: %v", images[0]["url"])
	}

	// A later fetch carrying a lead-section image only appends.
	r.unpackImages(map[string]any{
		"image": map[string]any{"file": "Douglas_adams_portrait_cropped.jpg"},
	})

	images, _ = r.Data()["image"].([]map[string]any)
	if len(images) != 3 {
		t.Fatalf("expected 3 image records after second unpack, got %d", len(images))
	}
	if images[0]["kind"] != "restbase-original" || images[1]["kind"] != "restbase-thumb" {
		t.Errorf("earlier records changed: %v", images)
	}
	if images[2]["kind"] != "restbase-image" {
		t.Errorf("image[2].kind = %v", images[2]["kind"])
	}
}

func TestRESTBaseHTMLContentType(t *testing.T) {
	const html = "<!DOCTYPE html><html><body>Douglas Adams</body></html>"
	fake := &staticGetter{body: []byte(html), info: transport.Info{Status: 200, ContentType: "text/html; charset=utf-8"}}
	r, _ := newTestRESTBase(t, fake, Options{Title: "Douglas Adams", Endpoint: "html", Silent: true})

	if err := r.Get(context.Background(), "", FetchOptions{}); err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if r.Data()["html"] != html {
		t.Errorf("expected verbatim html body, got %v", r.Data()["html"])
	}
	if len(r.Data()) != 1 {
		t.Errorf("expected no structured extraction for html, got %v", r.Data())
	}
}

func TestRESTBaseRootListing(t *testing.T) {
	fake := &fakeGetter{responses: map[string]string{
		"/api/rest_v1/page/": `{"items": ["html", "summary", "mobile-sections-lead"]}`,
	}}
	r, diag := newTestRESTBase(t, fake, Options{})

	if err := r.Get(context.Background(), "", FetchOptions{}); err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if !strings.Contains(diag.String(), "entry points") {
		t.Errorf("expected entry-point listing notice, got %q", diag.String())
	}
	if got := r.Actions(); len(got) != 0 {
		t.Errorf("expected root-listing cache entry discarded, got %v", got)
	}
	if len(r.Data()) != 0 {
		t.Errorf("expected no page data from root listing, got %v", r.Data())
	}
}

func TestRESTBaseNotFound(t *testing.T) {
	fake := &staticGetter{
		body: []byte(`{"type": "https://mediawiki.org/wiki/HyperSwitch/errors/not_found", "title": "Not found."}`),
		info: transport.Info{Status: 404, ContentType: "application/json"},
	}
	r, _ := newTestRESTBase(t, fake, Options{Title: "No_Such_Page_Xyz", Endpoint: "summary", Silent: true})

	err := r.Get(context.Background(), "", FetchOptions{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// staticGetter returns the same response for every request.
type staticGetter struct {
	body []byte
	info transport.Info
}

func (s *staticGetter) Get(ctx context.Context, rawurl, status string) ([]byte, transport.Info, error) {
	return s.body, s.info, nil
}
