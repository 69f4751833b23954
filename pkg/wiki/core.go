package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"slices"
	"sort"
	"strings"
	"time"

	charmlog "github.com/charmbracelet/log"

	"github.com/wikifetch/wikifetch/pkg/observability"
	"github.com/wikifetch/wikifetch/pkg/query"
	"github.com/wikifetch/wikifetch/pkg/transport"
)

// Getter performs one HTTP GET and returns the body with response metadata.
// It must not retry internally and must surface network failures as errors.
// *transport.Client is the production implementation.
type Getter interface {
	Get(ctx context.Context, rawurl, status string) ([]byte, transport.Info, error)
}

// Params are the source parameters fixed at construction, except for Title
// and Endpoint, which endpoint resolution may adopt or overwrite.
type Params struct {
	Lang     string // Mediawiki language code (default "en")
	Wiki     string // wiki host override, e.g. "commons.wikimedia.org"
	Variant  string // language variant, e.g. "zh-tw"
	Title    string // page title
	PageID   int    // numeric page id
	Wikibase string // Wikidata entity id, e.g. "Q42"
	Endpoint string // canonical resource path (resource-oriented source)
}

// Flags control diagnostics and fetch suppression, set once at construction.
type Flags struct {
	Silent  bool     // suppress notices and the dump
	Verbose bool     // per-request debug logging
	Skip    []string // actions that must never be fetched
}

// Options configure a source instance.
type Options struct {
	Lang     string
	Wiki     string
	Variant  string
	Title    string
	PageID   int
	Wikibase string
	Endpoint string

	Silent  bool
	Verbose bool
	Skip    []string

	// Transport overrides per-fetch transport construction; useful for
	// tests. When nil, a transport.Client is created per fetch using the
	// fetch's proxy and timeout.
	Transport Getter

	// Diag is the diagnostic side channel for notices and the dump.
	// Defaults to os.Stderr. Never receives primary result data.
	Diag io.Writer
}

// FetchOptions configure one fetch operation.
type FetchOptions struct {
	Show      bool          // dump the shared record after a successful fetch
	Proxy     string        // HTTP proxy URL, empty for none
	Timeout   time.Duration // transport timeout, 0 means wait indefinitely
	UserAgent string        // User-Agent override, empty keeps the default
}

// source is the per-variant capability every concrete source supplies:
// building the query string for an action, and folding a fetched response
// into the shared record.
type source interface {
	buildQuery(action string, b *query.Builder) (string, error)
	normalize(action string) error
}

type cacheEntry struct {
	query    string
	response []byte
	info     transport.Info
}

// Core owns the state of one entity under inspection: the per-action
// response cache, the shared normalized record, and the source parameters.
// It is not safe for concurrent use without external synchronization.
type Core struct {
	cache  map[string]*cacheEntry
	data   map[string]any
	params Params
	flags  Flags

	diag io.Writer

	// getter, when set, is used for every fetch regardless of proxy or
	// timeout; otherwise a transport client is built per fetch.
	getter Getter
}

func newCore(opts Options) *Core {
	lang := opts.Lang
	if lang == "" {
		lang = "en"
	}
	diag := opts.Diag
	if diag == nil {
		diag = os.Stderr
	}
	return &Core{
		cache: make(map[string]*cacheEntry),
		data:  make(map[string]any),
		params: Params{
			Lang:     lang,
			Wiki:     opts.Wiki,
			Variant:  opts.Variant,
			Title:    opts.Title,
			PageID:   opts.PageID,
			Wikibase: opts.Wikibase,
			Endpoint: opts.Endpoint,
		},
		flags: Flags{
			Silent:  opts.Silent,
			Verbose: opts.Verbose,
			Skip:    slices.Clone(opts.Skip),
		},
		diag:   diag,
		getter: opts.Transport,
	}
}

// fetch runs the full lifecycle for one action: cache check, skip-list
// check, query construction via src, transport call, response caching, and
// normalization into the shared record via src. Source variants are views
// over a shared Core, so one instance can accumulate fields from several
// API families.
//
// Every action is fetched at most once per instance. The single exception
// is "imageinfo", which may be re-fetched to pick up image details for
// records collected by later fetches; its cache entry is overwritten in
// place.
func (c *Core) fetch(ctx context.Context, src source, action string, opts FetchOptions) error {
	if _, ok := c.cache[action]; ok && action != actionImageInfo {
		c.notice("+ %s results in cache", action)
		observability.Cache().OnCacheHit(ctx, action)
		return nil
	}
	if slices.Contains(c.flags.Skip, action) {
		c.notice("+ skipping %s", action)
		observability.Cache().OnSkip(ctx, action)
		return nil
	}

	b := query.New(c.params.Lang, c.params.Wiki, c.params.Variant)
	qstr, err := src.buildQuery(action, b)
	if err != nil {
		return err
	}

	entry, ok := c.cache[action]
	if !ok {
		entry = &cacheEntry{}
		c.cache[action] = entry
	}
	entry.query = qstr

	getter, err := c.transport(opts)
	if err != nil {
		return err
	}

	observability.Fetch().OnFetchStart(ctx, action, qstr)
	start := time.Now()
	body, info, err := getter.Get(ctx, qstr, b.Status())
	observability.Fetch().OnFetchComplete(ctx, action, info.Status, time.Since(start), err)
	if err != nil {
		// Transport failures propagate; the entry keeps its query but no
		// response, so only a re-fetchable action can be attempted again.
		return err
	}
	entry.response = body
	entry.info = info

	if err := src.normalize(action); err != nil {
		return err
	}

	if opts.Show {
		c.Show(false)
	}
	return nil
}

func (c *Core) transport(opts FetchOptions) (Getter, error) {
	if c.getter != nil {
		return c.getter, nil
	}
	var topts []transport.Option
	if opts.UserAgent != "" {
		topts = append(topts, transport.WithUserAgent(opts.UserAgent))
	}
	if c.flags.Verbose {
		topts = append(topts, transport.WithLogger(charmlog.New(c.diag)))
	}
	return transport.New(opts.Proxy, opts.Timeout, topts...)
}

// load parses the cached raw response for action and classifies failure
// modes. It performs no field extraction. An entry must exist in the cache;
// an absent or empty response fails with ErrEmptyResponse, an unparseable
// body with ErrMalformedResponse, and an API-reported error object (or a
// failed source-specific acceptance check) with ErrAPIError.
func (c *Core) load(action string) (map[string]any, error) {
	entry, ok := c.cache[action]
	if !ok || len(entry.response) == 0 {
		return nil, fmt.Errorf("%w: %s %+v", ErrEmptyResponse, action, c.params)
	}
	qstr := strippedQuery(entry.query)

	var data map[string]any
	if err := json.Unmarshal(entry.response, &data); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedResponse, qstr)
	}

	if v, ok := data["error"]; ok && v != nil {
		return nil, fmt.Errorf("%w: %s", ErrAPIError, qstr)
	}
	if action == actionParse {
		if v, ok := data["parse"]; !ok || v == nil {
			return nil, fmt.Errorf("%w: %s", ErrAPIError, qstr)
		}
	}
	if action == actionWikidata {
		if entities, ok := data["entities"].(map[string]any); ok {
			if _, bad := entities["-1"]; bad {
				return nil, fmt.Errorf("%w: %s", ErrAPIError, qstr)
			}
		}
	}
	return data, nil
}

// Actions returns the sorted set of cached actions.
func (c *Core) Actions() []string {
	actions := make([]string, 0, len(c.cache))
	for action := range c.cache {
		actions = append(actions, action)
	}
	sort.Strings(actions)
	return actions
}

// Query returns the cached query string for action with the format-forcing
// suffix stripped. The second return is false when the action was never
// fetched.
func (c *Core) Query(action string) (string, bool) {
	entry, ok := c.cache[action]
	if !ok {
		return "", false
	}
	return strippedQuery(entry.query), true
}

// Info returns the cached transport info for action.
// The second return is false when the action was never fetched.
func (c *Core) Info(action string) (transport.Info, bool) {
	entry, ok := c.cache[action]
	if !ok {
		return transport.Info{}, false
	}
	return entry.info, true
}

// Response returns the cached response for action parsed as JSON.
func (c *Core) Response(action string) (map[string]any, error) {
	entry, ok := c.cache[action]
	if !ok {
		return nil, fmt.Errorf("%w: %s not fetched", ErrEmptyResponse, action)
	}
	var data map[string]any
	if err := json.Unmarshal(entry.response, &data); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedResponse, strippedQuery(entry.query))
	}
	return data, nil
}

// Data returns the shared record accumulated across all successful fetches.
// The returned map is live; callers must not mutate it concurrently with
// fetches.
func (c *Core) Data() map[string]any { return c.data }

// Params returns a copy of the source parameters.
func (c *Core) Params() Params { return c.params }

// notice writes a non-fatal diagnostic to the side channel unless silent.
func (c *Core) notice(format string, args ...any) {
	if c.flags.Silent {
		return
	}
	fmt.Fprintf(c.diag, format+"\n", args...)
}

// setData stores a scalar field, discarding nil so that a source reporting
// no value never erases one recorded by an earlier fetch.
func (c *Core) setData(key string, value any) {
	if value == nil {
		return
	}
	c.data[key] = value
}

// mergeModified merges one timestamp into the shared modified-dates map
// under a source-specific key, preserving keys recorded by other sources.
func (c *Core) mergeModified(key, timestamp string) {
	if timestamp == "" {
		return
	}
	m, ok := c.data["modified"].(map[string]any)
	if !ok {
		m = make(map[string]any)
		c.data["modified"] = m
	}
	m[key] = timestamp
}

// appendImage appends one tagged image record to the shared image list.
// The shape's keys are copied, the url field is normalized from urlKey when
// present, and existing records are never replaced or deduplicated.
func (c *Core) appendImage(kind string, shape map[string]any, urlKey string) {
	img := map[string]any{"kind": kind}
	for k, v := range shape {
		img[k] = v
	}
	img["kind"] = kind
	if urlKey != "" {
		if src, ok := shape[urlKey]; ok && src != nil {
			img["url"] = src
		}
	}
	list, _ := c.data["image"].([]map[string]any)
	c.data["image"] = append(list, img)
}

// wikidataURL derives the lookup URL for a Wikidata item id.
func wikidataURL(wikibase string) string {
	return "https://www.wikidata.org/wiki/" + wikibase
}

// strippedQuery removes the format-forcing suffix from a cached query.
func strippedQuery(q string) string {
	return strings.Replace(q, "&format=json", "", 1)
}

// pageURLs derives the canonical wiki URL and raw-content URL for title
// from the scheme and host of the request that fetched it.
func pageURLs(rawQuery, title string) (pageURL, rawURL string) {
	u, err := url.Parse(rawQuery)
	if err != nil {
		return "", ""
	}
	pageURL = fmt.Sprintf("%s://%s/wiki/%s", u.Scheme, u.Host, title)
	return pageURL, pageURL + "?action=raw"
}

// firstNonNil returns the first non-nil value.
func firstNonNil(values ...any) any {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

// asInt converts a JSON number to int, tolerating float64 decoding.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	}
	return 0, false
}

// asString returns v as a string when it is one.
func asString(v any) string {
	s, _ := v.(string)
	return s
}
