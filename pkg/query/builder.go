// Package query builds request URLs for the Mediawiki API families.
//
// A Builder is scoped to one wiki (language code plus optional host
// override) and produces one fully formed GET URL per supported action:
//
//   - Query:     action=query against /w/api.php
//   - Parse:     action=parse against /w/api.php
//   - ImageInfo: prop=imageinfo against /w/api.php
//   - RESTBase:  resource paths under /api/rest_v1
//   - Wikidata:  wbgetentities against www.wikidata.org
//   - Category:  list=categorymembers against /w/api.php
//
// Each build method records a short status banner ("domain (action) target")
// retrievable via [Builder.Status], which callers pass to the transport as
// its status hint.
package query

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Display constants shared with the record dump renderer.
const (
	// MaxWidth is the maximum rendered line width before truncation.
	MaxWidth = 72

	// RPad is the right padding reserved on truncated lines.
	RPad = 4
)

// WikidataHost serves the wbgetentities action for all wikis.
const WikidataHost = "www.wikidata.org"

// Builder constructs Mediawiki API URLs for one wiki.
// The zero value is not usable; create one with [New].
type Builder struct {
	lang    string
	wiki    string
	variant string

	domain string
	status string
}

// New creates a Builder for the given language code.
// An empty lang defaults to "en". A non-empty wiki overrides the derived
// "<lang>.wikipedia.org" host. The variant, when set, is passed through to
// actions that honor language variants (e.g. zh-tw).
func New(lang, wiki, variant string) *Builder {
	if lang == "" {
		lang = "en"
	}
	domain := wiki
	if domain == "" {
		domain = lang + ".wikipedia.org"
	}
	return &Builder{lang: lang, wiki: wiki, variant: variant, domain: domain}
}

// Domain returns the API host this builder targets.
func (b *Builder) Domain() string { return b.domain }

// Status returns the banner set by the most recent build method,
// in the form "domain (action) target".
func (b *Builder) Status() string { return b.status }

// Query builds an action=query URL for the given titles or pageids.
// Titles take precedence when both are supplied.
func (b *Builder) Query(titles []string, pageids []int) string {
	params := []string{
		"action=query",
		"exintro",
		"formatversion=2",
		"inprop=url|watchers",
		"pithumbsize=240",
		"ppprop=wikibase_item",
		"prop=extracts|info|pageimages|pageprops|pageterms|pageviews",
		"redirects",
	}
	target := ""
	switch {
	case len(titles) > 0:
		target = titles[0]
		params = append(params, "titles="+quoteTitles(titles))
	case len(pageids) > 0:
		target = strconv.Itoa(pageids[0])
		params = append(params, "pageids="+joinInts(pageids))
	}
	b.setStatus("query", target)
	return b.apiURL(params)
}

// Parse builds an action=parse URL for one page title or pageid.
// A non-empty title takes precedence over pageid.
func (b *Builder) Parse(title string, pageid int) string {
	params := []string{
		"action=parse",
		"contentmodel=text",
		"disableeditsection",
		"disablelimitreport",
		"disabletoc",
		"formatversion=2",
		"prop=parsetree|wikitext",
		"redirects",
	}
	target := title
	if title != "" {
		params = append(params, "page="+quoteTitle(title))
	} else {
		target = strconv.Itoa(pageid)
		params = append(params, "pageid="+strconv.Itoa(pageid))
	}
	b.setStatus("parse", target)
	return b.apiURL(params)
}

// ImageInfo builds a prop=imageinfo URL for the given file titles
// (e.g. "File:Douglas adams portrait cropped.jpg").
func (b *Builder) ImageInfo(files []string) string {
	params := []string{
		"action=query",
		"formatversion=2",
		"iiprop=size|url|timestamp",
		"prop=imageinfo",
		"titles=" + quoteTitles(files),
	}
	target := ""
	if len(files) > 0 {
		target = files[0]
	}
	b.setStatus("imageinfo", target)
	return b.apiURL(params)
}

// RESTBase builds a resource URL under /api/rest_v1 from a canonical
// endpoint path (e.g. "/page/summary/Douglas_Adams"). The title segment,
// when present, is percent-encoded.
func (b *Builder) RESTBase(endpoint string) string {
	parts := strings.Split(strings.Trim(endpoint, "/"), "/")
	if len(parts) == 3 {
		parts[2] = url.PathEscape(parts[2])
	}
	path := "/" + strings.Join(parts, "/")
	if endpoint == "/page/" {
		path = "/page/"
	}
	b.setStatus("restbase", path)
	return fmt.Sprintf("https://%s/api/rest_v1%s", b.domain, path)
}

// Wikidata builds a wbgetentities URL. Entity ids take precedence; with no
// ids the lookup goes through the wiki sitelink for the given title.
func (b *Builder) Wikidata(ids []string, title string) string {
	params := []string{
		"action=wbgetentities",
		"formatversion=2",
		"languages=" + b.lang,
		"props=claims|descriptions|info|labels|sitelinks",
		"redirects=yes",
	}
	target := title
	if len(ids) > 0 {
		target = strings.Join(ids, "|")
		params = append(params, "ids="+strings.Join(ids, "|"))
	} else {
		params = append(params,
			"sites="+b.lang+"wiki",
			"titles="+quoteTitle(title))
	}
	b.setStatus("wikidata", target)
	sort.Strings(params)
	return fmt.Sprintf("https://%s/w/api.php?%s&format=json", WikidataHost, strings.Join(params, "&"))
}

// Category builds a list=categorymembers URL for one category title or
// pageid. A non-empty title takes precedence.
func (b *Builder) Category(title string, pageid int) string {
	params := []string{
		"action=query",
		"cmlimit=500",
		"formatversion=2",
		"list=categorymembers",
	}
	target := title
	if title != "" {
		params = append(params, "cmtitle="+quoteTitle(title))
	} else {
		target = strconv.Itoa(pageid)
		params = append(params, "cmpageid="+strconv.Itoa(pageid))
	}
	b.setStatus("category", target)
	return b.apiURL(params)
}

// apiURL joins sorted params into a /w/api.php URL with a trailing
// format=json, which the record inspector strips when echoing queries.
func (b *Builder) apiURL(params []string) string {
	if b.variant != "" {
		params = append(params, "variant="+b.variant)
	}
	sort.Strings(params)
	return fmt.Sprintf("https://%s/w/api.php?%s&format=json", b.domain, strings.Join(params, "&"))
}

func (b *Builder) setStatus(action, target string) {
	b.status = fmt.Sprintf("%s (%s) %s", b.domain, action, target)
}

// quoteTitle canonicalizes and percent-encodes one page title:
// spaces become underscores, then the result is query-escaped.
func quoteTitle(title string) string {
	return url.QueryEscape(strings.ReplaceAll(title, " ", "_"))
}

func quoteTitles(titles []string) string {
	quoted := make([]string, len(titles))
	for i, t := range titles {
		quoted[i] = quoteTitle(t)
	}
	return strings.Join(quoted, "|")
}

func joinInts(ids []int) string {
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = strconv.Itoa(id)
	}
	return strings.Join(strs, "|")
}
