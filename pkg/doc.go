// Package pkg provides the core libraries for wikifetch.
//
// # Overview
//
// Wikifetch gathers page metadata from the Wikimedia APIs and folds every
// response into one normalized record per page. The pkg directory is
// organized into four main areas:
//
//  1. [wiki] - Domain logic (sources, fetch lifecycle, the shared record)
//  2. [query] - Wikimedia API query construction
//  3. [transport] - HTTP transport with request tagging
//  4. [observability] - Fetch and cache lifecycle hooks
//
// # Architecture
//
// The typical data flow through wikifetch:
//
//	Title / PageID / Entity ID
//	         ↓
//	    [query] package (build the API query)
//	         ↓
//	    [transport] package (fetch, any status is data)
//	         ↓
//	    [wiki] package (validate, normalize, merge into the record)
//	         ↓
//	    JSON record / terminal dump
//
// # Quick Start
//
// Fetch a page and print its normalized record:
//
//	import (
//	    "context"
//	    "github.com/wikifetch/wikifetch/pkg/wiki"
//	)
//
//	p := wiki.NewPage(wiki.Options{Title: "Douglas Adams"})
//	if err := p.GetQuery(context.Background(), wiki.FetchOptions{}); err != nil {
//	    log.Fatal(err)
//	}
//	p.Show(false)
//	fmt.Println(p.Data()["description"])
//
// # Main Packages
//
// [wiki] - Sources (Page, RESTBase, Wikidata, Category) sharing one record
// per entity. Each action is fetched at most once per instance, validated,
// and folded into the record additively.
//
// [query] - Query builders for the MediaWiki Action API, the RESTBase REST
// API, and the Wikidata API. Parameters are sorted for stable cache keys.
//
// [transport] - A thin HTTP client that tags requests with a User-Agent and
// a request id, and treats every decoded response as data. Only network
// failures are transport errors.
//
// [observability] - Hook interfaces invoked on fetch start/completion and on
// cache hits and skips, with no-op defaults and a global registry.
//
// [buildinfo] - Build-time version information injected via ldflags.
package pkg
