// Package wiki fetches structured metadata about one Mediawiki page from
// multiple independent data sources and merges their differently shaped
// JSON payloads into a single normalized record.
//
// # Sources
//
// Each source variant fetches one API family and folds its responses into
// the shared record:
//
//   - [Page]: the generic /w/api.php query API (query, parse, imageinfo)
//   - [RESTBase]: the resource-oriented /api/rest_v1/page/ API
//   - [Wikidata]: wbgetentities against www.wikidata.org
//   - [Category]: list=categorymembers
//
// # Fetch Lifecycle
//
// Every source shares one lifecycle: a per-action cache check (at most one
// fetch per action per instance), a skip-list check, query construction via
// [query.Builder], a single HTTP GET via [transport.Client], response
// caching, validation, and normalization into the shared record. The
// imageinfo action is the single documented exception to the at-most-once
// rule; it may re-fetch to fill in image records collected later.
//
// # Usage
//
//	p := wiki.NewPage(wiki.Options{Title: "Douglas Adams"})
//	if err := p.GetQuery(ctx, wiki.FetchOptions{}); err != nil {
//	    return err
//	}
//	record := p.Data()
//
// Merging is additive: the image list and the modified-dates map grow
// across fetches, scalar fields follow last-write-wins, and unknown
// response fields are discarded. Diagnostic notices and the record dump go
// to a side channel (stderr by default), never to the primary result.
//
// Instances are not safe for concurrent use without external
// synchronization. No retries are performed at this layer; transport
// failures propagate to the caller.
package wiki
