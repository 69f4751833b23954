package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wikifetch/wikifetch/pkg/wiki"
)

// pageOpts holds the command-line flags for the page command.
// The boolean flags chain further fetches onto the same shared record.
type pageOpts struct {
	pageID   int    // numeric page id instead of a title
	parse    bool   // also fetch wikitext via action=parse
	wikidata bool   // also fetch the linked Wikidata entity
	rest     string // also fetch a RESTBase endpoint, e.g. /page/summary
	images   bool   // resolve image URLs via action=imageinfo
}

// newPageCmd creates the page command.
//
// The command fetches the query action first and then chains any requested
// follow-up fetches onto the same record, so image records, modified dates,
// and Wikidata claims all land in one place.
func newPageCmd(root *rootOpts) *cobra.Command {
	var opts pageOpts

	cmd := &cobra.Command{
		Use:   "page [title]",
		Short: "Fetch page data from the MediaWiki Action API",
		Long: `Fetch page data from the MediaWiki Action API.

The page is identified by title or by --pageid. Additional flags chain
further fetches onto the same record.

Examples:
  wikifetch page "Douglas Adams"
  wikifetch page --pageid 8091
  wikifetch page "Douglas Adams" --parse --wikidata --images
  wikifetch page "Douglas Adams" --rest /page/summary`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := ""
			if len(args) > 0 {
				title = args[0]
			}
			if title == "" && opts.pageID == 0 {
				return errors.New("need a title or --pageid")
			}

			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			prog := newProgress(logger)

			p := wiki.NewPage(root.sourceOptions(title, opts.pageID))
			fetch := root.fetchOptions()

			if err := p.GetQuery(ctx, fetch); err != nil {
				return err
			}
			if opts.parse {
				if err := p.GetParse(ctx, fetch); err != nil {
					return err
				}
			}
			if opts.wikidata {
				if err := p.GetWikidata(ctx, fetch); err != nil {
					return err
				}
			}
			if opts.rest != "" {
				if err := p.GetRESTBase(ctx, opts.rest, fetch); err != nil {
					return err
				}
			}
			if opts.images {
				if err := p.GetImageInfo(ctx, fetch); err != nil {
					return err
				}
			}

			prog.done(fmt.Sprintf("Fetched %d actions", len(p.Actions())))
			return root.emit(cmd, p.Core)
		},
	}

	cmd.Flags().IntVar(&opts.pageID, "pageid", 0, "numeric page id instead of a title")
	cmd.Flags().BoolVar(&opts.parse, "parse", false, "also fetch wikitext via action=parse")
	cmd.Flags().BoolVar(&opts.wikidata, "wikidata", false, "also fetch the linked Wikidata entity")
	cmd.Flags().StringVar(&opts.rest, "rest", "", "also fetch a RESTBase endpoint, e.g. /page/summary")
	cmd.Flags().BoolVar(&opts.images, "images", false, "resolve image URLs via action=imageinfo")

	return cmd
}
