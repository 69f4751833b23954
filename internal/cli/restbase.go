package cli

import (
	"github.com/spf13/cobra"

	"github.com/wikifetch/wikifetch/pkg/wiki"
)

// newRESTBaseCmd creates the restbase command.
//
// Without an endpoint the command fetches the /page/ root, which lists the
// available entry points. Endpoints other than the root need a title, either
// embedded in the path or given with --title.
func newRESTBaseCmd(root *rootOpts) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "restbase [endpoint]",
		Short: "Fetch a RESTBase resource for a page",
		Long: `Fetch a RESTBase resource for a page.

Examples:
  wikifetch restbase                                  # list entry points
  wikifetch restbase /page/summary --title "Douglas Adams"
  wikifetch restbase /page/summary/Douglas_Adams
  wikifetch restbase /page/html/Douglas_Adams`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			endpoint := ""
			if len(args) > 0 {
				endpoint = args[0]
			}

			r, err := wiki.NewRESTBase(root.sourceOptions(title, 0))
			if err != nil {
				return err
			}
			if err := r.Get(cmd.Context(), endpoint, root.fetchOptions()); err != nil {
				return err
			}
			return root.emit(cmd, r.Core)
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "page title for two-segment endpoints")

	return cmd
}
