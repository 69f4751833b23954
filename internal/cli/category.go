package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wikifetch/wikifetch/pkg/wiki"
)

// newCategoryCmd creates the category command.
func newCategoryCmd(root *rootOpts) *cobra.Command {
	var pageID int

	cmd := &cobra.Command{
		Use:   "category [title]",
		Short: "List the members of a category",
		Long: `List the members of a category.

The "Category:" prefix is added when missing.

Examples:
  wikifetch category "English humorists"
  wikifetch category "Category:English humorists"
  wikifetch category --pageid 871525`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := ""
			if len(args) > 0 {
				title = args[0]
			}
			if title == "" && pageID == 0 {
				return errors.New("need a title or --pageid")
			}

			ctx := cmd.Context()
			prog := newProgress(loggerFromContext(ctx))

			c := wiki.NewCategory(root.sourceOptions(title, pageID))
			if err := c.Get(ctx, root.fetchOptions()); err != nil {
				return err
			}

			members, _ := c.Data()["members"].([]map[string]any)
			prog.done(fmt.Sprintf("Listed %d members", len(members)))
			return root.emit(cmd, c.Core)
		},
	}

	cmd.Flags().IntVar(&pageID, "pageid", 0, "numeric category page id instead of a title")

	return cmd
}
