package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/wikifetch/wikifetch/pkg/wiki"
)

// newWikidataCmd creates the wikidata command.
//
// The argument is an entity id when it looks like one (Q42) and a sitelink
// title otherwise; --id forces the entity id interpretation.
func newWikidataCmd(root *rootOpts) *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "wikidata [id-or-title]",
		Short: "Fetch a Wikidata entity by id or sitelink title",
		Long: `Fetch a Wikidata entity by id or sitelink title.

Examples:
  wikifetch wikidata Q42
  wikifetch wikidata "Douglas Adams"
  wikifetch wikidata --id Q42`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := ""
			if len(args) > 0 {
				arg = args[0]
			}
			if arg == "" && id == "" {
				return errors.New("need an entity id or a title")
			}

			title := ""
			wikibase := id
			if wikibase == "" {
				if isEntityID(arg) {
					wikibase = arg
				} else {
					title = arg
				}
			}

			opts := root.sourceOptions(title, 0)
			opts.Wikibase = wikibase

			w := wiki.NewWikidata(opts)
			if err := w.Get(cmd.Context(), root.fetchOptions()); err != nil {
				return err
			}
			return root.emit(cmd, w.Core)
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Wikidata entity id, e.g. Q42")

	return cmd
}

// isEntityID reports whether s looks like a Wikidata item id: a "Q"
// followed by digits.
func isEntityID(s string) bool {
	if len(s) < 2 || s[0] != 'Q' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
