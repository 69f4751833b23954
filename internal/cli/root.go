package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/wikifetch/wikifetch/pkg/wiki"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version.
// This is typically called by the main package during initialization with
// values injected via ldflags at build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// rootOpts holds the persistent flags shared by every fetch command,
// merged with the config file in the root PersistentPreRunE.
type rootOpts struct {
	lang      string
	wiki      string
	variant   string
	proxy     string
	timeout   time.Duration
	skip      []string
	silent    bool
	verbose   bool
	userAgent string
}

// sourceOptions builds the source construction options from the persistent
// flags plus the command-specific title and page id.
func (o *rootOpts) sourceOptions(title string, pageID int) wiki.Options {
	return wiki.Options{
		Lang:    o.lang,
		Wiki:    o.wiki,
		Variant: o.variant,
		Title:   title,
		PageID:  pageID,
		Silent:  o.silent,
		Verbose: o.verbose,
		Skip:    o.skip,
	}
}

// fetchOptions builds the per-fetch options from the persistent flags.
func (o *rootOpts) fetchOptions() wiki.FetchOptions {
	return wiki.FetchOptions{
		Proxy:     o.proxy,
		Timeout:   o.timeout,
		UserAgent: o.userAgent,
	}
}

// emit finishes a fetch command: the dump and, when verbose, the per-action
// summary table go to stderr; the normalized record goes to stdout as JSON.
func (o *rootOpts) emit(cmd *cobra.Command, c *wiki.Core) error {
	c.Show(false)
	if o.verbose {
		if rows := actionRows(c); len(rows) > 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), actionTable(rows))
		}
	}

	out, err := json.MarshalIndent(c.Data(), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

// newRootCmd builds the wikifetch command tree.
//
// Persistent flags select the wiki (--lang, --wiki, --variant), control the
// transport (--proxy, --timeout), and control diagnostics (--silent,
// --verbose, --skip). Config file values fill in any flag not given
// explicitly.
func newRootCmd() *cobra.Command {
	opts := &rootOpts{}

	root := &cobra.Command{
		Use:          "wikifetch",
		Short:        "Wikifetch gathers page metadata from Wikimedia APIs",
		Long:         `Wikifetch fetches and normalizes page metadata from the MediaWiki Action API, the RESTBase REST API, and Wikidata into one shared record per page.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath())
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if !flags.Changed("lang") && cfg.Lang != "" {
				opts.lang = cfg.Lang
			}
			if !flags.Changed("wiki") && cfg.Wiki != "" {
				opts.wiki = cfg.Wiki
			}
			if !flags.Changed("variant") && cfg.Variant != "" {
				opts.variant = cfg.Variant
			}
			if !flags.Changed("proxy") && cfg.Proxy != "" {
				opts.proxy = cfg.Proxy
			}
			if !flags.Changed("timeout") && cfg.Timeout != "" {
				d, err := cfg.timeoutDuration()
				if err != nil {
					return err
				}
				opts.timeout = d
			}
			if !flags.Changed("skip") && len(cfg.Skip) > 0 {
				opts.skip = cfg.Skip
			}
			if !flags.Changed("silent") && cfg.Silent {
				opts.silent = true
			}
			if !flags.Changed("useragent") && cfg.UserAgent != "" {
				opts.userAgent = cfg.UserAgent
			}

			level := charmlog.InfoLevel
			if opts.verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), level))
			cmd.SetContext(ctx)
			return nil
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("wikifetch %s\ncommit: %s\nbuilt: %s\n", version, commit, date))

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.lang, "lang", "l", "", "Mediawiki language code (default \"en\")")
	pf.StringVarP(&opts.wiki, "wiki", "w", "", "wiki host override, e.g. commons.wikimedia.org")
	pf.StringVar(&opts.variant, "variant", "", "language variant, e.g. zh-tw")
	pf.StringVar(&opts.proxy, "proxy", "", "HTTP proxy URL")
	pf.DurationVar(&opts.timeout, "timeout", 0, "request timeout, 0 waits indefinitely")
	pf.StringSliceVar(&opts.skip, "skip", nil, "actions that must never be fetched")
	pf.StringVar(&opts.userAgent, "useragent", "", "User-Agent header override")
	pf.BoolVarP(&opts.silent, "silent", "s", false, "suppress notices and the dump")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newPageCmd(opts))
	root.AddCommand(newRESTBaseCmd(opts))
	root.AddCommand(newWikidataCmd(opts))
	root.AddCommand(newCategoryCmd(opts))

	return root
}

// Execute runs the wikifetch CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
func Execute(ctx context.Context) error {
	root := newRootCmd()
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	return root.ExecuteContext(ctx)
}
