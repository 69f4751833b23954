package wiki

import (
	"context"
	"fmt"
	"strings"

	"github.com/wikifetch/wikifetch/pkg/query"
)

const actionCategory = "category"

// Category fetches category membership via list=categorymembers.
//
// Data captured: members, a growing list of {pageid, title} records.
type Category struct {
	*Core
}

// NewCategory creates a Category source for one category title or pageid.
// A title without the Category: namespace prefix gets one.
func NewCategory(opts Options) *Category {
	if opts.Title != "" && !strings.HasPrefix(opts.Title, "Category:") {
		opts.Title = "Category:" + opts.Title
	}
	return &Category{Core: newCore(opts)}
}

// Get fetches the category members.
func (c *Category) Get(ctx context.Context, opts FetchOptions) error {
	return c.fetch(ctx, c, actionCategory, opts)
}

func (c *Category) buildQuery(action string, b *query.Builder) (string, error) {
	if c.params.Title == "" && c.params.PageID == 0 {
		return "", fmt.Errorf("%w: category needs a title or pageid", ErrMissingTitle)
	}
	return b.Category(c.params.Title, c.params.PageID), nil
}

func (c *Category) normalize(action string) error {
	res, err := c.load(actionCategory)
	if err != nil {
		return err
	}
	q, ok := res["query"].(map[string]any)
	if !ok {
		qstr, _ := c.Query(actionCategory)
		return fmt.Errorf("%w: %s", ErrAPIError, qstr)
	}
	raw, _ := q["categorymembers"].([]any)

	members, _ := c.data["members"].([]map[string]any)
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		member := map[string]any{"title": m["title"]}
		if id, ok := asInt(m["pageid"]); ok {
			member["pageid"] = id
		}
		members = append(members, member)
	}
	if len(members) > 0 {
		c.data["members"] = members
	}

	if c.params.Title != "" {
		c.data["title"] = strings.ReplaceAll(c.params.Title, " ", "_")
	}
	return nil
}
