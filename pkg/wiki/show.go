package wiki

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wikifetch/wikifetch/pkg/query"
)

// Show renders the shared record to the diagnostic channel: fields sorted
// by name, nil fields omitted, maps and lists summarized with their sizes,
// long text annotated with its length, and every line truncated at the
// display width. Suppressed when silent unless force is set.
func (c *Core) Show(force bool) {
	if c.flags.Silent && !force {
		return
	}
	if len(c.data) == 0 {
		return
	}

	seed := asString(c.data["title"])
	if seed == "" {
		seed = c.params.Title
	}
	if seed == "" && c.params.PageID != 0 {
		seed = fmt.Sprintf("%d", c.params.PageID)
	}
	seed = strings.ReplaceAll(seed, "_", " ")

	lines := []string{fmt.Sprintf("%s (%s)", seed, c.params.Lang), "{"}

	keys := make([]string, 0, len(c.data))
	for k := range c.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := c.data[key]
		if value == nil {
			continue
		}
		prefix, rendered := renderField(key, value)
		lines = append(lines, "  "+prefix+" "+rendered)
	}
	lines = append(lines, "}")

	c.prettyPrint(lines)
}

// renderField formats one field as a prefix plus rendered value.
func renderField(key string, value any) (prefix, rendered string) {
	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return fmt.Sprintf("%s: <dict(%d)>", key, len(v)), strings.Join(keys, ", ")
	case []map[string]any:
		items := make([]string, 0, len(v))
		for _, item := range v {
			items = append(items, fmt.Sprint(item))
		}
		return fmt.Sprintf("%s: <list(%d)>", key, len(v)), strings.Join(items, ", ")
	case []any:
		items := make([]string, 0, len(v))
		for _, item := range v {
			if item == nil {
				continue
			}
			items = append(items, fmt.Sprint(item))
		}
		return fmt.Sprintf("%s: <list(%d)>", key, len(v)), strings.Join(items, ", ")
	case []string:
		return fmt.Sprintf("%s: <list(%d)>", key, len(v)), strings.Join(v, ", ")
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(v), "\n", "")
		if len(s) > query.MaxWidth-len(key) {
			return fmt.Sprintf("%s: <str(%d)>", key, len(s)), s
		}
		return key + ":", s
	default:
		return key + ":", fmt.Sprint(v)
	}
}

// prettyPrint writes lines to the diagnostic channel, truncating any line
// at or beyond the display width with a trailing ellipsis.
func (c *Core) prettyPrint(lines []string) {
	extent := query.MaxWidth - (query.RPad + 2)
	for _, line := range lines {
		runes := []rune(line)
		if len(runes) >= query.MaxWidth {
			line = string(runes[:extent]) + "..."
		}
		fmt.Fprintln(c.diag, line)
	}
}
