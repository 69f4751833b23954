package cli

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/wikifetch/wikifetch/pkg/wiki"
)

var (
	colorCyan  = lipgloss.Color("36")  // Teal - primary values
	colorGray  = lipgloss.Color("245") // Gray - secondary text
	colorDim   = lipgloss.Color("240") // Dim gray - muted text
	colorRed   = lipgloss.Color("167") // Soft red - error statuses
	colorGreen = lipgloss.Color("35")  // Green - success statuses
)

var (
	styleHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleAction = lipgloss.NewStyle().Foreground(colorCyan)
	styleOK     = lipgloss.NewStyle().Foreground(colorGreen)
	styleFail   = lipgloss.NewStyle().Foreground(colorRed)
	styleQuery  = lipgloss.NewStyle().Foreground(colorDim)
)

// maxQueryWidth keeps the summary table narrow; longer query strings are
// truncated with an ellipsis.
const maxQueryWidth = 60

// actionRows collects one row per fetched action: action name, HTTP status,
// content type, and the (truncated) query string.
func actionRows(c *wiki.Core) [][]string {
	var rows [][]string
	for _, action := range c.Actions() {
		status, contentType := "-", "-"
		if info, ok := c.Info(action); ok && info.Status != 0 {
			status = strconv.Itoa(info.Status)
			contentType = info.ContentType
		}
		q, _ := c.Query(action)
		rows = append(rows, []string{action, status, contentType, truncate(q, maxQueryWidth)})
	}
	return rows
}

// actionTable renders the per-action summary as a bordered table.
func actionTable(rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Action", "Status", "Content-Type", "Query").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			switch col {
			case 0:
				return styleAction
			case 1:
				if row < len(rows) && len(rows[row][1]) > 0 && rows[row][1][0] == '2' {
					return styleOK
				}
				return styleFail
			case 3:
				return styleQuery
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}

// truncate shortens s to at most width runes, appending "..." when cut.
func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width]) + "..."
}
