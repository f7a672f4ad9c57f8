package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/typermonkey/internal/collection"
	"github.com/verte-zerg/typermonkey/internal/stream"
)

const collectionWordWidth = stream.MaxWordLength

func newCollectionTable(height int) table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Word", Width: collectionWordWidth},
			{Title: "Len", Width: 3},
			{Title: "Rarity", Width: 9},
		}),
		table.WithHeight(height),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#6E6E6E")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#1A1A1A")).
		Background(lipgloss.Color("#C89A3A"))
	t.SetStyles(styles)
	return t
}

func collectionRows(entries []collection.Entry) []table.Row {
	rows := make([]table.Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, table.Row{
			runewidth.Truncate(e.Word, collectionWordWidth, "…"),
			strconv.Itoa(e.Length),
			e.Rarity.String(),
		})
	}
	return rows
}

func collectionSummary(entries []collection.Entry) string {
	counts := collection.Counts(entries)
	parts := make([]string, 0, len(collection.Tiers))
	for _, tier := range collection.Tiers {
		parts = append(parts, fmt.Sprintf("%s %d", tier, counts[tier]))
	}
	return strings.Join(parts, " · ")
}

func (m *Model) refreshCollection() {
	m.entries = collection.Sort(m.engine.Words())
	m.table.SetRows(collectionRows(m.entries))
}

func (m *Model) renderCollection() string {
	title := panelTitleStyle.Render(fmt.Sprintf("Collection (%d)", len(m.entries)))
	summary := statusStyle.Render(collectionSummary(m.entries))
	return lipgloss.JoinVertical(lipgloss.Left, title, m.table.View(), summary)
}
