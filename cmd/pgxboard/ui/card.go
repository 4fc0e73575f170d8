package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"pgxboard/internal/report"
)

// Card is a bordered panel whose border color follows a risk tone.
type Card struct {
	Title string
	Tone  report.Tone
	lines []string
}

// NewCard creates a card with the given title and tone.
func NewCard(title string, tone report.Tone) *Card {
	return &Card{Title: title, Tone: tone}
}

// AddLine appends a pre-rendered line to the card body.
func (c *Card) AddLine(line string) {
	c.lines = append(c.lines, line)
}

// AddField appends a "Label  Value" line, substituting the Unknown
// placeholder for blank values.
func (c *Card) AddField(styles Styles, label, value string) {
	c.AddLine(styles.Muted.Render(label+": ") + styles.Body.Render(report.OrUnknown(value)))
}

// View renders the card at the given width.
func (c *Card) View(styles Styles, width int) string {
	title := styles.ToneStyle(c.Tone).Render(c.Title)
	body := strings.Join(c.lines, "\n")

	content := title
	if body != "" {
		content = lipgloss.JoinVertical(lipgloss.Left, title, body)
	}

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ToneColor(c.Tone)).
		Padding(0, 1)
	if width > 4 {
		style = style.Width(width)
	}
	return style.Render(content)
}

// VariantTable renders detected variants as a simple aligned table.
type VariantTable struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// NewVariantTable creates a table with the standard variant columns.
func NewVariantTable(title string) *VariantTable {
	return &VariantTable{
		Title:   title,
		Headers: []string{"rsID", "Gene", "Allele", "Function", "Genotype"},
	}
}

// AddVariant adds one detected variant row, with placeholders for blanks.
func (t *VariantTable) AddVariant(v report.Variant) {
	t.Rows = append(t.Rows, []string{
		report.OrUnknown(v.RSID),
		report.OrUnknown(v.Gene),
		report.OrUnknown(v.Allele),
		report.OrUnknown(v.Function),
		report.OrUnknown(v.Genotype),
	})
}

// View renders the table using the provided styles.
func (t *VariantTable) View(styles Styles) string {
	if len(t.Rows) == 0 {
		return ""
	}

	var sb strings.Builder

	if t.Title != "" {
		sb.WriteString(styles.Title.Render(t.Title))
		sb.WriteString("\n")
	}

	colWidths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		colWidths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(colWidths) {
				if w := lipgloss.Width(cell); w > colWidths[i] {
					colWidths[i] = w
				}
			}
		}
	}
	for i := range colWidths {
		colWidths[i] += 2
	}

	headerStyle := styles.Bold.Padding(0, 1)
	rowStyle := styles.Body.Padding(0, 1)
	sepStyle := styles.Muted

	for i, h := range t.Headers {
		sb.WriteString(headerStyle.Width(colWidths[i]).Render(h))
		if i < len(t.Headers)-1 {
			sb.WriteString(sepStyle.Render("|"))
		}
	}
	sb.WriteString("\n")

	totalWidth := len(t.Headers) - 1
	for _, w := range colWidths {
		totalWidth += w
	}
	sb.WriteString(sepStyle.Render(strings.Repeat("-", totalWidth)) + "\n")

	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(colWidths) {
				sb.WriteString(rowStyle.Width(colWidths[i]).Render(cell))
				if i < len(row)-1 {
					sb.WriteString(sepStyle.Render("|"))
				}
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
