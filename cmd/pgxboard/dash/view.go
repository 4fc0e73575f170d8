// Package dash view rendering. Everything here is a pure projection of the
// model state; no rendering result is stored back on the model.
package dash

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"pgxboard/cmd/pgxboard/ui"
	"pgxboard/internal/analyze"
	"pgxboard/internal/report"
	"pgxboard/internal/vcf"
)

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	if m.picking {
		title := m.styles.Header.Render(" Select a VCF file ")
		hint := m.styles.Muted.Render("enter: select   esc: cancel")
		return lipgloss.JoinVertical(lipgloss.Left, title, m.styles.Content.Render(m.filepicker.View()), hint)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		m.renderForm(),
		m.styles.Content.Render(m.viewport.View()),
		m.renderFooter(),
	)
}

func (m Model) renderHeader() string {
	title := m.styles.Header.Render(" pgxboard ")
	badge := m.styles.Badge.Render("PGx risk dashboard")

	var status string
	if m.isLoading {
		spin := m.spinner.View()
		status = lipgloss.JoinHorizontal(lipgloss.Center, spin, " ", m.styles.Badge.Render(loadingSteps[m.loadingStep]))
	} else {
		status = m.styles.Success.Render("Ready")
	}

	headerLine := lipgloss.JoinHorizontal(lipgloss.Center, title, " ", badge, "  ", status)
	return lipgloss.JoinVertical(lipgloss.Left, headerLine, m.styles.RenderDivider(m.width))
}

// renderForm shows the upload zone, the drug selector and any inline
// error or notice.
func (m Model) renderForm() string {
	parts := []string{m.renderUploadZone()}

	label := "Drug"
	if m.batchMode {
		label = "Drugs (comma-separated)"
	}
	route := m.styles.Muted.Render(" route: " + m.currentRoute())
	parts = append(parts, m.styles.Bold.Render(label+": ")+m.drugInput.View()+route)

	if m.errMsg != "" {
		parts = append(parts, m.styles.Error.Render(m.errMsg))
	}
	if m.notice != "" {
		parts = append(parts, m.styles.Info.Render(m.notice))
	}

	return lipgloss.NewStyle().Padding(0, 2).Render(strings.Join(parts, "\n"))
}

func (m Model) renderUploadZone() string {
	if m.filePath == "" {
		return m.styles.Muted.Render("No file selected — press alt+o to choose a .vcf file (max 5 MB).")
	}
	if m.fileErr != "" {
		return m.styles.Error.Render(m.fileErr) + m.styles.Muted.Render("  ("+m.filePath+")")
	}

	usage := float64(m.fileSize) / float64(vcf.MaxFileSize) * 100
	line := fmt.Sprintf("%s  %s (%.1f%% of limit)",
		m.styles.Success.Render("✓"),
		m.styles.Body.Render(filepath.Base(m.filePath)),
		usage)
	return line + "  " + m.styles.Muted.Render(humanBytes(m.fileSize))
}

// currentRoute derives the endpoint the current input would use. Parsing
// failures show as single; submission reports them properly.
func (m Model) currentRoute() string {
	drugs, err := analyze.ParseDrugs(m.drugInput.Value())
	if err != nil {
		return effectiveRoute(1)
	}
	return effectiveRoute(len(drugs))
}

// renderContent fills the scrollable area: raw JSON when toggled, the
// report when present, otherwise a hint.
func (m Model) renderContent() string {
	if m.result.Empty() {
		return m.styles.Muted.Render("Upload a VCF file, enter one or more drugs, and press enter to analyze.")
	}

	if m.showRaw {
		raw, err := m.result.RawJSON()
		if err != nil {
			return m.styles.Error.Render(analyze.Normalize(err.Error()))
		}
		return raw
	}

	var sections []string
	sections = append(sections, m.renderSummary())
	sections = append(sections, m.renderCards())
	if m.result.Single != nil {
		if s := m.renderProfilePanel(m.result.Single); s != "" {
			sections = append(sections, s)
		}
		if s := m.renderExplanation("Clinical Explanation", m.result.Single.Explanation); s != "" {
			sections = append(sections, s)
		}
	}
	if m.result.Batch != nil {
		if s := m.renderWarnings(m.result.Batch); s != "" {
			sections = append(sections, s)
		}
		if s := m.renderBatchExplanations(m.result.Batch); s != "" {
			sections = append(sections, s)
		}
	}
	if s := m.renderCaveats(); s != "" {
		sections = append(sections, s)
	}

	return strings.Join(sections, "\n\n")
}

func (m Model) renderSummary() string {
	cards := report.Cards(m.result)
	tc := report.CountTones(cards)

	parts := []string{
		m.styles.ToneStyle(report.ToneSafe).Render(fmt.Sprintf("● %d safe", tc.Safe)),
		m.styles.ToneStyle(report.ToneAdjust).Render(fmt.Sprintf("● %d adjust", tc.Adjust)),
		m.styles.ToneStyle(report.ToneToxic).Render(fmt.Sprintf("● %d toxic", tc.Toxic)),
	}
	if tc.Unknown > 0 {
		parts = append(parts, m.styles.ToneStyle(report.ToneUnknown).Render(fmt.Sprintf("● %d unknown", tc.Unknown)))
	}

	patient := m.styles.Muted.Render("Patient: " + report.OrUnknown(m.result.PatientID()))
	genes := ""
	if g := report.DetectedGenes(m.result); len(g) > 0 {
		genes = m.styles.Muted.Render("  Genes: " + strings.Join(g, ", "))
	}

	return strings.Join(parts, "  ") + "\n" + patient + genes
}

func (m Model) renderCards() string {
	cards := report.Cards(m.result)
	rendered := make([]string, 0, len(cards))
	width := m.viewport.Width - 2

	for _, c := range cards {
		title := c.Drug + " — " + report.OrUnknown(c.RiskLabel)
		if c.HasConfidence {
			title += fmt.Sprintf(" (%d%%)", c.ConfidencePct)
		}
		card := ui.NewCard(title, c.Tone)
		card.AddField(m.styles, "Severity", c.Severity)
		card.AddField(m.styles, "Gene", c.Gene)
		card.AddField(m.styles, "Phenotype", c.Phenotype)
		card.AddField(m.styles, "Diplotype", c.Diplotype)
		card.AddField(m.styles, "Recommendation", c.Recommendation)
		rendered = append(rendered, card.View(m.styles, width))
	}

	return strings.Join(rendered, "\n")
}

func (m Model) renderProfilePanel(s *report.SingleResult) string {
	if s.Profile == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("Pharmacogenomic Profile"))
	sb.WriteString("\n")

	if rec := s.Recommendation; rec != nil && rec.GuidelineSource != "" {
		sb.WriteString(m.styles.Muted.Render("Guideline: ") + m.styles.Body.Render(rec.GuidelineSource))
		sb.WriteString("\n")
	}
	if qm := s.QualityMetrics; qm != nil {
		if qm.TotalVariants != nil && qm.PGxVariants != nil {
			sb.WriteString(m.styles.Muted.Render(
				fmt.Sprintf("Variants: %d total, %d pharmacogenomic", *qm.TotalVariants, *qm.PGxVariants)))
			sb.WriteString("\n")
		}
	}

	table := ui.NewVariantTable("Detected Variants")
	for _, v := range s.Profile.DetectedVariants {
		table.AddVariant(v)
	}
	if tv := table.View(m.styles); tv != "" {
		sb.WriteString(tv)
	}

	return sb.String()
}

func (m Model) renderWarnings(b *report.BatchResult) string {
	if len(b.Warnings) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("Polypharmacy Warnings"))
	for _, w := range b.Warnings {
		sb.WriteString("\n" + m.styles.Warning.Render("▲ "+report.OrUnknown(w.Warning)))
		if w.ClinicalNote != "" {
			sb.WriteString("\n  " + m.styles.Muted.Render(w.ClinicalNote))
		}
	}
	return sb.String()
}

func (m Model) renderBatchExplanations(b *report.BatchResult) string {
	cards := report.Cards(m.result)
	var sb strings.Builder
	wrote := false
	for _, c := range cards {
		e, ok := b.Explanations[c.Drug]
		if !ok || e.Summary == "" {
			continue
		}
		if !wrote {
			sb.WriteString(m.styles.Title.Render("Explanations"))
			wrote = true
		}
		sb.WriteString("\n" + m.styles.Bold.Render(c.Drug) + "\n")
		sb.WriteString(m.safeRenderMarkdown(e.Summary))
	}
	if !wrote {
		return ""
	}
	return sb.String()
}

func (m Model) renderExplanation(title string, e *report.Explanation) string {
	if e == nil {
		return ""
	}
	md := explanationMarkdown(*e)
	if md == "" {
		return ""
	}
	return m.styles.Title.Render(title) + "\n" + m.safeRenderMarkdown(md)
}

func (m Model) renderCaveats() string {
	if len(m.caveats) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(m.styles.Warning.Render("Annotation Gaps"))
	for _, c := range m.caveats {
		sb.WriteString("\n" + m.styles.Warning.Render("▲ ") + m.styles.Body.Render(c))
	}
	return sb.String()
}

func (m Model) renderFooter() string {
	hotkeys := "enter: analyze | alt+o: file | alt+m: mode | alt+j: raw json | alt+c: copy | alt+s: save | esc: quit"
	mode := "single"
	if m.batchMode {
		mode = "batch input"
	}
	timestamp := time.Now().Format("15:04")
	return m.styles.Footer.Render(fmt.Sprintf("[%s] %s | %s", mode, timestamp, hotkeys))
}

// safeRenderMarkdown renders markdown with panic recovery; glamour output
// degrades to plain text on any failure.
func (m Model) safeRenderMarkdown(content string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			result = content
		}
	}()

	if m.renderer != nil && content != "" {
		if rendered, err := m.renderer.Render(content); err == nil {
			return rendered
		}
	}
	return content
}

// explanationMarkdown flattens an LLM explanation into markdown sections.
func explanationMarkdown(e report.Explanation) string {
	var sb strings.Builder
	if e.Summary != "" {
		sb.WriteString("**Summary.** " + e.Summary + "\n\n")
	}
	if e.Mechanism != "" {
		sb.WriteString("**Mechanism.** " + e.Mechanism + "\n\n")
	}
	if e.Recommendation != "" {
		sb.WriteString("**Recommendation.** " + e.Recommendation + "\n\n")
	}
	if len(e.Citations) > 0 {
		sb.WriteString("Citations:\n")
		for _, c := range e.Citations {
			sb.WriteString("- " + c + "\n")
		}
	}
	return strings.TrimSpace(sb.String())
}

func humanBytes(n int64) string {
	switch {
	case n >= 1024*1024:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	case n >= 1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	}
	return fmt.Sprintf("%d B", n)
}
