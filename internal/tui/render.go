package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bobmcallan/andolan/internal/models"
	"github.com/bobmcallan/andolan/internal/timeline"
)

// RenderView renders a computed timeline view as a static report: the
// active filters, the key milestones and every year group with its entries.
func RenderView(view models.TimelineView, keyMilestones []models.TimelineRecord, width int) string {
	if width <= 0 {
		width = 80
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Andolan Timeline"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(renderFilters(view.Filters)))
	b.WriteString("\n\n")

	if len(keyMilestones) > 0 {
		b.WriteString(titleStyle.Render("Key milestones"))
		b.WriteString("\n")
		for _, rec := range keyMilestones {
			b.WriteString(fmt.Sprintf("  %s %s  %s\n", keyStyle.Render(keyMilestoneMark), mutedStyle.Render(recordYear(rec)), textStyle.Render(rec.Title)))
		}
		b.WriteString("\n")
	}

	switch view.State {
	case timeline.StateEmpty.String():
		b.WriteString(mutedStyle.Render("No milestones have been published yet."))
		b.WriteString("\n")
		return b.String()
	case timeline.StateEmptyFiltered.String():
		b.WriteString(mutedStyle.Render("No milestones match the selected filters."))
		b.WriteString("\n")
		return b.String()
	}

	for _, group := range view.Groups {
		header := fmt.Sprintf("%d", group.Year)
		if group.HasKeyMilestone {
			header += " " + keyMilestoneMark
		}
		b.WriteString(titleStyle.Render(header))
		b.WriteString("\n")
		for _, e := range group.Entries {
			b.WriteString(renderEntryLine(e, width))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func renderFilters(f models.FilterTriple) string {
	decade := "all decades"
	if f.Decade != "" {
		decade = f.Decade
	}
	category := f.Category
	if category == "" {
		category = models.FilterAll
	}
	achievement := f.Achievement
	if achievement == "" {
		achievement = models.FilterAll
	}
	return fmt.Sprintf("category: %s  achievement: %s  decade: %s", timeline.CategoryLabel(category), achievement, decade)
}

func renderEntryLine(e models.TimelineEntry, width int) string {
	mark := " "
	if e.IsKeyMilestone {
		mark = keyStyle.Render(keyMilestoneMark)
	}
	tag := ""
	if e.Category != "" {
		tag = "[" + timeline.CategoryLabel(e.Category) + "]"
	}
	budget := width - 6 - len([]rune(e.DisplayDate)) - len([]rune(tag))
	line := fmt.Sprintf("  %s %s  %s", mark, mutedStyle.Render(e.DisplayDate), textStyle.Render(truncate(e.Title, budget)))
	if tag != "" {
		line += "  " + mutedStyle.Render(tag)
	}
	return line
}

// renderCard renders the full detail of the selected entry.
func renderCard(e models.TimelineEntry, position, count, width int) string {
	var lines []string

	title := e.Title
	if e.IsKeyMilestone {
		title = keyMilestoneMark + " " + title
	}
	lines = append(lines, titleStyle.Render(title))
	meta := e.DisplayDate
	if e.Category != "" {
		meta += "  " + timeline.CategoryLabel(e.Category)
	}
	if e.Achievement != "" {
		meta += "  " + e.Achievement
	}
	lines = append(lines, mutedStyle.Render(meta), "")

	inner := width - 4
	if inner < 20 {
		inner = 20
	}
	lines = append(lines, textStyle.Width(inner).Render(e.Description))
	if e.Impact != "" {
		lines = append(lines, "", mutedStyle.Render("Impact: ")+textStyle.Width(inner-8).Render(e.Impact))
	}
	if t := e.Testimonial; t != nil && t.Quote != "" {
		by := t.Author
		if t.Designation != "" {
			by += ", " + t.Designation
		}
		lines = append(lines, "", quoteStyle.Width(inner).Render("\""+t.Quote+"\""), mutedStyle.Render("  "+by))
	}
	if len(e.Images) > 0 {
		lines = append(lines, "", mutedStyle.Render(fmt.Sprintf("%d image(s)", len(e.Images))))
	}
	if count > 1 {
		lines = append(lines, "", mutedStyle.Render(fmt.Sprintf("%d of %d this year", position+1, count)))
	}

	return cardStyle.Width(inner).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func renderProgress(percent float64, width int) string {
	barWidth := width - 8
	if barWidth < 10 {
		barWidth = 10
	}
	filled := int(percent / 100 * float64(barWidth))
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}
	bar := keyStyle.Render(strings.Repeat("━", filled)) + mutedStyle.Render(strings.Repeat("─", barWidth-filled))
	return fmt.Sprintf("%s %3.0f%%", bar, percent)
}

func recordYear(rec models.TimelineRecord) string {
	t, err := timeline.ParseDate(rec.Date)
	if err != nil {
		return "????"
	}
	return fmt.Sprintf("%d", t.Year())
}

// truncate shortens unstyled text to width runes.
func truncate(s string, width int) string {
	runes := []rune(s)
	if width <= 0 || len(runes) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(runes[:width-1]) + "…"
}
