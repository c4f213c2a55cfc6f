// Package tui is the interactive terminal browser for the timeline.
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bobmcallan/andolan/internal/common"
	"github.com/bobmcallan/andolan/internal/models"
	"github.com/bobmcallan/andolan/internal/timeline"
)

// pageChangedMsg is delivered whenever the page state or selection changes.
type pageChangedMsg struct{}

// renderedMsg follows a render; queued scroll callbacks run on it.
type renderedMsg struct{}

// Model is the bubbletea model of the timeline browser. It owns a Page,
// feeds arrow keys through a KeyBus and flushes the controller's scroll
// requests after each render.
type Model struct {
	ctx     context.Context
	page    *timeline.Page
	bus     *timeline.KeyBus
	queue   *timeline.RenderQueue
	changes chan struct{}

	width  int
	height int
	offset int // index of the first visible year in the year strip
	status string
}

// Option configures a Model.
type Option func(*modelOptions)

type modelOptions struct {
	logger *common.Logger
}

// WithLogger sets the logger passed to the page.
func WithLogger(logger *common.Logger) Option {
	return func(o *modelOptions) {
		o.logger = logger
	}
}

// NewModel creates a browser over loader. The page is mounted by Init.
func NewModel(ctx context.Context, loader *timeline.Loader, opts ...Option) *Model {
	o := modelOptions{logger: common.NewSilentLogger()}
	for _, opt := range opts {
		opt(&o)
	}

	m := &Model{
		ctx:     ctx,
		bus:     timeline.NewKeyBus(),
		queue:   &timeline.RenderQueue{},
		changes: make(chan struct{}, 1),
		width:   80,
		height:  24,
	}
	m.page = timeline.NewPage(loader,
		timeline.WithKeySource(m.bus),
		timeline.WithPageLogger(o.logger),
		timeline.WithPageChangeHook(m.notify),
		timeline.WithControllerOptions(timeline.WithScroller(m.queue, m.scrollTo)),
	)
	return m
}

// Run starts the browser full screen and blocks until it quits.
func Run(ctx context.Context, loader *timeline.Loader, opts ...Option) error {
	m := NewModel(ctx, loader, opts...)
	defer m.Close()

	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

// Close unmounts the page.
func (m *Model) Close() {
	m.page.Unmount()
}

// Page returns the underlying page.
func (m *Model) Page() *timeline.Page {
	return m.page
}

// notify may run on the fetch goroutine, so it never blocks.
func (m *Model) notify() {
	select {
	case m.changes <- struct{}{}:
	default:
	}
}

func (m *Model) listenCmd() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.changes:
			return pageChangedMsg{}
		case <-m.ctx.Done():
			return nil
		}
	}
}

func renderedCmd() tea.Msg {
	return renderedMsg{}
}

func (m *Model) Init() tea.Cmd {
	m.page.Mount(m.ctx)
	return m.listenCmd()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.height = typed.Height
		return m, nil
	case pageChangedMsg:
		return m, tea.Batch(m.listenCmd(), renderedCmd)
	case renderedMsg:
		m.queue.Flush()
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(typed)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.page.Unmount()
		return tea.Quit
	case "r":
		m.status = ""
		m.page.Reload(m.ctx)
		return nil
	case "left", "h":
		m.bus.Publish(timeline.KeyArrowLeft)
		return nil
	case "right", "l":
		m.bus.Publish(timeline.KeyArrowRight)
		return nil
	}

	ctrl := m.page.Controller()
	if ctrl == nil {
		return nil
	}
	ix := ctrl.Index()
	filters := ctrl.Filters()

	switch msg.String() {
	case "c":
		values := make([]string, len(ix.Categories))
		for i, c := range ix.Categories {
			values[i] = c.Value
		}
		ctrl.SetCategory(cycle(values, filters.Category))
	case "a":
		ctrl.SetAchievement(cycle(ix.Achievements, filters.Achievement))
	case "d":
		values := []string{""}
		for _, d := range ix.Decades {
			values = append(values, d.Value)
		}
		if err := ctrl.JumpToDecade(cycle(values, filters.Decade)); err != nil {
			m.status = err.Error()
		}
	case "x":
		ctrl.ClearFilters()
	case "enter", " ":
		if year, ok := ctrl.SelectedYear(); ok {
			ctrl.SelectYear(year)
		} else if years := ctrl.Grouping().Years(); len(years) > 0 {
			ctrl.SelectYear(years[0])
		}
	}
	return nil
}

// cycle returns the value after current in values, wrapping around.
func cycle(values []string, current string) string {
	if len(values) == 0 {
		return current
	}
	for i, v := range values {
		if v == current {
			return values[(i+1)%len(values)]
		}
	}
	return values[0]
}

// visibleYears is how many years fit in the year strip.
func (m *Model) visibleYears() int {
	n := m.width / yearCellWidth
	if n < 1 {
		n = 1
	}
	return n
}

// scrollTo brings the requested year into the year strip, either centered
// or by the least movement.
func (m *Model) scrollTo(req timeline.ScrollRequest) {
	ctrl := m.page.Controller()
	if ctrl == nil {
		return
	}
	grouping := ctrl.Grouping()
	idx := grouping.IndexOf(req.Year)
	if idx < 0 {
		return
	}

	vis := m.visibleYears()
	switch req.Align {
	case timeline.AlignCenter:
		m.offset = idx - vis/2
	default:
		if idx < m.offset {
			m.offset = idx
		} else if idx >= m.offset+vis {
			m.offset = idx - vis + 1
		}
	}
	m.offset = clampOffset(m.offset, grouping.Len(), vis)
}

func clampOffset(offset, total, vis int) int {
	if last := total - vis; offset > last {
		offset = last
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}

func (m *Model) View() string {
	header := titleStyle.Render("Andolan Timeline")
	footer := m.renderFooter()

	var body string
	ctrl := m.page.Controller()
	state := m.page.State()
	if ctrl == nil && (state == timeline.StateReady || state == timeline.StateEmptyFiltered) {
		state = timeline.StateLoading
	}
	switch state {
	case timeline.StateLoading:
		body = mutedStyle.Render("Loading timeline...")
	case timeline.StateError:
		body = errorStyle.Render("Could not load the timeline.") + "\n" +
			mutedStyle.Render(errText(m.page.Err())) + "\n\n" +
			textStyle.Render("Press r to try again.")
	case timeline.StateEmpty:
		body = mutedStyle.Render("No milestones have been published yet.")
	case timeline.StateEmptyFiltered:
		header += "\n" + mutedStyle.Render(renderFilters(ctrl.Filters()))
		body = mutedStyle.Render("No milestones match the selected filters. Press x to clear them.")
	default:
		header += "\n" + mutedStyle.Render(renderFilters(ctrl.Filters()))
		body = m.renderReady(ctrl)
	}

	if m.status != "" {
		footer = errorStyle.Render(m.status) + "\n" + footer
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", footer)
}

func (m *Model) renderReady(ctrl *timeline.Controller) string {
	grouping := ctrl.Grouping()
	selected, hasYear := ctrl.SelectedYear()

	years := grouping.Years()
	vis := m.visibleYears()
	offset := clampOffset(m.offset, len(years), vis)
	end := offset + vis
	if end > len(years) {
		end = len(years)
	}

	cells := make([]string, 0, end-offset+2)
	if offset > 0 {
		cells = append(cells, mutedStyle.Render("‹"))
	}
	for _, y := range years[offset:end] {
		label := fmt.Sprintf("%d", y)
		if hasKeyMilestone(grouping.Entries(y)) {
			label = keyMilestoneMark + label
		}
		if hasYear && y == selected {
			cells = append(cells, selectedStyle.Render(label))
		} else {
			cells = append(cells, yearStyle.Render(label))
		}
	}
	if end < len(years) {
		cells = append(cells, mutedStyle.Render("›"))
	}
	strip := lipgloss.JoinHorizontal(lipgloss.Center, cells...)

	parts := []string{strip, renderProgress(ctrl.Progress(), m.width)}
	if entry, ok := ctrl.Current(); ok {
		sel := ctrl.Selection()
		parts = append(parts, "", renderCard(entry, sel.SelectedItemIndex, grouping.Count(entry.Year), m.width))
	} else {
		parts = append(parts, "", mutedStyle.Render("Select a year to see its milestones."))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) renderFooter() string {
	keys := []string{"←/→ navigate", "enter cycle year", "c category", "a achievement", "d decade", "x clear", "r reload", "q quit"}
	for i, k := range keys {
		name, desc, _ := strings.Cut(k, " ")
		keys[i] = keyStyle.Render(name) + " " + mutedStyle.Render(desc)
	}
	return strings.Join(keys, "  ")
}

func hasKeyMilestone(entries []models.TimelineEntry) bool {
	for _, e := range entries {
		if e.IsKeyMilestone {
			return true
		}
	}
	return false
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
