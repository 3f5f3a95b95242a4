package tui

import (
	"fmt"
	"strings"
	"time"

	"golang-stock-dashboard/internal/dashboard/service"
	"golang-stock-dashboard/internal/entity"
	"golang-stock-dashboard/pkg/common"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	seriesRows   = 10
	trendingRows = 15
)

type inputMode int

const (
	inputNone inputMode = iota
	inputSymbol
	inputChat
)

// Messages.
type stateMsg service.State
type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForState blocks until the store publishes the next state.
func waitForState(states <-chan service.State) tea.Cmd {
	return func() tea.Msg {
		st, ok := <-states
		if !ok {
			return nil
		}
		return stateMsg(st)
	}
}

// Model is the bubbletea front-end of a session. It only renders published
// states and forwards user intents to the session components.
type Model struct {
	session *service.Session
	states  <-chan service.State
	presets []entity.Symbol

	state service.State
	ready bool
	now   time.Time

	input textinput.Model
	mode  inputMode

	width  int
	height int
}

func New(session *service.Session, states <-chan service.State) Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 60

	return Model{
		session: session,
		states:  states,
		presets: session.Selector.Presets(),
		input:   ti,
		now:     time.Now(),
		width:   100,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForState(m.states), tickCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateMsg:
		m.state = service.State(msg)
		m.ready = true
		return m, waitForState(m.states)

	case tickMsg:
		m.now = time.Time(msg)
		return m, tickCmd()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.mode != inputNone {
			return m.updateInput(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		value := m.input.Value()
		switch m.mode {
		case inputSymbol:
			_, _ = m.session.Selector.SubmitCustom(value)
		case inputChat:
			_ = m.session.Coordinator.ChatActive(value)
		}
		return m.closeInput(), nil
	case tea.KeyEsc, tea.KeyCtrlC:
		return m.closeInput(), nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "/":
		return m.openInput(inputSymbol, "symbol> ", "e.g. RELIANCE or AAPL.US")
	case "c":
		_ = m.session.View.SelectTab(string(service.TabChat))
		return m.openInput(inputChat, "ask> ", "question about "+m.state.Symbol.String())
	case "tab":
		_ = m.session.View.SelectTab(string(nextTab(m.state.Tab)))
	case "r":
		m.session.Coordinator.AnalyzeActive()
	case "f":
		m.session.Coordinator.RefreshSeries()
	case "R":
		m.session.Coordinator.Trending()
	case "x":
		if len(m.state.Notices) > 0 {
			m.session.DismissNotice(m.state.Notices[0].ID)
		}
	default:
		if idx, ok := presetIndex(key); ok && idx < len(m.presets) {
			_ = m.session.Selector.SelectPreset(m.presets[idx])
		}
	}
	return m, nil
}

func (m Model) openInput(mode inputMode, prompt, placeholder string) (tea.Model, tea.Cmd) {
	m.mode = mode
	m.input.Prompt = prompt
	m.input.Placeholder = placeholder
	m.input.SetValue("")
	return m, tea.Batch(m.input.Focus(), textinput.Blink)
}

func (m Model) closeInput() Model {
	m.mode = inputNone
	m.input.Blur()
	m.input.SetValue("")
	return m
}

// presetIndex maps the number keys 1-9 to preset positions.
func presetIndex(key string) (int, bool) {
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return 0, false
	}
	return int(key[0] - '1'), true
}

func nextTab(current service.Tab) service.Tab {
	for i, t := range service.Tabs {
		if t == current {
			return service.Tabs[(i+1)%len(service.Tabs)]
		}
	}
	return service.Tabs[0]
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(padOrTrunc(m.headerText(), m.width)))
	b.WriteString("\n\n")
	b.WriteString(m.renderPresets())
	b.WriteString("\n\n")
	b.WriteString(m.renderMetrics())
	b.WriteString("\n\n")
	b.WriteString(m.renderSeries())
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")
	b.WriteString(m.renderTab())
	b.WriteString("\n")

	if notices := m.renderNotices(); notices != "" {
		b.WriteString("\n")
		b.WriteString(notices)
	}
	if m.mode != inputNone {
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	footer := " q quit  1-9 preset  / symbol  r analyze  c chat  f refresh  R trending  tab switch  x dismiss"
	b.WriteString("\n")
	b.WriteString(footerStyle.Render(padOrTrunc(footer, m.width)))
	return b.String()
}

func (m Model) headerText() string {
	symbol := m.state.Symbol.String()
	if symbol == "" {
		symbol = "no symbol"
	}
	status := string(m.state.SeriesStatus)
	if m.state.Loading.Series {
		status = "loading..."
	}
	return fmt.Sprintf(" Stock Dashboard    %s    %s ", symbol, status)
}

func (m Model) renderPresets() string {
	parts := make([]string, 0, len(m.presets))
	for i, p := range m.presets {
		if i >= 9 {
			break
		}
		label := fmt.Sprintf("%d %s", i+1, p.Ticker())
		if p == m.state.Symbol {
			parts = append(parts, symbolStyle.Render(label))
			continue
		}
		parts = append(parts, dimStyle.Render(label))
	}
	return " " + strings.Join(parts, "  ")
}

func (m Model) renderMetrics() string {
	st := m.state
	switch {
	case st.Series == nil && st.Loading.Series:
		return dimStyle.Render(" Loading price data...")
	case st.Series == nil && st.SeriesStatus == service.SeriesFailed:
		return errorStyle.Render(" Price data unavailable. Press f to retry.")
	case st.Series == nil:
		return dimStyle.Render(" No price data.")
	}

	metrics := st.Metrics
	style := changeStyle(metrics.PriceChange)
	return fmt.Sprintf(" %s  %s  %s  %s",
		symbolStyle.Render(st.Symbol.String()),
		priceStyle.Render(formatPrice(metrics.CurrentPrice)),
		style.Render(formatChange(metrics.PriceChange)),
		style.Render("("+formatPercent(metrics.PriceChangePercent)+")"))
}

func (m Model) renderSeries() string {
	points := m.state.Series.Tail(seriesRows)
	if len(points) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(colHeaderStyle.Render(fmt.Sprintf(" %-10s %12s %12s %12s %12s %16s %10s %10s %7s",
		"Date", "Open", "High", "Low", "Close", "Volume", "SMA20", "SMA50", "RSI")))
	b.WriteString("\n")
	for _, p := range points {
		b.WriteString(fmt.Sprintf(" %-10s %12s %12s %12s %12s %16s %10s %10s %7s\n",
			p.Date.Format(common.DateLayout),
			formatPrice(p.Open),
			formatPrice(p.High),
			formatPrice(p.Low),
			formatPrice(p.Close),
			formatVolume(p.Volume),
			optional(p.SMA20, formatPrice),
			optional(p.SMA50, formatPrice),
			optional(p.RSI, func(v float64) string { return fmt.Sprintf("%.1f", v) })))
	}
	return b.String()
}

func optional(v *float64, format func(float64) string) string {
	if v == nil {
		return "-"
	}
	return format(*v)
}

func (m Model) renderTabs() string {
	parts := make([]string, len(service.Tabs))
	for i, t := range service.Tabs {
		label := strings.ToUpper(string(t[:1])) + string(t[1:])
		if t == m.state.Tab {
			parts[i] = activeTabStyle.Render(label)
		} else {
			parts[i] = tabStyle.Render(label)
		}
	}
	return " " + lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) renderTab() string {
	switch m.state.Tab {
	case service.TabChat:
		return m.renderChat()
	case service.TabTrending:
		return m.renderTrending()
	default:
		return m.renderAnalysis()
	}
}

func (m Model) renderAnalysis() string {
	st := m.state
	var b strings.Builder
	if st.Loading.Analysis {
		b.WriteString(dimStyle.Render(" Analyzing " + st.Symbol.String() + "..."))
		b.WriteString("\n")
	}
	a := st.Analysis
	if a == nil {
		if service.Pending(st) {
			b.WriteString(dimStyle.Render(" Press r to run an AI analysis."))
			b.WriteString("\n")
		}
		return b.String()
	}

	b.WriteString(fmt.Sprintf(" %s  risk %s  confidence %.0f%%",
		sectionStyle.Render("Analysis "+a.Symbol.String()),
		riskStyle(string(a.RiskLevel)).Render(string(a.RiskLevel)),
		a.ConfidenceScore))
	b.WriteString("\n")
	for _, name := range a.TechnicalIndicators.Names() {
		v, _ := a.TechnicalIndicators.Get(name)
		b.WriteString(dimStyle.Render(fmt.Sprintf("   %-18s", name)))
		b.WriteString(fmt.Sprintf(" %s\n", formatPrice(v)))
	}
	b.WriteString("\n")
	b.WriteString(indent(a.Analysis))
	b.WriteString(renderRecommendations(a.Recommendations))
	return b.String()
}

func (m Model) renderChat() string {
	st := m.state
	var b strings.Builder
	if st.Loading.Chat {
		b.WriteString(dimStyle.Render(" Thinking..."))
		b.WriteString("\n")
	}
	c := st.Chat
	if c == nil {
		if service.Pending(st) {
			b.WriteString(dimStyle.Render(" Press c to ask a question about " + st.Symbol.String() + "."))
			b.WriteString("\n")
		}
		return b.String()
	}
	b.WriteString(sectionStyle.Render(" Q: " + c.Query))
	b.WriteString("\n")
	b.WriteString(indent(c.Analysis))
	b.WriteString(renderRecommendations(c.Recommendations))
	return b.String()
}

func (m Model) renderTrending() string {
	st := m.state
	var b strings.Builder
	if st.Loading.Trending {
		b.WriteString(dimStyle.Render(" Loading trending stocks..."))
		b.WriteString("\n")
	}
	if len(st.Trending) == 0 {
		if !st.Loading.Trending {
			b.WriteString(dimStyle.Render(" No trending stocks. Press R to refresh."))
			b.WriteString("\n")
		}
		return b.String()
	}

	b.WriteString(colHeaderStyle.Render(fmt.Sprintf(" %-12s %-28s %12s %10s %9s", "Symbol", "Name", "Price", "Change", "Change%")))
	b.WriteString("\n")
	for i, t := range st.Trending {
		if i >= trendingRows {
			break
		}
		style := changeStyle(t.Change)
		b.WriteString(fmt.Sprintf(" %-12s %-28s %12s %s %s\n",
			t.Symbol,
			padOrTrunc(t.Name, 28),
			formatPrice(t.Price),
			style.Render(fmt.Sprintf("%10s", formatChange(t.Change))),
			style.Render(fmt.Sprintf("%9s", formatPercent(t.ChangePercent)))))
	}
	return b.String()
}

func (m Model) renderNotices() string {
	if len(m.state.Notices) == 0 {
		return ""
	}
	var b strings.Builder
	for _, n := range m.state.Notices {
		style := noticeStyle
		if n.Kind != service.NoticeValidation {
			style = errorStyle
		}
		b.WriteString(style.Render(" ! " + n.Message))
		b.WriteString(dimStyle.Render("  " + formatAge(n.CreatedAt, m.now)))
		b.WriteString("\n")
	}
	return b.String()
}

func renderRecommendations(recs []string) string {
	if len(recs) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(sectionStyle.Render(" Recommendations"))
	b.WriteString("\n")
	for _, r := range recs {
		b.WriteString("   - " + r + "\n")
	}
	return b.String()
}

func indent(text string) string {
	if text == "" {
		return ""
	}
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, l := range lines {
		lines[i] = " " + l
	}
	return strings.Join(lines, "\n") + "\n"
}

func padOrTrunc(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) > width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}
