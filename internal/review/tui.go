package review

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/jobscout/internal/model"
)

// Lines per posting in the list view (title + subtitle + blank separator).
const postingItemHeight = 3

type viewState int

const (
	viewList viewState = iota
	viewDetail
)

var (
	activeBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("39")) // bright blue

	inactiveBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240")) // dim gray

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	activeHeaderStyle = headerStyle.
				Foreground(lipgloss.Color("39"))

	inactiveHeaderStyle = headerStyle.
				Foreground(lipgloss.Color("240"))

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	titleStyle = lipgloss.NewStyle().
			Bold(true)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	selectedTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("24"))

	selectedSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252")).
				Background(lipgloss.Color("24"))

	detailLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Width(16)

	detailValueStyle = lipgloss.NewStyle()

	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				MarginBottom(1)

	dividerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	reasoningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	newBadgeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))
)

// pane is one scrollable list of postings with its own cursor.
type pane struct {
	title    string
	postings []model.Posting
	cursor   int
	vp       viewport.Model
}

func (p *pane) move(delta int) {
	p.cursor = clamp(p.cursor+delta, 0, max(len(p.postings)-1, 0))

	// Keep the selected posting inside the visible window.
	top := p.cursor * postingItemHeight
	bottom := top + postingItemHeight - 1
	switch {
	case top < p.vp.YOffset:
		p.vp.SetYOffset(top)
	case bottom >= p.vp.YOffset+p.vp.Height:
		p.vp.SetYOffset(bottom - p.vp.Height + 1)
	}
}

func (p *pane) selected() (model.Posting, bool) {
	if len(p.postings) == 0 {
		return model.Posting{}, false
	}
	return p.postings[p.cursor], true
}

func (p *pane) render(active bool) {
	p.vp.SetContent(renderPostings(p.postings, p.cursor, active))
}

func (p *pane) view(width int, active bool) (header, body string) {
	headerSt, borderSt := inactiveHeaderStyle, inactiveBorderStyle
	if active {
		headerSt, borderSt = activeHeaderStyle, activeBorderStyle
	}
	header = lipgloss.NewStyle().Width(width + 2).Render(headerSt.Render(p.title))
	body = borderSt.Width(width).Render(p.vp.View())
	return header, body
}

// reviewModel browses one saved run: the ranked top postings on the left, the
// postings that crossed the alert threshold on the right.
type reviewModel struct {
	run    model.RunSummary
	panes  [2]pane
	active int
	width  int
	height int
	ready  bool

	view           viewState
	detail         model.Posting
	detailViewport viewport.Model

	// open is swapped out in tests.
	open func(url string)

	wantQuit bool
}

func newReviewModel(run model.RunSummary) reviewModel {
	return reviewModel{
		run: run,
		panes: [2]pane{
			{title: fmt.Sprintf(" Top %d", len(run.Top)), postings: run.Top},
			{
				title:    fmt.Sprintf(" Qualifying ≥ %.1f (%d)", run.Decision.Threshold, len(run.Decision.Qualifying)),
				postings: run.Decision.Qualifying,
			},
		},
		open: openURL,
	}
}

func (m reviewModel) Init() tea.Cmd {
	return nil
}

func (m reviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		if m.view == viewDetail {
			return m.updateDetail(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m reviewModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.wantQuit = true
		return m, tea.Quit
	case "esc", "b":
		return m, tea.Quit
	case "tab", "left", "right", "h", "l":
		m.active = 1 - m.active
	case "up", "k":
		m.panes[m.active].move(-1)
	case "down", "j":
		m.panes[m.active].move(1)
	case "g", "home":
		m.panes[m.active].move(-len(m.panes[m.active].postings))
	case "G", "end":
		m.panes[m.active].move(len(m.panes[m.active].postings))
	case "enter":
		p, ok := m.panes[m.active].selected()
		if !ok {
			return m, nil
		}
		m.showDetail(p)
		return m, nil
	default:
		var cmd tea.Cmd
		m.panes[m.active].vp, cmd = m.panes[m.active].vp.Update(msg)
		return m, cmd
	}
	m.renderPanes()
	return m, nil
}

func (m reviewModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.wantQuit = true
		return m, tea.Quit
	case "esc", "backspace":
		m.view = viewList
		return m, nil
	case "o":
		if m.detail.Link != "" {
			m.open(m.detail.Link)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

func (m *reviewModel) showDetail(p model.Posting) {
	m.view = viewDetail
	m.detail = p
	m.detailViewport = viewport.New(m.width-4, m.height-4)
	m.detailViewport.SetContent(m.renderDetail())
}

// resize lays out two side-by-side panes: 2 border columns each plus a 1 column gap,
// and 4 rows for the header, borders and status bar.
func (m *reviewModel) resize(width, height int) {
	m.width, m.height = width, height
	paneWidth := max((width-5)/2, 20)
	paneHeight := max(height-4, 5)

	for i := range m.panes {
		if !m.ready {
			m.panes[i].vp = viewport.New(paneWidth, paneHeight)
			continue
		}
		m.panes[i].vp.Width = paneWidth
		m.panes[i].vp.Height = paneHeight
	}
	m.ready = true
	m.renderPanes()

	if m.view == viewDetail {
		m.detailViewport.Width = width - 4
		m.detailViewport.Height = height - 4
		m.detailViewport.SetContent(m.renderDetail())
	}
}

func (m *reviewModel) renderPanes() {
	for i := range m.panes {
		m.panes[i].render(i == m.active)
	}
}

func (m reviewModel) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.view == viewDetail {
		return m.viewDetail()
	}
	return m.viewList()
}

func (m reviewModel) viewList() string {
	width := m.panes[0].vp.Width
	leftHeader, leftBody := m.panes[0].view(width, m.active == 0)
	rightHeader, rightBody := m.panes[1].view(width, m.active == 1)

	headerRow := lipgloss.JoinHorizontal(lipgloss.Top, leftHeader, " ", rightHeader)
	panes := lipgloss.JoinHorizontal(lipgloss.Top, leftBody, " ", rightBody)

	a := m.run.Analysis
	statusText := fmt.Sprintf(" run %s | %d scored | top %.1f | avg %.1f | %d new    tab switch  j/k move  g/G ends  enter open  esc runs  q quit",
		m.run.StartedAt.Local().Format("2006-01-02 15:04"), a.Total, a.TopScore, a.AvgScore, m.run.Appended)
	statusBar := statusBarStyle.Width(m.width).Render(statusText)

	return headerRow + "\n" + panes + "\n" + statusBar
}

func (m reviewModel) viewDetail() string {
	title := detailTitleStyle.Render("Posting Details")

	border := activeBorderStyle.Width(m.width - 2)
	content := border.Render(m.detailViewport.View())

	statusText := " esc/backspace back  ↑/↓ scroll  q quit"
	if m.detail.Link != "" {
		statusText = " o open link  esc/backspace back  ↑/↓ scroll  q quit"
	}
	statusBar := statusBarStyle.Width(m.width).Render(statusText)

	return title + "\n" + content + "\n" + statusBar
}

func (m reviewModel) renderDetail() string {
	p := m.detail
	var b strings.Builder

	addField := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(detailLabelStyle.Render(label))
		b.WriteString(detailValueStyle.Render(value))
		b.WriteByte('\n')
	}

	addField("Title", p.Title)
	addField("Company", p.Company)
	addField("Location", p.Location)
	addField("Salary", p.Salary)

	b.WriteByte('\n')
	score := fmt.Sprintf("%.1f/10", p.Score)
	if p.IsNew {
		score += "  " + newBadgeStyle.Render("new")
	}
	addField("Score", score)
	addField("Link", p.Link)

	wrapWidth := max(m.width-8, 20)
	divider := func(label string) string {
		fill := strings.Repeat("─", max(wrapWidth-len(label), 3))
		return dividerStyle.Render(label + fill)
	}

	if len(p.Qualifications) > 0 {
		b.WriteByte('\n')
		b.WriteString(divider("── Qualifications ") + "\n\n")
		for _, q := range p.Qualifications {
			b.WriteString(detailValueStyle.Render("  • "+q) + "\n")
		}
	}

	if p.Reasoning != "" {
		b.WriteByte('\n')
		b.WriteString(divider("── Reasoning ") + "\n\n")
		b.WriteString(reasoningStyle.Render(wordWrap(p.Reasoning, wrapWidth)) + "\n")
	}

	return b.String()
}

func renderPostings(postings []model.Posting, cursor int, isActive bool) string {
	if len(postings) == 0 {
		return "  (no postings)"
	}

	var b strings.Builder
	for i, p := range postings {
		isSelected := isActive && i == cursor

		titleSt := titleStyle
		subtitleSt := subtitleStyle
		prefix := "  "
		if isSelected {
			titleSt = selectedTitleStyle
			subtitleSt = selectedSubtitleStyle
			prefix = "> "
		}

		title := fmt.Sprintf("%.1f  %s", p.Score, p.Title)
		if p.IsNew {
			title += " (new)"
		}
		b.WriteString(prefix)
		b.WriteString(titleSt.Render(title))
		b.WriteByte('\n')

		location := p.Location
		if location == "" {
			location = "Unknown"
		}
		b.WriteString(prefix)
		b.WriteString(subtitleSt.Render(fmt.Sprintf("%s · %s", p.Company, location)))
		b.WriteByte('\n')

		if i < len(postings)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func wordWrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) <= width {
			line += " " + w
		} else {
			lines = append(lines, line)
			line = w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// openURL opens url in the default system browser, fire-and-forget.
func openURL(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return
	}
	_ = cmd.Start()
}

// RunReviewTUI launches the split-pane browser for one saved run: the ranked top
// postings on the left, the postings that crossed the alert threshold on the right.
// Returns wantQuit=true if the user pressed q/ctrl+c, false if they pressed esc to
// return to the picker.
func RunReviewTUI(run model.RunSummary) (bool, error) {
	p := tea.NewProgram(newReviewModel(run), tea.WithAltScreen())
	result, err := p.Run()
	if err != nil {
		return false, err
	}
	final := result.(reviewModel)
	return final.wantQuit, nil
}
