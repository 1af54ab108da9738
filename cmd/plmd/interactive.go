package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/wippyai/pipeline-metadata/plmd"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type section struct {
	name   string
	render func(*browseModel) string
}

var sections = []section{
	{"header", (*browseModel).renderHeader},
	{"layout", func(m *browseModel) string { return renderLayout(m.doc, m.palette) }},
	{"image -> cis", func(m *browseModel) string { return renderCIS("image -> cis", m.doc.ImageToCIS, m.palette) }},
	{"sampler -> cis", func(m *browseModel) string { return renderCIS("sampler -> cis", m.doc.SamplerToCIS, m.palette) }},
	{"user metadata", func(m *browseModel) string { return renderUser(m.doc, m.palette) }},
}

type browseState int

const (
	stateBrowse browseState = iota
	stateLookup
)

const sidebarWidth = 20

// browseModel shows one section of a loaded blob at a time. The handle is
// kept for lookups and released by the caller once the program exits.
type browseModel struct {
	md       *plmd.Metadata
	doc      *plmd.Document
	report   *report
	palette  palette
	viewport viewport.Model
	input    textinput.Model
	lookup   string
	selected int
	state    browseState
	ready    bool
}

func newBrowseModel(r *report, md *plmd.Metadata) *browseModel {
	ti := textinput.New()
	ti.Placeholder = "key"
	ti.Prompt = "lookup: "
	ti.Width = 40

	return &browseModel{
		md:      md,
		doc:     r.Document,
		report:  r,
		palette: newPalette(true),
		input:   ti,
		state:   stateBrowse,
	}
}

func (m *browseModel) Init() tea.Cmd {
	return nil
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		width := max(msg.Width-sidebarWidth-2, 10)
		height := max(msg.Height-6, 3)
		if !m.ready {
			m.viewport = viewport.New(width, height)
			m.ready = true
		} else {
			m.viewport.Width = width
			m.viewport.Height = height
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if m.state == stateLookup {
			return m.updateLookup(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.selected > 0 {
				m.selected--
				m.refresh()
			}
			return m, nil

		case "down", "j":
			if m.selected < len(sections)-1 {
				m.selected++
				m.refresh()
			}
			return m, nil

		case "/":
			m.state = stateLookup
			m.input.Reset()
			return m, m.input.Focus()
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *browseModel) updateLookup(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.state = stateBrowse
		m.input.Blur()
		return m, nil

	case "enter":
		m.lookup = m.lookupResult(m.input.Value())
		m.state = stateBrowse
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *browseModel) lookupResult(key string) string {
	if v, ok := m.md.UserMetadata().Lookup(key); ok {
		return valueStyle.Render(fmt.Sprintf("%s = %q", key, v))
	}
	return errorStyle.Render(fmt.Sprintf("no user metadata for %q", key))
}

func (m *browseModel) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(sections[m.selected].render(m))
	m.viewport.GotoTop()
}

func (m *browseModel) renderHeader() string {
	h := m.report.Header
	var b strings.Builder
	rows := []struct {
		name  string
		value string
	}{
		{"magic", fmt.Sprintf("0x%08X", h.Magic)},
		{"header_size", fmt.Sprint(h.HeaderSize)},
		{"version", fmt.Sprintf("%d.%d", h.VersionMajor, h.VersionMinor)},
		{"layout", fmt.Sprintf("@%d", h.PipelineLayoutOffset)},
		{"image -> cis", fmt.Sprintf("@%d", h.ImageToCISMapOffset)},
		{"sampler -> cis", fmt.Sprintf("@%d", h.SamplerToCISMapOffset)},
		{"user metadata", fmt.Sprintf("@%d", h.UserMetadataOffset)},
		{"size", fmt.Sprintf("%s (%d bytes)", humanize.IBytes(uint64(m.report.Size)), m.report.Size)},
		{"fingerprint", m.report.Fingerprint.String()},
	}
	for _, r := range rows {
		fmt.Fprintf(&b, "%s %s\n", typeStyle.Render(fmt.Sprintf("%-15s", r.name)), r.value)
	}
	return b.String()
}

func (m *browseModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Pipeline Metadata"))
	b.WriteString(" ")
	b.WriteString(m.report.File)
	b.WriteString("\n\n")

	var side strings.Builder
	for i, s := range sections {
		if i == m.selected {
			side.WriteString(selectedStyle.Render("> " + s.name))
		} else {
			side.WriteString("  " + s.name)
		}
		side.WriteString("\n")
	}
	sidebar := lipgloss.NewStyle().Width(sidebarWidth).Render(side.String())
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, sidebar, m.viewport.View()))
	b.WriteString("\n")

	switch m.state {
	case stateLookup:
		b.WriteString(m.input.View())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter look up • esc cancel"))
	default:
		if m.lookup != "" {
			b.WriteString(m.lookup)
			b.WriteString("\n")
		}
		b.WriteString(helpStyle.Render("↑/↓ section • pgup/pgdn scroll • / lookup key • q quit"))
	}
	return b.String()
}

func runBrowse(r *report, md *plmd.Metadata) error {
	p := tea.NewProgram(newBrowseModel(r, md), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
