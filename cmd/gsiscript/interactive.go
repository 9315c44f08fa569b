package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/gsi-script/disasm"
	"github.com/wippyai/gsi-script/mes"
	"github.com/wippyai/gsi-script/textcodec"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type interactiveModel struct {
	err      error
	script   *mes.Script
	codec    *textcodec.Codec
	filename string
	detail   string
	items    []blockItem
	visible  []int
	filter   textinput.Model
	selected int
	height   int
	state    modelState
}

// blockItem is one row of the block list.
type blockItem struct {
	block     mes.Block
	character string
	body      string
}

type modelState int

const (
	stateList modelState = iota
	stateFilter
	stateDetail
)

type loadedMsg struct {
	err    error
	script *mes.Script
	items  []blockItem
}

func newInteractiveModel(filename string, codec *textcodec.Codec) *interactiveModel {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "filter by name or text"
	ti.Width = 40

	return &interactiveModel{
		filename: filename,
		codec:    codec,
		filter:   ti,
		height:   20,
		state:    stateList,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.loadScript
}

func (m *interactiveModel) loadScript() tea.Msg {
	s, err := loadScript(m.filename)
	if err != nil {
		return loadedMsg{err: err}
	}
	items := make([]blockItem, 0, len(s.Blocks))
	for _, b := range s.Blocks {
		it := blockItem{block: b}
		if b.ContainsText {
			it.character, it.body, err = disasm.BlockText(s, b, m.codec)
			if err != nil {
				return loadedMsg{err: err}
			}
		}
		items = append(items, it)
	}
	return loadedMsg{script: s, items: items}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.state == stateFilter {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.state == stateList && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateList && m.selected < len(m.visible)-1 {
				m.selected++
			}

		case "/":
			if m.state == stateList {
				m.state = stateFilter
				return m, m.filter.Focus()
			}

		case "enter":
			switch m.state {
			case stateList:
				if len(m.visible) > 0 {
					m.detail, m.err = m.renderDetail(m.items[m.visible[m.selected]])
					m.state = stateDetail
				}
			case stateDetail:
				m.state = stateList
			}

		case "esc":
			switch m.state {
			case stateDetail:
				m.state = stateList
				m.err = nil
			case stateList:
				m.filter.SetValue("")
				m.applyFilter()
			}
		}

	case tea.WindowSizeMsg:
		if msg.Height > 8 {
			m.height = msg.Height - 8
		}

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.script = msg.script
		m.items = msg.items
		m.applyFilter()
	}

	return m, nil
}

func (m *interactiveModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		m.filter.Blur()
		m.state = stateList
		return m, nil
	case "esc":
		m.filter.Blur()
		m.filter.SetValue("")
		m.applyFilter()
		m.state = stateList
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

// applyFilter keeps the blocks whose name or text contains the filter.
// An empty filter keeps every block.
func (m *interactiveModel) applyFilter() {
	q := strings.ToLower(m.filter.Value())
	m.visible = m.visible[:0]
	for i, it := range m.items {
		if q == "" ||
			strings.Contains(strings.ToLower(it.character), q) ||
			strings.Contains(strings.ToLower(it.body), q) {
			m.visible = append(m.visible, i)
		}
	}
	if m.selected >= len(m.visible) {
		m.selected = max(len(m.visible)-1, 0)
	}
}

func (m *interactiveModel) renderDetail(it blockItem) (string, error) {
	var b strings.Builder
	for _, sec := range it.block.Sectors {
		fmt.Fprintf(&b, "%s [%d, %d)\n", typeStyle.Render(sec.Type.String()), sec.Start, sec.End)
	}
	b.WriteString("\n")

	var listing bytes.Buffer
	if err := disasm.DisassembleRange(&listing, m.script, it.block.Start(), it.block.End(), m.codec); err != nil {
		return "", err
	}
	b.WriteString(listing.String())
	return b.String(), nil
}

func (m *interactiveModel) View() string {
	if m.err != nil && m.state != stateDetail {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	if m.script == nil {
		return "Loading script..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("MES Browser"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %d instructions, %d blocks, %d with text",
		len(m.script.Instructions), len(m.script.Blocks), len(m.script.TextBlocks()))))
	b.WriteString("\n\n")

	switch m.state {
	case stateList, stateFilter:
		if m.state == stateFilter || m.filter.Value() != "" {
			b.WriteString(m.filter.View())
			b.WriteString("\n\n")
		}
		lo, hi := m.window()
		for _, idx := range m.visible[lo:hi] {
			line := m.formatItem(m.items[idx])
			if idx == m.visible[m.selected] {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		if len(m.visible) == 0 {
			b.WriteString(dimStyle.Render("  no matching blocks"))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		if m.state == stateFilter {
			b.WriteString(helpStyle.Render("enter apply • esc clear"))
		} else {
			b.WriteString(helpStyle.Render("↑/↓ select • enter inspect • / filter • q quit"))
		}

	case stateDetail:
		it := m.items[m.visible[m.selected]]
		b.WriteString(m.formatItem(it))
		b.WriteString("\n\n")
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(m.detail)
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter/esc back • q quit"))
	}

	return b.String()
}

// window returns the slice of visible rows that fits the screen and
// contains the selection.
func (m *interactiveModel) window() (int, int) {
	n := len(m.visible)
	if n <= m.height {
		return 0, n
	}
	lo := m.selected - m.height/2
	lo = max(lo, 0)
	lo = min(lo, n-m.height)
	return lo, lo + m.height
}

func (m *interactiveModel) formatItem(it blockItem) string {
	if !it.block.ContainsText {
		return dimStyle.Render(fmt.Sprintf("---- %d instructions", it.block.End()-it.block.Start()))
	}
	body := strings.ReplaceAll(it.body, "\n", " ⏎ ")
	if r := []rune(body); len(r) > 60 {
		body = string(r[:60]) + "…"
	}
	name := ""
	if it.character != "" {
		name = nameStyle.Render(it.character) + ": "
	}
	return fmt.Sprintf("%04d %s%s", it.block.Index, name, body)
}

func runInteractive(filename string, cfg *Config) error {
	if !isTerminal(os.Stdout) {
		return errors.New("interactive mode needs a terminal")
	}
	codec, err := cfg.Codec()
	if err != nil {
		return err
	}
	p := tea.NewProgram(newInteractiveModel(filename, codec), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
