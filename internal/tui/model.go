/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package tui is the terminal front end: a bubbletea program that renders
// the active page onto a character grid and feeds keys into the editor.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"scrapbook/internal/editor"
	applog "scrapbook/internal/log"
	"scrapbook/internal/picker"
)

// Pinch ratios sent by the + and - keys.
const (
	enlargeRatio = 1.5
	shrinkRatio  = 0.5
)

var (
	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("245"))
	activeTabStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("214"))
	statusStyle    = lipgloss.NewStyle().Background(lipgloss.Color("236")).Foreground(lipgloss.Color("255"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	helpStyle      = lipgloss.NewStyle().Faint(true)
)

// Options configures the terminal editor.
type Options struct {
	// Extensions limits which image files the path prompt accepts.
	Extensions []string
	// Paste reads the clipboard; defaults to clipboard.ReadAll.
	Paste func() (string, error)
	Log   *slog.Logger
}

// pickedMsg delivers an image pick for the page active when it started.
type pickedMsg struct {
	page int
	res  picker.Result
	err  error
}

// Model is the bubbletea model. The controller is the only state that
// outlives a frame; everything else here is view state.
type Model struct {
	ctl     *editor.Controller
	opts    Options
	log     *slog.Logger
	width   int
	height  int
	cursorX int
	cursorY int

	prompting bool
	pathInput string
	picking   bool

	status string
	errMsg string
}

// New returns a model driving ctl.
func New(ctl *editor.Controller, opts Options) Model {
	if opts.Paste == nil {
		opts.Paste = clipboard.ReadAll
	}
	l := opts.Log
	if l == nil {
		l = applog.WithComponent("tui")
	}
	return Model{ctl: ctl, opts: opts, log: l, cursorX: gridCols / 2, cursorY: gridRows / 2}
}

// Run starts the program in the alternate screen and blocks until quit.
func Run(ctx context.Context, ctl *editor.Controller, opts Options) error {
	p := tea.NewProgram(New(ctl, opts), tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case pickedMsg:
		return m.applyPick(msg), nil
	case tea.MouseMsg:
		if msg.Type == tea.MouseLeft {
			col, row := msg.X, msg.Y-1
			if row >= 0 && row < gridRows && col >= 0 && col < gridCols {
				m.cursorX, m.cursorY = col, row
				m.tapCursor()
			}
		}
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		m.errMsg = ""
		switch {
		case m.prompting:
			return m.updatePrompt(msg)
		case m.ctl.State().Mode == editor.EditingText:
			return m.updateEditing(msg), nil
		default:
			return m.updateNormal(msg)
		}
	}
	return m, nil
}

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := m.ctl.State()
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "left", "h":
		m.moveCursor(-1, 0)
	case "right", "l":
		m.moveCursor(1, 0)
	case "up", "k":
		m.moveCursor(0, -1)
	case "down", "j":
		m.moveCursor(0, 1)
	case "shift+left", "H":
		m.dragSelected(-1, 0)
	case "shift+right", "L":
		m.dragSelected(1, 0)
	case "shift+up", "K":
		m.dragSelected(0, -1)
	case "shift+down", "J":
		m.dragSelected(0, 1)
	case "enter", " ":
		m.tapCursor()
	case "m":
		if st.Mode != editor.Idle {
			p := cellCenter(m.cursorX, m.cursorY)
			m.ctl.MoveTo(st.ElementID, p.X, p.Y)
		}
	case "t":
		if _, ok := m.ctl.AddText(); ok {
			m.status = "text added"
		}
	case "i":
		m.prompting = true
		m.pathInput = ""
	case "+", "=":
		m.pinchSelected(enlargeRatio)
	case "-":
		m.pinchSelected(shrinkRatio)
	case "x", "delete":
		if m.ctl.Delete() {
			m.status = "deleted"
		}
	case "n":
		id := m.ctl.AddPage()
		m.status = "added " + id
	case "tab":
		m.ctl.SwitchPage((m.ctl.ActivePage() + 1) % m.ctl.Document().PageCount())
	case "shift+tab":
		n := m.ctl.Document().PageCount()
		m.ctl.SwitchPage((m.ctl.ActivePage() + n - 1) % n)
	}
	return m, nil
}

func (m Model) updateEditing(msg tea.KeyMsg) Model {
	buf := m.ctl.State().Buffer
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		m.ctl.Submit()
		m.status = "text saved"
		return m
	case tea.KeyBackspace:
		if r := []rune(buf); len(r) > 0 {
			m.ctl.SetBuffer(string(r[:len(r)-1]))
		}
		return m
	case tea.KeyCtrlV:
		text, err := m.opts.Paste()
		if err != nil {
			m.log.Warn("clipboard read failed", slog.Any("err", err))
			m.errMsg = "clipboard unavailable"
			return m
		}
		m.ctl.SetBuffer(buf + text)
		return m
	case tea.KeyCtrlJ:
		m.ctl.SetBuffer(buf + "\n")
		return m
	case tea.KeySpace:
		m.ctl.SetBuffer(buf + " ")
		return m
	case tea.KeyRunes:
		m.ctl.SetBuffer(buf + string(msg.Runes))
		return m
	}
	return m
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.prompting = false
		return m.applyPick(pickedMsg{page: m.ctl.ActivePage(), res: picker.Canceled()}), nil
	case tea.KeyEnter:
		m.prompting = false
		m.picking = true
		return m, m.pick(m.pathInput, m.ctl.ActivePage())
	case tea.KeyBackspace:
		if r := []rune(m.pathInput); len(r) > 0 {
			m.pathInput = string(r[:len(r)-1])
		}
	case tea.KeyCtrlV:
		if text, err := m.opts.Paste(); err == nil {
			m.pathInput += strings.TrimSpace(text)
		}
	case tea.KeySpace:
		m.pathInput += " "
	case tea.KeyRunes:
		m.pathInput += string(msg.Runes)
	}
	return m, nil
}

// pick reads the file off the update loop; the result comes back as a
// pickedMsg tagged with the page the request was made on.
func (m Model) pick(path string, page int) tea.Cmd {
	p := picker.Path(path, m.opts.Extensions...)
	return func() tea.Msg {
		res, err := p.Pick(context.Background())
		return pickedMsg{page: page, res: res, err: err}
	}
}

func (m Model) applyPick(msg pickedMsg) Model {
	m.picking = false
	if msg.err != nil {
		m.log.Warn("image pick failed", slog.Any("err", msg.err))
		m.errMsg = msg.err.Error()
		return m
	}
	if _, ok := m.ctl.ApplyPick(msg.page, msg.res); ok {
		m.status = "image added"
	} else if msg.res.Canceled {
		m.status = "image canceled"
	}
	return m
}

func (m *Model) moveCursor(dx, dy int) {
	m.cursorX = clampInt(m.cursorX+dx, 0, gridCols-1)
	m.cursorY = clampInt(m.cursorY+dy, 0, gridRows-1)
}

func (m *Model) tapCursor() {
	p := cellCenter(m.cursorX, m.cursorY)
	m.ctl.TapAt(p.X, p.Y)
}

func (m *Model) dragSelected(dx, dy int) {
	st := m.ctl.State()
	if st.Mode == editor.Idle {
		m.errMsg = "nothing selected"
		return
	}
	m.ctl.Drag(st.ElementID, float64(dx)*cellW, float64(dy)*cellH)
	m.moveCursor(dx, dy)
}

// pinchSelected sends one complete pinch gesture with the given ratio.
func (m *Model) pinchSelected(ratio float64) {
	st := m.ctl.State()
	if st.Mode != editor.Selected {
		m.errMsg = "select an image to resize"
		return
	}
	m.ctl.Pinch(editor.PinchEvent{ElementID: st.ElementID, Scale: 1, Phase: editor.PinchBegan})
	changed := m.ctl.Pinch(editor.PinchEvent{ElementID: st.ElementID, Scale: ratio, Phase: editor.PinchChanged})
	m.ctl.Pinch(editor.PinchEvent{ElementID: st.ElementID, Scale: ratio, Phase: editor.PinchEnded})
	if !changed {
		m.errMsg = "only images can be resized"
	}
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.tabStrip())
	b.WriteString("\n")

	rows := renderPage(m.ctl.Document(), m.ctl.ActivePage(), m.ctl.State())
	if !m.prompting && m.cursorY < len(rows) {
		line := []rune(rows[m.cursorY])
		if m.cursorX < len(line) {
			line[m.cursorX] = '█'
			rows[m.cursorY] = string(line)
		}
	}
	b.WriteString(strings.Join(rows, "\n"))
	b.WriteString("\n")

	b.WriteString(statusStyle.Render(m.statusLine()))
	b.WriteString("\n")
	switch {
	case m.errMsg != "":
		b.WriteString(errorStyle.Render(m.errMsg))
	case m.prompting:
		b.WriteString("Image path (empty or esc cancels): " + m.pathInput + "█")
	default:
		b.WriteString(helpStyle.Render(m.helpLine()))
	}
	return b.String()
}

func (m Model) tabStrip() string {
	tabs := pageTabs(m.ctl.Document().PageCount())
	parts := make([]string, len(tabs))
	for i, t := range tabs {
		if i == m.ctl.ActivePage() {
			parts[i] = activeTabStyle.Render(t)
		} else {
			parts[i] = tabStyle.Render(t)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) statusLine() string {
	s := fmt.Sprintf(" page %d/%d  %s", m.ctl.ActivePage()+1, m.ctl.Document().PageCount(), m.ctl.State())
	if m.picking {
		s += "  loading image..."
	} else if m.status != "" {
		s += "  " + m.status
	}
	return s
}

func (m Model) helpLine() string {
	if m.ctl.State().Mode == editor.EditingText {
		return "type to edit · ctrl+v paste · enter/esc save"
	}
	return "arrows move · enter tap · shift+arrows drag · t text · i image · +/- resize · x delete · n page · tab next · q quit"
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
