package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/rdmscope/internal/rdm"
	"github.com/muurk/rdmscope/internal/render"
)

// Entry is one decoded message shown by the viewer
type Entry struct {
	Label  string // e.g., "bench.jsonl #3"
	Raw    []byte
	Result *rdm.Result
	Err    error
}

type viewerKeys struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Next     key.Binding
	Prev     key.Binding
	Header   key.Binding
	Hex      key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultViewerKeys() viewerKeys {
	return viewerKeys{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup", "b"), key.WithHelp("pgup/b", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", "f", " "), key.WithHelp("pgdn/f", "page down")),
		Next:     key.NewBinding(key.WithKeys("n", "right", "l"), key.WithHelp("n/→", "next message")),
		Prev:     key.NewBinding(key.WithKeys("p", "left", "h"), key.WithHelp("p/←", "previous message")),
		Header:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "toggle envelope")),
		Hex:      key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "toggle hex")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap
func (k viewerKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Header, k.Hex, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k viewerKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Next, k.Prev},
		{k.Header, k.Hex, k.Help, k.Quit},
	}
}

// Viewer is a scrollable field-tree browser over one or more messages
type Viewer struct {
	entries  []Entry
	index    int
	opts     render.Options
	text     *render.Text
	showHex  bool
	keys     viewerKeys
	help     help.Model
	viewport viewport.Model
	ready    bool
	width    int
	height   int
}

// NewViewer creates a viewer over entries
func NewViewer(entries []Entry, opts render.Options, styles render.Styles) *Viewer {
	return &Viewer{
		entries: entries,
		opts:    opts,
		text:    &render.Text{Options: opts, Styles: styles},
		keys:    defaultViewerKeys(),
		help:    help.New(),
	}
}

// RunViewer shows entries full screen until the user quits
func RunViewer(entries []Entry, opts render.Options) error {
	if len(entries) == 0 {
		return fmt.Errorf("nothing to view")
	}
	_, err := tea.NewProgram(NewViewer(entries, opts, RenderStyles()), tea.WithAltScreen()).Run()
	return err
}

// Init implements tea.Model
func (v *Viewer) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (v *Viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width, v.height = msg.Width, msg.Height
		v.help.Width = msg.Width
		if !v.ready {
			v.viewport = viewport.New(msg.Width, 1)
			v.ready = true
		}
		v.viewport.Width = msg.Width
		v.resize()
		v.refresh()
		return v, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.Next):
			if v.index < len(v.entries)-1 {
				v.index++
				v.refresh()
				v.viewport.GotoTop()
			}
			return v, nil
		case key.Matches(msg, v.keys.Prev):
			if v.index > 0 {
				v.index--
				v.refresh()
				v.viewport.GotoTop()
			}
			return v, nil
		case key.Matches(msg, v.keys.Header):
			v.opts.ShowHeader = !v.opts.ShowHeader
			v.text.Options = v.opts
			v.refresh()
			return v, nil
		case key.Matches(msg, v.keys.Hex):
			v.showHex = !v.showHex
			v.refresh()
			return v, nil
		case key.Matches(msg, v.keys.Help):
			v.help.ShowAll = !v.help.ShowAll
			v.resize()
			return v, nil
		}
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

func (v *Viewer) resize() {
	if v.ready {
		v.viewport.Height = max(v.height-v.chromeHeight(), 1)
	}
}

// chromeHeight is the number of rows outside the viewport
func (v *Viewer) chromeHeight() int {
	rows := 2 // Status bar and help line
	if v.help.ShowAll {
		rows += len(v.keys.FullHelp()[0]) - 1
	}
	return rows
}

func (v *Viewer) refresh() {
	if !v.ready {
		return
	}
	v.viewport.SetContent(v.Content())
}

// Content renders the current entry
func (v *Viewer) Content() string {
	if len(v.entries) == 0 {
		return ""
	}
	e := v.entries[v.index]

	var b strings.Builder
	_ = v.text.Render(&b, e.Result, e.Err)
	if v.showHex && len(e.Raw) > 0 {
		b.WriteString("\n")
		b.WriteString(HexDump(e.Raw))
	}
	return b.String()
}

// View implements tea.Model
func (v *Viewer) View() string {
	if !v.ready {
		return "loading..."
	}
	return lipgloss.JoinVertical(lipgloss.Left, v.viewport.View(), v.statusBar(), v.help.View(v.keys))
}

func (v *Viewer) statusBar() string {
	e := v.entries[v.index]
	style := StatusBarStyle
	if e.Err != nil {
		style = StatusErrorStyle
	}
	status := fmt.Sprintf("%d/%d", v.index+1, len(v.entries))
	if e.Label != "" {
		status += "  " + e.Label
	}
	if e.Result != nil {
		status += "  checksum " + e.Result.Checksum.Status.String()
	}
	status += fmt.Sprintf("  %3.f%%", v.viewport.ScrollPercent()*100)
	return style.Width(max(v.width, 1)).Render(status)
}

// Index returns the entry being shown
func (v *Viewer) Index() int {
	return v.index
}

// HexDump formats data 16 bytes per row with offsets and ASCII
func HexDump(data []byte) string {
	var b strings.Builder
	for off := 0; off < len(data); off += 16 {
		end := min(off+16, len(data))
		row := data[off:end]
		fmt.Fprintf(&b, "%04x  ", off)
		for i := 0; i < 16; i++ {
			if i < len(row) {
				fmt.Fprintf(&b, "%02x ", row[i])
			} else {
				b.WriteString("   ")
			}
			if i == 7 {
				b.WriteByte(' ')
			}
		}
		b.WriteString(" |")
		for _, c := range row {
			if c >= 32 && c <= 126 {
				b.WriteByte(c)
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteString("|\n")
	}
	return b.String()
}
