// Package app is the terminal editing session: it owns the document value,
// hosts the editor component and turns intents into store operations.
package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/x/ansi"
	overlay "github.com/rmhubbert/bubbletea-overlay"

	"github.com/iw2rmb/navedit/editor"
	"github.com/iw2rmb/navedit/intent"
	"github.com/iw2rmb/navedit/internal/logging"
	"github.com/iw2rmb/navedit/internal/store"
	"github.com/iw2rmb/navedit/navigation"
)

// Options configures a session.
type Options struct {
	Store *store.Store
	// Bus carries intents between the editor and the session. Nil means a
	// private bus.
	Bus    *intent.Bus
	Theme  editor.Theme
	Height string
	Logger *log.Logger

	Clipboard editor.Clipboard
	ReadOnly  bool
}

// hostState is mutated from editor callbacks and bus listeners, so every
// copy of Model points at the same one.
type hostState struct {
	value    string
	dirty    bool
	report   navigation.Report
	stale    bool
	parseErr string

	pending []intent.Name
	unsubs  []func()
}

func (h *hostState) evaluate(text string) {
	h.report = navigation.Evaluate(text)
	h.stale = true
}

// Model is the session's Bubble Tea model.
type Model struct {
	ctx    context.Context
	store  *store.Store
	bus    *intent.Bus
	logger *log.Logger

	host   *hostState
	editor editor.Model

	keys       KeyMap
	editorKeys editor.KeyMap
	help       help.Model
	showHelp   bool
	message    string

	width, height int
}

// New builds a session around text, which is the document as last loaded.
func New(ctx context.Context, text string, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}
	bus := opts.Bus
	if bus == nil {
		bus = intent.New()
	}

	host := &hostState{value: text}
	host.evaluate(text)

	editorKeys := editor.DefaultKeyMap()
	ed := editor.New(editor.Config{
		Value: text,
		OnChange: func(s string) {
			host.value = s
			host.dirty = true
			host.evaluate(s)
		},
		OnValidate: func(valid bool, errs []string) {
			host.parseErr = ""
			if !valid && len(errs) > 0 {
				host.parseErr = errs[0]
			}
		},
		Disabled:  opts.ReadOnly,
		Height:    opts.Height,
		Theme:     opts.Theme,
		FileName:  fileName(opts.Store),
		Bus:       bus,
		KeyMap:    editorKeys,
		Clipboard: opts.Clipboard,
		Logger:    logger,
	})
	ed.Mount()

	m := Model{
		ctx:        logging.WithLogger(ctx, logger),
		store:      opts.Store,
		bus:        bus,
		logger:     logger,
		host:       host,
		editor:     ed,
		keys:       DefaultKeyMap(),
		editorKeys: editorKeys,
		help:       help.New(),
	}
	for _, name := range []intent.Name{intent.Save, intent.Refresh, intent.Download} {
		host.unsubs = append(host.unsubs, bus.Subscribe(name, func() {
			host.pending = append(host.pending, name)
		}))
	}
	m.applyReport()
	return m
}

func fileName(st *store.Store) string {
	if st == nil {
		return ""
	}
	p := st.Path()
	if i := strings.LastIndexAny(p, `/\`); i >= 0 {
		return p[i+1:]
	}
	return p
}

// Close unmounts the editor and releases the session's bus subscriptions.
// It is safe to call more than once.
func (m Model) Close() {
	m.editor.Unmount()
	for _, unsub := range m.host.unsubs {
		unsub()
	}
	m.host.unsubs = nil
}

// Value returns the host-owned document text.
func (m Model) Value() string { return m.host.value }

// Dirty reports whether the value changed since it was last loaded or saved.
func (m Model) Dirty() bool { return m.host.dirty }

// Report returns the latest evaluation of the value.
func (m Model) Report() navigation.Report { return m.host.report }

// Editor returns the hosted component.
func (m Model) Editor() editor.Model { return m.editor }

// Message returns the transient status message.
func (m Model) Message() string { return m.message }

// HelpVisible reports whether the shortcut overlay is shown.
func (m Model) HelpVisible() bool { return m.showHelp }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = maxInt(msg.Width-helpBox.GetHorizontalFrameSize(), 0)
		m.editor = m.editor.SetSize(msg.Width, maxInt(msg.Height-1, 0))

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.Close()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
		case m.showHelp && key.Matches(msg, m.keys.CloseHelp):
			m.showHelp = false
		case key.Matches(msg, m.keys.Format):
			m.message = ""
			m.bus.Publish(intent.Format)
		default:
			m.message = ""
			var cmd tea.Cmd
			m.editor, cmd = m.editor.Update(msg)
			cmds = append(cmds, cmd)
		}

	case savedMsg:
		if m.host.value == msg.text {
			m.host.dirty = false
		}
		m.message = "saved " + m.store.Path()

	case exportedMsg:
		m.message = "downloaded to " + msg.path

	case loadedMsg:
		m.host.value = msg.text
		m.host.dirty = false
		m.host.parseErr = ""
		m.host.evaluate(msg.text)
		m.editor = m.editor.SetValue(msg.text)
		m.message = "reloaded " + m.store.Path()

	case opErrMsg:
		m.logger.Error(msg.op+" failed", logging.FieldError, msg.err)
		m.message = fmt.Sprintf("%s failed: %v", msg.op, msg.err)

	default:
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.applyReport()
	cmds = append(cmds, m.drainIntents()...)
	return m, tea.Batch(cmds...)
}

func (m *Model) applyReport() {
	if !m.host.stale {
		return
	}
	r := m.host.report
	var stats *editor.Stats
	if r.Stats != nil {
		stats = &editor.Stats{Categories: r.Stats.Categories, Items: r.Stats.Items, Size: r.Stats.Size}
	}
	m.editor = m.editor.SetInvalid(!r.Valid).SetStats(stats)
	m.host.stale = false
}

func (m Model) View() string {
	base := m.editor.View() + "\n" + m.messageLine()
	if !m.showHelp {
		return base
	}
	return overlay.Composite(m.helpView(), base, overlay.Center, overlay.Center, 0, 0)
}

func (m Model) messageLine() string {
	var line string
	switch {
	case m.message != "":
		line = m.message
	case m.host.parseErr != "":
		line = "parse error: " + m.host.parseErr
	case len(m.host.report.Problems) > 0:
		line = m.host.report.Problems[0].String()
		if n := len(m.host.report.Problems) - 1; n > 0 {
			line += fmt.Sprintf(" (+%d more)", n)
		}
	}
	if m.host.dirty {
		if line == "" {
			line = "modified"
		} else {
			line = "modified · " + line
		}
	}
	if m.width > 0 {
		line = ansi.Truncate(line, m.width, "…")
	}
	return line
}

var helpBox = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	Padding(0, 1)

func (m Model) helpView() string {
	groups := append([][]key.Binding{m.keys.bindings()}, m.editorKeys.FullHelp()...)
	return helpBox.Render(m.help.FullHelpView(groups))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
