package editor

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/iw2rmb/navedit/buffer"
	"github.com/iw2rmb/navedit/intent"
	"github.com/iw2rmb/navedit/internal/logging"
	"github.com/iw2rmb/navedit/jsondoc"
)

// core is the state shared by every copy of a Model, so that bus listeners
// and the host see the same buffer and configuration.
type core struct {
	cfg         Config
	style       Style
	buf         *buffer.Buffer
	logger      *log.Logger
	highlighter Highlighter

	hlVersion uint64
	hlValid   bool
	hlSpans   [][]HighlightSpan

	folds foldState

	unsubscribe func()
}

// Model is the StructuredTextEditor Bubble Tea component.
//
// Model is a value type, but copies share the underlying buffer, config and
// bus subscription.
type Model struct {
	c *core

	focused bool

	viewport        viewport.Model
	width, height   int
	cursorVisualRow int

	lastBufVersion uint64
	lastCursor     buffer.Pos

	find       findState
	completion CompletionState
}

func New(cfg Config) Model {
	cfg = cfg.withDefaults()
	c := &core{
		cfg:    cfg,
		buf:    buffer.New(cfg.Value, buffer.Options{HistoryLimit: cfg.HistoryLimit}),
		logger: cfg.Logger,
	}
	if c.logger == nil {
		c.logger = logging.Default()
	}
	c.applyTheme()

	m := Model{
		c:        c,
		focused:  true,
		viewport: viewport.New(0, Rows(cfg.Height, 0)),
		find:     newFindState(c.style),
	}
	m.lastBufVersion = m.c.buf.Version()
	m.lastCursor = m.c.buf.Cursor()
	m.rebuildContent()
	return m
}

func (c *core) applyTheme() {
	if c.cfg.Style != nil {
		c.style = *c.cfg.Style
	} else {
		c.style = ThemeStyle(c.cfg.Theme)
	}
	if c.cfg.Highlighter != nil {
		c.highlighter = c.cfg.Highlighter
	} else {
		c.highlighter = NewChromaHighlighter(nil, ChromaStyleName(c.cfg.Theme))
	}
	c.hlValid = false
}

func (c *core) highlights() [][]HighlightSpan {
	if c.highlighter == nil {
		return nil
	}
	v := c.buf.TextVersion()
	if !c.hlValid || c.hlVersion != v {
		c.hlSpans = c.highlighter.Highlight(c.buf.Text())
		c.hlVersion = v
		c.hlValid = true
	}
	return c.hlSpans
}

// notifyChange reports the current text to the host: OnChange first, then
// the strict parse verdict.
func (c *core) notifyChange() {
	text := c.buf.Text()
	if ch, ok := c.buf.LastChange(); ok {
		c.logger.Debug("text changed", logging.FieldEdits, len(ch.AppliedEdits), logging.FieldBytes, len(text))
	}
	if c.cfg.OnChange != nil {
		c.cfg.OnChange(text)
	}
	if c.cfg.OnValidate != nil {
		ok, errs := jsondoc.Validate(text)
		if ok {
			errs = []string{}
		}
		c.cfg.OnValidate(ok, errs)
	}
}

func (c *core) formatDocument() bool {
	if c.cfg.Disabled {
		return false
	}
	formatted, err := jsondoc.Format(c.buf.Text())
	if err != nil {
		c.logger.Debug("cannot format invalid JSON", logging.FieldError, err)
		return false
	}
	c.buf.ReplaceAll(formatted)
	if c.cfg.OnChange != nil {
		c.cfg.OnChange(formatted)
	}
	return true
}

func (m Model) Buffer() *buffer.Buffer { return m.c.buf }

// Value returns the editor's current text.
func (m Model) Value() string { return m.c.buf.Text() }

// SetValue pushes the host value into the editor. No callbacks fire.
func (m Model) SetValue(text string) Model {
	m.c.buf.SyncText(text)
	m.completion = CompletionState{}
	m.syncFromBuffer()
	m.followCursor()
	return m
}

// Edit replaces the whole text as if the user had typed it: the change is
// undoable and OnChange and OnValidate fire when the text differs.
func (m Model) Edit(text string) Model {
	if m.c.cfg.Disabled {
		return m
	}
	before := m.c.buf.TextVersion()
	m.completion = CompletionState{}
	m.c.buf.ReplaceAll(text)
	if m.c.buf.TextVersion() != before {
		m.c.notifyChange()
	}
	m.syncFromBuffer()
	m.followCursor()
	return m
}

// FormatDocument re-serializes the buffer with two-space indentation and
// reports the result through OnChange. Unparseable text and a disabled editor
// leave the buffer untouched.
func (m Model) FormatDocument() Model {
	if m.c.formatDocument() {
		m.syncFromBuffer()
		m.followCursor()
	}
	return m
}

// Mount subscribes the editor to format intents on its bus. Calling Mount on
// a mounted editor does nothing.
func (m Model) Mount() {
	c := m.c
	if c.unsubscribe != nil {
		return
	}
	c.unsubscribe = c.cfg.Bus.Subscribe(intent.Format, func() { c.formatDocument() })
}

// Unmount releases the format subscription. It is safe to call repeatedly.
func (m Model) Unmount() {
	if m.c.unsubscribe != nil {
		m.c.unsubscribe()
		m.c.unsubscribe = nil
	}
}

func (m Model) Mounted() bool { return m.c.unsubscribe != nil }

func (m Model) Bus() *intent.Bus { return m.c.cfg.Bus }

func (m Model) Disabled() bool { return m.c.cfg.Disabled }

func (m Model) SetDisabled(disabled bool) Model {
	m.c.cfg.Disabled = disabled
	return m
}

// SetInvalid sets the externally supplied validity shown in the status bar.
func (m Model) SetInvalid(invalid bool) Model {
	m.c.cfg.Invalid = invalid
	return m
}

func (m Model) SetStats(s *Stats) Model {
	m.c.cfg.Stats = s
	return m
}

func (m Model) Theme() Theme { return m.c.cfg.Theme }

func (m Model) SetTheme(t Theme) Model {
	if t != ThemeDark {
		t = ThemeLight
	}
	m.c.cfg.Theme = t
	m.c.applyTheme()
	m.find.input.PromptStyle = m.c.style.Prompt
	m.rebuildContent()
	return m
}

// Status returns the readout for the current text.
func (m Model) Status() StatusInfo {
	return Status(m.c.buf.Text(), StatusProps{
		FileName: m.c.cfg.FileName,
		Invalid:  m.c.cfg.Invalid,
		Stats:    m.c.cfg.Stats,
	})
}

func (m Model) Init() tea.Cmd { return nil }

// SetSize sets the width and the height available to the editor. The
// editor's own height follows Config.Height within that limit.
func (m Model) SetSize(width, height int) Model {
	m.width = maxInt(width, 0)
	m.height = maxInt(height, 0)
	m.layoutViewport()
	m.rebuildContent()
	m.followCursorWithForce(true)
	return m
}

// Rows returns the number of text rows the editor shows.
func (m Model) Rows() int { return m.viewport.Height }

func (m *Model) layoutViewport() {
	avail := 0
	if m.height > 0 {
		avail = maxInt(m.height-1, 1)
	}
	rows := Rows(m.c.cfg.Height, avail)
	if m.find.open {
		rows = maxInt(rows-1, 1)
	}
	m.viewport.Width = m.width
	m.viewport.Height = rows
}

func (m Model) Focus() Model {
	if !m.focused {
		m.focused = true
		m.rebuildContent()
		m.followCursorWithForce(true)
	}
	return m
}

func (m Model) Blur() Model {
	if m.focused {
		m.focused = false
		m.rebuildContent()
	}
	return m
}

func (m Model) Focused() bool { return m.focused }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	// The host or a bus listener may have changed the buffer since the last
	// update.
	if m.syncFromBuffer() {
		m.completion = CompletionState{}
		m.followCursor()
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.SetSize(msg.Width, msg.Height), nil
	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		// Don't force-follow cursor here; allow manual scrolling via mouse wheel.
		return m, cmd
	case tea.KeyMsg:
		return m.updateKey(msg)
	default:
		if m.find.open {
			var cmd tea.Cmd
			m.find.input, cmd = m.find.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}
}

func (m Model) View() string {
	// m is a copy: syncing here only affects this frame.
	m.syncFromBuffer()

	parts := []string{
		renderStatusBar(m.c.style, m.Status(), m.c.cfg.KeyMap, m.width),
		m.withCompletionPopup(m.viewport.View()),
	}
	if m.find.open {
		parts = append(parts, m.renderFind())
	}
	return strings.Join(parts, "\n")
}

func (m *Model) syncFromBuffer() (changed bool) {
	ver := m.c.buf.Version()
	cur := m.c.buf.Cursor()
	if ver == m.lastBufVersion && cur == m.lastCursor {
		return false
	}
	m.lastBufVersion = ver
	m.lastCursor = cur
	m.c.revealRow(cur.Row)
	m.rebuildContent()
	return true
}

func (m *Model) rebuildContent() {
	m.viewport.SetContent(m.renderContent())
}

func (m *Model) followCursor() { m.followCursorWithForce(false) }

func (m *Model) followCursorWithForce(force bool) {
	row := m.cursorVisualRow
	h := m.viewport.Height - m.viewport.Style.GetVerticalFrameSize()
	if h <= 0 || row < 0 {
		return
	}

	y := m.viewport.YOffset
	if row < y {
		m.viewport.SetYOffset(row)
		return
	}
	if row >= y+h {
		m.viewport.SetYOffset(row - h + 1)
		return
	}
	if force && y > 0 && y+h > m.viewport.TotalLineCount() {
		m.viewport.SetYOffset(maxInt(m.viewport.TotalLineCount()-h, 0))
	}
}
