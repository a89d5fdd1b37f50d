package editor

import (
	"github.com/charmbracelet/log"

	"github.com/iw2rmb/navedit/intent"
)

// DefaultHeight is the sizing hint used when Config.Height is empty.
const DefaultHeight = "500px"

// DefaultFileName is the status label used when Config.FileName is empty.
const DefaultFileName = "navigation.json"

// Theme selects the editor palette and syntax colors.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Stats is the host-computed document summary shown in the status bar.
type Stats struct {
	Categories int
	Items      int
	Size       int
}

// Config configures the editor Model.
type Config struct {
	// Value is the host-owned document text.
	Value string

	// OnChange receives the full buffer after every text change and after
	// every successful format.
	OnChange func(text string)
	// OnValidate receives the strict parse verdict after every text change.
	OnValidate func(valid bool, errors []string)

	// Disabled makes the surface read-only. Intent shortcuts still fire.
	Disabled bool

	// Height is a sizing hint: "<n>px", "<n>" rows or "<n>%".
	Height string

	// Invalid and Stats feed the status readout. They are supplied by the host
	// and are independent of OnValidate.
	Invalid bool
	Stats   *Stats

	Theme    Theme
	FileName string

	// Bus carries intents. Nil means intent.Default().
	Bus *intent.Bus

	KeyMap    KeyMap
	Style     *Style
	Clipboard Clipboard

	// Highlighter overrides the JSON syntax highlighter.
	Highlighter Highlighter

	// Logger receives debug output. Nil means the package default.
	Logger *log.Logger

	// Forwarded to buffer.Options.
	HistoryLimit int

	// TabWidth is both the number of spaces inserted by tab and the display
	// width of literal tabs.
	TabWidth int

	// HideLineNums turns off the line-number gutter and its fold markers.
	HideLineNums bool

	// Completion lists key suggestions. Nil means the navigation document's
	// property names, unless DisableCompletion is set.
	Completion        CompletionSource
	DisableCompletion bool
	CompletionKeyMap  CompletionKeyMap
}

func (c Config) withDefaults() Config {
	if c.Height == "" {
		c.Height = DefaultHeight
	}
	if c.FileName == "" {
		c.FileName = DefaultFileName
	}
	if c.Theme != ThemeDark {
		c.Theme = ThemeLight
	}
	if c.Bus == nil {
		c.Bus = intent.Default()
	}
	if c.KeyMap.isZero() {
		c.KeyMap = DefaultKeyMap()
	}
	if c.DisableCompletion {
		c.Completion = nil
	} else if c.Completion == nil {
		c.Completion = KeyCompletions(navigationKeys())
	}
	if c.CompletionKeyMap.isZero() {
		c.CompletionKeyMap = DefaultCompletionKeyMap()
	}
	if c.TabWidth <= 0 {
		c.TabWidth = 2
	}
	return c
}
