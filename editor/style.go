package editor

import "github.com/charmbracelet/lipgloss"

// Style controls the editor's rendering.
type Style struct {
	Gutter        lipgloss.Style
	LineNum       lipgloss.Style
	LineNumActive lipgloss.Style
	FoldMarker    lipgloss.Style

	// ActiveLine is laid under the cursor's rows, across the full width when
	// it sets a background.
	ActiveLine lipgloss.Style

	Text      lipgloss.Style
	Selection lipgloss.Style
	Cursor    lipgloss.Style

	StatusBar     lipgloss.Style
	StatusFile    lipgloss.Style
	StatusMuted   lipgloss.Style
	StatusValid   lipgloss.Style
	StatusInvalid lipgloss.Style
	StatusKey     lipgloss.Style

	Prompt     lipgloss.Style
	PromptNote lipgloss.Style

	CompletionItem     lipgloss.Style
	CompletionSelected lipgloss.Style
}

type palette struct {
	fg, muted, activeNum  string
	selection, statusBg   string
	valid, invalid, kbdBg string
	activeLine, popupBg   string
}

var (
	lightPalette = palette{
		fg:        "#24292f",
		muted:     "#6e7781",
		activeNum: "#24292f",
		selection: "#b6e3ff",
		statusBg:  "#f6f8fa",
		valid:     "#1a7f37",
		invalid:   "#cf222e",
		kbdBg:     "#eaeef2",

		activeLine: "#f3f6f9",
		popupBg:    "#eaeef2",
	}
	darkPalette = palette{
		fg:        "#c9d1d9",
		muted:     "#8b949e",
		activeNum: "#f0f6fc",
		selection: "#264f78",
		statusBg:  "#161b22",
		valid:     "#3fb950",
		invalid:   "#f85149",
		kbdBg:     "#30363d",

		activeLine: "#1c2128",
		popupBg:    "#21262d",
	}
)

// DefaultStyle returns the light theme style.
func DefaultStyle() Style {
	return ThemeStyle(ThemeLight)
}

// ThemeStyle returns the style for t using the default renderer.
func ThemeStyle(t Theme) Style {
	return NewStyle(lipgloss.DefaultRenderer(), t)
}

// NewStyle builds the style for t with styles bound to r.
func NewStyle(r *lipgloss.Renderer, t Theme) Style {
	p := lightPalette
	if t == ThemeDark {
		p = darkPalette
	}

	gutter := r.NewStyle().Foreground(lipgloss.Color(p.muted))
	muted := r.NewStyle().Foreground(lipgloss.Color(p.muted))
	bar := r.NewStyle().Background(lipgloss.Color(p.statusBg))
	return Style{
		Gutter:        gutter,
		LineNum:       gutter,
		LineNumActive: r.NewStyle().Foreground(lipgloss.Color(p.activeNum)).Bold(true),
		FoldMarker:    muted,
		ActiveLine:    r.NewStyle().Background(lipgloss.Color(p.activeLine)),

		Text:      r.NewStyle().Foreground(lipgloss.Color(p.fg)),
		Selection: r.NewStyle().Background(lipgloss.Color(p.selection)),
		Cursor:    r.NewStyle().Reverse(true),

		StatusBar:     bar,
		StatusFile:    muted,
		StatusMuted:   muted,
		StatusValid:   r.NewStyle().Foreground(lipgloss.Color(p.valid)).Bold(true),
		StatusInvalid: r.NewStyle().Foreground(lipgloss.Color(p.invalid)).Bold(true),
		StatusKey:     r.NewStyle().Foreground(lipgloss.Color(p.fg)).Background(lipgloss.Color(p.kbdBg)).Padding(0, 1),

		Prompt:     r.NewStyle().Foreground(lipgloss.Color(p.fg)).Bold(true),
		PromptNote: muted,

		CompletionItem:     r.NewStyle().Foreground(lipgloss.Color(p.fg)).Background(lipgloss.Color(p.popupBg)),
		CompletionSelected: r.NewStyle().Foreground(lipgloss.Color(p.fg)).Background(lipgloss.Color(p.selection)).Bold(true),
	}
}

// ChromaStyleName returns the syntax color scheme used for t.
func ChromaStyleName(t Theme) string {
	if t == ThemeDark {
		return "github-dark"
	}
	return "github"
}
