package editor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	graphemeutil "github.com/iw2rmb/navedit/internal/grapheme"
)

// StatusProps is the host-supplied part of the status readout.
type StatusProps struct {
	FileName string
	Invalid  bool
	Stats    *Stats
}

// StatusInfo is what the status bar displays.
type StatusInfo struct {
	FileName string

	// HasCounts is false for an empty value; Lines and Chars are then zero.
	HasCounts bool
	Lines     int
	Chars     int

	Valid bool
	// Stats is shown only when Valid.
	Stats *Stats
}

// Status derives the status readout for value. It does not parse value:
// validity comes from props alone.
func Status(value string, props StatusProps) StatusInfo {
	info := StatusInfo{
		FileName: props.FileName,
		Valid:    !props.Invalid,
	}
	if info.FileName == "" {
		info.FileName = DefaultFileName
	}
	if value != "" {
		info.HasCounts = true
		info.Lines = strings.Count(value, "\n") + 1
		info.Chars = graphemeutil.Count(value)
	}
	if info.Valid && props.Stats != nil {
		s := *props.Stats
		info.Stats = &s
	}
	return info
}

// ValidityLabel is the readout's validity segment without styling.
func (s StatusInfo) ValidityLabel() string {
	if !s.Valid {
		return "● invalid"
	}
	if s.Stats == nil {
		return "● valid"
	}
	return fmt.Sprintf("● valid · %d categories · %d items", s.Stats.Categories, s.Stats.Items)
}

func (s StatusInfo) String() string {
	parts := []string{s.FileName}
	if s.HasCounts {
		parts = append(parts, fmt.Sprintf("%d lines · %d chars", s.Lines, s.Chars))
	}
	parts = append(parts, s.ValidityLabel())
	return strings.Join(parts, "  ")
}

func renderStatusBar(st Style, info StatusInfo, km KeyMap, width int) string {
	sep := st.StatusBar.Render("  ")

	left := []string{st.StatusFile.Inherit(st.StatusBar).Render(info.FileName)}
	if info.HasCounts {
		counts := fmt.Sprintf("%d lines · %d chars", info.Lines, info.Chars)
		left = append(left, st.StatusMuted.Inherit(st.StatusBar).Render(counts))
	}
	if info.Valid {
		v := st.StatusValid.Inherit(st.StatusBar).Render("● valid")
		if info.Stats != nil {
			v += st.StatusMuted.Inherit(st.StatusBar).Render(
				fmt.Sprintf(" · %d categories · %d items", info.Stats.Categories, info.Stats.Items))
		}
		left = append(left, v)
	} else {
		left = append(left, st.StatusInvalid.Inherit(st.StatusBar).Render("● invalid"))
	}
	leftStr := st.StatusBar.Render(" ") + strings.Join(left, sep)

	var hints []string
	for _, b := range km.ShortHelp() {
		h := b.Help()
		if h.Key == "" {
			continue
		}
		hints = append(hints, st.StatusKey.Render(h.Key)+st.StatusMuted.Inherit(st.StatusBar).Render(" "+h.Desc))
	}
	rightStr := strings.Join(hints, sep) + st.StatusBar.Render(" ")

	if width <= 0 {
		return leftStr + sep + rightStr
	}
	gap := width - lipgloss.Width(leftStr) - lipgloss.Width(rightStr)
	if gap < 1 {
		// Hints are dropped before the document readout.
		line := leftStr
		if w := lipgloss.Width(line); w < width {
			line += st.StatusBar.Render(strings.Repeat(" ", width-w))
		}
		return ansi.Truncate(line, width, "")
	}
	return leftStr + st.StatusBar.Render(strings.Repeat(" ", gap)) + rightStr
}
