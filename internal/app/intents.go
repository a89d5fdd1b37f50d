package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/navedit/intent"
	"github.com/iw2rmb/navedit/internal/logging"
)

type savedMsg struct{ text string }

type exportedMsg struct{ path string }

type loadedMsg struct{ text string }

type opErrMsg struct {
	op  string
	err error
}

// drainIntents turns intents received since the last update into commands.
// Listeners only queue names; the store work runs off the update loop.
func (m Model) drainIntents() []tea.Cmd {
	pending := m.host.pending
	m.host.pending = nil
	if len(pending) == 0 {
		return nil
	}

	cmds := make([]tea.Cmd, 0, len(pending))
	for _, name := range pending {
		m.logger.Debug("intent received", logging.FieldIntent, string(name))
		if m.store == nil {
			continue
		}
		switch name {
		case intent.Save:
			cmds = append(cmds, m.saveCmd(m.host.value))
		case intent.Refresh:
			cmds = append(cmds, m.refreshCmd())
		case intent.Download:
			cmds = append(cmds, m.downloadCmd(m.host.value))
		}
	}
	return cmds
}

func (m Model) saveCmd(text string) tea.Cmd {
	ctx, st := m.ctx, m.store
	return func() tea.Msg {
		if err := st.Save(ctx, text); err != nil {
			return opErrMsg{op: "save", err: err}
		}
		return savedMsg{text: text}
	}
}

func (m Model) refreshCmd() tea.Cmd {
	ctx, st := m.ctx, m.store
	return func() tea.Msg {
		text, err := st.Load(ctx)
		if err != nil {
			return opErrMsg{op: "refresh", err: err}
		}
		return loadedMsg{text: text}
	}
}

func (m Model) downloadCmd(text string) tea.Cmd {
	ctx, st := m.ctx, m.store
	return func() tea.Msg {
		path, err := st.Export(ctx, text)
		if err != nil {
			return opErrMsg{op: "download", err: err}
		}
		return exportedMsg{path: path}
	}
}
