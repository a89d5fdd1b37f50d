package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/iw2rmb/navedit/editor"
	"github.com/iw2rmb/navedit/internal/app"
	"github.com/iw2rmb/navedit/internal/config"
	"github.com/iw2rmb/navedit/internal/logging"
	"github.com/iw2rmb/navedit/internal/store"
)

// ErrNotTerminal is returned by edit when stdin or stdout is not a terminal.
var ErrNotTerminal = errors.New("edit needs an interactive terminal")

// newDocument seeds a document that does not exist yet.
const newDocument = "{\n  \"navigationItems\": []\n}"

func newEditCommand(opts *globalOptions) *cobra.Command {
	var (
		theme    string
		height   string
		readOnly bool
	)

	cmd := &cobra.Command{
		Use:   "edit [file]",
		Short: "Edit the navigation document in the terminal",
		Long: `Open the navigation document in a full-screen editor.

ctrl+s saves, ctrl+r reloads from disk, ctrl+d writes a copy to the export
directory and alt+shift+f (or f2) formats. f1 lists every shortcut and
ctrl+q quits.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts, args, func(c *config.Config) {
				if cmd.Flags().Changed("theme") {
					c.Theme = theme
				}
				if cmd.Flags().Changed("height") {
					c.Height = height
				}
			})
			if err != nil {
				return err
			}
			if !isInteractive() {
				return ErrNotTerminal
			}
			return runEdit(cmd, cfg, readOnly)
		},
	}

	cmd.Flags().StringVar(&theme, "theme", "", "color theme: auto, light, dark")
	cmd.Flags().StringVar(&height, "height", "", "editor height: <n>px, <n> rows or <n>%")
	cmd.Flags().BoolVar(&readOnly, "read-only", false, "open without allowing edits")

	return cmd
}

func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func runEdit(cmd *cobra.Command, cfg *config.Config, readOnly bool) error {
	logger, closer, err := sessionLogger(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()
	ctx := logging.WithLogger(cmd.Context(), logger)

	st := store.New(cfg.Document, store.Options{ExportDir: cfg.ExportDir, Compact: cfg.ExportCompact})
	text, err := st.Load(ctx)
	switch {
	case errors.Is(err, store.ErrNotFound):
		logger.Info("starting new document", logging.FieldPath, cfg.Document)
		text = newDocument
	case err != nil:
		return err
	}

	var clip editor.Clipboard
	if editor.SystemClipboardAvailable() {
		clip = editor.SystemClipboard{}
	}

	m := app.New(ctx, text, app.Options{
		Store:     st,
		Theme:     app.ResolveTheme(cfg.Theme),
		Height:    cfg.Height,
		Logger:    logger,
		Clipboard: clip,
		ReadOnly:  readOnly,
	})
	final, err := app.Run(ctx, m)
	if err != nil {
		return err
	}
	if final.Dirty() {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: quit with unsaved changes")
	}
	return nil
}

// sessionLogger keeps logs off the alternate screen: they go to the
// configured file, or nowhere.
func sessionLogger(cfg *config.Config) (*log.Logger, io.Closer, error) {
	if cfg.LogFile == "" {
		return logging.NewWithWriter(io.Discard, cfg.LogLevel), io.NopCloser(nil), nil
	}
	return logging.NewFile(cfg.LogFile, cfg.LogLevel)
}
