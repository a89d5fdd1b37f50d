package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iw2rmb/navedit/internal/store"
	"github.com/iw2rmb/navedit/jsondoc"
)

// ErrInvalidDocument is returned by format when the text does not parse.
var ErrInvalidDocument = errors.New("document is not valid JSON")

func newFormatCommand(opts *globalOptions) *cobra.Command {
	var (
		write   bool
		compact bool
	)

	cmd := &cobra.Command{
		Use:   "format [file]",
		Short: "Re-indent the navigation document",
		Long: `Print the document re-serialized with two-space indentation, the
same output as the editor's format shortcut. --write replaces the file
atomically instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts, args, nil)
			if err != nil {
				return err
			}
			if write && cfg.Document == "-" {
				return fmt.Errorf("--write needs a file, not stdin")
			}
			text, err := readDocument(cmd, cfg.Document)
			if err != nil {
				return err
			}

			formatter := jsondoc.Format
			if compact {
				formatter = jsondoc.Compact
			}
			out, err := formatter(text)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
			}

			if write {
				if out == text {
					return nil
				}
				return store.New(cfg.Document, store.Options{}).Save(cmd.Context(), out)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the result back to the file")
	cmd.Flags().BoolVar(&compact, "compact", false, "remove all insignificant whitespace")

	return cmd
}
