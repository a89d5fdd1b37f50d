package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/iw2rmb/navedit/internal/logging"
	"github.com/iw2rmb/navedit/internal/store"
	"github.com/iw2rmb/navedit/navigation"
)

func newCheckCommand(opts *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Validate the navigation document",
		Long: `Parse the document and check it against the navigation rules.

Each problem is printed as "path: message". The exit code is 1 when any
problem is found.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts, args, nil)
			if err != nil {
				return err
			}
			text, err := readDocument(cmd, cfg.Document)
			if err != nil {
				return err
			}

			report := navigation.Evaluate(text)
			logging.FromContext(cmd.Context()).Debug("document checked",
				logging.FieldPath, cfg.Document,
				logging.FieldValid, report.Valid,
				logging.FieldProblems, len(report.Problems),
			)
			if asJSON {
				if err := writeReportJSON(cmd.OutOrStdout(), report); err != nil {
					return err
				}
			} else {
				writeReport(cmd.OutOrStdout(), cfg.Document, report)
			}
			if !report.Valid {
				return ErrProblemsFound
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")

	return cmd
}

// readDocument reads path, or stdin when path is "-".
func readDocument(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	return store.New(path, store.Options{}).Load(cmd.Context())
}

func writeReport(w io.Writer, path string, r navigation.Report) {
	for _, p := range r.Problems {
		fmt.Fprintf(w, "%s: %s\n", path, p)
	}
	if r.Stats != nil {
		fmt.Fprintf(w, "%d categories · %d items · %d bytes\n", r.Stats.Categories, r.Stats.Items, r.Stats.Size)
	}
	if r.Valid {
		fmt.Fprintln(w, "● valid")
	} else {
		fmt.Fprintf(w, "● invalid (%d problems)\n", len(r.Problems))
	}
}

func writeReportJSON(w io.Writer, r navigation.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}
