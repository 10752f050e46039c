package cli

import (
	"fmt"
	"os"

	portsrepo "github.com/SscSPs/offering_reconciliation/internal/core/ports/repositories"
	"github.com/SscSPs/offering_reconciliation/internal/core/services"
	"github.com/SscSPs/offering_reconciliation/internal/report"
	"github.com/spf13/cobra"
)

func newReportCommand(deps Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render reconciliation reports",
	}
	cmd.AddCommand(newReportRenderCommand(deps))
	return cmd
}

func newReportRenderCommand(deps Deps) *cobra.Command {
	var (
		format string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "render <record-id>",
		Short: "Render the printable report of a committed record",
		Long: `Render the printable report of a committed record.

Text reports are written to stdout unless --out is given. Spreadsheet reports
are always written to a file: --out, or the report's own file name.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			return withStore(cmd.Context(), deps, func(store portsrepo.OfferingRecordReader) error {
				svc := services.NewReportService(store, services.WithReportOptions(deps.ReportOptions))
				doc, err := svc.RenderRecordReport(cmd.Context(), args[0], f)
				if err != nil {
					return fmt.Errorf("record %s: %w", args[0], err)
				}

				path := out
				if path == "" && f == report.FormatXLSX {
					path = doc.Filename
				}
				if path == "" {
					_, err := cmd.OutOrStdout().Write(doc.Body)
					return err
				}
				if err := os.WriteFile(path, doc.Body, 0o644); err != nil {
					return fmt.Errorf("write report: %w", err)
				}
				deps.Logger.Info("Report written", "path", path, "record_id", args[0])
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(report.FormatText), "report format: text or xlsx")
	cmd.Flags().StringVar(&out, "out", "", "file to write the report to")
	return cmd
}
