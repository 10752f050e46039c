package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	portsrepo "github.com/SscSPs/offering_reconciliation/internal/core/ports/repositories"
	"github.com/SscSPs/offering_reconciliation/internal/core/services"
	"github.com/SscSPs/offering_reconciliation/internal/dto"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

func newRecordsCommand(deps Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Read the committed-record ledger",
	}
	cmd.AddCommand(newRecordsListCommand(deps))
	cmd.AddCommand(newRecordsShowCommand(deps))
	return cmd
}

func newRecordsListCommand(deps Deps) *cobra.Command {
	var (
		limit     int
		nextToken string
		output    string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List committed records, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params := dto.ListRecordsParams{Limit: limit}
			if nextToken != "" {
				params.NextToken = &nextToken
			}
			return withStore(cmd.Context(), deps, func(store portsrepo.OfferingRecordReader) error {
				page, err := services.NewLedgerService(store).ListRecords(cmd.Context(), params)
				if err != nil {
					return err
				}
				if output == outputTable {
					return writeRecordTable(cmd.OutOrStdout(), page)
				}
				return encode(cmd.OutOrStdout(), output, page)
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "page size (max 100)")
	cmd.Flags().StringVar(&nextToken, "next-token", "", "token printed by the previous page")
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format: table, json or yaml")
	return cmd
}

func newRecordsShowCommand(deps Deps) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "show <record-id>",
		Short: "Print one committed record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == outputTable {
				return fmt.Errorf("show supports json or yaml output")
			}
			return withStore(cmd.Context(), deps, func(store portsrepo.OfferingRecordReader) error {
				rec, err := services.NewLedgerService(store).GetRecord(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("record %s: %w", args[0], err)
				}
				return encode(cmd.OutOrStdout(), output, dto.ToCommittedRecordResponse(rec))
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputYAML, "output format: json or yaml")
	return cmd
}

func encode(w io.Writer, format string, v any) error {
	switch strings.ToLower(format) {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

func writeRecordTable(w io.Writer, page *dto.ListRecordsResponse) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RECORD ID\tSERVICE DATE\tSERVICE\tGRAND TOTAL\tCOMMITTED AT")
	for _, r := range page.Records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.RecordID, r.Service.ServiceDate, r.Service.Label, r.GrandTotal, r.CommittedAt.UTC().Format(time.RFC3339))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if page.NextToken != nil {
		fmt.Fprintf(w, "\nnext page: --next-token %s\n", *page.NextToken)
	}
	return nil
}
