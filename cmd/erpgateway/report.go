package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/garyjia/erp-gateway/internal/application/service"
	"github.com/garyjia/erp-gateway/internal/container"
	"github.com/garyjia/erp-gateway/pkg/utils"
)

type reportOptions struct {
	params service.ReportParams
	format string
}

func newReportCmd(a *app) *cobra.Command {
	opts := &reportOptions{}

	cmd := &cobra.Command{
		Use:       "report <income-statement|cash-flow|balance-sheet>",
		Short:     "Build a financial report",
		Long:      "Builds a report from submitted ERP documents and prints it as JSON or writes an xlsx workbook to the export directory.",
		Example:   "  erpgateway report income-statement --company Acme --from 2024-01-01 --to 2024-01-31\n  erpgateway report balance-sheet --company Acme --format xlsx",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{service.ReportIncomeStatement, service.ReportCashFlow, service.ReportBalanceSheet},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.report(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.params.Company, "company", "", "Company to report on")
	cmd.Flags().StringVar(&opts.params.FromDate, "from", "", "Period start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.params.ToDate, "to", "", "Period end, or balance sheet cutoff (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&opts.params.Detailed, "detailed", false, "Include the underlying documents")
	cmd.Flags().StringVar(&opts.format, "format", "json", "Output format: json or xlsx")
	_ = cmd.MarkFlagRequired("company")

	return cmd
}

func (a *app) report(ctx context.Context, out io.Writer, kind string, opts *reportOptions) error {
	if opts.format != "json" && opts.format != "xlsx" {
		return fmt.Errorf("unknown format %q, use json or xlsx", opts.format)
	}

	erp, err := container.ProvideERP(&a.cfg.ERP, a.logger)
	if err != nil {
		return err
	}
	exports, err := container.ProvideStorage(&a.cfg.Storage, a.logger)
	if err != nil {
		return err
	}
	services, err := container.ProvideServices(&container.ServiceDeps{
		Client:      erp.Client,
		DB:          erp.DB,
		Exports:     exports,
		Concurrency: a.cfg.ERP.MaxConcurrency,
		PageLength:  a.cfg.ERP.PageLength,
		Logger:      utils.NewKeyValueLogger(a.logger),
	})
	if err != nil {
		return err
	}

	params := opts.params
	var (
		report   interface{}
		workbook func() ([]byte, error)
	)
	switch kind {
	case service.ReportIncomeStatement:
		r, err := services.Reports.IncomeStatement(ctx, params)
		if err != nil {
			return err
		}
		report, workbook = r, func() ([]byte, error) { return services.Exports.IncomeStatementWorkbook(r) }
	case service.ReportCashFlow:
		r, err := services.Reports.CashFlow(ctx, params)
		if err != nil {
			return err
		}
		report, workbook = r, func() ([]byte, error) { return services.Exports.CashFlowWorkbook(r) }
	case service.ReportBalanceSheet:
		r, err := services.Reports.BalanceSheet(ctx, params)
		if err != nil {
			return err
		}
		params.ToDate = r.ToDate
		report, workbook = r, func() ([]byte, error) { return services.Exports.BalanceSheetWorkbook(r) }
	default:
		return fmt.Errorf("unknown report %q", kind)
	}

	if opts.format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	data, err := workbook()
	if err != nil {
		return err
	}
	path, err := services.Exports.Save(ctx, service.ReportFileName(kind, params), data)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Report written to %s\n", path)
	return nil
}
