package main

import (
	"github.com/spf13/cobra"

	"github.com/zeptools/gw-invoice/api"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gw-invoice",
		Short: "Invoicing backend with a PDF layout engine",
		Long: `gw-invoice serves the invoice, receipt and template API and renders
documents as single-page A4 PDFs.

The render subcommand lays out one document offline from JSON files,
without any database.`,
		Version:       api.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newRenderCmd())
	return root
}
