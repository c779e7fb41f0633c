package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/pdfextract/internal/output"
	"github.com/jackzampolin/pdfextract/internal/providers"
	"github.com/jackzampolin/pdfextract/internal/scan"
)

func newInvoiceCmd(flags *globalFlags) *cobra.Command {
	var (
		outFile string
		pretty  bool
		format  string
	)

	cmd := &cobra.Command{
		Use:   "invoice <pdf>",
		Short: "Parse a PDF invoice into structured JSON",
		Long: `Extract the text of a PDF invoice locally and have the chat completions
API structure it into invoice fields (number, date, seller, customer, line
items, subtotal, taxes, total, payment method, notes).

The PDF must contain a text layer; scanned images are not OCR'd.

Examples:
  pdfextract invoice factura.pdf
  pdfextract invoice factura.pdf --pretty
  pdfextract invoice factura.pdf -o factura.json
  pdfextract invoice factura.pdf --format yaml`,
		Args: checkArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			f, err := output.ParseFormat(format)
			if err != nil {
				return err
			}
			if err := checkPDF(path); err != nil {
				return err
			}

			cfg, logger, err := setup(cmd, flags)
			if err != nil {
				return err
			}

			scanner, err := scan.NewInvoiceScanner(scan.InvoiceConfig{
				Chat: providers.NewChatClient(providers.ChatConfig{
					APIKey:     cfg.APIKey,
					BaseURL:    cfg.BaseURL,
					Timeout:    cfg.Timeout,
					MaxRetries: cfg.MaxRetries,
				}),
				Model:       cfg.Invoice.Model,
				Temperature: cfg.Invoice.Temperature,
				MaxTokens:   cfg.Invoice.MaxTokens,
				Logger:      logger,
			})
			if err != nil {
				return err
			}

			doc, err := scanner.Scan(cmd.Context(), path)
			if err != nil {
				return err
			}

			opts := output.Options{Format: f, Pretty: pretty}
			if outFile == "" {
				return output.Write(cmd.OutOrStdout(), doc, opts)
			}
			if err := output.WriteFile(outFile, doc, opts); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Invoice data saved to: %s\n", outFile)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outFile, "output", "o", "", "output file path (default: stdout)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "pretty print JSON output")
	cmd.Flags().StringVar(&format, "format", "json", "output format: json or yaml")

	return cmd
}
