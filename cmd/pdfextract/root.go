package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/pdfextract/internal/config"
	"github.com/jackzampolin/pdfextract/internal/home"
	"github.com/jackzampolin/pdfextract/internal/providers"
	"github.com/jackzampolin/pdfextract/internal/scan"
	"github.com/jackzampolin/pdfextract/version"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	cfgFile string
	homeDir string
	apiKey  string
	verbose bool
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)

	cmd, err := root.ExecuteContextC(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		var ue *usageError
		if errors.As(err, &ue) {
			fmt.Fprint(stderr, cmd.UsageString())
		}
		return exitCode(err)
	}
	return 0
}

// usageError marks a malformed invocation; usage is printed after it.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// checkArgs wraps a cobra validator so its failures print usage.
func checkArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}

// exitCode maps a failed run to its process status: 2 when the model call
// itself failed, 3 when no usable JSON came back, 1 for everything else.
func exitCode(err error) int {
	switch scan.StageOf(err) {
	case scan.StageCompletion:
		return 2
	case scan.StageExtract:
		return 3
	default:
		return 1
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "pdfextract <pdf>",
		Short: "Extract the content of a PDF as JSON using OpenAI",
		Long: `pdfextract uploads a PDF to the OpenAI Files API, asks the Responses API
for a JSON description of the document and prints that JSON to stdout.

The API key is read from OPENAI_API_KEY (a .env file in the working
directory is honored), from the config file or from --api-key.

Exit codes:
  0  success
  1  usage, missing file, missing API key, upload or other failure
  2  the completion request failed
  3  no JSON could be extracted from the response

Examples:
  pdfextract report.pdf
  pdfextract report.pdf > report.json
  pdfextract invoice factura.pdf --pretty`,
		Version:       version.GitRelease,
		Args:          checkArgs(cobra.ExactArgs(1)),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDocument(cmd, flags, args[0])
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	rootCmd.PersistentFlags().StringVar(
		&flags.cfgFile, "config", "", "config file (default: ./config.yaml or ~/.pdfextract/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&flags.homeDir, "home", "", "pdfextract home directory (default: ~/.pdfextract)",
	)
	rootCmd.PersistentFlags().StringVar(
		&flags.apiKey, "api-key", "", "OpenAI API key (overrides OPENAI_API_KEY and the config file)",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&flags.verbose, "verbose", "v", false, "enable debug logging on stderr",
	)

	rootCmd.AddCommand(newInvoiceCmd(flags))
	rootCmd.AddCommand(newConfigCmd(flags))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// setup loads configuration and builds the stderr logger. It runs after the
// PDF path has been checked and before any network call.
func setup(cmd *cobra.Command, flags *globalFlags) (*config.Config, *slog.Logger, error) {
	h, err := home.New(flags.homeDir)
	if err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load(config.Options{
		ConfigFile: flags.cfgFile,
		SearchDir:  h.Path(),
		DotEnvFile: ".env",
		APIKey:     flags.apiKey,
	})
	if err != nil {
		return nil, nil, err
	}

	level := cfg.SlogLevel()
	if flags.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: level,
	}))
	return cfg, logger, nil
}

func checkPDF(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("PDF file not found: %s", path)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a PDF file", path)
	}
	return nil
}

func runDocument(cmd *cobra.Command, flags *globalFlags, path string) error {
	if err := checkPDF(path); err != nil {
		return err
	}

	cfg, logger, err := setup(cmd, flags)
	if err != nil {
		return err
	}

	client := providers.NewClient(providers.Config{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Timeout:    cfg.Timeout,
		MaxRetries: cfg.MaxRetries,
		Logger:     logger,
	})
	scanner := scan.NewDocumentScanner(scan.DocumentConfig{
		Files:       client,
		Responses:   client,
		Model:       cfg.Document.Model,
		Instruction: cfg.Document.Instruction,
		Purpose:     cfg.Document.Purpose,
		Logger:      logger,
	})

	payload, err := scanner.Scan(cmd.Context(), path)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), payload)
	return err
}
