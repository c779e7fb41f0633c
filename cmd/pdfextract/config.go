package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/pdfextract/internal/config"
	"github.com/jackzampolin/pdfextract/internal/home"
)

func newConfigCmd(flags *globalFlags) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage pdfextract configuration",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a default config file",
		Long: `Write a config file with the default settings.

Without a path the file goes to ~/.pdfextract/config.yaml (or the --home
directory). Existing files are left alone unless --force is given.`,
		Args: checkArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				path   string
				exists bool
			)
			if len(args) == 1 {
				path = args[0]
				_, err := os.Stat(path)
				exists = err == nil
			} else {
				h, err := home.New(flags.homeDir)
				if err != nil {
					return err
				}
				if err := h.EnsureExists(); err != nil {
					return err
				}
				path = h.ConfigPath()
				exists = h.ConfigExists()
			}

			if !force && exists {
				return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
			}
			if err := config.WriteDefault(path); err != nil {
				return err
			}

			abs, err := filepath.Abs(path)
			if err != nil {
				abs = path
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", abs)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	configCmd.AddCommand(initCmd)
	return configCmd
}
