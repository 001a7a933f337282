package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/MacJediWizard/licensemaker/internal/config"
	"github.com/MacJediWizard/licensemaker/internal/license"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage licensemaker configuration",
	}

	cmd.AddCommand(
		newConfigShowCmd(a),
		newConfigInitCmd(a),
		newConfigSetKeyCmd(a),
	)

	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := yaml.Marshal(a.cfg)
			if err != nil {
				return fmt.Errorf("marshal config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# Config file: %s\n", a.configPath)
			fmt.Fprint(out, string(data))
			return nil
		},
	}
}

func newConfigInitCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with default values",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(a.configPath); err == nil && !force {
				return fmt.Errorf("%s already exists; use --force to overwrite", a.configPath)
			}

			cfg := config.Default()
			if err := cfg.Save(a.configPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", a.configPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	return cmd
}

func newConfigSetKeyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set-key <private.pem>",
		Short: "Set the RSA private key used for signing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keyPath, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve key path: %w", err)
			}
			signer, err := license.LoadRSASigner(keyPath)
			if err != nil {
				return err
			}

			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			cfg.KeyPath = keyPath
			if err := cfg.Save(a.configPath); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Signing key set to %s (RSA-%d)\n", keyPath, signer.KeyBits())
			return nil
		},
	}
}
