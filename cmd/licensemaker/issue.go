package main

import (
	"context"
	"fmt"

	"github.com/MacJediWizard/licensemaker/internal/license"
	"github.com/MacJediWizard/licensemaker/internal/licfile"
	"github.com/spf13/cobra"
)

func newIssueCmd(a *app) *cobra.Command {
	var (
		req        license.Request
		modules    string
		allModules bool
		output     string
		force      bool
		printBlob  bool
	)

	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue a license file",
		Long: `Issue a signed license and write it to a .lic file.

The modular scheme needs --customer and at least one module:
  licensemaker issue --customer TARENJ --start 2025-07-30 --end 2025-09-15 --modules auth,admin

The legacy scheme only needs the dates:
  licensemaker issue --scheme legacy --start 2025-07-30 --end 2025-09-15`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, cleanup, err := a.openService(nil)
			if err != nil {
				return err
			}
			defer cleanup()

			req.Modules = license.ParseModules(modules)
			if allModules {
				req.Modules = svc.Issuer().Catalog().Modules()
			}

			issued, err := svc.Issue(context.Background(), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if printBlob {
				fmt.Fprint(out, issued.Blob)
				return nil
			}

			path, err := licfile.Write(output, issued.Blob, force)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "License written to %s\n", path)
			fmt.Fprintf(out, "  ID:          %s\n", issued.ID)
			fmt.Fprintf(out, "  Scheme:      %s\n", issued.Scheme)
			fmt.Fprintf(out, "  Algorithm:   %s\n", issued.Algorithm)
			if issued.Record.CustomerID != "" {
				fmt.Fprintf(out, "  Customer:    %s\n", issued.Record.CustomerID)
			}
			fmt.Fprintf(out, "  Valid:       %s to %s\n", issued.Record.StartDate, issued.Record.EndDate)
			if len(issued.Record.Modules) > 0 {
				fmt.Fprintf(out, "  Modules:     %v\n", issued.Record.ModuleNames())
			}
			fmt.Fprintf(out, "  Fingerprint: %s\n", issued.Fingerprint())
			return nil
		},
	}

	cmd.Flags().StringVar(&req.CustomerID, "customer", "", "customer identifier (modular scheme)")
	cmd.Flags().StringVar(&req.StartDate, "start", "", "first valid day, YYYY-MM-DD")
	cmd.Flags().StringVar(&req.EndDate, "end", "", "last valid day, YYYY-MM-DD")
	cmd.Flags().StringVar(&modules, "modules", "", "comma-separated module list (modular scheme)")
	cmd.Flags().BoolVar(&allModules, "all-modules", false, "license every module in the catalog")
	cmd.Flags().StringVarP(&output, "output", "o", "license"+licfile.Extension, "output file; .lic is appended when missing")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing output file")
	cmd.Flags().BoolVar(&printBlob, "print", false, "print the license to stdout instead of writing a file")

	return cmd
}
