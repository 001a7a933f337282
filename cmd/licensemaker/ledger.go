package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/MacJediWizard/licensemaker/internal/ledger"
	"github.com/MacJediWizard/licensemaker/internal/maintenance"
	"github.com/spf13/cobra"
)

func newModulesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "modules",
		Short: "List the licensable modules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, m := range a.cfg.Catalog().Modules() {
				fmt.Fprintln(cmd.OutOrStdout(), m)
			}
			return nil
		},
	}
}

func newHistoryCmd(a *app) *cobra.Command {
	var (
		customer string
		limit    int
		expiring int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List issued licenses from the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.DisableLedger {
				return fmt.Errorf("ledger is disabled in configuration")
			}
			store, err := a.openLedger()
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := context.Background()
			var entries []*ledger.Entry
			if cmd.Flags().Changed("expiring") {
				scheduler := maintenance.NewExpiryScheduler(store, nil, expiring, a.logger)
				report, err := scheduler.RunNow(ctx)
				if err != nil {
					return fmt.Errorf("scan expiring licenses: %w", err)
				}
				entries = report.Entries
			} else {
				entries, err = store.List(ctx, ledger.ListOptions{CustomerID: customer, Limit: limit})
				if err != nil {
					return err
				}
			}

			printEntries(cmd, entries)
			return nil
		},
	}

	cmd.Flags().StringVar(&customer, "customer", "", "only show licenses for this customer")
	cmd.Flags().IntVar(&limit, "limit", ledger.DefaultListLimit, "maximum number of entries")
	cmd.Flags().IntVar(&expiring, "expiring", 30, "show licenses ending within this many days instead")

	return cmd
}

func printEntries(cmd *cobra.Command, entries []*ledger.Entry) {
	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No licenses found.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tISSUED\tSCHEME\tALGORITHM\tCUSTOMER\tSTART\tEND\tMODULES")
	for _, e := range entries {
		modules := make([]string, len(e.Modules))
		for i, m := range e.Modules {
			modules[i] = string(m)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.ID,
			e.IssuedAt.Local().Format(time.DateTime),
			e.Scheme,
			e.Algorithm,
			dash(e.CustomerID),
			e.StartDate,
			e.EndDate,
			dash(strings.Join(modules, ",")),
		)
	}
	w.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
