package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newSyncCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "sync", Short: "Reconcile with the remote store"}

	pushCmd := &cobra.Command{
		Use:   "push",
		Short: "Upsert local products, customers and sales to the remote store",
		Args:  cobra.NoArgs,
		RunE: run(false, func(ctx context.Context, cmd *cobra.Command, a *app, _ []string) error {
			if a.remote != nil {
				if err := a.remote.Migrate(ctx); err != nil {
					return err
				}
			}
			if err := a.reg.Push(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "push completed")
			return nil
		}),
	}

	pullCmd := &cobra.Command{
		Use:   "pull",
		Short: "Replace local products, customers and sales with the remote copy",
		Args:  cobra.NoArgs,
		RunE: run(true, func(ctx context.Context, cmd *cobra.Command, a *app, _ []string) error {
			if err := a.reg.Pull(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pulled %d products, %d customers, %d sales\n",
				len(a.reg.Products()), len(a.reg.Customers()), len(a.reg.Sales()))
			return nil
		}),
	}

	cmd.AddCommand(pushCmd, pullCmd)
	return cmd
}

func newExportCmd() *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the whole snapshot as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: run(false, func(_ context.Context, cmd *cobra.Command, a *app, _ []string) error {
			f, err := formatFor(format, out)
			if err != nil {
				return err
			}
			var w io.Writer = cmd.OutOrStdout()
			if out != "" {
				file, err := os.Create(out)
				if err != nil {
					return err
				}
				defer file.Close()
				w = file
			}
			return a.reg.Export(w, f)
		}),
	}
	cmd.Flags().StringVar(&format, "format", "", "json or yaml; inferred from --out when omitted")
	cmd.Flags().StringVar(&out, "out", "", "Write to file instead of stdout")
	return cmd
}

func newImportCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the sections present in a JSON or YAML document",
		Args:  cobra.ExactArgs(1),
		RunE: run(true, func(_ context.Context, _ *cobra.Command, a *app, args []string) error {
			f, err := formatFor(format, args[0])
			if err != nil {
				return err
			}
			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()
			return a.reg.Import(file, f)
		}),
	}
	cmd.Flags().StringVar(&format, "format", "", "json or yaml; inferred from the file name when omitted")
	return cmd
}
