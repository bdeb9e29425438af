package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fekuna/omnipos-register/internal/apperror"
	"github.com/fekuna/omnipos-register/internal/checkout/dto"
	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/fekuna/omnipos-register/internal/money"
	"github.com/spf13/cobra"
)

type sellFlags struct {
	items    []string
	discount float64
	taxRate  float64
	payment  string
	customer string
	notes    string
}

func newSellCmd() *cobra.Command {
	var flags sellFlags
	cmd := &cobra.Command{
		Use:   "sell",
		Short: "Ring up a sale",
		Long:  "Ring up a sale. Each --item is a bare or composite SKU, optionally followed by :qty.",
		Args:  cobra.NoArgs,
		RunE: run(true, func(ctx context.Context, cmd *cobra.Command, a *app, _ []string) error {
			for _, item := range flags.items {
				code, qty, err := parseItem(item)
				if err != nil {
					return err
				}
				line, err := a.reg.AddBySKU(code)
				if err != nil {
					return err
				}
				a.reg.UpdateQuantity(line.ID, qty)
			}
			if err := a.reg.SetDiscount(flags.discount); err != nil {
				return err
			}
			if cmd.Flags().Changed("tax") {
				if err := a.reg.SetTaxRate(flags.taxRate); err != nil {
					return err
				}
			}

			s, err := a.reg.Checkout(ctx, dto.CheckoutInput{
				PaymentMethod: model.PaymentMethod(flags.payment),
				CustomerID:    flags.customer,
				Notes:         flags.notes,
			})
			if err != nil {
				return err
			}
			return printReceipt(cmd.OutOrStdout(), s, a.reg.Settings())
		}),
	}

	f := cmd.Flags()
	f.StringArrayVar(&flags.items, "item", nil, "SKU[:qty] to sell (may be repeated)")
	f.Float64Var(&flags.discount, "discount", 0, "Flat discount taken before tax")
	f.Float64Var(&flags.taxRate, "tax", 0, "Tax rate in percent; defaults to the store rate")
	f.StringVar(&flags.payment, "payment", "cash", "Payment method")
	f.StringVar(&flags.customer, "customer", "", "Customer id")
	f.StringVar(&flags.notes, "notes", "", "Sale notes")
	return cmd
}

func parseItem(s string) (string, int, error) {
	code, qtyStr, found := strings.Cut(s, ":")
	if !found {
		return code, 1, nil
	}
	qty, err := strconv.Atoi(qtyStr)
	if err != nil || qty < 1 {
		return "", 0, apperror.Invalid("item", "qty", fmt.Sprintf("%q is not a positive integer", qtyStr))
	}
	return code, qty, nil
}

func printReceipt(out io.Writer, s *model.Sale, settings model.Settings) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", settings.StoreName, s.ID)
	fmt.Fprintf(w, "%s\t\n", s.CreatedAt.Local().Format("2006-01-02 15:04"))
	if s.Customer != nil {
		fmt.Fprintf(w, "Customer\t%s\n", s.Customer.Name)
	}
	for _, it := range s.Items {
		fmt.Fprintf(w, "%s x%d\t%s\n", it.SKU, it.Qty, money.Format(it.Price*float64(it.Qty)))
	}
	fmt.Fprintf(w, "Subtotal\t%s\n", money.Format(s.Subtotal))
	if s.Discount > 0 {
		fmt.Fprintf(w, "Discount\t-%s\n", money.Format(s.Discount))
	}
	fmt.Fprintf(w, "Tax %s%%\t%s\n", strconv.FormatFloat(s.TaxRate, 'f', -1, 64), money.Format(s.TaxAmount))
	fmt.Fprintf(w, "Total %s\t%s\n", settings.Currency, money.Format(s.Total))
	fmt.Fprintf(w, "Paid\t%s\n", s.PaymentMethod)
	return w.Flush()
}

func newReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Show today's takings, inventory value and low stock",
		Args:  cobra.NoArgs,
		RunE: run(false, func(_ context.Context, cmd *cobra.Command, a *app, _ []string) error {
			r := a.reg.Report()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "Sales recorded\t%d\n", r.SalesCount)
			fmt.Fprintf(w, "Today\t%s %s\n", r.Currency, money.Format(r.TodayTotal))
			fmt.Fprintf(w, "Inventory at cost\t%s %s\n", r.Currency, money.Format(r.InventoryAtCost))
			fmt.Fprintf(w, "Inventory at retail\t%s %s\n", r.Currency, money.Format(r.InventoryAtRetail))
			if len(r.LowStock) > 0 {
				fmt.Fprintln(w, "\nLOW STOCK\t")
				for _, item := range r.LowStock {
					fmt.Fprintf(w, "%s\t%d\n", item.SKU, item.Stock)
				}
			}
			return w.Flush()
		}),
	}
}
