package main

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/fekuna/omnipos-register/internal/apperror"
	catdto "github.com/fekuna/omnipos-register/internal/catalog/dto"
	"github.com/fekuna/omnipos-register/internal/money"
	"github.com/spf13/cobra"
)

type productFlags struct {
	name     string
	sku      string
	category string
	cost     float64
	price    float64
	notes    string
	imageURL string
}

func (f *productFlags) bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.name, "name", "", "Product name")
	fs.StringVar(&f.sku, "sku", "", "Product SKU")
	fs.StringVar(&f.category, "category", "", "Category")
	fs.Float64Var(&f.cost, "cost", 0, "Unit cost")
	fs.Float64Var(&f.price, "price", 0, "Base selling price")
	fs.StringVar(&f.notes, "notes", "", "Free-form notes")
	fs.StringVar(&f.imageURL, "image-url", "", "Image URL")
}

func newProductCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "product", Short: "Manage products"}

	var add productFlags
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Create a product",
		Args:  cobra.NoArgs,
		RunE: run(true, func(_ context.Context, cmd *cobra.Command, a *app, _ []string) error {
			p, err := a.reg.CreateProduct(catdto.CreateProductInput{
				Name:     add.name,
				SKU:      add.sku,
				Category: add.category,
				Cost:     add.cost,
				Price:    add.price,
				Notes:    add.notes,
				ImageURL: add.imageURL,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p.ID)
			return nil
		}),
	}
	add.bind(addCmd)

	var upd productFlags
	updateCmd := &cobra.Command{
		Use:   "update <product-id>",
		Short: "Update a product; unset flags keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: run(true, func(_ context.Context, cmd *cobra.Command, a *app, args []string) error {
			var current *catdto.UpdateProductInput
			for _, p := range a.reg.Products() {
				if p.ID == args[0] {
					current = &catdto.UpdateProductInput{
						ID: p.ID, Name: p.Name, SKU: p.SKU, Category: p.Category,
						Cost: p.Cost, Price: p.Price, Notes: p.Notes, ImageURL: p.ImageURL,
					}
					break
				}
			}
			if current == nil {
				return apperror.NotFound("product", args[0])
			}

			fs := cmd.Flags()
			if fs.Changed("name") {
				current.Name = upd.name
			}
			if fs.Changed("sku") {
				current.SKU = upd.sku
			}
			if fs.Changed("category") {
				current.Category = upd.category
			}
			if fs.Changed("cost") {
				current.Cost = upd.cost
			}
			if fs.Changed("price") {
				current.Price = upd.price
			}
			if fs.Changed("notes") {
				current.Notes = upd.notes
			}
			if fs.Changed("image-url") {
				current.ImageURL = upd.imageURL
			}

			_, err := a.reg.UpdateProduct(*current)
			return err
		}),
	}
	upd.bind(updateCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List products and variants",
		Args:  cobra.NoArgs,
		RunE: run(false, func(_ context.Context, cmd *cobra.Command, a *app, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SKU\tNAME\tPRICE\tSTOCK\tID")
			for _, p := range a.reg.Products() {
				if len(p.Variants) == 0 {
					fmt.Fprintf(w, "%s\t%s\t%s\t-\t%s\n", p.SKU, p.Name, money.Format(p.Price), p.ID)
					continue
				}
				for i := range p.Variants {
					v := &p.Variants[i]
					fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s/%s\n",
						p.DisplaySKU(v), p.Name, money.Format(p.EffectivePrice(v)), v.Stock, p.ID, v.ID)
				}
			}
			return w.Flush()
		}),
	}

	cmd.AddCommand(addCmd, updateCmd, listCmd)
	return cmd
}

func newVariantCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "variant", Short: "Manage product variants"}

	var (
		size, color string
		stock       int
		price       float64
	)
	addCmd := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add a size/color variant to a product",
		Args:  cobra.ExactArgs(1),
		RunE: run(true, func(_ context.Context, cmd *cobra.Command, a *app, args []string) error {
			input := catdto.CreateVariantInput{ProductID: args[0], Size: size, Color: color, Stock: stock}
			if cmd.Flags().Changed("price") {
				input.Price = &price
			}
			v, err := a.reg.AddVariant(input)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v.ID)
			return nil
		}),
	}
	fs := addCmd.Flags()
	fs.StringVar(&size, "size", "", "Size")
	fs.StringVar(&color, "color", "", "Color")
	fs.IntVar(&stock, "stock", 0, "Opening stock")
	fs.Float64Var(&price, "price", 0, "Price override; omit to use the product price")

	cmd.AddCommand(addCmd)
	return cmd
}

func newStockCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "stock", Short: "Adjust variant stock"}
	adjustCmd := &cobra.Command{
		Use:   "adjust <product-id> <variant-id> <delta>",
		Short: "Add (or with a negative delta remove) stock",
		Args:  cobra.ExactArgs(3),
		RunE: run(true, func(_ context.Context, cmd *cobra.Command, a *app, args []string) error {
			delta, err := strconv.Atoi(args[2])
			if err != nil {
				return &exitErr{code: 2, err: fmt.Errorf("delta must be an integer: %w", err)}
			}
			v, err := a.reg.AdjustStock(args[0], args[1], delta)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "stock now %d\n", v.Stock)
			return nil
		}),
	}
	cmd.AddCommand(adjustCmd)
	return cmd
}

type customerFlags struct {
	name, phone, email, notes string
}

func (f *customerFlags) bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.name, "name", "", "Customer name")
	fs.StringVar(&f.phone, "phone", "", "Phone")
	fs.StringVar(&f.email, "email", "", "Email")
	fs.StringVar(&f.notes, "notes", "", "Notes")
}

func newCustomerCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "customer", Short: "Manage customers"}

	var add customerFlags
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Create a customer",
		Args:  cobra.NoArgs,
		RunE: run(true, func(_ context.Context, cmd *cobra.Command, a *app, _ []string) error {
			c, err := a.reg.CreateCustomer(catdto.CreateCustomerInput{
				Name: add.name, Phone: add.phone, Email: add.email, Notes: add.notes,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.ID)
			return nil
		}),
	}
	add.bind(addCmd)

	var upd customerFlags
	updateCmd := &cobra.Command{
		Use:   "update <customer-id>",
		Short: "Update a customer; unset flags keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: run(true, func(_ context.Context, cmd *cobra.Command, a *app, args []string) error {
			var input *catdto.UpdateCustomerInput
			for _, c := range a.reg.Customers() {
				if c.ID == args[0] {
					input = &catdto.UpdateCustomerInput{ID: c.ID, Name: c.Name, Phone: c.Phone, Email: c.Email, Notes: c.Notes}
					break
				}
			}
			if input == nil {
				return apperror.NotFound("customer", args[0])
			}
			fs := cmd.Flags()
			if fs.Changed("name") {
				input.Name = upd.name
			}
			if fs.Changed("phone") {
				input.Phone = upd.phone
			}
			if fs.Changed("email") {
				input.Email = upd.email
			}
			if fs.Changed("notes") {
				input.Notes = upd.notes
			}
			_, err := a.reg.UpdateCustomer(*input)
			return err
		}),
	}
	upd.bind(updateCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List customers",
		Args:  cobra.NoArgs,
		RunE: run(false, func(_ context.Context, cmd *cobra.Command, a *app, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tPHONE\tEMAIL\tID")
			for _, c := range a.reg.Customers() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.Name, c.Phone, c.Email, c.ID)
			}
			return w.Flush()
		}),
	}

	cmd.AddCommand(addCmd, updateCmd, listCmd)
	return cmd
}
