package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/kdjayakody/kdj-simple-pos/internal/bootstrap"
	catDTO "github.com/kdjayakody/kdj-simple-pos/internal/category/dto"
	invDTO "github.com/kdjayakody/kdj-simple-pos/internal/inventory/dto"
	"github.com/kdjayakody/kdj-simple-pos/internal/model"
	prodDTO "github.com/kdjayakody/kdj-simple-pos/internal/product/dto"
	"github.com/spf13/cobra"
)

type openFunc func(ctx context.Context) (*bootstrap.Services, func() error, error)

// cli carries the services opened for the running command.
type cli struct {
	open  openFunc
	svc   *bootstrap.Services
	close func() error
}

func newRootCmd(open openFunc) *cobra.Command {
	c := &cli{open: open}
	root := &cobra.Command{
		Use:           "posctl",
		Short:         "Administer products, stock and sales",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			svc, closeFn, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			c.svc, c.close = svc, closeFn
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if c.close == nil {
				return nil
			}
			return c.close()
		},
	}
	root.AddCommand(c.productCmd(), c.stockCmd(), c.salesCmd(), c.reportCmd())
	return root
}

func (c *cli) productCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "product", Short: "Manage the catalog"}

	var search, category string
	list := &cobra.Command{
		Use:   "list",
		Short: "List products, optionally filtered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			products, err := c.svc.ProductUseCase.ListProducts(cmd.Context(), &prodDTO.ProductFilters{
				SearchQuery: search,
				Category:    category,
			})
			if err != nil {
				return err
			}
			renderProducts(cmd.OutOrStdout(), products)
			return nil
		},
	}
	list.Flags().StringVar(&search, "search", "", "match id or name, case-insensitive")
	list.Flags().StringVar(&category, "category", "", "exact category, case-insensitive")

	var in prodDTO.CreateProductInput
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := c.svc.ProductUseCase.CreateProduct(cmd.Context(), &in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Product %s added.\n", p.ID)
			return nil
		},
	}
	add.Flags().StringVar(&in.ID, "id", "", "product id")
	add.Flags().StringVar(&in.Name, "name", "", "product name")
	add.Flags().StringVar(&in.Category, "category", "", "category")
	add.Flags().Float64Var(&in.Price, "price", 0, "unit price")
	add.Flags().IntVar(&in.Stock, "stock", 0, "initial stock")
	_ = add.MarkFlagRequired("id")
	_ = add.MarkFlagRequired("name")
	_ = add.MarkFlagRequired("price")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.svc.ProductUseCase.DeleteProduct(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Product %s deleted.\n", strings.TrimSpace(args[0]))
			return nil
		},
	}

	var includeBlank bool
	categories := &cobra.Command{
		Use:   "categories",
		Short: "Summarize the catalog by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cats, _, err := c.svc.Categories.ListCategories(cmd.Context(), &catDTO.CategoryFilters{
				IncludeBlank: includeBlank,
			})
			if err != nil {
				return err
			}
			renderCategories(cmd.OutOrStdout(), cats)
			return nil
		},
	}
	categories.Flags().BoolVar(&includeBlank, "include-blank", false, "include products without a category")

	cmd.AddCommand(list, add, del, categories)
	return cmd
}

func (c *cli) stockCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "stock", Short: "Adjust and audit stock levels"}

	var (
		allowNegative bool
		reason        string
	)
	adjust := &cobra.Command{
		Use:     "adjust <id> <delta>",
		Short:   "Apply a signed stock delta",
		Example: "  posctl stock adjust SKU1 12 --reason delivery\n  posctl stock adjust --allow-negative -- SKU1 -3",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			delta, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("delta %q must be a whole number", args[1])
			}
			mv, err := c.svc.Inventory.AdjustInventory(cmd.Context(), &invDTO.AdjustInventoryInput{
				ProductID:      args[0],
				QuantityChange: delta,
				AllowNegative:  allowNegative,
				Reason:         reason,
				ReferenceType:  model.MovementManual,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stock for %s: %d -> %d\n", mv.ProductID, mv.QuantityBefore, mv.QuantityAfter)
			return nil
		},
	}
	adjust.Flags().BoolVar(&allowNegative, "allow-negative", false, "permit the result to go below zero")
	adjust.Flags().StringVar(&reason, "reason", "", "note recorded with the movement")

	var (
		productID string
		limit     int
	)
	movements := &cobra.Command{
		Use:   "movements",
		Short: "List recorded stock movements, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mvs, total, err := c.svc.Inventory.ListMovements(cmd.Context(), &invDTO.MovementFilters{
				ProductID: productID,
				Page:      1,
				PageSize:  limit,
			})
			if err != nil {
				return err
			}
			renderMovements(cmd.OutOrStdout(), mvs, total)
			return nil
		},
	}
	movements.Flags().StringVar(&productID, "product", "", "only this product id")
	movements.Flags().IntVar(&limit, "limit", 50, "maximum rows, 0 for all")

	cmd.AddCommand(adjust, movements)
	return cmd
}

func (c *cli) salesCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "sales", Short: "Inspect the sales ledger"}

	var date string
	list := &cobra.Command{
		Use:   "list",
		Short: "List sales, optionally for one day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sales, err := c.svc.SaleUseCase.ListSales(cmd.Context(), date)
			if err != nil {
				return err
			}
			renderSales(cmd.OutOrStdout(), sales)
			return nil
		},
	}
	list.Flags().StringVar(&date, "date", "", "day to list (YYYY-MM-DD)")

	cmd.AddCommand(list)
	return cmd
}

func (c *cli) reportCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "report", Short: "Sales reports"}

	daily := &cobra.Command{
		Use:   "daily [date]",
		Short: "Summarize one day's sales (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := ""
			if len(args) == 1 {
				date = args[0]
			}
			r, err := c.svc.Report.DailyReport(cmd.Context(), date)
			if err != nil {
				return err
			}
			renderReport(cmd.OutOrStdout(), r)
			return nil
		},
	}

	cmd.AddCommand(daily)
	return cmd
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.Style().Format.Footer = text.FormatDefault
	return t
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func renderProducts(w io.Writer, products []model.Product) {
	if len(products) == 0 {
		fmt.Fprintln(w, "No products found.")
		return
	}
	t := newTable(w)
	t.AppendHeader(table.Row{"ID", "Name", "Category", "Price", "Stock"})
	for _, p := range products {
		t.AppendRow(table.Row{p.ID, p.Name, p.Category, money(p.Price), p.Stock})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	t.AppendFooter(table.Row{"", "", "", "Total", len(products)})
	t.Render()
}

func renderCategories(w io.Writer, cats []model.CategorySummary) {
	if len(cats) == 0 {
		fmt.Fprintln(w, "No categories found.")
		return
	}
	t := newTable(w)
	t.AppendHeader(table.Row{"Category", "Products", "Units", "Stock Value"})
	for _, cat := range cats {
		name := cat.Name
		if name == "" {
			name = "-"
		}
		t.AppendRow(table.Row{name, cat.ProductCount, cat.UnitsInStock, money(cat.StockValue)})
	}
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 4, Align: text.AlignRight}})
	t.Render()
}

func renderMovements(w io.Writer, mvs []model.StockMovement, total int) {
	if len(mvs) == 0 {
		fmt.Fprintln(w, "No stock movements recorded.")
		return
	}
	t := newTable(w)
	t.AppendHeader(table.Row{"When", "Product", "Change", "Before", "After", "Type", "Reason"})
	for _, m := range mvs {
		t.AppendRow(table.Row{
			m.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			m.ProductID, fmt.Sprintf("%+d", m.QuantityChange), m.QuantityBefore, m.QuantityAfter,
			m.ReferenceType, m.Reason,
		})
	}
	t.AppendFooter(table.Row{"", "", "", "", "", "Shown", fmt.Sprintf("%d of %d", len(mvs), total)})
	t.Render()
}

func renderSales(w io.Writer, sales []model.Sale) {
	if len(sales) == 0 {
		fmt.Fprintln(w, "No sales found.")
		return
	}
	t := newTable(w)
	t.AppendHeader(table.Row{"Sale ID", "Timestamp", "Items", "Total", "Received", "Change", "Payment"})
	for _, s := range sales {
		total := money(s.TotalAmount)
		if s.TotalUnreadable {
			total = "?"
		}
		t.AppendRow(table.Row{s.SaleID, s.Timestamp, len(s.Items), total, money(s.AmountReceived), money(s.ChangeGiven), s.PaymentType})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})
	t.Render()
}

func renderReport(w io.Writer, r *model.DailyReport) {
	t := newTable(w)
	t.SetTitle("Daily Sales Report " + r.Date)
	t.AppendRow(table.Row{"Total sales", money(r.TotalSales)})
	t.AppendRow(table.Row{"Transactions", r.TransactionCount})
	t.Render()
}
