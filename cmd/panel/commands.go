package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Lixing-Zhang/product-panel/internal/models"
	"github.com/Lixing-Zhang/product-panel/internal/panel"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.panel.List(cmd.Context()); err != nil {
				return userError(err)
			}

			out := cmd.OutOrStdout()
			products := a.panel.Products()
			if len(products) == 0 {
				fmt.Fprintln(out, "No products found.")
				return nil
			}
			for _, p := range products {
				printProduct(out, p)
			}
			return nil
		},
	}
}

func newCreateCmd(a *app) *cobra.Command {
	var draft panel.Draft

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a product",
		Long: `Creates a product from the given fields. Name and price are required and
the price must be a non-negative number.

Example:
  panel create --name "Chicken Waffle" --price 6.5 --description "with honey"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := a.panel.Create(cmd.Context(), draft)
			if err != nil {
				return userError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created product %s\n", created.ID)
			printProduct(cmd.OutOrStdout(), created)
			return nil
		},
	}

	cmd.Flags().StringVar(&draft.Name, "name", "", "Product name")
	cmd.Flags().StringVar(&draft.Price, "price", "", "Product price")
	cmd.Flags().StringVar(&draft.Description, "description", "", "Product description")
	return cmd
}

func newUpdateCmd(a *app) *cobra.Command {
	var name, price, description string

	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Replace the fields of a product",
		Long: `Loads the product with the given id, applies the fields that were passed
and sends the result back as a full replacement. Fields that were not passed keep
their current values.

Example:
  panel update 3 --price 7.25`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := models.ID(args[0])

			if err := a.panel.List(ctx); err != nil {
				return userError(err)
			}
			if err := a.panel.BeginEditByID(id); err != nil {
				return userError(err)
			}

			changes := map[panel.Field]string{}
			if cmd.Flags().Changed("name") {
				changes[panel.FieldName] = name
			}
			if cmd.Flags().Changed("price") {
				changes[panel.FieldPrice] = price
			}
			if cmd.Flags().Changed("description") {
				changes[panel.FieldDescription] = description
			}
			for field, value := range changes {
				if err := a.panel.UpdateEditBuffer(field, value); err != nil {
					return userError(err)
				}
			}

			updated, err := a.panel.SaveEdit(ctx)
			if err != nil {
				return userError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated product %s\n", updated.ID)
			printProduct(cmd.OutOrStdout(), updated)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New product name")
	cmd.Flags().StringVar(&price, "price", "", "New product price")
	cmd.Flags().StringVar(&description, "description", "", "New product description")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a product",
		Long: `Deletes the product with the given id after asking for confirmation.
Pass --yes to skip the question.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := models.ID(args[0])

			var confirm panel.Confirmer = &promptConfirmer{in: cmd.InOrStdin(), out: cmd.OutOrStdout()}
			if yes {
				confirm = panel.ConfirmFunc(func(string) bool { return true })
			}

			err := a.panel.Delete(cmd.Context(), id, confirm)
			if errors.Is(err, panel.ErrDeleteDeclined) {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
			if err != nil {
				return userError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted product %s\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

// promptConfirmer asks on out and accepts y or yes from in
type promptConfirmer struct {
	in  io.Reader
	out io.Writer
}

func (c *promptConfirmer) Confirm(prompt string) bool {
	fmt.Fprintf(c.out, "%s [y/N]: ", prompt)
	line, err := bufio.NewReader(c.in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func printProduct(w io.Writer, p models.Product) {
	fmt.Fprintf(w, "%s - $%s\n", p.Name, panel.FormatPrice(p.Price))
	if p.Description != "" {
		fmt.Fprintf(w, "  %s\n", p.Description)
	}
}

// userError puts the message a user would see in front of the cause
func userError(err error) error {
	msg := panel.UserMessage(err)
	if msg == "" {
		return err
	}
	return fmt.Errorf("%s: %w", msg, err)
}
