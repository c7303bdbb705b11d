package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/nfrund/flavorfusion/internal/domain"
	"github.com/nfrund/flavorfusion/internal/forms"
	"github.com/nfrund/flavorfusion/web/src/templates/components"
	"github.com/spf13/cobra"
)

func newRestaurantsCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "restaurants",
		Aliases: []string{"restaurant"},
		Short:   "List and create restaurants",
	}
	cmd.AddCommand(newRestaurantsListCmd(env), newRestaurantsCreateCmd(env))
	return cmd
}

func newRestaurantsListCmd(env *Env) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all restaurants",
		Long: `List all restaurants with their owners.

Output formats:
  table - Human-readable table format (default)
  json  - Machine-readable JSON format`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openClient(cmd.Context(), env)
			if err != nil {
				return err
			}
			if _, err := c.signedIn(); err != nil {
				return describe(err)
			}
			cache := c.Catalog()
			if cache.Err != nil {
				return describe(cache.Err)
			}
			if format == "json" {
				return writeJSON(cmd.OutOrStdout(), "restaurants", cache.Restaurants)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			defer w.Flush()
			fmt.Fprintln(w, "ID\tNAME\tOWNER")
			if len(cache.Restaurants) == 0 {
				fmt.Fprintln(w, "No restaurants found")
			}
			for _, r := range cache.Restaurants {
				fmt.Fprintf(w, "%s\t%s\t%s\n", r.ID, r.Name, r.OwnerName())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "table", "output format (table, json)")
	return cmd
}

func newRestaurantsCreateCmd(env *Env) *cobra.Command {
	var in forms.RestaurantInput
	var image string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a restaurant owned by the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := openClient(ctx, env)
			if err != nil {
				return err
			}
			form, err := c.OpenRestaurantForm()
			if err != nil {
				return describe(err)
			}
			if err := form.Set(in); err != nil {
				return describe(err)
			}
			c.attach(ctx, image, form)

			r, err := form.Submit(ctx)
			if err != nil {
				c.ExpireOn(ctx, err)
				return describe(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created restaurant %s (%s)\n", r.Name, r.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "restaurant name")
	cmd.Flags().StringVar(&in.Description, "description", "", "restaurant description")
	cmd.Flags().StringVar(&image, "image", "", "path to a cover image")
	return cmd
}

func newMenuCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "menu",
		Short: "List and create menu items of a restaurant",
	}
	cmd.AddCommand(newMenuListCmd(env), newMenuCreateCmd(env))
	return cmd
}

// openMenu signs in from the token file and selects restaurantID.
func openMenu(cmd *cobra.Command, env *Env, restaurantID string) (*client, error) {
	c, err := openClient(cmd.Context(), env)
	if err != nil {
		return nil, err
	}
	if _, err := c.signedIn(); err != nil {
		return nil, describe(err)
	}
	if err := c.SelectRestaurant(cmd.Context(), restaurantID); err != nil {
		return nil, describe(err)
	}
	return c, nil
}

func newMenuListCmd(env *Env) *cobra.Command {
	var restaurantID, format string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the menu of a restaurant",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openMenu(cmd, env, restaurantID)
			if err != nil {
				return err
			}
			cache := c.Catalog()
			if format == "json" {
				return writeJSON(cmd.OutOrStdout(), "menuItems", cache.MenuItems)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Menu of %s:\n\n", cache.Selected.Name)
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			defer w.Flush()
			fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE")
			if len(cache.MenuItems) == 0 {
				fmt.Fprintln(w, "No menu items found")
			}
			for _, m := range cache.MenuItems {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.ID, m.Name, m.Category, components.Price(m.Price))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&restaurantID, "restaurant", "", "restaurant id")
	cmd.Flags().StringVar(&format, "format", "table", "output format (table, json)")
	_ = cmd.MarkFlagRequired("restaurant")
	return cmd
}

func newMenuCreateCmd(env *Env) *cobra.Command {
	var restaurantID, image string
	var in forms.MenuItemInput
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a menu item to a restaurant you own",
		Long: `Add a menu item to a restaurant you own.

Categories: appetizer, main (default), dessert, drink.

Example:
  flavorfusion menu create --restaurant restaurants:1 --name Pancakes --price 7.25 --category main`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := openMenu(cmd, env, restaurantID)
			if err != nil {
				return err
			}
			form, err := c.OpenMenuItemForm()
			if err != nil {
				return describe(err)
			}
			if err := form.Set(in); err != nil {
				return describe(err)
			}
			c.attach(ctx, image, form)

			m, err := form.Submit(ctx)
			if err != nil {
				c.ExpireOn(ctx, err)
				return describe(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created menu item %s (%s) at %s\n", m.Name, m.ID, components.Price(m.Price))
			return nil
		},
	}
	cmd.Flags().StringVar(&restaurantID, "restaurant", "", "restaurant id")
	cmd.Flags().StringVar(&in.Name, "name", "", "item name")
	cmd.Flags().StringVar(&in.Description, "description", "", "item description")
	cmd.Flags().StringVar(&in.Price, "price", "", "price, e.g. 7.25")
	cmd.Flags().StringVar(&in.Category, "category", string(domain.CategoryMain), "appetizer, main, dessert or drink")
	cmd.Flags().StringVar(&image, "image", "", "path to a photo")
	_ = cmd.MarkFlagRequired("restaurant")
	return cmd
}

func writeJSON(w io.Writer, key string, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(map[string]any{key: v})
}
