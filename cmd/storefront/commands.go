package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	apperrors "github.com/yashrajoria/storefront-session/common/errors"
	"github.com/yashrajoria/storefront-session/models"
	"github.com/yashrajoria/storefront-session/services"
)

func newLoginCmd(a *app) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and keep the session on this device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := a.store.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Logged in as %s\n", result.User.FullName())
			if result.NeedsStoreSetup {
				fmt.Fprintln(out, "Your seller account has no store yet. Run `storefront store setup`.")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the session; cart and favorites stay",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.store.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newRegisterCmd(a *app) *cobra.Command {
	var in services.RegistrationInput
	var role string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in.Role = models.Role(role)
			if in.ConfirmPassword == "" {
				in.ConfirmPassword = in.Password
			}
			if err := a.store.Register(cmd.Context(), in); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Account created. You can log in now.")
			return nil
		},
	}
	cmd.Flags().StringVar(&in.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&in.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&in.Email, "email", "", "account email")
	cmd.Flags().StringVar(&in.Password, "password", "", "password, at least 6 characters")
	cmd.Flags().StringVar(&in.ConfirmPassword, "confirm-password", "", "password again (defaults to --password)")
	cmd.Flags().StringVar(&role, "role", string(models.RoleUser), "user or seller")
	return cmd
}

func newWhoamiCmd(a *app) *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if !a.store.IsAuthenticated() {
				fmt.Fprintln(out, "Not logged in (guest)")
				return nil
			}

			if refresh {
				profile, err := a.authed().Profile(cmd.Context())
				if apperrors.IsUnauthorized(err) {
					_ = a.store.Logout(cmd.Context())
					return apperrors.Server(401, "Your session has expired. Please log in again.")
				}
				if err != nil {
					return err
				}
				if err := a.store.UpdateUserInfo(cmd.Context(), profile); err != nil {
					return err
				}
			}

			snap := a.store.Snapshot()
			if snap.User == nil {
				fmt.Fprintln(out, "Logged in (profile unavailable, try --refresh)")
				return nil
			}
			fmt.Fprintf(out, "%s <%s>\nrole: %s\nstatus: %s\ncart: %d  favorites: %d\n",
				snap.User.FullName(), snap.User.Email, snap.User.Role, snap.User.Status, snap.CartCount, snap.FavoritesCount)
			return nil
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "reload the profile from the API")
	return cmd
}

func newStoreCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "store", Short: "Seller store management"}
	cmd.AddCommand(&cobra.Command{
		Use:   "setup",
		Short: "Create the store of a seller account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.store.User().IsSeller() {
				return apperrors.Validation("Only seller accounts have a store")
			}
			profile, err := a.authed().CreateStore(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.store.UpdateUserInfo(cmd.Context(), profile); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Store ready")
			return nil
		},
	})
	return cmd
}

func newCartCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "cart", Short: "Manage the cart"}
	cmd.AddCommand(newCartAddCmd(a), newCartListCmd(a), newCartRemoveCmd(a), newCartClearCmd(a))
	return cmd
}

func newCartAddCmd(a *app) *cobra.Command {
	var (
		productFile string
		product     models.Product
		price       string
		override    string
		variant     int
		quantity    int
		size        string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a product to the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := product
			if productFile != "" {
				loaded, err := readProduct(productFile)
				if err != nil {
					return err
				}
				p = *loaded
			}
			if price != "" {
				d, err := decimal.NewFromString(price)
				if err != nil {
					return apperrors.Validation("Price must be a number")
				}
				p.Price = &d
			}

			var opts []services.CartOption
			if size != "" {
				opts = append(opts, services.WithSize(size))
			}
			if override != "" {
				d, err := decimal.NewFromString(override)
				if err != nil {
					return apperrors.Validation("Override price must be a number")
				}
				opts = append(opts, services.WithPriceOverride(d))
			}

			line, err := a.store.AddToCart(cmd.Context(), &p, variant, quantity, opts...)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s x%d = %s (cart: %d)\n",
				line.Name, line.Quantity, line.LineTotal.StringFixed(2), a.store.Snapshot().CartCount)
			return nil
		},
	}
	cmd.Flags().StringVar(&productFile, "product-file", "", "product JSON as returned by the catalog API")
	cmd.Flags().StringVar(&product.ID, "id", "", "product id")
	cmd.Flags().StringVar(&product.Name, "name", "", "product name")
	cmd.Flags().StringVar(&price, "price", "", "product base price")
	cmd.Flags().StringVar(&override, "override", "", "explicit unit price")
	cmd.Flags().IntVar(&variant, "variant", 0, "variant index")
	cmd.Flags().IntVar(&quantity, "qty", 1, "quantity")
	cmd.Flags().StringVar(&size, "size", "", "size")
	return cmd
}

func newCartListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cart lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := a.store.Cart(cmd.Context())
			if err != nil {
				return err
			}
			total, err := a.store.CartTotal(cmd.Context())
			if err != nil {
				return err
			}
			printCart(cmd.OutOrStdout(), items, total)
			return nil
		},
	}
}

func newCartRemoveCmd(a *app) *cobra.Command {
	var key models.LineKey
	var quantity int
	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove a line, or change its quantity with --qty",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if cmd.Flags().Changed("qty") {
				err = a.store.UpdateCartQuantity(cmd.Context(), key, quantity)
			} else {
				err = a.store.RemoveFromCart(cmd.Context(), key)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cart updated (cart: %d)\n", a.store.Snapshot().CartCount)
			return nil
		},
	}
	cmd.Flags().StringVar(&key.ProductID, "id", "", "product id")
	cmd.Flags().IntVar(&key.VariantIndex, "variant", 0, "variant index")
	cmd.Flags().StringVar(&key.Size, "size", "", "size")
	cmd.Flags().IntVar(&quantity, "qty", 0, "new quantity; 0 removes the line")
	return cmd
}

func newCartClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.store.ClearCart(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cart cleared")
			return nil
		},
	}
}

func newFavoriteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "favorite", Short: "Manage favorites"}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "toggle <product-id>",
			Short: "Add or remove a favorite",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				added, err := a.store.ToggleFavorite(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				verb := "Removed"
				if added {
					verb = "Added"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s (favorites: %d)\n", verb, args[0], a.store.Snapshot().FavoritesCount)
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List favorites",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				favs, err := a.store.Favorites(cmd.Context())
				if err != nil {
					return err
				}
				for _, id := range favs {
					fmt.Fprintln(cmd.OutOrStdout(), id)
				}
				return nil
			},
		},
	)
	return cmd
}

func readProduct(path string) (*models.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.New(apperrors.KindValidation, 0, "Could not read the product file", err)
	}
	var p models.Product
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, apperrors.New(apperrors.KindValidation, 0, "Product file is not valid JSON", err)
	}
	return &p, nil
}

func printCart(w io.Writer, items []models.CartItem, total decimal.Decimal) {
	if len(items) == 0 {
		fmt.Fprintln(w, "Cart is empty")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tVARIANT\tSIZE\tQTY\tUNIT\tTOTAL")
	for _, item := range items {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%d\t%s\t%s\n",
			item.ProductID, item.Name, item.VariantIndex, item.Size, item.Quantity,
			item.UnitPrice.StringFixed(2), item.LineTotal.StringFixed(2))
	}
	fmt.Fprintf(tw, "\t\t\t\t\t\t%s\n", total.StringFixed(2))
	_ = tw.Flush()
}
