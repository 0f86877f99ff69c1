package main

import (
	"fmt"
	"strconv"

	"github.com/DOFONSON/beliy-client/api"
	"github.com/DOFONSON/beliy-client/internal/utils"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newProductsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "List products",
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := a.client.Products(cmd.Context())
			if err != nil {
				return err
			}
			for _, p := range products {
				fmt.Printf("%4d  %-40s %10s  %s\n", p.ID, p.Title, p.Price, ratingLabel(p.AverageRating))
			}
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show one product with comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return errors.Wrap(err, "invalid product id")
			}
			product, err := a.client.Product(cmd.Context(), id)
			if err != nil {
				return err
			}

			fmt.Printf("%s — %s\n", product.Title, product.Price)
			fmt.Printf("Rating: %s\n\n%s\n", ratingLabel(product.AverageRating), product.Description)
			printComments(product.Comments)
			return nil
		},
	})

	return cmd
}

func newArticlesCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "articles",
		Short: "List articles",
		RunE: func(cmd *cobra.Command, args []string) error {
			articles, err := a.client.Articles(cmd.Context())
			if err != nil {
				return err
			}
			for _, art := range articles {
				fmt.Printf("%4d  %-40s %-30s %s\n", art.ID, art.Title, art.Slug, ratingLabel(art.AverageRating))
			}
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show <slug>",
		Short: "Show one article with comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			article, err := a.client.Article(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("%s\n", article.Title)
			fmt.Printf("Rating: %s\n\n%s\n", ratingLabel(article.AverageRating), article.Content)
			printComments(article.Comments)
			return nil
		},
	})

	return cmd
}

func newCartCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show the cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			serverCart, err := a.client.Cart(cmd.Context())
			if err != nil {
				return err
			}
			for _, item := range serverCart.Items {
				fmt.Printf("%4d  %-40s x%-3d %10.2f\n", item.ID, item.ProductTitle, item.Quantity, item.Total())
			}
			fmt.Printf("Total: %.2f (%d items)\n", serverCart.Total(), serverCart.TotalItems())
			return nil
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <product-id> [quantity]",
			Short: "Add a product to the cart",
			Args:  cobra.RangeArgs(1, 2),
			RunE: func(cmd *cobra.Command, args []string) error {
				productID, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return errors.Wrap(err, "invalid product id")
				}
				quantity := 1
				if len(args) == 2 {
					if quantity, err = strconv.Atoi(args[1]); err != nil {
						return errors.Wrap(err, "invalid quantity")
					}
				}

				if err := a.client.AddToCart(cmd.Context(), productID, quantity); err != nil {
					return err
				}
				a.cart.Refresh(cmd.Context())
				fmt.Printf("Added. Cart now has %d items\n", a.cart.ItemCount())
				return nil
			},
		},
		&cobra.Command{
			Use:   "update <item-id> <quantity>",
			Short: "Change the quantity of a cart line",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				itemID, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return errors.Wrap(err, "invalid item id")
				}
				quantity, err := strconv.Atoi(args[1])
				if err != nil {
					return errors.Wrap(err, "invalid quantity")
				}

				if err := a.client.UpdateCartItem(cmd.Context(), itemID, quantity); err != nil {
					return err
				}
				a.cart.Refresh(cmd.Context())
				fmt.Printf("Updated. Cart now has %d items\n", a.cart.ItemCount())
				return nil
			},
		},
		&cobra.Command{
			Use:   "remove <item-id>",
			Short: "Remove a cart line",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				itemID, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return errors.Wrap(err, "invalid item id")
				}

				if err := a.client.RemoveCartItem(cmd.Context(), itemID); err != nil {
					return err
				}
				a.cart.Refresh(cmd.Context())
				fmt.Printf("Removed. Cart now has %d items\n", a.cart.ItemCount())
				return nil
			},
		},
	)

	return cmd
}

func newCommentCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comment",
		Short: "Comment on a product or article",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "product <id> <text>",
			Short: "Comment on a product",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return errors.Wrap(err, "invalid product id")
				}
				comment, err := a.client.CommentProduct(cmd.Context(), id, args[1])
				if err != nil {
					return err
				}
				fmt.Printf("Comment %d posted\n", comment.ID)
				return nil
			},
		},
		&cobra.Command{
			Use:   "article <id> <text>",
			Short: "Comment on an article",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return errors.Wrap(err, "invalid article id")
				}
				comment, err := a.client.CommentArticle(cmd.Context(), id, args[1])
				if err != nil {
					return err
				}
				fmt.Printf("Comment %d posted\n", comment.ID)
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a comment",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return errors.Wrap(err, "invalid comment id")
				}
				if err := a.client.DeleteComment(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Println("Comment deleted")
				return nil
			},
		},
	)

	return cmd
}

func newRateCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rate",
		Short: "Rate a product or article (1-5)",
	}

	rate := func(kind string, submit func(*cobra.Command, int64, int) error) *cobra.Command {
		return &cobra.Command{
			Use:   kind + " <id> <value>",
			Short: "Rate a " + kind,
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return errors.Wrapf(err, "invalid %s id", kind)
				}
				value, err := strconv.Atoi(args[1])
				if err != nil {
					return errors.Wrap(err, "invalid rating value")
				}
				if err := submit(cmd, id, value); err != nil {
					return err
				}
				fmt.Println("Rating submitted")
				return nil
			},
		}
	}

	cmd.AddCommand(
		rate("product", func(cmd *cobra.Command, id int64, value int) error {
			return a.client.RateProduct(cmd.Context(), id, value)
		}),
		rate("article", func(cmd *cobra.Command, id int64, value int) error {
			return a.client.RateArticle(cmd.Context(), id, value)
		}),
	)

	return cmd
}

func ratingLabel(average *float64) string {
	if average == nil {
		return "unrated"
	}
	return fmt.Sprintf("%.1f/5", utils.Value(average))
}

func printComments(comments []api.Comment) {
	if len(comments) == 0 {
		return
	}
	fmt.Println("\nComments:")
	for _, comment := range comments {
		author := "anonymous"
		if comment.User != nil {
			author = comment.User.Username
		}
		fmt.Printf("  [%d] %s: %s\n", comment.ID, author, comment.Text)
	}
}
