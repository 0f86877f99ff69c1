package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/pkg/errors"
)

// Products lists the storefront catalogue.
func (c *Client) Products(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.getJSON(ctx, "/products/", &products); err != nil {
		return nil, errors.Wrap(err, "[Client.Products] getJSON")
	}
	return products, nil
}

// Product fetches one product with its comments and ratings.
func (c *Client) Product(ctx context.Context, id int64) (*Product, error) {
	var product Product
	if err := c.getJSON(ctx, fmt.Sprintf("/products/%d/", id), &product); err != nil {
		return nil, errors.Wrap(err, "[Client.Product] getJSON")
	}
	return &product, nil
}

// Articles lists the blog articles.
func (c *Client) Articles(ctx context.Context) ([]Article, error) {
	var articles []Article
	if err := c.getJSON(ctx, "/articles/", &articles); err != nil {
		return nil, errors.Wrap(err, "[Client.Articles] getJSON")
	}
	return articles, nil
}

// Article fetches one article by slug.
func (c *Client) Article(ctx context.Context, slug string) (*Article, error) {
	var article Article
	if err := c.getJSON(ctx, "/articles/"+url.PathEscape(slug)+"/", &article); err != nil {
		return nil, errors.Wrap(err, "[Client.Article] getJSON")
	}
	return &article, nil
}

// CommentProduct posts a comment on a product and returns the created
// comment.
func (c *Client) CommentProduct(ctx context.Context, productID int64, text string) (*Comment, error) {
	return c.postComment(ctx, fmt.Sprintf("/products/%d/comments/", productID), text)
}

// CommentArticle posts a comment on an article and returns the created
// comment.
func (c *Client) CommentArticle(ctx context.Context, articleID int64, text string) (*Comment, error) {
	return c.postComment(ctx, fmt.Sprintf("/articles/%d/comments/", articleID), text)
}

func (c *Client) postComment(ctx context.Context, path, text string) (*Comment, error) {
	if err := ValidateCommentText(text); err != nil {
		return nil, err
	}

	var comment Comment
	body := map[string]string{"text": text}
	if err := c.postJSON(ctx, path, body, &comment); err != nil {
		return nil, errors.Wrap(err, "[Client.postComment] postJSON")
	}
	return &comment, nil
}

// RateProduct submits a 1-5 rating for a product.
func (c *Client) RateProduct(ctx context.Context, productID int64, value int) error {
	return c.postRating(ctx, fmt.Sprintf("/products/%d/rate/", productID), value)
}

// RateArticle submits a 1-5 rating for an article.
func (c *Client) RateArticle(ctx context.Context, articleID int64, value int) error {
	return c.postRating(ctx, fmt.Sprintf("/articles/%d/rate/", articleID), value)
}

func (c *Client) postRating(ctx context.Context, path string, value int) error {
	if err := ValidateRatingValue(value); err != nil {
		return err
	}

	body := map[string]int{"value": value}
	if err := c.postJSON(ctx, path, body, nil); err != nil {
		return errors.Wrap(err, "[Client.postRating] postJSON")
	}
	return nil
}

// DeleteComment removes a comment. The server enforces who may delete.
func (c *Client) DeleteComment(ctx context.Context, commentID int64) error {
	if err := c.deleteJSON(ctx, fmt.Sprintf("/comments/%d/delete/", commentID), nil); err != nil {
		return errors.Wrap(err, "[Client.DeleteComment] deleteJSON")
	}
	return nil
}
