package api

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

// Cart fetches the current server-side cart.
func (c *Client) Cart(ctx context.Context) (*Cart, error) {
	var cart Cart
	if err := c.getJSON(ctx, "/cart/", &cart); err != nil {
		return nil, errors.Wrap(err, "[Client.Cart] getJSON")
	}
	return &cart, nil
}

// AddToCart adds quantity units of a product. The caller refreshes the cart
// afterwards; the response body is not relied upon.
func (c *Client) AddToCart(ctx context.Context, productID int64, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("quantity must be at least 1")
	}

	body := map[string]any{"product_id": productID, "quantity": quantity}
	if err := c.postJSON(ctx, "/cart/add/", body, nil); err != nil {
		return errors.Wrap(err, "[Client.AddToCart] postJSON")
	}
	return nil
}

// UpdateCartItem sets the quantity of an existing cart line.
func (c *Client) UpdateCartItem(ctx context.Context, itemID int64, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("quantity must be at least 1")
	}

	body := map[string]any{"quantity": quantity}
	if err := c.putJSON(ctx, fmt.Sprintf("/cart/items/%d/", itemID), body, nil); err != nil {
		return errors.Wrap(err, "[Client.UpdateCartItem] putJSON")
	}
	return nil
}

// RemoveCartItem deletes a cart line.
func (c *Client) RemoveCartItem(ctx context.Context, itemID int64) error {
	if err := c.deleteJSON(ctx, fmt.Sprintf("/cart/items/%d/", itemID), nil); err != nil {
		return errors.Wrap(err, "[Client.RemoveCartItem] deleteJSON")
	}
	return nil
}
