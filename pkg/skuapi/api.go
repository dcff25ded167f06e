package skuapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/GTDGit/sku_console/internal/models"
)

const skusPath = "/skus"

// Login exchanges credentials for a bearer token. It does not send the
// Authorization header.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	req := LoginRequest{UserName: username, Password: password}
	var resp LoginResponse
	if err := c.doRequest(ctx, "login", http.MethodPost, c.config.LoginPath, req, &resp, false); err != nil {
		return "", err
	}
	if strings.TrimSpace(resp.Token) == "" {
		return "", ErrMissingToken
	}
	return resp.Token, nil
}

// List returns every SKU.
func (c *Client) List(ctx context.Context) ([]models.SKU, error) {
	var skus []models.SKU
	if err := c.doRequest(ctx, "list skus", http.MethodGet, skusPath, nil, &skus, true); err != nil {
		return nil, err
	}
	if skus == nil {
		skus = []models.SKU{}
	}
	return skus, nil
}

// ListCategories returns the distinct categories known to the backend.
func (c *Client) ListCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.doRequest(ctx, "list categories", http.MethodGet, skusPath+"/categories", nil, &categories, true); err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}

// Create stores a new SKU and returns it with its server-assigned id.
func (c *Client) Create(ctx context.Context, in models.SKUInput) (*models.SKU, error) {
	var created models.SKU
	if err := c.doRequest(ctx, "create sku", http.MethodPost, skusPath, toPayload(in), &created, true); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update replaces the SKU with the given id.
func (c *Client) Update(ctx context.Context, id int64, in models.SKUInput) (*models.SKU, error) {
	var updated models.SKU
	path := fmt.Sprintf("%s/%d", skusPath, id)
	if err := c.doRequest(ctx, "update sku", http.MethodPut, path, toPayload(in), &updated, true); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the SKU with the given id.
func (c *Client) Delete(ctx context.Context, id int64) error {
	var resp DeleteResponse
	path := fmt.Sprintf("%s/%d", skusPath, id)
	return c.doRequest(ctx, "delete sku", http.MethodDelete, path, nil, &resp, true)
}

// Get returns one SKU by id.
func (c *Client) Get(ctx context.Context, id int64) (*models.SKU, error) {
	var sku models.SKU
	path := fmt.Sprintf("%s/%d", skusPath, id)
	if err := c.doRequest(ctx, "get sku", http.MethodGet, path, nil, &sku, true); err != nil {
		return nil, err
	}
	return &sku, nil
}

// GetByCode returns one SKU by its code.
func (c *Client) GetByCode(ctx context.Context, code string) (*models.SKU, error) {
	var sku models.SKU
	path := skusPath + "/code/" + url.PathEscape(code)
	if err := c.doRequest(ctx, "get sku by code", http.MethodGet, path, nil, &sku, true); err != nil {
		return nil, err
	}
	return &sku, nil
}

// Search runs the backend's own search. An empty term returns every SKU.
func (c *Client) Search(ctx context.Context, term string) ([]models.SKU, error) {
	var skus []models.SKU
	path := skusPath + "/search?term=" + url.QueryEscape(term)
	if err := c.doRequest(ctx, "search skus", http.MethodGet, path, nil, &skus, true); err != nil {
		return nil, err
	}
	return skus, nil
}

// ListByCategory returns the SKUs of one category.
func (c *Client) ListByCategory(ctx context.Context, category string) ([]models.SKU, error) {
	var skus []models.SKU
	path := skusPath + "/category/" + url.PathEscape(category)
	if err := c.doRequest(ctx, "list skus by category", http.MethodGet, path, nil, &skus, true); err != nil {
		return nil, err
	}
	return skus, nil
}
