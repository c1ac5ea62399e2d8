package gateway

import (
	"context"
	"net/http"
	"net/url"

	"eventbook/internal/models"
)

// FetchCategories lists all categories.
func (c *Client) FetchCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := c.Send(ctx, http.MethodGet, "/api/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateCategory creates a category. Authorization is left to the server.
func (c *Client) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	var category models.Category
	if err := c.Send(ctx, http.MethodPost, "/api/categories", models.NameInput{Name: name}, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory removes a category.
func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.Send(ctx, http.MethodDelete, "/api/categories/"+url.PathEscape(id), nil, nil)
}

// FetchTags lists all tags.
func (c *Client) FetchTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := c.Send(ctx, http.MethodGet, "/api/tags", nil, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// CreateTag creates a tag.
func (c *Client) CreateTag(ctx context.Context, name string) (*models.Tag, error) {
	var tag models.Tag
	if err := c.Send(ctx, http.MethodPost, "/api/tags", models.NameInput{Name: name}, &tag); err != nil {
		return nil, err
	}
	return &tag, nil
}

// DeleteTag removes a tag.
func (c *Client) DeleteTag(ctx context.Context, id string) error {
	return c.Send(ctx, http.MethodDelete, "/api/tags/"+url.PathEscape(id), nil, nil)
}
