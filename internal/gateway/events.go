package gateway

import (
	"context"
	"net/http"
	"net/url"

	"eventbook/internal/models"
)

// FetchEvents lists all events.
func (c *Client) FetchEvents(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	if err := c.Send(ctx, http.MethodGet, "/api/events", nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// FetchEvent returns a single event.
func (c *Client) FetchEvent(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	if err := c.Send(ctx, http.MethodGet, "/api/events/"+url.PathEscape(id), nil, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// CreateEvent creates an event from JSON fields and returns the server's copy.
func (c *Client) CreateEvent(ctx context.Context, in models.EventInput) (*models.Event, error) {
	var event models.Event
	if err := c.Send(ctx, http.MethodPost, "/api/events", in, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// CreateEventForm creates an event from a multipart payload, typically one
// carrying an image.
func (c *Client) CreateEventForm(ctx context.Context, form *Form) (*models.Event, error) {
	var event models.Event
	if err := c.Send(ctx, http.MethodPost, "/api/events", form, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// UpdateEvent sends the non-zero fields of in and returns the server's copy.
func (c *Client) UpdateEvent(ctx context.Context, id string, in models.EventInput) (*models.Event, error) {
	var event models.Event
	if err := c.Send(ctx, http.MethodPut, "/api/events/"+url.PathEscape(id), in, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// DeleteEvent removes an event.
func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	return c.Send(ctx, http.MethodDelete, "/api/events/"+url.PathEscape(id), nil, nil)
}
