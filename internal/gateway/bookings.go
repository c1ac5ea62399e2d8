package gateway

import (
	"context"
	"net/http"
	"net/url"

	"eventbook/internal/models"
)

// BookEvent books eventID for the current session's user.
func (c *Client) BookEvent(ctx context.Context, eventID string) (*models.Booking, error) {
	var booking models.Booking
	if err := c.Send(ctx, http.MethodPost, "/api/bookings/"+url.PathEscape(eventID), nil, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

// FetchMyBookings lists the bookings of the current session's user. The
// token always comes from the client's TokenSource.
func (c *Client) FetchMyBookings(ctx context.Context) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := c.Send(ctx, http.MethodGet, "/api/bookings/me", nil, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}
