package models

import (
	"fmt"
	"time"
)

// Event represents a bookable event as the server returns it.
type Event struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Date        string    `json:"date"`
	Venue       string    `json:"venue"`
	Price       float64   `json:"price"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	CategoryID  string    `json:"categoryId,omitempty"`
	Category    *Category `json:"category,omitempty"`
	Tags        []Tag     `json:"tags,omitempty"`
}

// EntityID implements Entity.
func (e Event) EntityID() string { return e.ID }

// Time parses the ISO-8601 date of the event.
func (e *Event) Time() (time.Time, error) {
	return ParseDate(e.Date)
}

// Validate checks an event decoded from the server.
func (e *Event) Validate() error {
	if e.ID == "" {
		return &ValidationError{Field: "event.id", Message: "is required"}
	}
	if e.Name == "" {
		return &ValidationError{Field: "event.name", Message: "is required"}
	}
	if _, err := ParseDate(e.Date); err != nil {
		return &ValidationError{Field: "event.date", Message: "is not an ISO-8601 date"}
	}
	if e.Price < 0 {
		return &ValidationError{Field: "event.price", Message: "must not be negative"}
	}
	if e.Category != nil {
		if err := e.Category.Validate(); err != nil {
			return err
		}
	}
	for i := range e.Tags {
		if err := e.Tags[i].Validate(); err != nil {
			return fmt.Errorf("event.tags[%d]: %w", i, err)
		}
	}
	return nil
}

// Category groups events. Categories are flat.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// EntityID implements Entity.
func (c Category) EntityID() string { return c.ID }

// Validate checks a category decoded from the server.
func (c *Category) Validate() error {
	if c.ID == "" {
		return &ValidationError{Field: "category.id", Message: "is required"}
	}
	return nil
}

// Tag labels events. Tags are flat.
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// EntityID implements Entity.
func (t Tag) EntityID() string { return t.ID }

// Validate checks a tag decoded from the server.
func (t *Tag) Validate() error {
	if t.ID == "" {
		return &ValidationError{Field: "tag.id", Message: "is required"}
	}
	return nil
}

// Booking is a user's reservation for an event. Event is a denormalized copy.
type Booking struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	EventID   string `json:"eventId"`
	CreatedAt string `json:"createdAt"`
	Event     Event  `json:"event"`
}

// EntityID implements Entity.
func (b Booking) EntityID() string { return b.ID }

// Validate checks a booking decoded from the server.
func (b *Booking) Validate() error {
	if b.ID == "" {
		return &ValidationError{Field: "booking.id", Message: "is required"}
	}
	if b.EventID == "" {
		return &ValidationError{Field: "booking.eventId", Message: "is required"}
	}
	if b.Event.ID != "" {
		if err := b.Event.Validate(); err != nil {
			return fmt.Errorf("booking.event: %w", err)
		}
	}
	return nil
}

// NameInput is the payload for creating a category or a tag.
type NameInput struct {
	Name string `json:"name"`
}

// EventInput carries the writable event fields. Zero fields are omitted so
// the same type serves as a partial update.
type EventInput struct {
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	Date        string   `json:"date,omitempty"`
	Venue       string   `json:"venue,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	CategoryID  string   `json:"categoryId,omitempty"`
	TagIDs      []string `json:"tags,omitempty"`
}

// Validate applies the admin form rules for a new event.
func (in *EventInput) Validate() error {
	if in.Name == "" {
		return &ValidationError{Field: "name", Message: "is required"}
	}
	if _, err := ParseDate(in.Date); err != nil {
		return &ValidationError{Field: "date", Message: "is not an ISO-8601 date"}
	}
	if in.Price == nil || *in.Price < 0 {
		return &ValidationError{Field: "price", Message: "must be a non-negative number"}
	}
	if in.CategoryID == "" {
		return &ValidationError{Field: "category", Message: "is required"}
	}
	if len(in.TagIDs) == 0 {
		return &ValidationError{Field: "tags", Message: "need at least one tag"}
	}
	return nil
}

// ValidateUpdate checks only the fields a partial update sets.
func (in *EventInput) ValidateUpdate() error {
	if in.Date != "" {
		if _, err := ParseDate(in.Date); err != nil {
			return &ValidationError{Field: "date", Message: "is not an ISO-8601 date"}
		}
	}
	if in.Price != nil && *in.Price < 0 {
		return &ValidationError{Field: "price", Message: "must be a non-negative number"}
	}
	return nil
}

// ParseDate accepts RFC 3339 timestamps (with or without fractional
// seconds) and plain calendar dates.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, s)
}
