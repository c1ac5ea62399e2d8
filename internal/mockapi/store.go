package mockapi

import (
	"errors"
	"strings"
	"sync"
	"time"

	"eventbook/internal/models"

	"github.com/google/uuid"
)

var (
	errNotFound  = errors.New("not found")
	errDuplicate = errors.New("already exists")
)

type userRecord struct {
	models.User
	PasswordHash string
}

// memStore keeps the backend's data in ordered slices, in insertion order.
type memStore struct {
	mu         sync.RWMutex
	users      []userRecord
	events     []models.Event
	categories []models.Category
	tags       []models.Tag
	bookings   []models.Booking
}

func (s *memStore) createUser(name, email, passwordHash, role string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return models.User{}, errDuplicate
		}
	}
	u := userRecord{
		User:         models.User{ID: uuid.NewString(), Name: name, Email: email, Role: role},
		PasswordHash: passwordHash,
	}
	s.users = append(s.users, u)
	return u.User, nil
}

func (s *memStore) userByEmail(email string) (userRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, true
		}
	}
	return userRecord{}, false
}

func (s *memStore) listEvents() []models.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Event{}, s.events...)
}

func (s *memStore) event(id string) (models.Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.FindByID(s.events, id)
}

// applyEvent resolves the category and tag references of in onto e.
// Zero fields of in leave e unchanged.
func (s *memStore) applyEvent(e *models.Event, in models.EventInput) error {
	if in.Name != "" {
		e.Name = in.Name
	}
	if in.Description != "" {
		e.Description = in.Description
	}
	if in.Date != "" {
		e.Date = in.Date
	}
	if in.Venue != "" {
		e.Venue = in.Venue
	}
	if in.Price != nil {
		e.Price = *in.Price
	}
	if in.ImageURL != "" {
		e.ImageURL = in.ImageURL
	}
	if in.CategoryID != "" {
		c, ok := models.FindByID(s.categories, in.CategoryID)
		if !ok {
			return errors.New("unknown category " + in.CategoryID)
		}
		e.CategoryID = c.ID
		e.Category = &c
	}
	if in.TagIDs != nil {
		tags := make([]models.Tag, 0, len(in.TagIDs))
		for _, id := range in.TagIDs {
			t, ok := models.FindByID(s.tags, id)
			if !ok {
				return errors.New("unknown tag " + id)
			}
			tags = append(tags, t)
		}
		e.Tags = tags
	}
	return nil
}

func (s *memStore) createEvent(in models.EventInput) (models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := models.Event{ID: uuid.NewString(), Tags: []models.Tag{}}
	if err := s.applyEvent(&e, in); err != nil {
		return models.Event{}, err
	}
	s.events = append(s.events, e)
	return e, nil
}

func (s *memStore) updateEvent(id string, in models.EventInput) (models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := models.FindByID(s.events, id)
	if !ok {
		return models.Event{}, errNotFound
	}
	if err := s.applyEvent(&e, in); err != nil {
		return models.Event{}, err
	}
	s.events = models.ReplaceByID(s.events, e)
	return e, nil
}

func (s *memStore) deleteEvent(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := models.FindByID(s.events, id); !ok {
		return errNotFound
	}
	s.events = models.RemoveByID(s.events, id)
	return nil
}

func (s *memStore) listCategories() []models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Category{}, s.categories...)
}

func (s *memStore) createCategory(name string) models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := models.Category{ID: uuid.NewString(), Name: name}
	s.categories = append(s.categories, c)
	return c
}

func (s *memStore) deleteCategory(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := models.FindByID(s.categories, id); !ok {
		return errNotFound
	}
	s.categories = models.RemoveByID(s.categories, id)
	return nil
}

func (s *memStore) listTags() []models.Tag {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Tag{}, s.tags...)
}

func (s *memStore) createTag(name string) models.Tag {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := models.Tag{ID: uuid.NewString(), Name: name}
	s.tags = append(s.tags, t)
	return t
}

func (s *memStore) deleteTag(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := models.FindByID(s.tags, id); !ok {
		return errNotFound
	}
	s.tags = models.RemoveByID(s.tags, id)
	return nil
}

func (s *memStore) book(userID, eventID string) (models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := models.FindByID(s.events, eventID)
	if !ok {
		return models.Booking{}, errNotFound
	}
	for _, b := range s.bookings {
		if b.UserID == userID && b.EventID == eventID {
			return models.Booking{}, errDuplicate
		}
	}
	b := models.Booking{
		ID:        uuid.NewString(),
		UserID:    userID,
		EventID:   eventID,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Event:     e,
	}
	s.bookings = append(s.bookings, b)
	return b, nil
}

func (s *memStore) bookingsFor(userID string) []models.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Booking{}
	for _, b := range s.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out
}
