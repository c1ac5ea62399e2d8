package models

// Entity is anything the server identifies by a string id.
type Entity interface {
	EntityID() string
}

// ReplaceByID returns a copy of list where the element sharing item's id is
// replaced by item. When no element matches, item is appended.
func ReplaceByID[T Entity](list []T, item T) []T {
	out := make([]T, 0, len(list)+1)
	replaced := false
	for _, el := range list {
		if el.EntityID() == item.EntityID() {
			out = append(out, item)
			replaced = true
			continue
		}
		out = append(out, el)
	}
	if !replaced {
		out = append(out, item)
	}
	return out
}

// RemoveByID returns a copy of list without the element with the given id.
func RemoveByID[T Entity](list []T, id string) []T {
	out := make([]T, 0, len(list))
	for _, el := range list {
		if el.EntityID() != id {
			out = append(out, el)
		}
	}
	return out
}

// FindByID returns the element with the given id.
func FindByID[T Entity](list []T, id string) (T, bool) {
	for _, el := range list {
		if el.EntityID() == id {
			return el, true
		}
	}
	var zero T
	return zero, false
}

// HasBooking reports whether any booking is for eventID.
func HasBooking(bookings []Booking, eventID string) bool {
	for _, b := range bookings {
		if b.EventID == eventID {
			return true
		}
	}
	return false
}
