package notes

import "time"

// Category is the closed set of note categories.
type Category string

const (
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"
	CategoryIdeas    Category = "ideas"
)

// Valid reports whether the category is one of the legal values.
func (c Category) Valid() bool {
	switch c {
	case CategoryWork, CategoryPersonal, CategoryIdeas:
		return true
	}
	return false
}

// Categories returns the legal category values in display order.
func Categories() []Category {
	return []Category{CategoryWork, CategoryPersonal, CategoryIdeas}
}

// Priority is the closed set of note priorities.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Valid reports whether the priority is one of the legal values.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Priorities returns the legal priority values in display order.
func Priorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

// Note represents a persisted note. Once read from the store a Note is
// treated as an immutable value; mutation happens only through Store calls.
type Note struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Category    Category  `json:"category"`
	Priority    Priority  `json:"priority"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Fields is the full replacement field set for create and update.
// Values are expected to be validated and trimmed before reaching the store.
type Fields struct {
	Title       string   `json:"title"`
	Category    Category `json:"category"`
	Priority    Priority `json:"priority"`
	Description string   `json:"description"`
}
