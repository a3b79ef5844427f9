package domain

import "time"

// Task is a single to-do item owned by one user.
type Task struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description" db:"description"`
	Completed   bool      `json:"completed" db:"completed"`
	UserID      string    `json:"userId" db:"user_id"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// TaskPatch carries a partial update. Nil fields are left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Completed   *bool
}

// TaskQuery is the predicate handed to the store for list reads.
// UserID is always set; Text restricts titles by case-insensitive
// substring; Completed, when non-nil, restricts by completion state.
type TaskQuery struct {
	UserID    string
	Text      string
	Completed *bool
	Offset    int
	Limit     int
}

// Pagination describes the slice of results returned by a list read.
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// TaskPage is one page of tasks plus its pagination metadata.
type TaskPage struct {
	Tasks      []*Task    `json:"data"`
	Pagination Pagination `json:"pagination"`
}
