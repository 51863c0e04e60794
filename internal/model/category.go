package model

import "time"

// Category is a user-defined grouping of that user's own channel records.
// (OwnerID, Name) is unique per user. Categories never own record lifecycle:
// deleting a record detaches it from every category, deleting a category
// leaves its members untouched.
type Category struct {
	ID        int64     `json:"id"`
	OwnerID   string    `json:"-"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateCategoryRequest is the API request body for creating a category.
type CreateCategoryRequest struct {
	Name string `json:"name"`
}
