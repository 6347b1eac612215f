package models

import "time"

// Document is catalog metadata for a shared file. Content lives in object
// storage; the server only hands out presigned URLs for it.
type Document struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	StorageKey  string    `json:"storage_key"`
	Owner       string    `json:"owner"`
	CreatedAt   time.Time `json:"created_at"`
}
