package entity

import "time"

// News is a published article. It is immutable once created.
type News struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	ShortSynopsis string    `json:"shortSynopsis"`
	Synopsis      string    `json:"synopsis"`
	CreatedAt     time.Time `json:"createdAt"`
	ImageURL      string    `json:"imageUrl,omitempty"`
	ImageID       string    `json:"imageId,omitempty"`
}

// Image references an asset held by the external image store.
type Image struct {
	URL string
	ID  string
}
