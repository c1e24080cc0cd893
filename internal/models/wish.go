package models

import "time"

// WishType encodes whose wish a record is. A creator always tags their own
// wishes as WishTypeMine; "partner's wishes" are the partner's own-tagged
// rows. WishTypePartner exists in stored data but no view selects it.
type WishType string

const (
	WishTypeMine    WishType = "my_wish"
	WishTypePartner WishType = "partner_wish"
)

// Wish represents a gift wish, optionally with an attached image.
type Wish struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	ImageID     string    `json:"image_id" db:"image_id"`
	Type        WishType  `json:"wish_type" db:"wish_type"`
	CreatedBy   int64     `json:"created_by" db:"created_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// HasImage returns true if an image reference is attached.
func (w *Wish) HasImage() bool {
	return w.ImageID != ""
}
