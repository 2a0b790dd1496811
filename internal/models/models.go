package models

import (
	"slices"
	"time"
)

// User represents an account on the fitflix platform.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Purchases    PurchaseSet
}

// PurchaseSet holds the ids of paid videos a user is entitled to watch.
type PurchaseSet []int

// Contains reports whether the set grants access to the given video id.
func (p PurchaseSet) Contains(videoID int) bool {
	return slices.Contains(p, videoID)
}

// Identity is the authenticated caller attached to a request context.
type Identity struct {
	ID        int64
	Username  string
	Purchases PurchaseSet
}

// VideoType distinguishes free previews from paid content.
type VideoType string

const (
	VideoTypeFree VideoType = "free"
	VideoTypePaid VideoType = "paid"
)

// Video is a catalog record.
type Video struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url,omitempty"`
	Type        VideoType `json:"type"`
	Price       *float64  `json:"price,omitempty"`
}

// IsPaid reports whether the video requires a purchase.
func (v Video) IsPaid() bool {
	return v.Type == VideoTypePaid
}

// SessionToken is the signed bearer credential handed out at login.
type SessionToken struct {
	Token     string
	ExpiresAt time.Time
}
