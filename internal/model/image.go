package model

import "time"

// Image represents one stored photo: the original file, its thumbnail,
// descriptive metadata, and the blurhash placeholder shown while the
// full image loads.
//
// Width and Height always describe the original image. Blurhash is
// always encoded from the thumbnail.
type Image struct {
	ID           int64     `db:"id" json:"id"`
	URI          string    `db:"uri" json:"uri"`
	ThumbnailURI string    `db:"thumbnail_uri" json:"thumbnail_uri"`
	Title        string    `db:"title" json:"title"`
	Position     string    `db:"position" json:"position"`
	Time         string    `db:"time" json:"time"`
	Description  string    `db:"description" json:"description"`
	Blurhash     string    `db:"blurhash" json:"blurhash"`
	Width        int       `db:"width" json:"width"`
	Height       int       `db:"height" json:"height"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Account is the administrative credential that gates all mutating
// endpoints. The gallery holds a single account at a time.
type Account struct {
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
