// internal/domain/models/material.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Material is one published entry on the board: an article, a video, or
// any other reading material a teacher posts.
//
// Content is an HTML fragment written by a teacher or by the daily
// generator. It is stored as given and rendered as markup; the view
// layer only strips scripts and event handlers.
type Material struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title    string             `bson:"title" json:"title"`
	Category string             `bson:"category" json:"category"` // see categories.go
	Topic    string             `bson:"topic,omitempty" json:"topic,omitempty"`
	Content  string             `bson:"content" json:"content"`

	VideoURL string `bson:"video_url,omitempty" json:"video_url,omitempty"`
	ImageURL string `bson:"image_url,omitempty" json:"image_url,omitempty"`

	AuthorEmail string `bson:"author_email" json:"author_email"`

	// CreatedAt is assigned by the store on insert. Documents written by
	// older clients may lack it, so readers must handle nil.
	CreatedAt *time.Time `bson:"created_at,omitempty" json:"created_at,omitempty"`
}

// IsArticle reports whether the material belongs to the featured slice.
func (m *Material) IsArticle() bool {
	return m.Category == CategoryArticle
}

// IsVideo reports whether the material should be rendered with a player.
func (m *Material) IsVideo() bool {
	return m.Category == CategoryVideo
}

// IsGenerated reports whether the material was written by the daily generator.
func (m *Material) IsGenerated() bool {
	return m.AuthorEmail == GeneratorAuthorEmail
}
