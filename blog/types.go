// Package blog holds annotated record structs for a small blogging domain.
package blog

import (
	"time"
)

// Status is the publication state of a post.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// Post is a published entry with comments and attachments.
type Post struct {
	ID          int64        `attr:"id"`
	Title       string       `attr:"title"`
	Body        string       `attr:"body"`
	Status      Status       `attr:""`
	CreatedAt   time.Time    `attr:"created_at"`
	Comments    []Comment    `rel:"comments,nested"` // Has-Many, accepts nested writes
	Author      *Author      `rel:"author,nested"`
	Attachments []Attachment `rel:"attachments"`
	Internal    string       `attr:"-"`
	draft       bool
}

// Draft reports whether the post has not been published yet.
func (p *Post) Draft() bool {
	return p.draft || p.Status == StatusDraft
}

// Article is a long-form post. It shares the posts table.
type Article struct {
	Post
	Summary string `attr:"summary"`
}

// Comment belongs to a post.
type Comment struct {
	ID   int64  `attr:"id"`
	Body string `attr:"body"`
	Post *Post  `rel:"post"`
}

// Author writes posts.
type Author struct {
	Name     string `attr:"name"`
	Verified bool   `attr:"verified"`
}

// Attachment is a file attached to a post. Subtypes are told apart by their
// discriminator.
type Attachment struct {
	URL  string            `attr:"url"`
	Size float64           `attr:"size"`
	Meta map[string]string `attr:"meta"`
}

// Image is an attachment with pixel dimensions.
type Image struct {
	Attachment `discriminator:"image"`
	Width      int `attr:"width"`
}

// Tag is a plain value type, not a record.
type Tag struct {
	Label string
}
