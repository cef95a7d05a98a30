package models

import "time"

// Reply is an AI-generated reply suggestion for a monitored post. The reply
// text is produced by an external generator; this server only stores it and
// collects user feedback on it.
type Reply struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Platform  Platform  `json:"platform"`
	Content   string    `json:"content"`
	Tone      string    `json:"tone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Feedback ratings a user can give a reply.
const (
	RatingUp   = "up"
	RatingDown = "down"
)

// ReplyFeedback is one user rating of a stored reply.
type ReplyFeedback struct {
	ID        int64     `json:"id"`
	ReplyID   string    `json:"replyId"`
	Rating    string    `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateReplyParams is the payload for storing a generated reply.
type CreateReplyParams struct {
	URL      string   `json:"url"`
	Platform Platform `json:"platform"`
	Content  string   `json:"content"`
	Tone     string   `json:"tone"`
}

// CreateFeedbackParams is the payload for rating a reply.
type CreateFeedbackParams struct {
	ReplyID string `json:"replyId"`
	Rating  string `json:"rating"`
	Comment string `json:"comment"`
}
