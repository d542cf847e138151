package models

import "time"

type Sender string

const (
	SenderUser   Sender = "user"
	SenderEngine Sender = "engine"
)

type MessageKind string

const (
	KindText       MessageKind = "text"
	KindAnalysis   MessageKind = "analysis"
	KindPrediction MessageKind = "prediction"
	KindWarning    MessageKind = "warning"
	KindSuccess    MessageKind = "success"
	KindError      MessageKind = "error"
	KindInfo       MessageKind = "info"
)

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

type MediaKind string

const (
	ImageMedia    MediaKind = "image"
	VideoMedia    MediaKind = "video"
	AudioMedia    MediaKind = "audio"
	DocumentMedia MediaKind = "document"
	DataMedia     MediaKind = "data"
)

// Message is one entry of the visible transcript. It is never changed after
// it has been appended.
type Message struct {
	ID          string       `json:"id"`
	Sender      Sender       `json:"sender"`
	Content     string       `json:"content"`
	Timestamp   time.Time    `json:"timestamp"`
	Kind        MessageKind  `json:"kind"`
	Confidence  *int         `json:"confidence,omitempty"`
	Priority    Priority     `json:"priority,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Attachment is owned by the Message referencing it.
type Attachment struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	MediaKind   MediaKind `json:"media_kind"`
	SizeBytes   int64     `json:"size_bytes"`
	LocationRef string    `json:"location_ref"`
}

// RequestContext carries the per-request user state into classification,
// handlers and the remote assistant.
type RequestContext struct {
	UserID        int64     `json:"user_id"`
	Sport         string    `json:"sport"`
	Language      string    `json:"language"`
	IsPremiumUser bool      `json:"is_premium_user"`
	Now           time.Time `json:"-"`
}
