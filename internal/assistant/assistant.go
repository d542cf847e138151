// Package assistant is the boundary to the remote AI service that answers
// chat messages when it is reachable.
package assistant

import (
	"context"
	"errors"
)

// ErrEmptyReply is returned when the service answered without content.
var ErrEmptyReply = errors.New("assistant: empty reply")

type RequestContext struct {
	UserID              int64  `json:"userId"`
	Sport               string `json:"sport"`
	TeamSnapshotSummary string `json:"teamSnapshotSummary"`
	Language            string `json:"language"`
	IsPremiumUser       bool   `json:"isPremiumUser"`
}

type Request struct {
	Message string         `json:"message"`
	Context RequestContext `json:"context"`
}

type Reply struct {
	Content           string   `json:"content"`
	Confidence        int      `json:"confidence"`
	Suggestions       []string `json:"suggestions,omitempty"`
	FollowUpQuestions []string `json:"followUpQuestions,omitempty"`
}

type Service interface {
	Respond(ctx context.Context, req Request) (*Reply, error)
}

// ServiceFunc adapts a function to Service.
type ServiceFunc func(ctx context.Context, req Request) (*Reply, error)

func (f ServiceFunc) Respond(ctx context.Context, req Request) (*Reply, error) {
	return f(ctx, req)
}
