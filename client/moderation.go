package client

import (
	"context"
	"net/http"
	"net/url"
)

// ModerationService drives comment moderation transitions.
type ModerationService struct {
	c *Client
}

// transitionBody carries the optional moderator-supplied reason.
type transitionBody struct {
	Reason string `json:"reason,omitempty"`
}

// Report flags a comment for moderator attention. ReportAdded is false on
// the result when the session user had already reported it.
func (s *ModerationService) Report(ctx context.Context, id, reason string) (*ModerationResult, error) {
	return s.transition(ctx, id, "report", reason)
}

// Hide makes a comment invisible to the public pending review.
func (s *ModerationService) Hide(ctx context.Context, id, reason string) (*ModerationResult, error) {
	return s.transition(ctx, id, "hide", reason)
}

// Remove permanently takes a comment down. Removal is terminal.
func (s *ModerationService) Remove(ctx context.Context, id, reason string) (*ModerationResult, error) {
	return s.transition(ctx, id, "remove", reason)
}

// Restore returns a hidden comment to public visibility.
func (s *ModerationService) Restore(ctx context.Context, id, reason string) (*ModerationResult, error) {
	return s.transition(ctx, id, "restore", reason)
}

// DeleteOwn removes a comment authored by the session's user.
func (s *ModerationService) DeleteOwn(ctx context.Context, id string) (*ModerationResult, error) {
	var resp ModerationResult
	if err := s.c.do(ctx, http.MethodDelete, "/api/v1/comments/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *ModerationService) transition(ctx context.Context, id, action, reason string) (*ModerationResult, error) {
	path := "/api/v1/comments/" + url.PathEscape(id) + "/" + action

	var body any
	if reason != "" {
		body = &transitionBody{Reason: reason}
	}

	var resp ModerationResult
	if err := s.c.post(ctx, path, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
