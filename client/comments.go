package client

import (
	"context"
	"net/url"
)

// CommentService handles comment creation and retrieval.
type CommentService struct {
	c *Client
}

// commentEnvelope wraps single-comment responses.
type commentEnvelope struct {
	Data *Comment `json:"data"`
}

// Create posts a new comment authored by the session's user.
func (s *CommentService) Create(ctx context.Context, req *CreateCommentRequest) (*Comment, error) {
	var resp commentEnvelope
	if err := s.c.post(ctx, "/api/v1/comments", req, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Get retrieves a comment by ID.
func (s *CommentService) Get(ctx context.Context, id string) (*Comment, error) {
	var resp commentEnvelope
	if err := s.c.get(ctx, "/api/v1/comments/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}
