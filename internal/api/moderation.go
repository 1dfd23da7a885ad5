package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/fundforge/fundforge/internal/models"
)

// ModerationHandler serves the comment moderation transition endpoints.
type ModerationHandler struct {
	svc ModerationService
	log *logrus.Logger
}

// NewModerationHandler creates a ModerationHandler.
func NewModerationHandler(svc ModerationService, log *logrus.Logger) *ModerationHandler {
	return &ModerationHandler{svc: svc, log: log}
}

// transitionRequest is the optional JSON body for moderation endpoints.
type transitionRequest struct {
	Reason string `json:"reason"`
}

// maxReasonLength bounds the free-text reason carried into audit metadata.
const maxReasonLength = 1000

// transitionFn is a ModerationService method with the shared transition shape.
type transitionFn func(ctx context.Context, actor models.Actor, commentID, reason string, rc *models.RequestContext) (*models.TransitionResult, error)

// Report handles POST /api/v1/comments/:id/report.
func (h *ModerationHandler) Report(c *gin.Context) {
	h.transition(c, h.svc.Report, "failed to report comment")
}

// Hide handles POST /api/v1/comments/:id/hide.
func (h *ModerationHandler) Hide(c *gin.Context) {
	h.transition(c, h.svc.Hide, "failed to hide comment")
}

// Remove handles POST /api/v1/comments/:id/remove.
func (h *ModerationHandler) Remove(c *gin.Context) {
	h.transition(c, h.svc.Remove, "failed to remove comment")
}

// Restore handles POST /api/v1/comments/:id/restore.
func (h *ModerationHandler) Restore(c *gin.Context) {
	h.transition(c, h.svc.Restore, "failed to restore comment")
}

// DeleteOwn handles DELETE /api/v1/comments/:id.
func (h *ModerationHandler) DeleteOwn(c *gin.Context) {
	h.transition(c, func(ctx context.Context, actor models.Actor, commentID, _ string, rc *models.RequestContext) (*models.TransitionResult, error) {
		return h.svc.DeleteOwn(ctx, actor, commentID, rc)
	}, "failed to delete comment")
}

// transition runs the shared handler pipeline for all moderation endpoints:
// actor, path ID, optional reason body, then the service call.
func (h *ModerationHandler) transition(c *gin.Context, fn transitionFn, fallback string) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if err := validatePathID(id); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}

	var req transitionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")
			return
		}
	}
	if len(req.Reason) > maxReasonLength {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, "reason exceeds maximum length of 1000")
		return
	}

	result, err := fn(c.Request.Context(), actor, id, req.Reason, requestContext(c))
	if err != nil {
		respondServiceError(c, h.log, err, fallback)
		return
	}

	c.JSON(http.StatusOK, transitionResponse(result))
}

// transitionResponse shapes a TransitionResult for the wire. The audit
// record ID is included so clients can reference the trail entry; the
// audit_write_failed flag surfaces a committed change whose record was lost.
func transitionResponse(result *models.TransitionResult) gin.H {
	resp := gin.H{"data": result.Comment}

	if result.Record != nil {
		resp["audit_record_id"] = result.Record.ID
	}
	if result.AuditWriteFailed {
		resp["audit_write_failed"] = true
	}
	if result.ReportAdded {
		resp["report_added"] = true
	}

	return resp
}
