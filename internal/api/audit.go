package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/fundforge/fundforge/internal/models"
)

// AuditHandler serves audit log endpoints.
type AuditHandler struct {
	svc AuditService
	log *logrus.Logger
}

// NewAuditHandler creates an AuditHandler.
func NewAuditHandler(svc AuditService, log *logrus.Logger) *AuditHandler {
	return &AuditHandler{svc: svc, log: log}
}

// Query handles GET /api/v1/audit.
func (h *AuditHandler) Query(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	opts := models.AuditQueryOpts{
		EntityType:    c.Query("entity_type"),
		EntityID:      c.Query("entity_id"),
		EntityOwnerID: c.Query("entity_owner_id"),
		Action:        models.Action(c.Query("action")),
		ActorID:       c.Query("actor_id"),
		Limit:         parseInt(c.Query("limit"), 50),
		Offset:        parseOffset(c.Query("offset")),
	}

	if opts.Action != "" && !opts.Action.Valid() {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "unknown action filter")
		return
	}

	if since := c.Query("since"); since != "" {
		t, err := time.Parse(time.RFC3339, since)
		if err != nil {
			respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid since format, use RFC3339")
			return
		}
		opts.Since = &t
	}

	records, hasMore, err := h.svc.Query(c.Request.Context(), actor, opts)
	if err != nil {
		respondServiceError(c, h.log, err, "failed to query audit log")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     records,
		"has_more": hasMore,
	})
}

// Purge handles DELETE /api/v1/audit.
func (h *AuditHandler) Purge(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	retentionDays := 90
	if rd := c.Query("retention_days"); rd != "" {
		v, err := strconv.Atoi(rd)
		if err != nil || v < 1 {
			respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "retention_days must be a positive integer")
			return
		}
		retentionDays = v
	}

	deleted, err := h.svc.Purge(c.Request.Context(), actor, retentionDays, requestContext(c))
	if err != nil {
		respondServiceError(c, h.log, err, "failed to purge audit records")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"deleted":        deleted,
		"retention_days": retentionDays,
	})
}
