package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/fundforge/fundforge/internal/models"
)

// CommentHandler serves comment read/create endpoints.
type CommentHandler struct {
	svc CommentService
	log *logrus.Logger
}

// NewCommentHandler creates a CommentHandler.
func NewCommentHandler(svc CommentService, log *logrus.Logger) *CommentHandler {
	return &CommentHandler{svc: svc, log: log}
}

// Create handles POST /api/v1/comments.
func (h *CommentHandler) Create(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	var req models.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())
		return
	}

	comment, err := h.svc.CreateComment(c.Request.Context(), actor, req, requestContext(c))
	if err != nil {
		respondServiceError(c, h.log, err, "failed to create comment")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": comment})
}

// Get handles GET /api/v1/comments/:id.
func (h *CommentHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if err := validatePathID(id); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}

	comment, err := h.svc.GetComment(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.log, err, "failed to get comment")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": comment})
}
