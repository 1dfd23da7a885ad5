package graphql

import (
	"strconv"
	"time"

	"github.com/fundforge/fundforge/internal/models"
)

// commentToGQL converts a models.Comment to the GraphQL Comment type.
func commentToGQL(c *models.Comment) *Comment {
	if c == nil {
		return nil
	}
	return &Comment{
		ID:          c.ID,
		CampaignID:  c.CampaignID,
		AuthorID:    c.AuthorID,
		Body:        c.Body,
		State:       string(c.State),
		ReportCount: c.ReportCount,
		Version:     int(c.Version),
		CreatedAt:   c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   c.UpdatedAt.Format(time.RFC3339),
	}
}

// auditToGQL converts a models.AuditRecord to the GraphQL AuditRecord type.
func auditToGQL(a *models.AuditRecord) *AuditRecord {
	if a == nil {
		return nil
	}
	rec := &AuditRecord{
		ID:          strconv.FormatInt(a.ID, 10),
		Action:      string(a.Action),
		EntityType:  a.EntityType,
		EntityID:    a.EntityID,
		ActorType:   string(a.ActorType),
		Description: a.Description,
		OldValues:   a.OldValues,
		NewValues:   a.NewValues,
		Metadata:    a.Metadata,
		CreatedAt:   a.CreatedAt.Format(time.RFC3339),
	}
	if a.EntityOwnerID != "" {
		rec.EntityOwnerID = &a.EntityOwnerID
	}
	if a.ActorID != "" {
		rec.ActorID = &a.ActorID
	}
	if a.ActorRole != "" {
		role := string(a.ActorRole)
		rec.ActorRole = &role
	}
	if a.IPAddress != "" {
		rec.IPAddress = &a.IPAddress
	}
	if a.UserAgent != "" {
		rec.UserAgent = &a.UserAgent
	}
	return rec
}

// auditsToGQL converts a slice of models.AuditRecord to GraphQL pointers.
func auditsToGQL(records []models.AuditRecord) []*AuditRecord {
	out := make([]*AuditRecord, len(records))
	for i := range records {
		out[i] = auditToGQL(&records[i])
	}
	return out
}

// transitionToGQL converts a TransitionResult to the GraphQL ModerationResult.
func transitionToGQL(result *models.TransitionResult) *ModerationResult {
	out := &ModerationResult{
		Comment:          commentToGQL(result.Comment),
		AuditWriteFailed: result.AuditWriteFailed,
		ReportAdded:      result.ReportAdded,
	}
	if result.Record != nil {
		id := strconv.FormatInt(result.Record.ID, 10)
		out.AuditRecordID = &id
	}
	return out
}

// derefStr returns the string pointed to by p, or empty string if nil.
func derefStr(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// derefInt returns the int pointed to by p, or fallback if nil.
func derefInt(p *int, fallback int) int {
	if p == nil {
		return fallback
	}
	return *p
}
