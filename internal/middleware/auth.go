package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/fundforge/fundforge/internal/models"
)

// authTimingFloor is the minimum response time for auth failures to prevent
// timing oracle attacks that could distinguish valid from invalid tokens.
const authTimingFloor = 50 * time.Millisecond

// ActorKey is the gin context key holding the authenticated models.Actor.
const ActorKey = "actor"

// SessionClaims are the claims fundforge issues in signed session tokens.
// Subject carries the user ID; Role is resolved at session creation and
// re-validated here on every request.
type SessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

var knownRoles = map[models.Role]bool{
	models.RoleAdmin:     true,
	models.RoleModerator: true,
	models.RoleUser:      true,
}

// truncateKey returns at most the first 4 characters of key followed by "...".
func truncateKey(key string) string {
	if len(key) > 4 {
		return key[:4] + "..."
	}
	return key
}

// enforceTimingFloor sleeps if needed so the response takes at least authTimingFloor.
func enforceTimingFloor(start time.Time) {
	if elapsed := time.Since(start); elapsed < authTimingFloor {
		time.Sleep(authTimingFloor - elapsed)
	}
}

// AuthMiddleware returns Gin middleware that authenticates requests via a
// Bearer session token signed with signingKey. On success the resolved actor
// is stored in the gin context under ActorKey. If a BruteForceGuard is
// provided, failed attempts are tracked per token hash.
func AuthMiddleware(signingKey []byte, log *logrus.Logger, guards ...*BruteForceGuard) gin.HandlerFunc {
	var guard *BruteForceGuard
	if len(guards) > 0 {
		guard = guards[0]
	}

	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if c.Writer.Status() == http.StatusUnauthorized {
				enforceTimingFloor(start)
			}
		}()

		token := ExtractBearerToken(c)
		if token == "" {
			respondError(c, http.StatusUnauthorized, "unauthorized", "missing or invalid authorization header")
			return
		}

		actor, err := resolveActor(token, signingKey)
		if err != nil {
			logAuthFailure(log, c, token, err)

			if guard != nil {
				guard.RecordFailure(token)
			}

			respondError(c, http.StatusUnauthorized, "unauthorized", "invalid session token")
			return
		}

		if guard != nil {
			guard.ResetKey(token)
		}

		c.Set(ActorKey, actor)
		c.Next()
	}
}

// resolveActor verifies the token signature and claims and maps them to an actor.
func resolveActor(token string, signingKey []byte) (models.Actor, error) {
	claims := &SessionClaims{}

	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return signingKey, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return models.Actor{}, err
	}

	if claims.Subject == "" {
		return models.Actor{}, fmt.Errorf("token missing subject")
	}

	role := models.Role(claims.Role)
	if !knownRoles[role] {
		return models.Actor{}, fmt.Errorf("token carries unknown role %q", claims.Role)
	}

	return models.UserActor(claims.Subject, role), nil
}

// ActorFrom returns the authenticated actor stored by AuthMiddleware.
func ActorFrom(c *gin.Context) (models.Actor, bool) {
	v, ok := c.Get(ActorKey)
	if !ok {
		return models.Actor{}, false
	}
	actor, ok := v.(models.Actor)
	return actor, ok
}

// ExtractBearerToken extracts the session token from the Authorization header.
func ExtractBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

// logAuthFailure logs a failed authentication attempt.
func logAuthFailure(log *logrus.Logger, c *gin.Context, token string, err error) {
	log.WithError(err).WithFields(logrus.Fields{
		"client_ip":    c.ClientIP(),
		"method":       c.Request.Method,
		"path":         c.Request.URL.Path,
		"user_agent":   c.Request.UserAgent(),
		"request_id":   c.GetString("request_id"),
		"token_prefix": truncateKey(token),
	}).Warn("authentication failed: invalid session token")
}
