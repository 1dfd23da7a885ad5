package store_test

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fundforge/fundforge/internal/dbpool"
	"github.com/fundforge/fundforge/internal/models"
	"github.com/fundforge/fundforge/internal/store"
)

// testEnv holds shared test infrastructure (single pool across all tests).
type testEnv struct {
	pool *dbpool.Pool
	log  *logrus.Logger
}

var sharedEnv *testEnv

func getTestEnv(t *testing.T) *testEnv {
	t.Helper()

	if sharedEnv != nil {
		return sharedEnv
	}

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()

	pool, err := dbpool.NewPool(ctx, dbURL)
	if err != nil {
		t.Fatalf("connecting to test DB: %v", err)
	}

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	sharedEnv = &testEnv{
		pool: pool,
		log:  log,
	}

	return sharedEnv
}

// setupTestBase creates a Base backed by the shared pool.
func setupTestBase(t *testing.T) store.Base {
	t.Helper()

	env := getTestEnv(t)

	return store.Base{Pool: env.pool, Log: env.log}
}

// newTestComment inserts a fresh comment owned by authorID, cleaned up (with
// its reports and audit records) after the test.
func newTestComment(t *testing.T, base store.Base, authorID string) *models.Comment {
	t.Helper()

	cs := store.NewCommentStore(base)
	ctx := context.Background()

	req := models.CreateCommentRequest{
		ID:         uuid.New().String(),
		CampaignID: "campaign-" + uuid.New().String()[:8],
		Body:       "integration test comment",
	}

	c, err := cs.CreateComment(ctx, authorID, req)
	if err != nil {
		t.Fatalf("creating test comment: %v", err)
	}

	t.Cleanup(func() {
		cleanCtx := context.Background()
		env := getTestEnv(t)
		// Delete in dependency order: reports, audit, comment.
		env.pool.Exec(cleanCtx, "DELETE FROM comment_reports WHERE comment_id = $1", c.ID) //nolint:errcheck // best-effort cleanup
		env.pool.Exec(cleanCtx, "DELETE FROM audit_log WHERE entity_id = $1", c.ID)        //nolint:errcheck // best-effort cleanup
		env.pool.Exec(cleanCtx, "DELETE FROM comments WHERE id = $1", c.ID)                //nolint:errcheck // best-effort cleanup
	})

	return c
}
