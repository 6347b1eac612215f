package verificationcodes

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/printdesk/internal/common"
	"github.com/dmitrijs2005/printdesk/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCode(kind models.VerificationCodeKind, key string, verifier []byte, expiresAt time.Time) *models.VerificationCode {
	return &models.VerificationCode{
		Kind: kind, Key: key, Verifier: verifier, Salt: []byte("salt"),
		CreatedAt: time.Now(), ExpiresAt: expiresAt,
	}
}

func TestInMemory_UpsertReplacesPerKindAndKey(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()
	exp := time.Now().Add(5 * time.Minute)

	require.NoError(t, repo.Upsert(ctx, newCode(models.CodeKindUserOTP, "alice", []byte("v1"), exp)))
	require.NoError(t, repo.Upsert(ctx, newCode(models.CodeKindUserOTP, "alice", []byte("v2"), exp)))

	got, err := repo.Find(ctx, models.CodeKindUserOTP, "alice")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got.Verifier, "newer code must replace the old one")

	// same key under a different kind is a separate code
	require.NoError(t, repo.Upsert(ctx, newCode(models.CodeKindAdminOTP, "alice", []byte("v3"), exp)))
	got, err = repo.Find(ctx, models.CodeKindUserOTP, "alice")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got.Verifier)
}

func TestInMemory_FindNotFound(t *testing.T) {
	repo := NewInMemoryRepository()
	_, err := repo.Find(context.Background(), models.CodeKindUserOTP, "missing")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestInMemory_DeleteSingleUse(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, newCode(models.CodeKindUserOTP, "alice", []byte("v"), time.Now().Add(time.Minute))))
	require.NoError(t, repo.Delete(ctx, models.CodeKindUserOTP, "alice"))

	_, err := repo.Find(ctx, models.CodeKindUserOTP, "alice")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestInMemory_DeleteExpired(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.Upsert(ctx, newCode(models.CodeKindUserOTP, "live", []byte("v"), now.Add(time.Minute))))
	require.NoError(t, repo.Upsert(ctx, newCode(models.CodeKindUserOTP, "dead", []byte("v"), now.Add(-time.Minute))))

	n, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = repo.Find(ctx, models.CodeKindUserOTP, "live")
	require.NoError(t, err)
}
