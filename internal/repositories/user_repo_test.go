package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tokendrop/wallet-backend/internal/models"
	"github.com/tokendrop/wallet-backend/internal/repositories/testutil"
)

func strp(s string) *string { return &s }

func TestUserRepoGetOrCreateRefreshesExisting(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepo(testDB.Pool)
	ctx := context.Background()

	referrer, created, err := repo.GetOrCreate(ctx, GetOrCreateParams{
		TelegramID: 1000,
		UsernameTG: strp("inviter"),
	})
	require.NoError(t, err)
	require.True(t, created)

	first, created, err := repo.GetOrCreate(ctx, GetOrCreateParams{
		TelegramID: 1001,
		UsernameTG: strp("Alice"),
		FirstName:  strp("Alice"),
	})
	require.NoError(t, err)
	require.True(t, created)
	require.NotNil(t, first.UsernameTG)
	// Хэндл хранится в нижнем регистре.
	assert.Equal(t, "alice", *first.UsernameTG)

	// Повторная регистрация того же telegram id: та же строка, обновлённые
	// имена, реферер задним числом не появляется.
	second, created, err := repo.GetOrCreate(ctx, GetOrCreateParams{
		TelegramID:   1001,
		UsernameTG:   strp("alice_new"),
		FirstName:    strp("Alisa"),
		LastName:     strp("Smith"),
		ReferredByID: &referrer.ID,
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	require.NotNil(t, second.UsernameTG)
	assert.Equal(t, "alice_new", *second.UsernameTG)
	require.NotNil(t, second.FirstName)
	assert.Equal(t, "Alisa", *second.FirstName)
	require.NotNil(t, second.LastName)
	assert.Equal(t, "Smith", *second.LastName)
	assert.Nil(t, second.ReferredByID)
}

func TestUserRepoHandleEviction(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepo(testDB.Pool)
	ctx := context.Background()

	holder, created, err := repo.GetOrCreate(ctx, GetOrCreateParams{
		TelegramID: 2001,
		UsernameTG: strp("champ"),
	})
	require.NoError(t, err)
	require.True(t, created)

	// Последняя регистрация забирает хэндл; регистр не важен.
	taker, created, err := repo.GetOrCreate(ctx, GetOrCreateParams{
		TelegramID: 2002,
		UsernameTG: strp("Champ"),
	})
	require.NoError(t, err)
	require.True(t, created)
	require.NotNil(t, taker.UsernameTG)
	assert.Equal(t, "champ", *taker.UsernameTG)

	evicted, err := repo.GetByTelegramID(ctx, 2001)
	require.NoError(t, err)
	assert.Equal(t, holder.ID, evicted.ID)
	assert.Nil(t, evicted.UsernameTG)
}

func TestUserRepoBotSuspicionThreshold(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepo(testDB.Pool)
	ctx := context.Background()

	const threshold = 15

	referrer, created, err := repo.GetOrCreate(ctx, GetOrCreateParams{
		TelegramID: 3000,
		UsernameTG: strp("inviter"),
	})
	require.NoError(t, err)
	require.True(t, created)

	// Безхэндловые рефералы до порога включительно не помечаются:
	// счётчик учитывает и только что созданную строку.
	var last *models.User
	for i := 1; i <= threshold; i++ {
		u, created, err := repo.GetOrCreate(ctx, GetOrCreateParams{
			TelegramID:           3000 + int64(i),
			ReferredByID:         &referrer.ID,
			BotReferralThreshold: threshold,
		})
		require.NoError(t, err)
		require.True(t, created)
		require.NotNil(t, u.ReferredByID)
		assert.Equal(t, referrer.ID, *u.ReferredByID)
		last = u
	}
	assert.False(t, last.IsBotSuspected)

	// Шестнадцатый безхэндловый реферал переваливает порог.
	suspect, created, err := repo.GetOrCreate(ctx, GetOrCreateParams{
		TelegramID:           3000 + threshold + 1,
		ReferredByID:         &referrer.ID,
		BotReferralThreshold: threshold,
	})
	require.NoError(t, err)
	require.True(t, created)
	assert.True(t, suspect.IsBotSuspected)

	// Реферал с хэндлом в эвристику не попадает.
	named, created, err := repo.GetOrCreate(ctx, GetOrCreateParams{
		TelegramID:           3100,
		UsernameTG:           strp("human_friend"),
		ReferredByID:         &referrer.ID,
		BotReferralThreshold: threshold,
	})
	require.NoError(t, err)
	require.True(t, created)
	assert.False(t, named.IsBotSuspected)
}
