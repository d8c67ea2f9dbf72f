package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeapSeeker/matzip-demo/internal/apperr"
	"github.com/LeapSeeker/matzip-demo/internal/models"
	"github.com/LeapSeeker/matzip-demo/internal/rowstore"
	"github.com/LeapSeeker/matzip-demo/internal/types"
)

var (
	alice = types.Identity{ID: "uid-alice", Email: "alice@example.com"}
	bob   = types.Identity{ID: "uid-bob", Email: "bob@example.com"}
)

func newReviewFixture(t *testing.T) (*ReviewService, *CollectionCache, rowstore.Store) {
	t.Helper()
	store := rowstore.NewMemory(rowstore.DefaultSchema())
	svc := NewReviewService(store)
	cache := NewCollectionCache(store, 0)
	return svc, cache, store
}

func TestUpsertOwn_CreatesReview(t *testing.T) {
	svc, cache, _ := newReviewFixture(t)
	ctx := context.Background()

	outcome, err := svc.UpsertOwn(ctx, cache, 1, alice, 5, "great noodles")
	require.NoError(t, err)
	require.NoError(t, outcome.RefreshErr)

	assert.NotZero(t, outcome.Review.ID)
	assert.Equal(t, 5, outcome.Review.Rating)
	assert.Equal(t, "great noodles", outcome.Review.Comment)
	assert.Equal(t, alice.ID, outcome.Review.UserID)

	reviews := cache.Reviews()
	require.Len(t, reviews, 1)
}

func TestUpsertOwn_SecondSubmitReplaces(t *testing.T) {
	svc, cache, _ := newReviewFixture(t)
	ctx := context.Background()

	first, err := svc.UpsertOwn(ctx, cache, 1, alice, 3, "fine")
	require.NoError(t, err)

	second, err := svc.UpsertOwn(ctx, cache, 1, alice, 5, "changed my mind")
	require.NoError(t, err)

	assert.Equal(t, first.Review.ID, second.Review.ID)
	assert.Equal(t, 5, second.Review.Rating)

	reviews := cache.Reviews()
	require.Len(t, reviews, 1)
	assert.Equal(t, "changed my mind", reviews[0].Comment)
}

func TestUpsertOwn_TwoUsersTwoRows(t *testing.T) {
	svc, cache, _ := newReviewFixture(t)
	ctx := context.Background()

	_, err := svc.UpsertOwn(ctx, cache, 1, alice, 5, "a")
	require.NoError(t, err)
	_, err = svc.UpsertOwn(ctx, cache, 1, bob, 2, "b")
	require.NoError(t, err)

	assert.Len(t, cache.Reviews(), 2)

	stats := cache.Stats()[1]
	assert.Equal(t, 2, stats.Count)
	require.NotNil(t, stats.Average)
	assert.InDelta(t, 3.5, *stats.Average, 1e-9)
}

func TestUpsertOwn_Validation(t *testing.T) {
	svc, cache, _ := newReviewFixture(t)
	ctx := context.Background()

	_, err := svc.UpsertOwn(ctx, cache, 1, alice, 5, "   ")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.UpsertOwn(ctx, cache, 1, alice, 5, strings.Repeat("x", 121))
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.UpsertOwn(ctx, cache, 1, alice, 0, "ok")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.UpsertOwn(ctx, cache, 1, alice, 6, "ok")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	// Exactly at the limit is fine.
	_, err = svc.UpsertOwn(ctx, cache, 1, alice, 5, strings.Repeat("x", 120))
	assert.NoError(t, err)
}

func TestUpsertOwn_RequiresIdentity(t *testing.T) {
	svc, cache, _ := newReviewFixture(t)

	_, err := svc.UpsertOwn(context.Background(), cache, 1, types.Identity{}, 5, "ok")
	assert.ErrorIs(t, err, apperr.ErrNotSignedIn)
}

func TestUpsertOwn_RejectsConcurrentSubmit(t *testing.T) {
	svc, cache, _ := newReviewFixture(t)

	svc.saving.Store(true)
	_, err := svc.UpsertOwn(context.Background(), cache, 1, alice, 5, "ok")
	assert.ErrorIs(t, err, apperr.ErrBusy)

	svc.saving.Store(false)
	_, err = svc.UpsertOwn(context.Background(), cache, 1, alice, 5, "ok")
	assert.NoError(t, err)
}

func TestDeleteOwn(t *testing.T) {
	svc, cache, _ := newReviewFixture(t)
	ctx := context.Background()

	created, err := svc.UpsertOwn(ctx, cache, 1, alice, 4, "ok")
	require.NoError(t, err)

	outcome, err := svc.DeleteOwn(ctx, cache, created.Review, alice)
	require.NoError(t, err)
	require.NoError(t, outcome.RefreshErr)
	assert.Empty(t, cache.Reviews())
}

func TestDeleteOwn_NonOwnerRejected(t *testing.T) {
	svc, cache, _ := newReviewFixture(t)
	ctx := context.Background()

	created, err := svc.UpsertOwn(ctx, cache, 1, alice, 4, "ok")
	require.NoError(t, err)

	_, err = svc.DeleteOwn(ctx, cache, created.Review, bob)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	require.NoError(t, cache.ReloadReviews(ctx, 1))
	assert.Len(t, cache.Reviews(), 1)
}

func TestDeleteOwn_StorePolicyHoldsWhenFastCheckBypassed(t *testing.T) {
	svc, cache, store := newReviewFixture(t)
	ctx := context.Background()

	created, err := svc.UpsertOwn(ctx, cache, 1, alice, 4, "ok")
	require.NoError(t, err)

	// Forge the client-side owner field; the store still filters the
	// delete down to bob's own rows, which match nothing.
	forged := created.Review
	forged.UserID = bob.ID
	_, err = svc.DeleteOwn(ctx, cache, forged, bob)
	require.NoError(t, err)

	rows, err := store.Select(ctx, rowstore.Query{Collection: "reviews"})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

// brokenReadStore forwards writes but fails collection reads, so the
// targeted refresh after a committed write cannot complete.
type brokenReadStore struct {
	rowstore.Store
	failReads bool
}

func (s *brokenReadStore) Select(ctx context.Context, q rowstore.Query) ([]rowstore.Row, error) {
	if s.failReads {
		return nil, errors.New("connection reset by peer")
	}
	return s.Store.Select(ctx, q)
}

func TestUpsertOwn_RefreshFailureIsSecondary(t *testing.T) {
	mem := rowstore.NewMemory(rowstore.DefaultSchema())
	store := &brokenReadStore{Store: mem}
	svc := NewReviewService(store)
	cache := NewCollectionCache(store, 0)
	ctx := context.Background()

	store.failReads = true
	outcome, err := svc.UpsertOwn(ctx, cache, 1, alice, 5, "great")
	require.NoError(t, err)
	require.Error(t, outcome.RefreshErr)

	// The write is committed even though the refresh was not.
	rows, err := mem.Select(ctx, rowstore.Query{Collection: "reviews"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 5, rows[0]["rating"])
	assert.Equal(t, alice.ID, rows[0]["user_id"])

	// The next successful reload catches the cache up.
	store.failReads = false
	require.NoError(t, cache.ReloadReviews(ctx, 1))
	assert.Len(t, cache.Reviews(), 1)
}

func TestDeleteOwn_RefreshFailureIsSecondary(t *testing.T) {
	mem := rowstore.NewMemory(rowstore.DefaultSchema())
	store := &brokenReadStore{Store: mem}
	svc := NewReviewService(store)
	cache := NewCollectionCache(store, 0)
	ctx := context.Background()

	created, err := svc.UpsertOwn(ctx, cache, 1, alice, 4, "ok")
	require.NoError(t, err)

	store.failReads = true
	outcome, err := svc.DeleteOwn(ctx, cache, created.Review, alice)
	require.NoError(t, err)
	require.Error(t, outcome.RefreshErr)

	rows, err := mem.Select(ctx, rowstore.Query{Collection: "reviews"})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestGet(t *testing.T) {
	svc, cache, _ := newReviewFixture(t)
	ctx := context.Background()

	created, err := svc.UpsertOwn(ctx, cache, 1, alice, 4, "ok")
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.Review.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.Review.ID, got.ID)

	missing, err := svc.Get(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPinOwn(t *testing.T) {
	reviews := []models.Review{
		{ID: 3, UserID: "uid-carol"},
		{ID: 2, UserID: "uid-alice"},
		{ID: 1, UserID: "uid-bob"},
	}

	pinned := PinOwn(reviews, "uid-alice")
	require.Len(t, pinned, 3)
	assert.Equal(t, int64(2), pinned[0].ID)
	assert.Equal(t, int64(3), pinned[1].ID)
	assert.Equal(t, int64(1), pinned[2].ID)

	// No own review or no identity: untouched order.
	assert.Equal(t, reviews, PinOwn(reviews, "uid-nobody"))
	assert.Equal(t, reviews, PinOwn(reviews, ""))
}
