package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"newsroom/internal/storage"
)

func TestCommentCreateStampsUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommentService(db)
	ctx := context.Background()

	u := seedUser(t, db, "owner@example.com")
	n := seedNews(t, db, "A")

	c, err := svc.Create(ctx, u.ID, n.ID, "hi")
	require.NoError(t, err)
	require.Equal(t, u.ID, c.UserID)
	require.Equal(t, n.ID, c.NewsID)
	require.False(t, c.Created.IsZero())
}

func TestCommentCreateMissingNews(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommentService(db)
	u := seedUser(t, db, "owner@example.com")

	_, err := svc.Create(context.Background(), u.ID, 999, "hi")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCommentOwnershipOnUpdateAndDelete(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommentService(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner@example.com")
	other := seedUser(t, db, "other@example.com")
	n := seedNews(t, db, "A")

	c, err := svc.Create(ctx, owner.ID, n.ID, "hi")
	require.NoError(t, err)

	// 非属主：更新/删除均被拒绝
	_, err = svc.Update(ctx, other.ID, c.ID, "tampered")
	require.ErrorIs(t, err, ErrForbidden)
	_, err = svc.PartialUpdate(ctx, other.ID, c.ID, strp("tampered"))
	require.ErrorIs(t, err, ErrForbidden)
	err = svc.Delete(ctx, other.ID, c.ID)
	require.ErrorIs(t, err, ErrForbidden)

	got, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, "hi", got.Content)

	// 属主：更新与删除成功
	updated, err := svc.Update(ctx, owner.ID, c.ID, "edited")
	require.NoError(t, err)
	require.Equal(t, "edited", updated.Content)

	require.NoError(t, svc.Delete(ctx, owner.ID, c.ID))
	_, err = svc.Get(ctx, c.ID)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCommentUpdateMissingReturnsNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommentService(db)
	u := seedUser(t, db, "owner@example.com")

	_, err := svc.Update(context.Background(), u.ID, 999, "x")
	require.ErrorIs(t, err, storage.ErrNotFound)
	err = svc.Delete(context.Background(), u.ID, 999)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCommentPartialUpdateSkipsEmptyContent(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommentService(db)
	ctx := context.Background()

	u := seedUser(t, db, "owner@example.com")
	n := seedNews(t, db, "A")
	c, err := svc.Create(ctx, u.ID, n.ID, "hi")
	require.NoError(t, err)

	got, err := svc.PartialUpdate(ctx, u.ID, c.ID, strp(""))
	require.NoError(t, err)
	require.Equal(t, "hi", got.Content)
}
