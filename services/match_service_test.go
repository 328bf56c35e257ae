package services

import (
	"context"
	"testing"

	"emberly_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	matches []models.Match
}

func (r *recordingNotifier) NotifyMatch(match models.Match) {
	r.matches = append(r.matches, match)
}

func TestMutualLikeCreatesMatch(t *testing.T) {
	store := newFakeStore()
	swipes := &SwipeService{Dynamo: store}
	notifier := &recordingNotifier{}
	matches := &MatchService{Dynamo: store, Notifier: notifier}
	ctx := context.Background()

	// Bob liked Alice first.
	_, err := swipes.Like(ctx, "bob", "alice", nil)
	require.NoError(t, err)
	_, err = swipes.Like(ctx, "alice", "bob", nil)
	require.NoError(t, err)

	match, err := matches.CheckAndCreateMatch(ctx, "alice", "bob")
	require.NoError(t, err)

	require.NotNil(t, match)
	assert.Equal(t, "alice", match.User1ID)
	assert.Equal(t, "bob", match.User2ID)
	assert.Equal(t, models.MatchStatusActive, match.Status)
	assert.NotEmpty(t, match.MatchID)

	require.Len(t, notifier.matches, 1)
	assert.Equal(t, match.MatchID, notifier.matches[0].MatchID)
	assert.Len(t, store.tables[models.MatchesTable], 1)
}

func TestOneSidedLikeIsNotAMatch(t *testing.T) {
	store := newFakeStore()
	swipes := &SwipeService{Dynamo: store}
	matches := &MatchService{Dynamo: store}
	ctx := context.Background()

	_, err := swipes.Like(ctx, "alice", "bob", nil)
	require.NoError(t, err)

	match, err := matches.CheckAndCreateMatch(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Nil(t, match)
	assert.Empty(t, store.tables[models.MatchesTable])
}

func TestUndoneLikeDoesNotMatch(t *testing.T) {
	store := newFakeStore()
	swipes := &SwipeService{Dynamo: store}
	matches := &MatchService{Dynamo: store}
	ctx := context.Background()

	_, err := swipes.Like(ctx, "bob", "alice", nil)
	require.NoError(t, err)
	undone, err := swipes.Undo(ctx, "bob")
	require.NoError(t, err)
	require.NotNil(t, undone)

	match, err := matches.CheckAndCreateMatch(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Nil(t, match, "a soft-deleted like must not count toward a match")
}

func TestPassDoesNotTriggerMatch(t *testing.T) {
	store := newFakeStore()
	swipes := &SwipeService{Dynamo: store}
	matches := &MatchService{Dynamo: store}
	ctx := context.Background()

	_, err := swipes.Pass(ctx, "bob", "alice", nil)
	require.NoError(t, err)

	match, err := matches.CheckAndCreateMatch(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Nil(t, match)
}

func TestMatchValidation(t *testing.T) {
	matches := &MatchService{Dynamo: newFakeStore()}

	_, err := matches.CheckAndCreateMatch(context.Background(), "", "bob")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
