package services

import (
	"context"
	"errors"
	"testing"

	"emberly_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDeckFixture(store *fakeStore) *DeckService {
	return NewDeckService(
		&CandidateService{Dynamo: store},
		&SwipeService{Dynamo: store},
		&MatchService{Dynamo: store},
		nil,
	)
}

func mountTestSession(d *DeckService) *DeckSession {
	session, _ := d.Session(Session{
		UserID:        "me",
		AgeMin:        18,
		AgeMax:        99,
		MaxDistanceKm: 100,
		Latitude:      testLat,
		Longitude:     testLon,
	})
	return session
}

func TestRefreshPopulatesDeck(t *testing.T) {
	store := newFakeStore()
	seedProfile(t, store, nearbyProfile("a", 30, 10))
	seedProfile(t, store, nearbyProfile("b", 25, 20))

	d := newDeckFixture(store)
	session := mountTestSession(d)

	require.NoError(t, session.Refresh(context.Background()))

	state := session.State()
	assert.Len(t, state.Candidates, 2)
	assert.False(t, state.Loading)
	assert.Empty(t, state.Error)
	assert.False(t, state.HasMore)
}

func TestInitialLoadFailureLeavesEmptyDeckWithError(t *testing.T) {
	store := newFakeStore()
	store.queryErr = errors.New("store unreachable")

	d := newDeckFixture(store)
	session := mountTestSession(d)

	assert.Error(t, session.Refresh(context.Background()))

	state := session.State()
	assert.Empty(t, state.Candidates)
	assert.False(t, state.Loading)
	assert.NotEmpty(t, state.Error)
}

func TestSwipeRemovesCandidateOnSuccess(t *testing.T) {
	store := newFakeStore()
	seedProfile(t, store, nearbyProfile("a", 30, 10))
	seedProfile(t, store, nearbyProfile("b", 25, 20))

	d := newDeckFixture(store)
	session := mountTestSession(d)
	require.NoError(t, session.Refresh(context.Background()))

	require.NoError(t, session.Like(context.Background(), "a"))

	state := session.State()
	require.Len(t, state.Candidates, 1)
	assert.Equal(t, "b", state.Candidates[0].UserID)
	assert.Empty(t, state.Error)
}

func TestFailedSwipeKeepsCandidateVisible(t *testing.T) {
	store := newFakeStore()
	seedProfile(t, store, nearbyProfile("a", 30, 10))

	d := newDeckFixture(store)
	session := mountTestSession(d)
	require.NoError(t, session.Refresh(context.Background()))

	store.putErr = errors.New("write rejected")
	assert.Error(t, session.Like(context.Background(), "a"))

	state := session.State()
	require.Len(t, state.Candidates, 1, "candidate must stay so the user can retry")
	assert.Equal(t, "a", state.Candidates[0].UserID)
	assert.NotEmpty(t, state.Error)
}

func TestDeckExhaustionTerminates(t *testing.T) {
	store := newFakeStore()
	for _, id := range []string{"p1", "p2", "p3", "p4", "p5"} {
		seedProfile(t, store, nearbyProfile(id, 30, 10))
	}

	d := newDeckFixture(store)
	d.PageSize = 2
	session := mountTestSession(d)
	require.NoError(t, session.Refresh(context.Background()))
	assert.True(t, session.State().HasMore)

	// Swiping through everything must drain the pool without re-serving
	// already-swiped candidates or looping forever.
	delivered := make(map[string]int)
	for i := 0; i < 20; i++ {
		state := session.State()
		if len(state.Candidates) == 0 {
			break
		}
		top := state.Candidates[0].UserID
		delivered[top]++
		require.NoError(t, session.Pass(context.Background(), top))
	}

	state := session.State()
	assert.Empty(t, state.Candidates)
	assert.False(t, state.HasMore)
	assert.Len(t, delivered, 5)
	for id, count := range delivered {
		assert.Equal(t, 1, count, "candidate %s served more than once", id)
	}
}

func TestFetchMoreExcludesDeliveredCandidates(t *testing.T) {
	store := newFakeStore()
	for _, id := range []string{"p1", "p2", "p3", "p4"} {
		seedProfile(t, store, nearbyProfile(id, 30, 10))
	}

	d := newDeckFixture(store)
	d.PageSize = 2
	session := mountTestSession(d)
	require.NoError(t, session.Refresh(context.Background()))

	first := session.State().Candidates
	require.Len(t, first, 2)
	require.NoError(t, session.Pass(context.Background(), first[0].UserID))

	ids := make(map[string]struct{})
	for _, candidate := range session.State().Candidates {
		ids[candidate.UserID] = struct{}{}
	}
	_, reappeared := ids[first[0].UserID]
	assert.False(t, reappeared, "swiped candidate must not be re-served")
}

func TestRefreshAfterExhaustionReloads(t *testing.T) {
	store := newFakeStore()
	seedProfile(t, store, nearbyProfile("a", 30, 10))

	d := newDeckFixture(store)
	session := mountTestSession(d)
	require.NoError(t, session.Refresh(context.Background()))
	require.NoError(t, session.Pass(context.Background(), "a"))
	assert.Empty(t, session.State().Candidates)

	// "a" was swiped, so even a full refresh excludes it.
	seedProfile(t, store, nearbyProfile("b", 28, 15))
	require.NoError(t, session.Refresh(context.Background()))

	state := session.State()
	require.Len(t, state.Candidates, 1)
	assert.Equal(t, "b", state.Candidates[0].UserID)
}

func TestClosedSessionRejectsActions(t *testing.T) {
	store := newFakeStore()
	seedProfile(t, store, nearbyProfile("a", 30, 10))

	d := newDeckFixture(store)
	session := mountTestSession(d)
	require.NoError(t, session.Refresh(context.Background()))

	d.Close("me")

	assert.ErrorIs(t, session.Like(context.Background(), "a"), ErrInvalidInput)
	assert.ErrorIs(t, session.Refresh(context.Background()), ErrInvalidInput)
}

func TestStateDerivesAgeAndDistance(t *testing.T) {
	store := newFakeStore()
	profile := nearbyProfile("a", 30, 99)
	profile.Photos = []string{"photos/first.jpg", "photos/second.jpg"}
	seedProfile(t, store, profile)

	d := newDeckFixture(store)
	session := mountTestSession(d)
	require.NoError(t, session.Refresh(context.Background()))

	state := session.State()
	require.Len(t, state.Candidates, 1)
	candidate := state.Candidates[0]

	assert.Equal(t, 30, candidate.Age)
	assert.InDelta(t, 99, candidate.DistanceKm, 0.5)
	assert.Equal(t, "photos/first.jpg", candidate.PrimaryPhoto, "first photo stands in when no primary is set")
}

func TestSessionFromProfileDefaults(t *testing.T) {
	session := SessionFromProfile(nil)
	assert.Equal(t, models.DefaultAgeMin, session.AgeMin)
	assert.Equal(t, models.DefaultAgeMax, session.AgeMax)
	assert.Equal(t, models.DefaultDistanceKm, session.MaxDistanceKm)
	assert.Equal(t, 0.0, session.Latitude)
	assert.Equal(t, 0.0, session.Longitude)

	session = SessionFromProfile(&models.Profile{
		UserID:         "me",
		PrefAgeMin:     25,
		PrefAgeMax:     35,
		PrefDistanceKm: 42,
		Latitude:       testLat,
		Longitude:      testLon,
	})
	assert.Equal(t, "me", session.UserID)
	assert.Equal(t, 25, session.AgeMin)
	assert.Equal(t, 35, session.AgeMax)
	assert.Equal(t, 42.0, session.MaxDistanceKm)
	assert.Equal(t, testLat, session.Latitude)
}

func TestLikeRecordsSwipeWithMetadata(t *testing.T) {
	store := newFakeStore()
	seedProfile(t, store, nearbyProfile("a", 30, 10))

	d := newDeckFixture(store)
	session := mountTestSession(d)
	require.NoError(t, session.Refresh(context.Background()))
	require.NoError(t, session.Like(context.Background(), "a"))

	history, err := d.Swipes.GetSwipeHistory(context.Background(), "me", 1)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "a", history[0].TargetID)
	assert.Equal(t, models.SwipeKindLike, history[0].Kind)
	require.NotNil(t, history[0].HourOfDay)
	assert.GreaterOrEqual(t, *history[0].HourOfDay, 0)
	assert.LessOrEqual(t, *history[0].HourOfDay, 23)
}
