package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"emberly_server/models"
	"emberly_server/utils"
)

const (
	// deckLowWatermark triggers a background fetch-more once the queue
	// shrinks to this size.
	deckLowWatermark = 5

	// deckFetchTimeout caps one candidate fetch; no response in time is
	// treated as a failure.
	deckFetchTimeout = 10 * time.Second
)

// Session is the current user as handed over by the auth boundary, with
// defaults already substituted for missing preferences.
type Session struct {
	UserID        string
	AgeMin        int
	AgeMax        int
	MaxDistanceKm float64
	Latitude      float64
	Longitude     float64
}

// SessionFromProfile builds a Session from a (possibly nil) current-user
// profile, substituting defaults: age range 18-99, 100 km, location (0, 0).
func SessionFromProfile(profile *models.Profile) Session {
	session := Session{
		AgeMin:        models.DefaultAgeMin,
		AgeMax:        models.DefaultAgeMax,
		MaxDistanceKm: models.DefaultDistanceKm,
	}
	if profile == nil {
		return session
	}

	session.UserID = profile.UserID
	if profile.PrefAgeMin > 0 {
		session.AgeMin = profile.PrefAgeMin
	}
	if profile.PrefAgeMax > 0 {
		session.AgeMax = profile.PrefAgeMax
	}
	if profile.PrefDistanceKm > 0 {
		session.MaxDistanceKm = profile.PrefDistanceKm
	}
	if utils.ValidLocation(profile.Latitude, profile.Longitude) {
		session.Latitude = profile.Latitude
		session.Longitude = profile.Longitude
	}
	return session
}

// DeckState is the read-only contract exposed to the presentation layer.
type DeckState struct {
	Candidates []models.DisplayCandidate `json:"candidates"`
	Loading    bool                      `json:"loading"`
	Error      string                    `json:"error,omitempty"`
	HasMore    bool                      `json:"hasMore"`
}

// DeckService owns one DeckSession per mounted user and composes the
// candidate and swipe repositories.
type DeckService struct {
	Candidates *CandidateService
	Swipes     *SwipeService
	Matches    *MatchService
	Seen       *SeenCache
	PageSize   int

	mu       sync.Mutex
	sessions map[string]*DeckSession
}

// NewDeckService wires the deck view-model over its repositories.
func NewDeckService(candidates *CandidateService, swipes *SwipeService, matches *MatchService, seen *SeenCache) *DeckService {
	return &DeckService{
		Candidates: candidates,
		Swipes:     swipes,
		Matches:    matches,
		Seen:       seen,
		PageSize:   models.DefaultPageSize,
		sessions:   make(map[string]*DeckSession),
	}
}

// Session returns the mounted deck session for a user, creating one on first
// use. created reports whether this call mounted it; a new session starts
// Idle and is driven with Refresh.
func (d *DeckService) Session(user Session) (*DeckSession, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if existing, ok := d.sessions[user.UserID]; ok {
		return existing, false
	}

	session := &DeckSession{
		service: d,
		user:    user,
		deck:    []models.Profile{},
		seen:    make(map[string]struct{}),
	}
	d.sessions[user.UserID] = session
	return session, true
}

// MountedSession returns a user's existing session without creating one.
func (d *DeckService) MountedSession(userID string) (*DeckSession, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	session, ok := d.sessions[userID]
	return session, ok
}

// Close unmounts a user's session. In-flight fetches that complete afterwards
// are discarded instead of being applied to a deck nobody is watching.
func (d *DeckService) Close(userID string) {
	d.mu.Lock()
	session, ok := d.sessions[userID]
	delete(d.sessions, userID)
	d.mu.Unlock()

	if ok {
		session.close()
	}
}

// DeckSession is one user's in-memory deck and its state machine. Every deck
// mutation builds a fresh slice under the lock, so a completion racing with a
// swipe can never corrupt a snapshot already handed out.
type DeckSession struct {
	mu      sync.Mutex
	service *DeckService
	user    Session
	deck    []models.Profile
	seen    map[string]struct{} // every id delivered or swiped this session
	hasMore bool
	loading bool
	lastErr string
	gen     uint64
	closed  bool
}

// Refresh transitions to Loading and replaces the deck with a fresh initial
// page. A refresh that is superseded by a newer one discards its result.
func (s *DeckSession) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return fmt.Errorf("deck session is closed: %w", ErrInvalidInput)
	}
	s.gen++
	gen := s.gen
	s.loading = true
	s.lastErr = ""
	user := s.user
	s.mu.Unlock()

	exclude := s.recentlySeen(ctx, user.UserID)
	page, err := s.fetch(ctx, user, exclude)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen != s.gen {
		return nil
	}
	s.loading = false

	if err != nil {
		s.lastErr = fetchErrorMessage
		if s.deck == nil {
			s.deck = []models.Profile{}
		}
		return err
	}

	deck := make([]models.Profile, len(page.Profiles))
	copy(deck, page.Profiles)
	s.deck = deck
	s.hasMore = page.HasMore

	s.seen = make(map[string]struct{}, len(deck)+len(exclude))
	for _, id := range exclude {
		s.seen[id] = struct{}{}
	}
	for _, profile := range deck {
		s.seen[profile.UserID] = struct{}{}
	}
	return nil
}

// Like swipes right on a candidate.
func (s *DeckSession) Like(ctx context.Context, targetID string) error {
	return s.swipe(ctx, targetID, models.SwipeKindLike)
}

// Pass swipes left on a candidate.
func (s *DeckSession) Pass(ctx context.Context, targetID string) error {
	return s.swipe(ctx, targetID, models.SwipeKindPass)
}

// Superlike swipes up on a candidate.
func (s *DeckSession) Superlike(ctx context.Context, targetID string) error {
	return s.swipe(ctx, targetID, models.SwipeKindSuperlike)
}

// swipe records the action and removes the candidate only after the write
// succeeded. A failed write leaves the candidate in place so the user can
// retry the same action.
func (s *DeckSession) swipe(ctx context.Context, targetID, kind string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return fmt.Errorf("deck session is closed: %w", ErrInvalidInput)
	}
	actorID := s.user.UserID
	metadata := s.swipeMetadata()
	s.mu.Unlock()

	var err error
	switch kind {
	case models.SwipeKindLike:
		_, err = s.service.Swipes.Like(ctx, actorID, targetID, metadata)
	case models.SwipeKindPass:
		_, err = s.service.Swipes.Pass(ctx, actorID, targetID, metadata)
	case models.SwipeKindSuperlike:
		_, err = s.service.Swipes.Superlike(ctx, actorID, targetID, metadata)
	default:
		return fmt.Errorf("unknown swipe kind %q: %w", kind, ErrInvalidInput)
	}
	if err != nil {
		s.mu.Lock()
		if !s.closed {
			s.lastErr = swipeErrorMessage
		}
		s.mu.Unlock()
		return err
	}

	// Match detection must never fail the swipe itself.
	if kind != models.SwipeKindPass && s.service.Matches != nil {
		if _, merr := s.service.Matches.CheckAndCreateMatch(ctx, actorID, targetID); merr != nil {
			log.Printf("Match check failed for %s -> %s: %v", actorID, targetID, merr)
		}
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	deck := make([]models.Profile, 0, len(s.deck))
	for _, profile := range s.deck {
		if profile.UserID != targetID {
			deck = append(deck, profile)
		}
	}
	s.deck = deck
	s.seen[targetID] = struct{}{}
	s.lastErr = ""
	runningLow := s.hasMore && !s.loading && len(deck) <= deckLowWatermark
	s.mu.Unlock()

	if runningLow {
		s.fetchMore(ctx)
	}
	return nil
}

// State snapshots the deck for the presentation layer, deriving age and
// distance at read time.
func (s *DeckSession) State() DeckState {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	candidates := make([]models.DisplayCandidate, 0, len(s.deck))
	for _, profile := range s.deck {
		candidates = append(candidates, displayCandidate(profile, s.user, now))
	}

	return DeckState{
		Candidates: candidates,
		Loading:    s.loading,
		Error:      s.lastErr,
		HasMore:    s.hasMore,
	}
}

// fetchMore appends the next page, excluding everything this session has
// already delivered or swiped. Stale completions are discarded.
func (s *DeckSession) fetchMore(ctx context.Context) {
	s.mu.Lock()
	if s.closed || s.loading || !s.hasMore {
		s.mu.Unlock()
		return
	}
	s.loading = true
	gen := s.gen
	user := s.user
	exclude := make([]string, 0, len(s.seen))
	for id := range s.seen {
		exclude = append(exclude, id)
	}
	s.mu.Unlock()

	page, err := s.fetch(ctx, user, exclude)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen != s.gen {
		return
	}
	s.loading = false

	if err != nil {
		s.lastErr = fetchErrorMessage
		return
	}

	deck := make([]models.Profile, 0, len(s.deck)+len(page.Profiles))
	deck = append(deck, s.deck...)
	for _, profile := range page.Profiles {
		if _, delivered := s.seen[profile.UserID]; delivered {
			continue
		}
		s.seen[profile.UserID] = struct{}{}
		deck = append(deck, profile)
	}
	s.deck = deck
	s.hasMore = page.HasMore
}

func (s *DeckSession) fetch(ctx context.Context, user Session, exclude []string) (CandidatePage, error) {
	ctx, cancel := context.WithTimeout(ctx, deckFetchTimeout)
	defer cancel()

	return s.service.Candidates.FindCandidates(ctx, CandidateQuery{
		RequesterID:   user.UserID,
		AgeMin:        user.AgeMin,
		AgeMax:        user.AgeMax,
		MaxDistanceKm: user.MaxDistanceKm,
		Latitude:      user.Latitude,
		Longitude:     user.Longitude,
		ExcludeIDs:    exclude,
		PageSize:      s.service.PageSize,
	})
}

// recentlySeen seeds exclusion from the Redis cache, falling back to recent
// swipe history when the cache is absent. Both lookups are best effort.
func (s *DeckSession) recentlySeen(ctx context.Context, actorID string) []string {
	ids, err := s.service.Seen.Members(ctx, actorID)
	if err != nil {
		log.Printf("Seen cache unavailable for %s: %v", actorID, err)
	}
	if len(ids) > 0 {
		return ids
	}

	ids, err = s.service.Swipes.SwipedTargetIDs(ctx, actorID, models.DefaultHistoryLimit)
	if err != nil {
		log.Printf("Swipe history unavailable for %s: %v", actorID, err)
		return nil
	}
	return ids
}

func (s *DeckSession) swipeMetadata() *models.SwipeMetadata {
	hour := time.Now().UTC().Hour()
	metadata := &models.SwipeMetadata{HourOfDay: &hour}
	if utils.ValidLocation(s.user.Latitude, s.user.Longitude) {
		lat, lon := s.user.Latitude, s.user.Longitude
		metadata.Latitude = &lat
		metadata.Longitude = &lon
	}
	return metadata
}

func (s *DeckSession) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.gen++
}

func displayCandidate(profile models.Profile, user Session, now time.Time) models.DisplayCandidate {
	primary := profile.PrimaryPhoto
	if primary == "" && len(profile.Photos) > 0 {
		primary = profile.Photos[0]
	}

	distance := utils.CalculateDistance(user.Latitude, user.Longitude, profile.Latitude, profile.Longitude)

	return models.DisplayCandidate{
		UserID:        profile.UserID,
		Name:          profile.Name,
		Age:           utils.Age(profile.DOB, now),
		Bio:           profile.Bio,
		PrimaryPhoto:  primary,
		Photos:        profile.Photos,
		Interests:     profile.Interests,
		City:          profile.City,
		Country:       profile.Country,
		DistanceKm:    math.Round(distance*100) / 100,
		Compatibility: profile.Compatibility,
	}
}

// User-facing messages, kept stable for the clients.
const (
	fetchErrorMessage = "Couldn't load more people right now. Try again."
	swipeErrorMessage = "That didn't go through. Try again."
)
