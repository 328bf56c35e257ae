package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"emberly_server/models"
	"emberly_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// maxStoreExclusions is the largest exclusion set the store-side "not in"
// filter accepts. Bigger sets fall back to client-side filtering only.
const maxStoreExclusions = 10

// CandidateQuery describes one page request for candidate profiles.
type CandidateQuery struct {
	RequesterID   string
	AgeMin        int
	AgeMax        int
	MaxDistanceKm float64
	Latitude      float64
	Longitude     float64
	ExcludeIDs    []string
	PageSize      int
}

// CandidatePage is one fetched page after exclusion and distance filtering.
type CandidatePage struct {
	Profiles []models.Profile `json:"profiles"`
	// HasMore is approximate: it is true only when the raw pre-filter page
	// came back full. It can under-report (every remaining candidate filtered
	// out by distance) and over-report (exactly a full raw page exists but
	// none of it passes filtering).
	HasMore   bool      `json:"hasMore"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// CandidateService produces pages of candidate profiles matching a
// requester's preferences, excluding already-seen ids.
type CandidateService struct {
	Dynamo DynamoStore
}

// FindCandidates fetches one page of candidates ordered by birth date
// descending. Age bounds translate to a dob range, exclusion is enforced
// client-side regardless of the store filter, and distance filtering is
// always client-side via haversine.
func (cs *CandidateService) FindCandidates(ctx context.Context, query CandidateQuery) (CandidatePage, error) {
	if query.RequesterID == "" {
		return CandidatePage{}, fmt.Errorf("requester id is required: %w", ErrInvalidInput)
	}

	if query.AgeMin <= 0 {
		query.AgeMin = models.DefaultAgeMin
	}
	if query.AgeMax <= 0 {
		query.AgeMax = models.DefaultAgeMax
	}
	if query.AgeMax < query.AgeMin {
		return CandidatePage{}, fmt.Errorf("age range %d-%d is inverted: %w", query.AgeMin, query.AgeMax, ErrInvalidInput)
	}
	if query.MaxDistanceKm <= 0 {
		query.MaxDistanceKm = models.DefaultDistanceKm
	}
	if query.PageSize <= 0 {
		query.PageSize = models.DefaultPageSize
	}

	now := time.Now().UTC()
	minDOB, maxDOB := birthDateRange(query.AgeMin, query.AgeMax, now)

	// The exclusion set always contains the requester.
	exclude := make(map[string]struct{}, len(query.ExcludeIDs)+1)
	exclude[query.RequesterID] = struct{}{}
	for _, id := range query.ExcludeIDs {
		exclude[id] = struct{}{}
	}

	// Push exclusion into the store only while the set fits its bound.
	var storeExclude []string
	if len(exclude) <= maxStoreExclusions {
		for id := range exclude {
			storeExclude = append(storeExclude, id)
		}
	}

	items, err := cs.Dynamo.QueryItems(ctx, QueryParams{
		Table:      models.ProfilesTable,
		Index:      models.DOBIndex,
		HashKey:    "profileBucket",
		HashValue:  &types.AttributeValueMemberS{Value: models.ProfileBucketActive},
		RangeKey:   "dob",
		RangeFrom:  &types.AttributeValueMemberS{Value: minDOB},
		RangeTo:    &types.AttributeValueMemberS{Value: maxDOB},
		ExcludeIDs: storeExclude,
		Limit:      int32(query.PageSize),
		Descending: true,
	})
	if err != nil {
		return CandidatePage{}, fmt.Errorf("failed to query candidates: %w", err)
	}

	page := CandidatePage{
		Profiles:  make([]models.Profile, 0, len(items)),
		HasMore:   len(items) == query.PageSize,
		FetchedAt: now,
	}

	for _, item := range items {
		// Client-side exclusion must hold even when the store filter was
		// skipped or lied.
		if _, excluded := exclude[utils.ExtractString(item, "userId")]; excluded {
			continue
		}

		var profile models.Profile
		if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
			log.Printf("Skipping malformed candidate record: %v", err)
			continue
		}

		if !utils.ValidLocation(profile.Latitude, profile.Longitude) {
			log.Printf("Skipping candidate %s with unusable location (%f, %f)", profile.UserID, profile.Latitude, profile.Longitude)
			continue
		}

		distance := utils.CalculateDistance(query.Latitude, query.Longitude, profile.Latitude, profile.Longitude)
		if distance > query.MaxDistanceKm {
			continue
		}

		page.Profiles = append(page.Profiles, profile)
	}

	return page, nil
}

// birthDateRange translates an inclusive age range into an inclusive
// YYYY-MM-DD range: the oldest allowed candidate was born ageMax years ago,
// the youngest exactly ageMin years ago.
func birthDateRange(ageMin, ageMax int, now time.Time) (minDOB, maxDOB string) {
	minDOB = now.AddDate(-ageMax, 0, 0).Format("2006-01-02")
	maxDOB = now.AddDate(-ageMin, 0, 0).Format("2006-01-02")
	return minDOB, maxDOB
}
