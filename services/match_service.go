package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"emberly_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// mutualScanLimit bounds how many of the target's recent swipes are checked
// for a reciprocal like.
const mutualScanLimit = 100

// MatchNotifier pushes a freshly created match to both users. Implemented by
// the socket layer; nil disables notification.
type MatchNotifier interface {
	NotifyMatch(match models.Match)
}

// MatchService detects mutual likes and records matches.
type MatchService struct {
	Dynamo   DynamoStore
	Notifier MatchNotifier
}

// CheckAndCreateMatch checks whether target has a live like for actor and,
// if so, records a match and notifies both sides. Returns nil when there is
// no mutual like yet.
func (ms *MatchService) CheckAndCreateMatch(ctx context.Context, actorID, targetID string) (*models.Match, error) {
	if actorID == "" || targetID == "" {
		return nil, fmt.Errorf("actor and target ids are required: %w", ErrInvalidInput)
	}

	mutual, err := ms.hasLiked(ctx, targetID, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to check mutual like: %w", err)
	}
	if !mutual {
		return nil, nil
	}

	match := models.Match{
		MatchID:   uuid.NewString(),
		User1ID:   actorID,
		User2ID:   targetID,
		Status:    models.MatchStatusActive,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	if err := ms.Dynamo.PutItem(ctx, models.MatchesTable, match); err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	log.Printf("Match created: %s and %s (%s)", actorID, targetID, match.MatchID)

	if ms.Notifier != nil {
		ms.Notifier.NotifyMatch(match)
	}

	return &match, nil
}

// hasLiked reports whether actorID has a non-deleted like or superlike for
// targetID among their recent swipes.
func (ms *MatchService) hasLiked(ctx context.Context, actorID, targetID string) (bool, error) {
	items, err := ms.Dynamo.QueryItems(ctx, QueryParams{
		Table:      models.SwipesTable,
		HashKey:    "userId",
		HashValue:  &types.AttributeValueMemberS{Value: actorID},
		Limit:      mutualScanLimit,
		Descending: true,
	})
	if err != nil {
		return false, err
	}

	for _, item := range items {
		var action models.SwipeAction
		if err := attributevalue.UnmarshalMap(item, &action); err != nil {
			log.Printf("Skipping unreadable swipe record: %v", err)
			continue
		}
		if action.Deleted || action.TargetID != targetID {
			continue
		}
		if action.Kind == models.SwipeKindLike || action.Kind == models.SwipeKindSuperlike {
			return true, nil
		}
	}

	return false, nil
}
