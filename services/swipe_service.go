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

// undoScanLimit bounds how far back Undo looks for the newest non-deleted
// record. Anything older than this many consecutive undone swipes is out of
// undo's reach anyway.
const undoScanLimit = 25

// SwipeService durably records swipe actions and supports retrieval and undo.
// Writes never deduplicate: repeated likes on the same target accumulate as
// separate events, and undo removes only the newest one.
type SwipeService struct {
	Dynamo DynamoStore
	Seen   *SeenCache
}

// Like records a like swipe.
func (ss *SwipeService) Like(ctx context.Context, actorID, targetID string, metadata *models.SwipeMetadata) (models.SwipeAction, error) {
	return ss.record(ctx, actorID, targetID, models.SwipeKindLike, metadata)
}

// Pass records a pass swipe.
func (ss *SwipeService) Pass(ctx context.Context, actorID, targetID string, metadata *models.SwipeMetadata) (models.SwipeAction, error) {
	return ss.record(ctx, actorID, targetID, models.SwipeKindPass, metadata)
}

// Superlike records a superlike swipe.
func (ss *SwipeService) Superlike(ctx context.Context, actorID, targetID string, metadata *models.SwipeMetadata) (models.SwipeAction, error) {
	return ss.record(ctx, actorID, targetID, models.SwipeKindSuperlike, metadata)
}

// record is the single recording path shared by all three kinds.
func (ss *SwipeService) record(ctx context.Context, actorID, targetID, kind string, metadata *models.SwipeMetadata) (models.SwipeAction, error) {
	if actorID == "" || targetID == "" {
		return models.SwipeAction{}, fmt.Errorf("actor and target ids are required: %w", ErrInvalidInput)
	}
	if actorID == targetID {
		return models.SwipeAction{}, fmt.Errorf("cannot swipe on yourself: %w", ErrInvalidInput)
	}

	now := time.Now().UTC()
	swipeID := uuid.NewString()
	createdAt := now.Format(time.RFC3339Nano)

	action := models.SwipeAction{
		UserID:    actorID,
		SK:        createdAt + "#" + swipeID,
		SwipeID:   swipeID,
		TargetID:  targetID,
		Kind:      kind,
		CreatedAt: createdAt,
	}
	if metadata != nil {
		action.Latitude = metadata.Latitude
		action.Longitude = metadata.Longitude
		action.HourOfDay = metadata.HourOfDay
	}

	if err := ss.Dynamo.PutItem(ctx, models.SwipesTable, action); err != nil {
		return models.SwipeAction{}, fmt.Errorf("failed to record %s: %w", kind, err)
	}

	// Best effort: remember the target so later sessions exclude it up front.
	if err := ss.Seen.Add(ctx, actorID, targetID); err != nil {
		log.Printf("Failed to cache seen id %s for %s: %v", targetID, actorID, err)
	}

	return action, nil
}

// Undo soft-deletes the actor's most recent non-deleted swipe. With no
// history to undo it succeeds as a no-op and returns nil.
func (ss *SwipeService) Undo(ctx context.Context, actorID string) (*models.SwipeAction, error) {
	if actorID == "" {
		return nil, fmt.Errorf("actor id is required: %w", ErrInvalidInput)
	}

	recent, err := ss.queryRecent(ctx, actorID, undoScanLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent swipes: %w", err)
	}

	for _, action := range recent {
		if action.Deleted {
			continue
		}

		key := map[string]types.AttributeValue{
			"userId": &types.AttributeValueMemberS{Value: action.UserID},
			"sk":     &types.AttributeValueMemberS{Value: action.SK},
		}
		_, err := ss.Dynamo.UpdateItem(ctx, models.SwipesTable, "SET #deleted = :deleted", key,
			map[string]types.AttributeValue{":deleted": &types.AttributeValueMemberBOOL{Value: true}},
			map[string]string{"#deleted": "deleted"},
		)
		if err != nil {
			return nil, fmt.Errorf("failed to undo swipe %s: %w", action.SwipeID, err)
		}

		undone := action
		undone.Deleted = true
		return &undone, nil
	}

	return nil, nil
}

// GetSwipeHistory returns up to limit most-recent non-deleted actions for
// the actor, newest first. limit defaults to 50.
func (ss *SwipeService) GetSwipeHistory(ctx context.Context, actorID string, limit int) ([]models.SwipeAction, error) {
	if actorID == "" {
		return nil, fmt.Errorf("actor id is required: %w", ErrInvalidInput)
	}
	if limit <= 0 {
		limit = models.DefaultHistoryLimit
	}

	// Deleted records are filtered client-side, so over-fetch to keep the
	// page full after filtering.
	recent, err := ss.queryRecent(ctx, actorID, limit*2)
	if err != nil {
		return nil, fmt.Errorf("failed to load swipe history: %w", err)
	}

	history := make([]models.SwipeAction, 0, limit)
	for _, action := range recent {
		if action.Deleted {
			continue
		}
		history = append(history, action)
		if len(history) == limit {
			break
		}
	}

	return history, nil
}

// StreamDeck returns the empty deck shell for an actor. Candidate computation
// belongs to CandidateService; DeckService composes the two.
func (ss *SwipeService) StreamDeck(ctx context.Context, actorID string) (models.SwipeDeck, error) {
	if actorID == "" {
		return models.SwipeDeck{}, fmt.Errorf("actor id is required: %w", ErrInvalidInput)
	}

	return models.SwipeDeck{
		UserID:      actorID,
		Candidates:  []models.Profile{},
		LastFetched: time.Now().UTC(),
		HasMore:     false,
	}, nil
}

// SwipedTargetIDs returns the distinct targets of the actor's recent
// non-deleted swipes, used to seed deck exclusion.
func (ss *SwipeService) SwipedTargetIDs(ctx context.Context, actorID string, limit int) ([]string, error) {
	history, err := ss.GetSwipeHistory(ctx, actorID, limit)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(history))
	ids := make([]string, 0, len(history))
	for _, action := range history {
		if _, ok := seen[action.TargetID]; ok {
			continue
		}
		seen[action.TargetID] = struct{}{}
		ids = append(ids, action.TargetID)
	}
	return ids, nil
}

func (ss *SwipeService) queryRecent(ctx context.Context, actorID string, limit int) ([]models.SwipeAction, error) {
	items, err := ss.Dynamo.QueryItems(ctx, QueryParams{
		Table:      models.SwipesTable,
		HashKey:    "userId",
		HashValue:  &types.AttributeValueMemberS{Value: actorID},
		Limit:      int32(limit),
		Descending: true,
	})
	if err != nil {
		return nil, err
	}

	var actions []models.SwipeAction
	if err := attributevalue.UnmarshalListOfMaps(items, &actions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal swipes: %w", err)
	}
	return actions, nil
}
