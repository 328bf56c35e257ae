package services

import (
	"context"
	"fmt"

	"emberly_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// UserProfileService owns profile records. The matching pipeline only reads
// them; mutation stays with the profile owner's flows.
type UserProfileService struct {
	Dynamo DynamoStore
}

// AddUserProfile creates a new profile, assigning an id when absent.
func (ups *UserProfileService) AddUserProfile(ctx context.Context, profile models.Profile) (*models.Profile, error) {
	if profile.UserID == "" {
		profile.UserID = uuid.NewString()
	}
	if profile.Name == "" || profile.DOB == "" {
		return nil, fmt.Errorf("name and dob are required: %w", ErrInvalidInput)
	}

	// Every profile lands in the single GSI bucket so dob range queries see it.
	profile.ProfileBucket = models.ProfileBucketActive

	if err := ups.Dynamo.PutItem(ctx, models.ProfilesTable, profile); err != nil {
		return nil, fmt.Errorf("failed to add profile: %w", err)
	}
	return &profile, nil
}

// GetUserProfile retrieves a profile by id.
func (ups *UserProfileService) GetUserProfile(ctx context.Context, userID string) (*models.Profile, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required: %w", ErrInvalidInput)
	}

	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}

	item, err := ups.Dynamo.GetItem(ctx, models.ProfilesTable, key)
	if err != nil {
		return nil, err
	}

	var profile models.Profile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &profile, nil
}

// UpdateUserProfile applies a partial update of string attributes and returns
// the updated profile.
func (ups *UserProfileService) UpdateUserProfile(ctx context.Context, userID string, updates map[string]string) (*models.Profile, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required: %w", ErrInvalidInput)
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("no updates provided: %w", ErrInvalidInput)
	}

	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}

	updateExpression := "SET"
	expressionAttributeValues := make(map[string]types.AttributeValue, len(updates))
	expressionAttributeNames := make(map[string]string, len(updates))

	for attr, value := range updates {
		placeholder := ":" + attr
		attributeName := "#" + attr
		updateExpression += " " + attributeName + " = " + placeholder + ","
		expressionAttributeValues[placeholder] = &types.AttributeValueMemberS{Value: value}
		expressionAttributeNames[attributeName] = attr
	}
	updateExpression = updateExpression[:len(updateExpression)-1]

	updatedItem, err := ups.Dynamo.UpdateItem(ctx, models.ProfilesTable, updateExpression, key, expressionAttributeValues, expressionAttributeNames)
	if err != nil {
		return nil, err
	}

	var updatedProfile models.Profile
	if err := attributevalue.UnmarshalMap(updatedItem, &updatedProfile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated profile: %w", err)
	}
	return &updatedProfile, nil
}

// SetPrimaryPhoto designates one of the profile's photos as primary.
func (ups *UserProfileService) SetPrimaryPhoto(ctx context.Context, userID, photo string) (*models.Profile, error) {
	if photo == "" {
		return nil, fmt.Errorf("photo is required: %w", ErrInvalidInput)
	}

	profile, err := ups.GetUserProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	owned := false
	for _, p := range profile.Photos {
		if p == photo {
			owned = true
			break
		}
	}
	if !owned {
		return nil, fmt.Errorf("photo does not belong to profile %s: %w", userID, ErrInvalidInput)
	}

	return ups.UpdateUserProfile(ctx, userID, map[string]string{"primaryPhoto": photo})
}

// DeleteUserProfile removes a profile.
func (ups *UserProfileService) DeleteUserProfile(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("user id is required: %w", ErrInvalidInput)
	}

	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
	return ups.Dynamo.DeleteItem(ctx, models.ProfilesTable, key)
}
