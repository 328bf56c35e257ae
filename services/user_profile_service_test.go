package services

import (
	"context"
	"testing"

	"emberly_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAndGetProfileRoundTrip(t *testing.T) {
	ups := &UserProfileService{Dynamo: newFakeStore()}
	ctx := context.Background()

	created, err := ups.AddUserProfile(ctx, models.Profile{
		Name:     "Alice",
		DOB:      "1996-04-02",
		Latitude: testLat, Longitude: testLon,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.UserID, "an id is assigned when absent")
	assert.Equal(t, models.ProfileBucketActive, created.ProfileBucket)

	fetched, err := ups.GetUserProfile(ctx, created.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", fetched.Name)
	assert.Equal(t, "1996-04-02", fetched.DOB)
}

func TestGetProfileNotFound(t *testing.T) {
	ups := &UserProfileService{Dynamo: newFakeStore()}

	_, err := ups.GetUserProfile(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddProfileRequiresNameAndDOB(t *testing.T) {
	ups := &UserProfileService{Dynamo: newFakeStore()}

	_, err := ups.AddUserProfile(context.Background(), models.Profile{Name: "Alice"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = ups.AddUserProfile(context.Background(), models.Profile{DOB: "1996-04-02"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSetPrimaryPhotoMustBeOwned(t *testing.T) {
	ups := &UserProfileService{Dynamo: newFakeStore()}
	ctx := context.Background()

	created, err := ups.AddUserProfile(ctx, models.Profile{
		Name:   "Alice",
		DOB:    "1996-04-02",
		Photos: []string{"photos/one.jpg", "photos/two.jpg"},
	})
	require.NoError(t, err)

	updated, err := ups.SetPrimaryPhoto(ctx, created.UserID, "photos/two.jpg")
	require.NoError(t, err)
	assert.Equal(t, "photos/two.jpg", updated.PrimaryPhoto)

	_, err = ups.SetPrimaryPhoto(ctx, created.UserID, "photos/elsewhere.jpg")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateProfileAppliesStringFields(t *testing.T) {
	ups := &UserProfileService{Dynamo: newFakeStore()}
	ctx := context.Background()

	created, err := ups.AddUserProfile(ctx, models.Profile{Name: "Alice", DOB: "1996-04-02"})
	require.NoError(t, err)

	updated, err := ups.UpdateUserProfile(ctx, created.UserID, map[string]string{
		"bio":  "hello there",
		"city": "Berlin",
	})
	require.NoError(t, err)
	assert.Equal(t, "hello there", updated.Bio)
	assert.Equal(t, "Berlin", updated.City)
}
