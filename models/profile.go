package models

// Profile defines the structure for candidate profiles.
// Profiles are created and mutated by the owner's onboarding flow;
// the matching pipeline only ever reads them.
type Profile struct {
	UserID        string   `dynamodbav:"userId" json:"userId"`
	Name          string   `dynamodbav:"name" json:"name"`
	DOB           string   `dynamodbav:"dob" json:"dob"` // YYYY-MM-DD
	Bio           string   `dynamodbav:"bio,omitempty" json:"bio,omitempty"`
	Photos        []string `dynamodbav:"photos,omitempty" json:"photos,omitempty"`
	PrimaryPhoto  string   `dynamodbav:"primaryPhoto,omitempty" json:"primaryPhoto,omitempty"`
	Interests     []string `dynamodbav:"interests,omitempty" json:"interests,omitempty"`
	Latitude      float64  `dynamodbav:"latitude" json:"latitude"`
	Longitude     float64  `dynamodbav:"longitude" json:"longitude"`
	City          string   `dynamodbav:"city,omitempty" json:"city,omitempty"`
	Country       string   `dynamodbav:"country,omitempty" json:"country,omitempty"`
	Compatibility *int     `dynamodbav:"compatibility,omitempty" json:"compatibility,omitempty"` // 0-100, precomputed upstream

	// Match preferences, all optional. Zero values mean "use defaults".
	PrefAgeMin     int     `dynamodbav:"prefAgeMin,omitempty" json:"prefAgeMin,omitempty"`
	PrefAgeMax     int     `dynamodbav:"prefAgeMax,omitempty" json:"prefAgeMax,omitempty"`
	PrefDistanceKm float64 `dynamodbav:"prefDistanceKm,omitempty" json:"prefDistanceKm,omitempty"`

	// ProfileBucket is the constant hash key of the dob GSI so profiles can be
	// queried ordered by birth date.
	ProfileBucket string `dynamodbav:"profileBucket,omitempty" json:"-"`
}

// ProfilesTable is the DynamoDB table name for candidate profiles
const ProfilesTable = "Profiles"

// DOBIndex is the GSI used for birth-date range queries (profileBucket + dob)
const DOBIndex = "dob-index"

// ProfileBucketActive is the single bucket value indexed by DOBIndex
const ProfileBucketActive = "active"
