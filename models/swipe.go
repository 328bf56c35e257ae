package models

// SwipeAction is one directional swipe recorded as an append-only event.
// The range key SK embeds the record id after the timestamp so "most recent"
// stays a total order even when two swipes land in the same instant.
type SwipeAction struct {
	UserID    string `dynamodbav:"userId" json:"userId"` // ✅ Partition Key (acting user)
	SK        string `dynamodbav:"sk" json:"-"`          // ✅ Range Key: createdAt + "#" + swipeId
	SwipeID   string `dynamodbav:"swipeId" json:"swipeId"`
	TargetID  string `dynamodbav:"targetId" json:"targetId"`
	Kind      string `dynamodbav:"kind" json:"kind"` // like, pass, superlike
	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"`
	Deleted   bool   `dynamodbav:"deleted" json:"-"` // set by undo

	// Optional capture context.
	Latitude  *float64 `dynamodbav:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude *float64 `dynamodbav:"longitude,omitempty" json:"longitude,omitempty"`
	HourOfDay *int     `dynamodbav:"hourOfDay,omitempty" json:"hourOfDay,omitempty"` // 0-23
}

// SwipeMetadata is the optional context attached to a swipe at record time.
type SwipeMetadata struct {
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	HourOfDay *int     `json:"hourOfDay,omitempty"`
}

// SwipesTable is the DynamoDB table name for swipe events
const SwipesTable = "Swipes"
