package models

// Match records a mutual like between two users.
type Match struct {
	MatchID   string `dynamodbav:"matchId" json:"matchId"`
	User1ID   string `dynamodbav:"user1Id" json:"user1Id"`
	User2ID   string `dynamodbav:"user2Id" json:"user2Id"`
	Status    string `dynamodbav:"status" json:"status"` // active
	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"`
}

// MatchesTable is the DynamoDB table name for matches
const MatchesTable = "Matches"
