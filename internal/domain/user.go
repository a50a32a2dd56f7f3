package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the identity record. Historical imports left two identifier forms
// in the collection: the store-native _id and an opaque string id field.
// Every lookup and update must support both (see repository.UserRepository).
type User struct {
	ID           primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	AltID        string             `json:"id,omitempty" bson:"id,omitempty"`
	Email        string             `json:"email" bson:"email"`
	Name         string             `json:"name" bson:"name"`
	PasswordHash string             `json:"-" bson:"passwordHash,omitempty"`
	IsAdmin      bool               `json:"isAdmin" bson:"isAdmin"`
	IsBanned     bool               `json:"isBanned" bson:"isBanned"`
	BannedAt     *time.Time         `json:"bannedAt,omitempty" bson:"bannedAt,omitempty"`
	BanReason    string             `json:"banReason,omitempty" bson:"banReason,omitempty"`
	TokenLimit   int                `json:"tokenLimit,omitempty" bson:"tokenLimit,omitempty"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Key returns the identifier other documents reference this user by: the
// opaque string id when present, otherwise the hex form of _id.
func (u *User) Key() string {
	if u.AltID != "" {
		return u.AltID
	}
	return u.ID.Hex()
}

// TokenUsage is the usage-tracking record, always keyed by the string form
// of the user identifier.
type TokenUsage struct {
	UserID      string    `json:"userId" bson:"userId"`
	TotalTokens int       `json:"totalTokens" bson:"totalTokens"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

// TokenInfo is the derived quota view joined from User and TokenUsage.
type TokenInfo struct {
	TokensUsed      int     `json:"tokensUsed"`
	TokenLimit      int     `json:"tokenLimit"`
	TokensRemaining int     `json:"tokensRemaining"`
	UsagePercentage float64 `json:"usagePercentage"`
	CanUseTokens    bool    `json:"canUseTokens"`
}
