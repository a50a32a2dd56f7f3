package dto

// BulkManageRequest is the admin bulk-moderation payload.
type BulkManageRequest struct {
	Action  string         `json:"action" validate:"required"`
	UserIDs []string       `json:"userIds" validate:"required,min=1"`
	Data    BulkManageData `json:"data"`
}

// BulkManageData carries per-action parameters.
type BulkManageData struct {
	Reason     string `json:"reason"`
	TokenLimit int    `json:"tokenLimit"`
}

// BulkManageResponse reports partial-success accounting for a batch.
type BulkManageResponse struct {
	Success        bool     `json:"success"`
	Message        string   `json:"message"`
	AffectedUsers  int      `json:"affectedUsers"`
	RequestedUsers int      `json:"requestedUsers"`
	Errors         []string `json:"errors,omitempty"`
}

// TokenAdminRequest is the single-user token administration payload.
type TokenAdminRequest struct {
	Action string `json:"action" validate:"required,oneof=setLimit setUsage resetUsage addTokens"`
	UserID string `json:"userId" validate:"required"`
	Amount int    `json:"amount"`
}

// TokenIncrementRequest is the self-service usage increment payload.
type TokenIncrementRequest struct {
	TokensToAdd int `json:"tokensToAdd" validate:"required,gt=0"`
}
