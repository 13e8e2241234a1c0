package domain

// MembershipUpdate changes a user's join/invite/leave state within a
// conversation. Action is forwarded to the messaging platform verbatim;
// invalid actions surface as whatever error the platform returns.
type MembershipUpdate struct {
	ConversationID string
	UserID         string
	Action         string
}
