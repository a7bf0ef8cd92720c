package constants

// Session / context keys
const (
	ContextKeyUserID    = "user_id"
	ContextKeyPartnerID = "partner_id"
	SessionCookieName   = "habitsync_session"
)

// Validation limits
const (
	MinPasswordLength = 8
	MaxNameLength     = 100
)

// Pagination defaults
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// DefaultActivityLimit caps how many activity records are returned per user.
const DefaultActivityLimit = 50
