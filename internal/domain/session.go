package domain

import "time"

// Session is the server-side record behind an issued access token. Only the
// SHA-256 hash of the raw token is stored; the raw value exists solely in the
// login/refresh response.
type Session struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	TokenHash string    `db:"token_hash"`
	IPAddress string    `db:"ip_address"`
	UserAgent string    `db:"user_agent"`
	ExpiresAt time.Time `db:"expires_at"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
}

// Usable reports whether the session itself admits requests at now. The
// owning user's active flag is checked separately by the auth service.
func (s Session) Usable(now time.Time) bool {
	return s.IsActive && s.ExpiresAt.After(now)
}
