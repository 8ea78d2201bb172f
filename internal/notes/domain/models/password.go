package models

// Password holds the bcrypt hash of a user's password; it lives apart from
// User so the hash never travels with profile data.
type Password struct {
	UserID string
	Hash   string
}
