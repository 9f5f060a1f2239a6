// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

// User is a registered account. The username doubles as the principal
// identity: it is the subject claim of issued tokens and the owner tag on
// tasks, and it is immutable once created.
type User struct {
	ID           int64  // Surrogate key assigned by the store.
	Username     string // Unique login name; the principal identity.
	PasswordHash string // bcrypt digest of the password. The plaintext is never retained.
}
