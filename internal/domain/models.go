package domain

import "time"

// User is the local account that external identities are merged into.
// Email is the merge key and is unique across all users.
type User struct {
	ID          int64      `db:"id" json:"id"`
	Username    string     `db:"username" json:"username"`
	Email       string     `db:"email" json:"email"`
	FirstName   string     `db:"first_name" json:"first_name"`
	LastName    string     `db:"last_name" json:"last_name"`
	IsActive    bool       `db:"is_active" json:"-"`
	LastLoginAt *time.Time `db:"last_login_at" json:"-"`
	CreatedAt   time.Time  `db:"created_at" json:"-"`
	UpdatedAt   time.Time  `db:"updated_at" json:"-"`
}

// IdentityLink records that a provider subject belongs to a local user.
// (Provider, Subject) is unique.
type IdentityLink struct {
	ID        int64        `db:"id" json:"id"`
	UserID    int64        `db:"user_id" json:"user_id"`
	Provider  AuthProvider `db:"provider" json:"provider"`
	Subject   string       `db:"subject" json:"subject"`
	Email     string       `db:"email" json:"email"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt time.Time    `db:"updated_at" json:"updated_at"`
}

// ExternalIdentity is the provider-neutral result of one verified sign-in attempt.
// It is never persisted as-is.
type ExternalIdentity struct {
	Provider       AuthProvider
	SubjectID      string
	Email          string // empty when the provider did not disclose one
	EmailVerified  bool
	GivenName      string
	FamilyName     string
	Picture        string
	IsPrivateEmail bool
}

// HasVerifiedEmail reports whether the identity can be merged by email.
func (i ExternalIdentity) HasVerifiedEmail() bool {
	return i.Email != "" && i.EmailVerified
}
