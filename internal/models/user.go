package models

import "time"

type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusDisabled UserStatus = "disabled"
	UserStatusBanned   UserStatus = "banned"
)

type FollowPrivacy string

const (
	FollowPrivacyEverybody FollowPrivacy = "everybody"
	FollowPrivacyNobody    FollowPrivacy = "nobody"
)

type User struct {
	ID               string
	Username         string
	Email            string
	PasswordHash     []byte
	Status           UserStatus
	FollowPrivacy    FollowPrivacy
	ConfirmFollowers bool
	FollowersCount   int
	FollowingCount   int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Session is an opaque bearer token bound to a user. The legacy platform never
// expires sessions; a row lives until it is explicitly revoked.
type Session struct {
	ID        string
	UserID    string
	Token     string
	Platform  string
	CreatedAt time.Time
}
