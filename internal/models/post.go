package models

import (
	"fmt"
	"time"
)

// PrivacyMode is the declared visibility policy of a content item. The wire
// values accepted by the legacy API are either the names below or the numeric
// codes the PHP platform used ("0".."4").
type PrivacyMode string

const (
	PrivacyPublic     PrivacyMode = "public"
	PrivacyFriends    PrivacyMode = "friends"
	PrivacyOnlyMe     PrivacyMode = "only_me"
	PrivacyCustomList PrivacyMode = "custom_list"
	PrivacyGroup      PrivacyMode = "group"
)

var legacyPrivacyCodes = map[string]PrivacyMode{
	"0": PrivacyPublic,
	"1": PrivacyFriends,
	"2": PrivacyOnlyMe,
	"3": PrivacyCustomList,
	"4": PrivacyGroup,
}

func ParsePrivacyMode(raw string) (PrivacyMode, error) {
	switch PrivacyMode(raw) {
	case PrivacyPublic, PrivacyFriends, PrivacyOnlyMe, PrivacyCustomList, PrivacyGroup:
		return PrivacyMode(raw), nil
	}
	if mode, ok := legacyPrivacyCodes[raw]; ok {
		return mode, nil
	}
	return "", fmt.Errorf("unknown privacy mode %q", raw)
}

type Post struct {
	ID             string
	OwnerID        string
	Body           string
	Privacy        PrivacyMode
	GroupID        *string
	CommentsCount  int
	ReactionsCount int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Comment struct {
	ID        string
	PostID    string
	OwnerID   string
	Body      string
	CreatedAt time.Time
}
