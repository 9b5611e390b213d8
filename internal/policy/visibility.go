package policy

import (
	"context"

	"openwonder/api/internal/models"
)

// Variant selects between the legacy platform's observed visibility behavior
// and a corrected one.
//
// Legacy quirks reproduced on purpose:
//   - blocks are never consulted for content visibility, only by the
//     follow/block endpoints themselves;
//   - custom_list denies every non-owner (the membership table was never
//     actually queried);
//   - group membership means "has posted in the group".
//
// Strict fixes all three.
type Variant string

const (
	VariantLegacy Variant = "legacy"
	VariantStrict Variant = "strict"
)

// Resolver decides whether an actor may view or interact with a content item.
// Decisions are pure functions of the inputs and the oracle's answers; the
// resolver never writes. An oracle read error denies.
type Resolver struct {
	oracle  RelationshipOracle
	variant Variant
}

func NewResolver(oracle RelationshipOracle, variant Variant) *Resolver {
	return &Resolver{oracle: oracle, variant: variant}
}

// CanView reports whether actor may read content owned by ownerID with the
// given privacy mode. groupID is consulted only for group privacy; empty
// means absent.
func (r *Resolver) CanView(ctx context.Context, actorID, ownerID string, mode models.PrivacyMode, groupID string) (bool, error) {
	// Owner always wins, before any block consideration.
	if actorID == ownerID {
		return true, nil
	}

	if r.variant == VariantStrict {
		blocked, err := r.oracle.IsBlockedEitherDirection(ctx, actorID, ownerID)
		if err != nil {
			return false, err
		}
		if blocked {
			return false, nil
		}
	}

	switch mode {
	case models.PrivacyPublic:
		return true, nil

	case models.PrivacyFriends:
		return r.oracle.AreMutualFollowers(ctx, actorID, ownerID)

	case models.PrivacyOnlyMe:
		return false, nil

	case models.PrivacyCustomList:
		if r.variant == VariantLegacy {
			return false, nil
		}
		return r.oracle.IsOnCustomList(ctx, ownerID, actorID)

	case models.PrivacyGroup:
		if groupID == "" {
			return false, nil
		}
		return r.oracle.IsGroupMember(ctx, groupID, actorID)
	}

	// Fail closed on anything outside the enumerated set.
	return false, nil
}

// CanInteract reports whether actor may comment on or react to the content.
// The legacy platform applied the same policy as reading; the operation is
// kept separate so the two can diverge without touching call sites.
func (r *Resolver) CanInteract(ctx context.Context, actorID, ownerID string, mode models.PrivacyMode, groupID string) (bool, error) {
	return r.CanView(ctx, actorID, ownerID, mode, groupID)
}
