package policy

import "context"

// MemoOracle caches oracle answers for the lifetime of one request.
// Relationships cannot change mid-request, so the first answer stands.
// Not safe for use across goroutines; a request is handled by one.
type MemoOracle struct {
	inner RelationshipOracle
	memo  map[string]bool
}

func Memoize(inner RelationshipOracle) *MemoOracle {
	return &MemoOracle{inner: inner, memo: make(map[string]bool)}
}

func (m *MemoOracle) cached(key string, load func() (bool, error)) (bool, error) {
	if v, ok := m.memo[key]; ok {
		return v, nil
	}
	v, err := load()
	if err != nil {
		return false, err
	}
	m.memo[key] = v
	return v, nil
}

func (m *MemoOracle) IsFollowing(ctx context.Context, actorID, targetID string) (bool, error) {
	return m.cached("f:"+actorID+":"+targetID, func() (bool, error) {
		return m.inner.IsFollowing(ctx, actorID, targetID)
	})
}

func (m *MemoOracle) AreMutualFollowers(ctx context.Context, a, b string) (bool, error) {
	ab, err := m.IsFollowing(ctx, a, b)
	if err != nil || !ab {
		return false, err
	}
	return m.IsFollowing(ctx, b, a)
}

func (m *MemoOracle) IsBlockedEitherDirection(ctx context.Context, a, b string) (bool, error) {
	// Normalize so (a,b) and (b,a) share an entry.
	key := "b:" + a + ":" + b
	if b < a {
		key = "b:" + b + ":" + a
	}
	return m.cached(key, func() (bool, error) {
		return m.inner.IsBlockedEitherDirection(ctx, a, b)
	})
}

func (m *MemoOracle) IsGroupMember(ctx context.Context, groupID, userID string) (bool, error) {
	return m.cached("g:"+groupID+":"+userID, func() (bool, error) {
		return m.inner.IsGroupMember(ctx, groupID, userID)
	})
}

func (m *MemoOracle) IsOnCustomList(ctx context.Context, ownerID, memberID string) (bool, error) {
	return m.cached("l:"+ownerID+":"+memberID, func() (bool, error) {
		return m.inner.IsOnCustomList(ctx, ownerID, memberID)
	})
}
