package policy

import (
	"context"
	"testing"

	"openwonder/api/internal/models"
)

// fakeOracle answers from in-memory sets.
type fakeOracle struct {
	follows map[string]bool // "a>b"
	blocks  map[string]bool // "a|b", both orders stored
	groups  map[string]bool // "group:user"
	lists   map[string]bool // "owner:member"
	calls   int
}

func (f *fakeOracle) IsFollowing(_ context.Context, a, b string) (bool, error) {
	f.calls++
	return f.follows[a+">"+b], nil
}

func (f *fakeOracle) AreMutualFollowers(ctx context.Context, a, b string) (bool, error) {
	ab, _ := f.IsFollowing(ctx, a, b)
	if !ab {
		return false, nil
	}
	return f.IsFollowing(ctx, b, a)
}

func (f *fakeOracle) IsBlockedEitherDirection(_ context.Context, a, b string) (bool, error) {
	f.calls++
	return f.blocks[a+"|"+b] || f.blocks[b+"|"+a], nil
}

func (f *fakeOracle) IsGroupMember(_ context.Context, groupID, userID string) (bool, error) {
	f.calls++
	return f.groups[groupID+":"+userID], nil
}

func (f *fakeOracle) IsOnCustomList(_ context.Context, ownerID, memberID string) (bool, error) {
	f.calls++
	return f.lists[ownerID+":"+memberID], nil
}

func newFakeOracle() *fakeOracle {
	return &fakeOracle{
		follows: map[string]bool{},
		blocks:  map[string]bool{},
		groups:  map[string]bool{},
		lists:   map[string]bool{},
	}
}

func TestCanView(t *testing.T) {
	oracle := newFakeOracle()
	// 10 and 20 are mutual followers; 30 follows 20 one-way.
	oracle.follows["10>20"] = true
	oracle.follows["20>10"] = true
	oracle.follows["30>20"] = true
	// 8 has posted in group 42.
	oracle.groups["42:8"] = true
	// 50 blocked 60.
	oracle.blocks["50|60"] = true
	// 70 keeps 80 on a custom list.
	oracle.lists["70:80"] = true

	tests := []struct {
		name    string
		variant Variant
		actor   string
		owner   string
		mode    models.PrivacyMode
		groupID string
		want    bool
	}{
		{"owner sees own only_me post", VariantLegacy, "5", "5", models.PrivacyOnlyMe, "", true},
		{"owner sees own custom_list post", VariantLegacy, "5", "5", models.PrivacyCustomList, "", true},
		{"owner bypass beats a block", VariantStrict, "50", "50", models.PrivacyOnlyMe, "", true},

		{"public visible to stranger", VariantLegacy, "30", "20", models.PrivacyPublic, "", true},
		{"public visible without any edges", VariantLegacy, "99", "20", models.PrivacyPublic, "", true},

		{"friends visible to mutual follower", VariantLegacy, "10", "20", models.PrivacyFriends, "", true},
		{"friends mutual in the other direction", VariantLegacy, "20", "10", models.PrivacyFriends, "", true},
		{"friends hidden from one-way follower", VariantLegacy, "30", "20", models.PrivacyFriends, "", false},
		{"friends hidden from stranger", VariantLegacy, "99", "20", models.PrivacyFriends, "", false},

		{"only_me sealed from friend", VariantLegacy, "10", "20", models.PrivacyOnlyMe, "", false},
		{"only_me sealed from stranger", VariantLegacy, "6", "5", models.PrivacyOnlyMe, "", false},

		{"custom_list always denies in legacy", VariantLegacy, "80", "70", models.PrivacyCustomList, "", false},
		{"custom_list consults list in strict", VariantStrict, "80", "70", models.PrivacyCustomList, "", true},
		{"custom_list strict denies non-member", VariantStrict, "81", "70", models.PrivacyCustomList, "", false},

		{"group visible to participant", VariantLegacy, "8", "7", models.PrivacyGroup, "42", true},
		{"group hidden from outsider", VariantLegacy, "9", "7", models.PrivacyGroup, "42", false},
		{"group denies when group id absent", VariantLegacy, "8", "7", models.PrivacyGroup, "", false},

		{"unknown mode fails closed", VariantLegacy, "10", "20", models.PrivacyMode("everyone"), "", false},
		{"empty mode fails closed", VariantLegacy, "10", "20", models.PrivacyMode(""), "", false},

		{"legacy ignores blocks on public content", VariantLegacy, "60", "50", models.PrivacyPublic, "", true},
		{"strict denies blocked pair on public content", VariantStrict, "60", "50", models.PrivacyPublic, "", false},
		{"strict denies regardless of block direction", VariantStrict, "50", "60", models.PrivacyPublic, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(oracle, tt.variant)
			got, err := r.CanView(context.Background(), tt.actor, tt.owner, tt.mode, tt.groupID)
			if err != nil {
				t.Fatalf("CanView: %v", err)
			}
			if got != tt.want {
				t.Errorf("CanView(%s, %s, %s, %q) = %v, want %v",
					tt.actor, tt.owner, tt.mode, tt.groupID, got, tt.want)
			}
		})
	}
}

func TestCanInteractMatchesCanView(t *testing.T) {
	oracle := newFakeOracle()
	oracle.follows["10>20"] = true
	oracle.follows["20>10"] = true

	r := NewResolver(oracle, VariantLegacy)

	modes := []models.PrivacyMode{
		models.PrivacyPublic, models.PrivacyFriends, models.PrivacyOnlyMe,
		models.PrivacyCustomList, models.PrivacyGroup,
	}
	for _, mode := range modes {
		for _, actor := range []string{"10", "20", "99"} {
			view, _ := r.CanView(context.Background(), actor, "20", mode, "42")
			interact, _ := r.CanInteract(context.Background(), actor, "20", mode, "42")
			if view != interact {
				t.Errorf("mode %s actor %s: CanView=%v CanInteract=%v", mode, actor, view, interact)
			}
		}
	}
}

func TestMutualFollowersSymmetry(t *testing.T) {
	oracle := newFakeOracle()
	oracle.follows["10>20"] = true
	oracle.follows["20>10"] = true
	oracle.follows["30>20"] = true

	pairs := [][2]string{{"10", "20"}, {"20", "30"}, {"10", "30"}}
	for _, p := range pairs {
		ab, _ := oracle.AreMutualFollowers(context.Background(), p[0], p[1])
		ba, _ := oracle.AreMutualFollowers(context.Background(), p[1], p[0])
		if ab != ba {
			t.Errorf("AreMutualFollowers(%s,%s)=%v but (%s,%s)=%v", p[0], p[1], ab, p[1], p[0], ba)
		}
	}
}

func TestMemoOracleCachesWithinRequest(t *testing.T) {
	oracle := newFakeOracle()
	oracle.follows["10>20"] = true
	memo := Memoize(oracle)

	for i := 0; i < 5; i++ {
		ok, err := memo.IsFollowing(context.Background(), "10", "20")
		if err != nil || !ok {
			t.Fatalf("IsFollowing = %v, %v", ok, err)
		}
	}
	if oracle.calls != 1 {
		t.Errorf("inner oracle called %d times, want 1", oracle.calls)
	}

	// Block queries share one entry for both orders.
	oracle.calls = 0
	if _, err := memo.IsBlockedEitherDirection(context.Background(), "1", "2"); err != nil {
		t.Fatal(err)
	}
	if _, err := memo.IsBlockedEitherDirection(context.Background(), "2", "1"); err != nil {
		t.Fatal(err)
	}
	if oracle.calls != 1 {
		t.Errorf("inner oracle called %d times for symmetric block probe, want 1", oracle.calls)
	}
}
