package model

import (
	"math/rand"
	"testing"
)

func int64Ptr(v int64) *int64 { return &v }

func TestDecideVisibility(t *testing.T) {
	owner := int64(10)
	tests := []struct {
		name       string
		viewerID   *int64
		visibility string
		isFriend   bool
		allowed    bool
		reason     string
	}{
		{"public anonymous", nil, VisibilityPublic, false, true, ""},
		{"public stranger", int64Ptr(20), VisibilityPublic, false, true, ""},
		{"private owner", int64Ptr(10), VisibilityPrivate, false, true, ""},
		{"private stranger", int64Ptr(20), VisibilityPrivate, false, false, DenyReasonOwnerOnly},
		{"private friend", int64Ptr(20), VisibilityPrivate, true, false, DenyReasonOwnerOnly},
		{"private anonymous", nil, VisibilityPrivate, false, false, DenyReasonOwnerOnly},
		{"friends owner", int64Ptr(10), VisibilityFriends, false, true, ""},
		{"friends friend", int64Ptr(20), VisibilityFriends, true, true, ""},
		{"friends stranger", int64Ptr(20), VisibilityFriends, false, false, DenyReasonFriendsOnly},
		{"friends anonymous", nil, VisibilityFriends, false, false, DenyReasonFriendsOnly},
		{"unknown scope stranger", int64Ptr(20), "limited", false, false, DenyReasonOwnerOnly},
		{"unknown scope owner", int64Ptr(10), "limited", false, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allowed, reason := DecideVisibility(tt.viewerID, owner, tt.visibility, tt.isFriend)
			if allowed != tt.allowed {
				t.Errorf("allowed = %v, want %v", allowed, tt.allowed)
			}
			if reason != tt.reason {
				t.Errorf("reason = %q, want %q", reason, tt.reason)
			}
		})
	}
}

// 过滤器的逐行谓词必须与单条判定完全一致
func TestQueryFilterAllowsMatchesDecideVisibility(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	visibilities := []string{VisibilityPublic, VisibilityPrivate, VisibilityFriends}

	for i := 0; i < 1000; i++ {
		var viewerID *int64
		if rng.Intn(4) > 0 {
			v := int64(rng.Intn(5) + 1)
			viewerID = &v
		}
		ownerID := int64(rng.Intn(5) + 1)
		visibility := visibilities[rng.Intn(len(visibilities))]
		isFriend := rng.Intn(2) == 0

		filter := &QueryFilter{ViewerID: viewerID}
		expected, _ := DecideVisibility(viewerID, ownerID, visibility, isFriend)
		if got := filter.Allows(ownerID, visibility, isFriend); got != expected {
			t.Fatalf("Allows diverged from DecideVisibility: viewer=%v owner=%d visibility=%s isFriend=%v",
				viewerID, ownerID, visibility, isFriend)
		}
	}
}
