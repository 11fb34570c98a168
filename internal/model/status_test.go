package model

import "testing"

func TestParseInvitationStatus(t *testing.T) {
	for _, s := range []string{"PENDING", "ACCEPTED", "DECLINED", "MAYBE"} {
		if _, ok := ParseInvitationStatus(s); !ok {
			t.Errorf("ParseInvitationStatus(%q) not accepted", s)
		}
	}
	for _, s := range []string{"", "accepted", "YES", "CANCELLED"} {
		if _, ok := ParseInvitationStatus(s); ok {
			t.Errorf("ParseInvitationStatus(%q) accepted, want rejection", s)
		}
	}
}

func TestInvitationStatusIsRSVPTarget(t *testing.T) {
	targets := map[InvitationStatus]bool{
		InvitationPending:  false,
		InvitationAccepted: true,
		InvitationDeclined: true,
		InvitationMaybe:    true,
	}
	for s, want := range targets {
		if got := s.IsRSVPTarget(); got != want {
			t.Errorf("%s.IsRSVPTarget() = %v, want %v", s, got, want)
		}
	}
}

func TestFeatureRequestCanModerateTo(t *testing.T) {
	all := []FeatureRequestStatus{
		FeatureRequestPending, FeatureRequestApproved, FeatureRequestRejected, FeatureRequestArchived,
	}
	allowed := map[FeatureRequestStatus][]FeatureRequestStatus{
		FeatureRequestPending:  {FeatureRequestApproved, FeatureRequestRejected},
		FeatureRequestApproved: {FeatureRequestArchived},
		FeatureRequestRejected: {FeatureRequestArchived},
		FeatureRequestArchived: {},
	}
	for from, nexts := range allowed {
		ok := map[FeatureRequestStatus]bool{}
		for _, n := range nexts {
			ok[n] = true
		}
		for _, to := range all {
			if got := from.CanModerateTo(to); got != ok[to] {
				t.Errorf("%s.CanModerateTo(%s) = %v, want %v", from, to, got, ok[to])
			}
		}
	}
}

func TestParseRole(t *testing.T) {
	if ParseRole("ADMIN") != RoleAdmin {
		t.Error(`ParseRole("ADMIN") != RoleAdmin`)
	}
	// Anything else, including garbage, degrades to the weakest role.
	for _, s := range []string{"GUEST", "", "admin", "ROOT"} {
		if ParseRole(s) != RoleGuest {
			t.Errorf("ParseRole(%q) = %v, want RoleGuest", s, ParseRole(s))
		}
	}
}
