package models

import "testing"

func TestParsePrivacyMode(t *testing.T) {
	tests := []struct {
		raw     string
		want    PrivacyMode
		wantErr bool
	}{
		{"public", PrivacyPublic, false},
		{"friends", PrivacyFriends, false},
		{"only_me", PrivacyOnlyMe, false},
		{"custom_list", PrivacyCustomList, false},
		{"group", PrivacyGroup, false},
		// Legacy numeric codes from the PHP API.
		{"0", PrivacyPublic, false},
		{"1", PrivacyFriends, false},
		{"2", PrivacyOnlyMe, false},
		{"3", PrivacyCustomList, false},
		{"4", PrivacyGroup, false},
		{"", "", true},
		{"5", "", true},
		{"everyone", "", true},
		{"PUBLIC", "", true},
	}

	for _, tt := range tests {
		got, err := ParsePrivacyMode(tt.raw)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePrivacyMode(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePrivacyMode(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
