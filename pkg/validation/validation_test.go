package validation

import "testing"

func TestValidateEmail(t *testing.T) {
	valid := []string{"a@b.co", "user.name+tag@example.com"}
	for _, e := range valid {
		if !ValidateEmail(e) {
			t.Errorf("ValidateEmail(%q) = false, want true", e)
		}
	}
	invalid := []string{"", "plain", "@no-user.com", "user@", "user@domain"}
	for _, e := range invalid {
		if ValidateEmail(e) {
			t.Errorf("ValidateEmail(%q) = true, want false", e)
		}
	}
}

func TestValidateRole(t *testing.T) {
	for _, r := range []string{"ADMIN", "MANAGER", "DRIVER", "COOK"} {
		if !ValidateRole(r) {
			t.Errorf("ValidateRole(%q) = false, want true", r)
		}
	}
	for _, r := range []string{"", "admin", "RIDER"} {
		if ValidateRole(r) {
			t.Errorf("ValidateRole(%q) = true, want false", r)
		}
	}
}

func TestValidateCoordinates(t *testing.T) {
	tests := []struct {
		lat, lng float64
		want     bool
	}{
		{0, 0, true},
		{90, 180, true},
		{-90, -180, true},
		{90.01, 0, false},
		{-90.01, 0, false},
		{0, 180.01, false},
		{0, -180.01, false},
		{999, 999, false},
	}
	for _, tt := range tests {
		if got := ValidateCoordinates(tt.lat, tt.lng); got != tt.want {
			t.Errorf("ValidateCoordinates(%v, %v) = %v, want %v", tt.lat, tt.lng, got, tt.want)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if ValidatePassword("12345") {
		t.Errorf("five chars accepted")
	}
	if !ValidatePassword("123456") {
		t.Errorf("six chars rejected")
	}
}
