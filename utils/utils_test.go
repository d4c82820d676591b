package utils

import (
	"strings"
	"testing"
)

func TestValidatePhoneNumber(t *testing.T) {
	valid := []string{
		"+8801712345678",
		"01712345678",
		"01912345678",
		"01312345678",
	}
	for _, number := range valid {
		if !ValidatePhoneNumber(number) {
			t.Errorf("ValidatePhoneNumber(%q) = false, want true", number)
		}
	}

	invalid := []string{
		"",
		"0171234567",      // too short
		"017123456789",    // too long
		"01012345678",     // 0 is not a valid operator digit
		"01212345678",     // 2 is not a valid operator digit
		"+8802712345678",  // wrong prefix
		"8801712345678",   // missing plus
		"0171234567a",     // non-digit
		"+88 01712345678", // whitespace
	}
	for _, number := range invalid {
		if ValidatePhoneNumber(number) {
			t.Errorf("ValidatePhoneNumber(%q) = true, want false", number)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"user@example.com",
		"first.last@sub.example.org",
		"USER@EXAMPLE.COM",
	}
	for _, email := range valid {
		if !ValidateEmail(email) {
			t.Errorf("ValidateEmail(%q) = false, want true", email)
		}
	}

	invalid := []string{
		"",
		"user",
		"user@",
		"@example.com",
		"user@example",
		"user name@example.com",
	}
	for _, email := range invalid {
		if ValidateEmail(email) {
			t.Errorf("ValidateEmail(%q) = true, want false", email)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  User@Example.COM "); got != "user@example.com" {
		t.Errorf("NormalizeEmail = %q, want user@example.com", got)
	}
}

func TestGenerateTrackingID(t *testing.T) {
	id := GenerateTrackingID()
	if !strings.HasPrefix(id, "TRK-") {
		t.Fatalf("tracking id %q missing TRK- prefix", id)
	}
	parts := strings.Split(id, "-")
	if len(parts) != 3 {
		t.Fatalf("tracking id %q should have three dash-separated parts", id)
	}
	if len(parts[1]) != 8 {
		t.Errorf("date part %q should be 8 digits", parts[1])
	}
	if len(parts[2]) != 8 {
		t.Errorf("random part %q should be 8 characters", parts[2])
	}
	if id == GenerateTrackingID() {
		t.Error("two generated tracking ids should differ")
	}
}
