package validation

import (
	"errors"
	"testing"
)

func TestValidateUsername(t *testing.T) {
	valid := []string{"Anna", "Anna Schmidt", "Jürgen Böll", "李 明"}
	for _, name := range valid {
		if err := ValidateUsername(name); err != nil {
			t.Fatalf("expected %q to be valid, got %v", name, err)
		}
	}

	invalid := []string{"", " ", "Anna  Schmidt", "Anna Maria Schmidt", "R2D2", "anna-lena", "Anna ", " Anna"}
	for _, name := range invalid {
		err := ValidateUsername(name)
		if !errors.Is(err, ErrInvalidUsername) {
			t.Fatalf("expected %q to be invalid, got %v", name, err)
		}
	}
}

func TestValidUUID(t *testing.T) {
	if !ValidUUID("11111111-1111-1111-1111-111111111111") {
		t.Fatal("expected canonical uuid to be valid")
	}
	for _, bad := range []string{"", "nope", "11111111-1111-1111-1111"} {
		if ValidUUID(bad) {
			t.Fatalf("expected %q to be invalid", bad)
		}
	}
}
