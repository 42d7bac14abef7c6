package user_services

import (
	"errors"
	"testing"

	"github.com/JulianKoehler/kanban-backend/internal/validation"
)

func TestSplitUserName(t *testing.T) {
	first, last, err := SplitUserName("Anna Schmidt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != "Anna" {
		t.Fatalf("expected first name Anna, got %q", first)
	}
	if !last.Valid || last.String != "Schmidt" {
		t.Fatalf("expected last name Schmidt, got %+v", last)
	}
}

func TestSplitUserNameFirstNameOnly(t *testing.T) {
	first, last, err := SplitUserName("Anna")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != "Anna" {
		t.Fatalf("expected first name Anna, got %q", first)
	}
	if last.Valid {
		t.Fatalf("expected no last name, got %+v", last)
	}
}

func TestSplitUserNameRejectsInvalid(t *testing.T) {
	for _, name := range []string{"", "Anna Maria Schmidt", "user42"} {
		if _, _, err := SplitUserName(name); !errors.Is(err, validation.ErrInvalidUsername) {
			t.Fatalf("expected ErrInvalidUsername for %q, got %v", name, err)
		}
	}
}
