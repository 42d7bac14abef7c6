package validation

import (
	"errors"
	"regexp"

	"github.com/google/uuid"
)

var ErrInvalidUsername = errors.New("please only provide one first name and one last name")

// One first name, optionally one last name, separated by a single
// space. Unicode letters only.
var usernamePattern = regexp.MustCompile(`^\p{L}+( \p{L}+)?$`)

func ValidateUsername(name string) error {
	if !usernamePattern.MatchString(name) {
		return ErrInvalidUsername
	}
	return nil
}

func ValidUUID(val string) bool {
	_, err := uuid.Parse(val)
	return err == nil
}
