package mail_services

import (
	"errors"
	"strings"
	"testing"
)

func TestPasswordForgottenMessage(t *testing.T) {
	link := "http://localhost:3000/new-password?token=abc"
	msg := passwordForgottenMessage(link)

	if !strings.Contains(msg, link) {
		t.Fatalf("message must contain the reset link, got:\n%s", msg)
	}
	if !strings.Contains(msg, "5 minutes") {
		t.Fatalf("message must mention the link expiry, got:\n%s", msg)
	}
}

func TestSendPasswordResetUnconfigured(t *testing.T) {
	svc := New(Config{})

	err := svc.SendPasswordReset("someone@example.com", "http://x/new-password?token=y")
	if !errors.Is(err, ErrSendFailed) {
		t.Fatalf("expected ErrSendFailed, got %v", err)
	}
}
