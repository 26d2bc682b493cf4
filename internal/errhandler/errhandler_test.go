package errhandler

import (
	"errors"
	"fmt"
	"testing"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/charmbracelet/huh"
)

func TestIsInterrupt(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want bool
	}{
		{"survey", terminal.InterruptErr, true},
		{"huh", huh.ErrUserAborted, true},
		{"wrapped", fmt.Errorf("input cancelled: %w", huh.ErrUserAborted), true},
		{"other", errors.New("interrupted by nothing"), false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsInterrupt(tc.err); got != tc.want {
				t.Errorf("IsInterrupt(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestMessage(t *testing.T) {
	if got := Message(errors.New("account 'Bank' already exists")); got != "Account 'Bank' already exists" {
		t.Errorf("Message() = %q", got)
	}
	if got := Message(errors.New("")); got != "" {
		t.Errorf("Message(empty) = %q", got)
	}
}
