package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"wrapped not found", fmt.Errorf("session %w", ErrNotFound), ErrNotFound},
		{"double wrapped", fmt.Errorf("join: %w", fmt.Errorf("%w: full", ErrConflict)), ErrConflict},
		{"forbidden", fmt.Errorf("%w: host only", ErrForbidden), ErrForbidden},
		{"invalid state", fmt.Errorf("request %w", ErrInvalidState), ErrInvalidState},
		{"store error", errors.New("connection reset"), nil},
		{"nil", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Kind(tt.err); got != tt.want {
				t.Errorf("Kind() = %v, want %v", got, tt.want)
			}
		})
	}
}
