package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorConstants(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"ErrInvalidArgument", ErrInvalidArgument, "invalid argument"},
		{"ErrNotFound", ErrNotFound, "not found"},
		{"ErrConflict", ErrConflict, "conflict"},
		{"ErrForbidden", ErrForbidden, "forbidden"},
		{"ErrUnauthorized", ErrUnauthorized, "unauthorized"},
		{"ErrUpstream", ErrUpstream, "upstream service error"},
		{"ErrInternal", ErrInternal, "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.expected {
				t.Errorf("Expected %s to be %q, got %q", tt.name, tt.expected, tt.err.Error())
			}
		})
	}
}

func TestErrorIs_Wrapped(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		target   error
		expected bool
	}{
		{"wrapped not found", fmt.Errorf("op=review.get: %w", ErrNotFound), ErrNotFound, true},
		{"wrapped conflict", fmt.Errorf("op=review.create: %w", ErrConflict), ErrConflict, true},
		{"wrapped forbidden", fmt.Errorf("%w: not the author", ErrForbidden), ErrForbidden, true},
		{"not found is not conflict", ErrNotFound, ErrConflict, false},
		{"forbidden is not unauthorized", ErrForbidden, ErrUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if errors.Is(tt.err, tt.target) != tt.expected {
				t.Errorf("Expected errors.Is(%v, %v) to be %v", tt.err, tt.target, tt.expected)
			}
		})
	}
}
