package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		notFound    bool
		conflict    bool
		invalidArgs bool
	}{
		{name: "house not found", err: ErrHouseNotFound, notFound: true},
		{name: "wrapped meter not found", err: fmt.Errorf("get meter: %w", ErrMeterNotFound), notFound: true},
		{name: "meter number exists", err: ErrMeterNumberExists, conflict: true},
		{name: "threshold", err: ErrInvalidThreshold, invalidArgs: true},
		{name: "joined date range", err: errors.Join(ErrInvalidDateRange, errors.New("extra")), invalidArgs: true},
		{name: "plain error", err: errors.New("disk full")},
		{name: "nil error", err: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFound(tt.err); got != tt.notFound {
				t.Errorf("IsNotFound() = %v, want %v", got, tt.notFound)
			}
			if got := IsConflict(tt.err); got != tt.conflict {
				t.Errorf("IsConflict() = %v, want %v", got, tt.conflict)
			}
			if got := IsInvalidArgument(tt.err); got != tt.invalidArgs {
				t.Errorf("IsInvalidArgument() = %v, want %v", got, tt.invalidArgs)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	if ErrMeterNumberExists.Error() != "conflict: meter number already exists" {
		t.Fatalf("unexpected message: %s", ErrMeterNumberExists)
	}
	if ErrMeterNotFound.Error() != "meter not found" {
		t.Fatalf("unexpected message: %s", ErrMeterNotFound)
	}
}
