package main

// Notes:
// - validateWorkers: we test the bounds and the sentinel error.
// - resolveWorkers: we test the flag > config > auto precedence. The auto
//   value depends on GOMAXPROCS, so we only check its range.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	md2deck "github.com/alnah/go-md2deck"
	"github.com/alnah/go-md2deck/internal/config"
)

// ---------------------------------------------------------------------------
// TestValidateWorkers - Worker count validation
// ---------------------------------------------------------------------------

func TestValidateWorkers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		n       int
		wantErr bool
		errMsg  string
	}{
		{
			name:    "negative returns error",
			n:       -1,
			wantErr: true,
			errMsg:  "must be >= 0",
		},
		{
			name:    "zero is valid (auto mode)",
			n:       0,
			wantErr: false,
		},
		{
			name:    "one is valid",
			n:       1,
			wantErr: false,
		},
		{
			name:    "max workers is valid",
			n:       md2deck.MaxPoolSize,
			wantErr: false,
		},
		{
			name:    "above max returns error",
			n:       md2deck.MaxPoolSize + 1,
			wantErr: true,
			errMsg:  fmt.Sprintf("maximum is %d", md2deck.MaxPoolSize),
		},
		{
			name:    "large number returns error",
			n:       100,
			wantErr: true,
			errMsg:  fmt.Sprintf("maximum is %d", md2deck.MaxPoolSize),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := validateWorkers(tt.n)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, ErrInvalidWorkerCount) {
					t.Errorf("error = %v, want ErrInvalidWorkerCount", err)
				}
				if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("error message %q should contain %q", err.Error(), tt.errMsg)
				}
				return
			}

			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestResolveWorkers - Worker count precedence
// ---------------------------------------------------------------------------

func TestResolveWorkers(t *testing.T) {
	t.Parallel()

	t.Run("flag takes precedence over config", func(t *testing.T) {
		t.Parallel()

		cfg := &config.Config{Export: config.ExportConfig{Workers: 2}}
		got, err := resolveWorkers(4, cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != 4 {
			t.Errorf("resolveWorkers() = %d, want 4", got)
		}
	})

	t.Run("config fallback when flag is zero", func(t *testing.T) {
		t.Parallel()

		cfg := &config.Config{Export: config.ExportConfig{Workers: 3}}
		got, err := resolveWorkers(0, cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != 3 {
			t.Errorf("resolveWorkers() = %d, want 3", got)
		}
	})

	t.Run("auto mode stays within pool bounds", func(t *testing.T) {
		t.Parallel()

		got, err := resolveWorkers(0, &config.Config{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got < md2deck.MinPoolSize || got > md2deck.MaxPoolSize {
			t.Errorf("resolveWorkers() = %d, want within [%d, %d]",
				got, md2deck.MinPoolSize, md2deck.MaxPoolSize)
		}
	})

	t.Run("config value above maximum returns error", func(t *testing.T) {
		t.Parallel()

		cfg := &config.Config{Export: config.ExportConfig{Workers: md2deck.MaxPoolSize + 1}}
		_, err := resolveWorkers(0, cfg)
		if !errors.Is(err, ErrInvalidWorkerCount) {
			t.Errorf("error = %v, want ErrInvalidWorkerCount", err)
		}
	})
}
