package request

import (
	"errors"
	"strings"
	"testing"

	"github.com/veldt-labs/scout/internal/domain"
)

func TestNew_RequiresScopeID(t *testing.T) {
	_, err := New("", "auth flow", nil, 10)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestNew_RequiresQuery(t *testing.T) {
	_, err := New("owner/repo", "", nil, 10)
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}

	_, err = New("owner/repo", strings.Repeat("x", MaxQueryLength+1), nil, 10)
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("oversized query: expected ErrValidation, got %v", err)
	}
}

func TestNew_LimitDefaults(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, DefaultLimit},
		{-3, DefaultLimit},
		{25, 25},
		{MaxLimit + 50, MaxLimit},
	}
	for _, tt := range tests {
		r, err := New("owner/repo", "auth flow", nil, tt.in)
		if err != nil {
			t.Fatalf("New(limit=%d): %v", tt.in, err)
		}
		if r.Limit() != tt.want {
			t.Errorf("limit %d: got %d, want %d", tt.in, r.Limit(), tt.want)
		}
	}
}

func TestNew_Accessors(t *testing.T) {
	filters := map[string]string{"themes": `["auth"]`}
	r, err := New("owner/repo", "auth flow", filters, 5)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if r.ScopeID() != "owner/repo" || r.Query() != "auth flow" {
		t.Errorf("accessors wrong: %q %q", r.ScopeID(), r.Query())
	}
	if r.Filters()["themes"] != `["auth"]` {
		t.Errorf("filters not carried: %v", r.Filters())
	}
}
