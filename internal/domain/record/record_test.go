package record

import (
	"errors"
	"strings"
	"testing"

	"github.com/veldt-labs/scout/internal/domain"
)

func TestNew_Valid(t *testing.T) {
	rec, err := New("doc-1", "func main() {}", map[string]string{"repository_id": "org/repo"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.ID() != "doc-1" {
		t.Errorf("expected id doc-1, got %q", rec.ID())
	}
	if rec.Content() != "func main() {}" {
		t.Errorf("unexpected content %q", rec.Content())
	}
	if v, ok := rec.PayloadValue("repository_id"); !ok || v != "org/repo" {
		t.Errorf("expected payload repository_id=org/repo, got %q (present=%v)", v, ok)
	}
}

func TestNew_EmptyIDAllowed(t *testing.T) {
	rec, err := New("", "content", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.ID() != "" {
		t.Errorf("expected empty id, got %q", rec.ID())
	}
}

func TestNew_EmptyContentRejected(t *testing.T) {
	_, err := New("doc-1", "", nil)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestNew_ContentTooLong(t *testing.T) {
	_, err := New("doc-1", strings.Repeat("x", MaxContentLength+1), nil)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestNew_ReservedPayloadKeyRejected(t *testing.T) {
	_, err := New("doc-1", "content", map[string]string{"__vector": "x"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if !strings.Contains(err.Error(), "reserved prefix") {
		t.Errorf("expected reserved prefix in error, got %q", err.Error())
	}
}

func TestNew_EmptyPayloadValueRejected(t *testing.T) {
	_, err := New("doc-1", "content", map[string]string{"branch": ""})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
