package search

import (
	"errors"
	"strings"
	"testing"

	"github.com/veldt-labs/scout/internal/domain"
	"github.com/veldt-labs/scout/internal/domain/schema"
	"github.com/veldt-labs/scout/internal/domain/search/request"
)

func codeSchema(t *testing.T) schema.Schema {
	t.Helper()
	sch, err := schema.Get(schema.DomainCode)
	if err != nil {
		t.Fatalf("schema.Get: %v", err)
	}
	return sch
}

func newRequest(t *testing.T, scopeID, query string, filters map[string]string) request.Request {
	t.Helper()
	req, err := request.New(scopeID, query, filters, 10)
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	return req
}

func TestBuildFilter_ScopeAndScalarGoMust_ThemesGoShould(t *testing.T) {
	sch := codeSchema(t)
	req := newRequest(t, "org/repo", "auth flow", map[string]string{
		"themes":               `["authentication"]`,
		"programming_language": "python",
	})

	expr, err := BuildFilter(sch, req)
	if err != nil {
		t.Fatalf("BuildFilter: %v", err)
	}

	must := expr.Must()
	if len(must) != 2 {
		t.Fatalf("must has %d conditions, want 2", len(must))
	}
	if must[0].Key() != "repository_id" || must[0].Match() != "org/repo" {
		t.Errorf("must[0] = %s==%s, want repository_id==org/repo", must[0].Key(), must[0].Match())
	}
	if must[1].Key() != "programming_language" || must[1].Match() != "python" {
		t.Errorf("must[1] = %s==%s, want programming_language==python", must[1].Key(), must[1].Match())
	}

	should := expr.Should()
	if len(should) != 1 {
		t.Fatalf("should has %d conditions, want 1", len(should))
	}
	if should[0].Key() != "themes" || should[0].MatchText() != "authentication" {
		t.Errorf("should[0] = %s full-text %q", should[0].Key(), should[0].MatchText())
	}
	if expr.MinimumShouldMatch() != 0 {
		t.Errorf("minimum_should_match = %d, want 0", expr.MinimumShouldMatch())
	}
}

func TestBuildFilter_ThemesExpandPerTerm(t *testing.T) {
	sch := codeSchema(t)
	req := newRequest(t, "org/repo", "q", map[string]string{
		"themes": `["authentication", "security", "api"]`,
	})

	expr, err := BuildFilter(sch, req)
	if err != nil {
		t.Fatalf("BuildFilter: %v", err)
	}
	if len(expr.Should()) != 3 {
		t.Fatalf("should has %d conditions, want 3", len(expr.Should()))
	}
	for i, want := range []string{"authentication", "security", "api"} {
		if got := expr.Should()[i].MatchText(); got != want {
			t.Errorf("should[%d] = %q, want %q", i, got, want)
		}
	}
}

func TestBuildFilter_UnknownFieldNamed(t *testing.T) {
	sch := codeSchema(t)
	req := newRequest(t, "org/repo", "q", map[string]string{"unknown_field": "x"})

	_, err := BuildFilter(sch, req)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if !strings.Contains(err.Error(), "unknown_field") {
		t.Errorf("error does not name the field: %v", err)
	}
}

func TestBuildFilter_IndexOnlyFieldRejected(t *testing.T) {
	sch := codeSchema(t)
	req := newRequest(t, "org/repo", "q", map[string]string{"content_type": "chunk"})

	if _, err := BuildFilter(sch, req); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("index-only field must be rejected as a filter, got %v", err)
	}
}

func TestBuildFilter_MalformedJSONArrayShowsLiteralFormat(t *testing.T) {
	sch := codeSchema(t)
	req := newRequest(t, "org/repo", "q", map[string]string{"themes": "not-json"})

	_, err := BuildFilter(sch, req)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if !strings.Contains(err.Error(), `'["`) {
		t.Errorf("error does not show the expected literal format: %v", err)
	}
}

func TestBuildFilter_ScopeDuplicateInFiltersIgnored(t *testing.T) {
	sch := codeSchema(t)
	req := newRequest(t, "org/repo", "q", map[string]string{"repository_id": "other/repo"})

	expr, err := BuildFilter(sch, req)
	if err != nil {
		t.Fatalf("BuildFilter: %v", err)
	}
	if len(expr.Must()) != 1 {
		t.Fatalf("must has %d conditions, want only the scope", len(expr.Must()))
	}
	if expr.Must()[0].Match() != "org/repo" {
		t.Errorf("scope condition = %q, the scope argument must win", expr.Must()[0].Match())
	}
}

func TestBuildFilter_EmptyValuesSkipped(t *testing.T) {
	sch := codeSchema(t)
	req := newRequest(t, "org/repo", "q", map[string]string{
		"programming_language": "",
		"themes":               "[]",
	})

	expr, err := BuildFilter(sch, req)
	if err != nil {
		t.Fatalf("BuildFilter: %v", err)
	}
	if len(expr.Must()) != 1 || len(expr.Should()) != 0 {
		t.Errorf("empty values must not produce conditions: must=%d should=%d",
			len(expr.Must()), len(expr.Should()))
	}
}

func TestBuildFilter_BooleanAndNumeric(t *testing.T) {
	sch := codeSchema(t)
	req := newRequest(t, "org/repo", "q", map[string]string{
		"has_comments":     "true",
		"complexity_score": "5",
	})

	expr, err := BuildFilter(sch, req)
	if err != nil {
		t.Fatalf("BuildFilter: %v", err)
	}

	byKey := map[string]int{}
	for i, c := range expr.Must() {
		byKey[c.Key()] = i
	}

	i, ok := byKey["has_comments"]
	if !ok {
		t.Fatal("has_comments condition missing")
	}
	if expr.Must()[i].Match() != "true" {
		t.Errorf("has_comments = %q, want true", expr.Must()[i].Match())
	}

	i, ok = byKey["complexity_score"]
	if !ok {
		t.Fatal("complexity_score condition missing")
	}
	r := expr.Must()[i].Range()
	if r == nil || r.GTE() == nil || *r.GTE() != 5 {
		t.Errorf("complexity_score range = %+v, want gte 5", r)
	}
}

func TestBuildFilter_BadBooleanRejected(t *testing.T) {
	sch := codeSchema(t)
	req := newRequest(t, "org/repo", "q", map[string]string{"has_comments": "maybe"})

	if _, err := BuildFilter(sch, req); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestBuildFilter_BadNumberRejected(t *testing.T) {
	sch := codeSchema(t)
	req := newRequest(t, "org/repo", "q", map[string]string{"complexity_score": "high"})

	_, err := BuildFilter(sch, req)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if !strings.Contains(err.Error(), "complexity_score") {
		t.Errorf("error does not name the field: %v", err)
	}
}

func TestBuildFilter_Deterministic(t *testing.T) {
	sch := codeSchema(t)
	filters := map[string]string{
		"programming_language": "go",
		"file_type":            ".go",
		"directory":            "internal",
		"branch":               "main",
	}

	first, err := BuildFilter(sch, newRequest(t, "org/repo", "q", filters))
	if err != nil {
		t.Fatalf("BuildFilter: %v", err)
	}

	for range 10 {
		expr, err := BuildFilter(sch, newRequest(t, "org/repo", "q", filters))
		if err != nil {
			t.Fatalf("BuildFilter: %v", err)
		}
		for i, c := range expr.Must() {
			if c.Key() != first.Must()[i].Key() {
				t.Fatalf("condition order varies: %q vs %q at %d", c.Key(), first.Must()[i].Key(), i)
			}
		}
	}
}

func TestBuildFilter_MailboxLabelsAreSetMembership(t *testing.T) {
	sch, err := schema.Get(schema.DomainMailbox)
	if err != nil {
		t.Fatalf("schema.Get: %v", err)
	}
	req := newRequest(t, "user@example.com", "q", map[string]string{
		"labels": `["inbox", "follow-up"]`,
	})

	expr, err := BuildFilter(sch, req)
	if err != nil {
		t.Fatalf("BuildFilter: %v", err)
	}
	if len(expr.Should()) != 1 {
		t.Fatalf("should has %d conditions, want 1", len(expr.Should()))
	}
	got := expr.Should()[0].MatchAny()
	if len(got) != 2 || got[0] != "inbox" || got[1] != "follow-up" {
		t.Errorf("labels membership = %v", got)
	}
}

func TestParseJSONList(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []string
		wantErr bool
	}{
		{"valid array", `["authentication", "database", "api"]`, []string{"authentication", "database", "api"}, false},
		{"empty array", `[]`, []string{}, false},
		{"empty string", ``, nil, false},
		{"special characters", `["api/v2", "user-auth", "database connection"]`, []string{"api/v2", "user-auth", "database connection"}, false},
		{"missing bracket", `["authentication", "database"`, nil, true},
		{"object not array", `{"theme": "authentication"}`, nil, true},
		{"bare string", `"authentication"`, nil, true},
		{"number elements", `[1, 2]`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseJSONList("themes", tt.raw)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrValidation) {
					t.Fatalf("expected ErrValidation, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseJSONList: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("element %d = %q, want %q (order must be preserved)", i, got[i], tt.want[i])
				}
			}
		})
	}
}
