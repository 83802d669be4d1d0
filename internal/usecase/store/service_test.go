package store

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/veldt-labs/scout/internal/db"
	"github.com/veldt-labs/scout/internal/domain"
	"github.com/veldt-labs/scout/internal/domain/record"
	"github.com/veldt-labs/scout/internal/domain/schema"
)

// --- Mocks ---

type mockWriter struct {
	sets       map[string]map[string]string
	multiCalls int
	err        error
}

func newMockWriter() *mockWriter {
	return &mockWriter{sets: make(map[string]map[string]string)}
}

func (m *mockWriter) HSet(_ context.Context, key string, fields map[string]string) error {
	if m.err != nil {
		return m.err
	}
	m.sets[key] = fields
	return nil
}

func (m *mockWriter) HSetMulti(_ context.Context, items []db.HashSetItem) error {
	m.multiCalls++
	if m.err != nil {
		return m.err
	}
	for _, it := range items {
		m.sets[it.Key] = it.Fields
	}
	return nil
}

type mockEmbedder struct {
	vector []float32
	calls  int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.calls++
	return domain.EmbeddingResult{Embedding: m.vector, TotalTokens: 2}, nil
}

type mockBatchEmbedder struct {
	mockEmbedder
	batchCalls int
}

func (m *mockBatchEmbedder) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	m.batchCalls++
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = m.vector
	}
	return domain.BatchEmbeddingResult{Embeddings: out, TotalTokens: 2 * len(texts)}, nil
}

type mockEnsurer struct{ err error }

func (m *mockEnsurer) Ensure(_ context.Context) error { return m.err }

func newStoreService(t *testing.T, w DocumentWriter, e domain.Embedder) *Service {
	t.Helper()
	sch, err := schema.Get(schema.DomainCode)
	if err != nil {
		t.Fatalf("schema.Get: %v", err)
	}
	return New(w, e, &mockEnsurer{}, sch, "scout:", zap.NewNop())
}

func mustRecord(t *testing.T, id, content string, payload map[string]string) record.Record {
	t.Helper()
	rec, err := record.New(id, content, payload)
	if err != nil {
		t.Fatalf("record.New: %v", err)
	}
	return rec
}

// --- Tests ---

func TestStore_WritesContentVectorAndPayload(t *testing.T) {
	w := newMockWriter()
	svc := newStoreService(t, w, &mockEmbedder{vector: []float32{1, 2}})

	rec := mustRecord(t, "chunk-1", "func main() {}", map[string]string{
		"repository_id": "org/repo",
		"themes":        "entrypoint",
	})

	id, err := svc.Store(context.Background(), rec)
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if id != "chunk-1" {
		t.Errorf("id = %q, caller id must be kept", id)
	}

	fields, ok := w.sets["scout:code:chunk-1"]
	if !ok {
		t.Fatalf("record not written under domain prefix, keys: %v", mapKeys(w.sets))
	}
	if fields[db.FieldContent] != "func main() {}" {
		t.Errorf("content field = %q", fields[db.FieldContent])
	}
	if fields[db.FieldVector] != db.VectorBytes([]float32{1, 2}) {
		t.Error("vector field not encoded")
	}
	if fields["repository_id"] != "org/repo" {
		t.Errorf("payload not written: %v", fields)
	}
}

func TestStore_GeneratesIDWhenEmpty(t *testing.T) {
	w := newMockWriter()
	svc := newStoreService(t, w, &mockEmbedder{vector: []float32{1}})

	rec := mustRecord(t, "", "content", map[string]string{"repository_id": "org/repo"})
	id, err := svc.Store(context.Background(), rec)
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if id == "" {
		t.Fatal("expected a generated id")
	}
	if _, ok := w.sets["scout:code:"+id]; !ok {
		t.Error("record not written under generated id")
	}
}

func TestStore_RequiresScopePayload(t *testing.T) {
	svc := newStoreService(t, newMockWriter(), &mockEmbedder{vector: []float32{1}})

	rec := mustRecord(t, "x", "content", map[string]string{"themes": "auth"})
	if _, err := svc.Store(context.Background(), rec); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for missing repository_id, got %v", err)
	}
}

func TestStore_WriteErrorIsStorageError(t *testing.T) {
	w := newMockWriter()
	w.err = &db.Error{Op: db.OpHSet, Err: errors.New("readonly replica")}
	svc := newStoreService(t, w, &mockEmbedder{vector: []float32{1}})

	rec := mustRecord(t, "x", "content", map[string]string{"repository_id": "org/repo"})
	if _, err := svc.Store(context.Background(), rec); !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
}

func TestStoreBatch_UsesBatchEmbedderAndPipelinedWrite(t *testing.T) {
	w := newMockWriter()
	emb := &mockBatchEmbedder{mockEmbedder: mockEmbedder{vector: []float32{1}}}
	svc := newStoreService(t, w, emb)

	recs := []record.Record{
		mustRecord(t, "a", "one", map[string]string{"repository_id": "org/repo"}),
		mustRecord(t, "b", "two", map[string]string{"repository_id": "org/repo"}),
	}

	ids, err := svc.StoreBatch(context.Background(), recs)
	if err != nil {
		t.Fatalf("StoreBatch: %v", err)
	}
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("ids = %v", ids)
	}
	if emb.batchCalls != 1 {
		t.Errorf("batchCalls = %d, want 1", emb.batchCalls)
	}
	if emb.calls != 0 {
		t.Errorf("per-item embed used despite batch support: %d calls", emb.calls)
	}
	if w.multiCalls != 1 {
		t.Errorf("multiCalls = %d, want one pipelined write", w.multiCalls)
	}
}

func TestStoreBatch_FallsBackWithoutBatchSupport(t *testing.T) {
	w := newMockWriter()
	emb := &mockEmbedder{vector: []float32{1}}
	svc := newStoreService(t, w, emb)

	recs := []record.Record{
		mustRecord(t, "a", "one", map[string]string{"repository_id": "org/repo"}),
		mustRecord(t, "b", "two", map[string]string{"repository_id": "org/repo"}),
	}

	if _, err := svc.StoreBatch(context.Background(), recs); err != nil {
		t.Fatalf("StoreBatch: %v", err)
	}
	if emb.calls != 2 {
		t.Errorf("fallback embed calls = %d, want 2", emb.calls)
	}
}

func TestStoreBatch_Empty(t *testing.T) {
	svc := newStoreService(t, newMockWriter(), &mockEmbedder{vector: []float32{1}})
	ids, err := svc.StoreBatch(context.Background(), nil)
	if err != nil {
		t.Fatalf("StoreBatch: %v", err)
	}
	if ids != nil {
		t.Errorf("ids = %v, want nil", ids)
	}
}

func mapKeys(m map[string]map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
