// ABOUTME: Tests for the document store
// ABOUTME: Covers optimistic revert on updates and folder moves
package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nordflytt/flyttcrm/api"
	"github.com/nordflytt/flyttcrm/models"
)

// documentBackend is a minimal fake of the document endpoints. Set fail to
// make every request answer 500.
type documentBackend struct {
	documents []models.Document
	fail      bool
}

func (b *documentBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/crm/documents", func(w http.ResponseWriter, r *http.Request) {
		if b.fail {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"documents": b.documents})
	})
	mux.HandleFunc("/api/crm/documents/", func(w http.ResponseWriter, r *http.Request) {
		if b.fail {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		rest := r.URL.Path[len("/api/crm/documents/"):]
		if strings.HasSuffix(rest, "/move") {
			_, _ = w.Write([]byte(`{}`))
			return
		}
		if r.Method == http.MethodPut {
			var patch models.DocumentPatch
			_ = json.NewDecoder(r.Body).Decode(&patch)
			for i := range b.documents {
				if b.documents[i].ID == rest {
					patch.Apply(&b.documents[i])
					_ = json.NewEncoder(w).Encode(map[string]interface{}{"document": b.documents[i]})
					return
				}
			}
			http.NotFound(w, r)
		}
	})
	return mux
}

func newDocumentFixture(t *testing.T, backend *documentBackend) *DocumentStore {
	t.Helper()
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)
	documents := NewDocumentStore(api.NewClient(server.URL, nil), nil)
	if err := documents.FetchDocuments(context.Background()); err != nil {
		t.Fatalf("FetchDocuments: %v", err)
	}
	return documents
}

func TestDocumentUpdateAppliesServerState(t *testing.T) {
	backend := &documentBackend{documents: []models.Document{
		{ID: "d1", Name: "offert.pdf", Category: models.CategoryQuote},
	}}
	documents := newDocumentFixture(t, backend)

	name := "offert-v2.pdf"
	if err := documents.Update(context.Background(), "d1", models.DocumentPatch{Name: &name}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got := documents.Documents()
	if len(got) != 1 || got[0].Name != "offert-v2.pdf" {
		t.Errorf("document name = %q, want offert-v2.pdf", got[0].Name)
	}
}

func TestDocumentUpdateRevertsOnFailure(t *testing.T) {
	backend := &documentBackend{documents: []models.Document{
		{ID: "d1", Name: "offert.pdf", Category: models.CategoryQuote},
	}}
	documents := newDocumentFixture(t, backend)

	backend.fail = true
	name := "kontrakt.pdf"
	category := models.CategoryContract
	err := documents.Update(context.Background(), "d1", models.DocumentPatch{
		Name:     &name,
		Category: &category,
	})
	if err == nil {
		t.Fatal("expected update error")
	}

	got := documents.Documents()
	if len(got) != 1 {
		t.Fatal("document disappeared")
	}
	if got[0].Name != "offert.pdf" {
		t.Errorf("document name = %q, want reverted to offert.pdf", got[0].Name)
	}
	if got[0].Category != models.CategoryQuote {
		t.Errorf("document category = %s, want reverted to quote", got[0].Category)
	}
	if documents.Err() == "" {
		t.Error("Err() should record the failure")
	}
}

func TestDocumentMoveAppliesFolder(t *testing.T) {
	backend := &documentBackend{documents: []models.Document{
		{ID: "d1", Name: "offert.pdf", FolderID: "f1"},
	}}
	documents := newDocumentFixture(t, backend)

	if err := documents.Move(context.Background(), "d1", "f2"); err != nil {
		t.Fatalf("Move: %v", err)
	}
	got := documents.Documents()
	if got[0].FolderID != "f2" {
		t.Errorf("folder = %s, want f2", got[0].FolderID)
	}
}

func TestDocumentMoveRevertsOnFailure(t *testing.T) {
	backend := &documentBackend{documents: []models.Document{
		{ID: "d1", Name: "offert.pdf", FolderID: "f1"},
	}}
	documents := newDocumentFixture(t, backend)

	backend.fail = true
	if err := documents.Move(context.Background(), "d1", "f2"); err == nil {
		t.Fatal("expected move error")
	}

	got := documents.Documents()
	if got[0].FolderID != "f1" {
		t.Errorf("folder = %s, want reverted to f1", got[0].FolderID)
	}
	if documents.Err() == "" {
		t.Error("Err() should record the failure")
	}
}
