// ABOUTME: Tests for the lead store
// ABOUTME: Covers sync, demo fallback, optimistic revert, and persistence
package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nordflytt/flyttcrm/api"
	"github.com/nordflytt/flyttcrm/cache"
	"github.com/nordflytt/flyttcrm/models"
	"github.com/nordflytt/flyttcrm/pipeline"
)

// leadBackend is a minimal fake of the lead endpoints. Set fail to make
// every request answer 500.
type leadBackend struct {
	leads []models.Lead
	fail  bool
	hits  int
}

func (b *leadBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/crm/leads", func(w http.ResponseWriter, r *http.Request) {
		b.hits++
		if b.fail {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		switch r.Method {
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"leads": b.leads})
		case http.MethodPost:
			var lead models.Lead
			_ = json.NewDecoder(r.Body).Decode(&lead)
			b.leads = append(b.leads, lead)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"lead": lead})
		}
	})
	mux.HandleFunc("/api/crm/leads/", func(w http.ResponseWriter, r *http.Request) {
		b.hits++
		if b.fail {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		id := r.URL.Path[len("/api/crm/leads/"):]
		switch r.Method {
		case http.MethodPut:
			var patch models.LeadPatch
			_ = json.NewDecoder(r.Body).Decode(&patch)
			for i := range b.leads {
				if b.leads[i].ID == id {
					patch.Apply(&b.leads[i])
					_ = json.NewEncoder(w).Encode(map[string]interface{}{"lead": b.leads[i]})
					return
				}
			}
			http.NotFound(w, r)
		case http.MethodDelete:
			for i := range b.leads {
				if b.leads[i].ID == id {
					b.leads = append(b.leads[:i], b.leads[i+1:]...)
					break
				}
			}
			_, _ = w.Write([]byte(`{}`))
		}
	})
	return mux
}

func newLeadFixture(t *testing.T, backend *leadBackend) (*LeadStore, *CustomerStore) {
	t.Helper()
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)
	client := api.NewClient(server.URL, nil)
	return NewLeadStore(client, nil), NewCustomerStore(client, nil)
}

func TestLeadFetchAllReplacesList(t *testing.T) {
	backend := &leadBackend{leads: []models.Lead{
		{ID: "l1", Name: "Anna Andersson", Status: models.LeadStatusNew},
		{ID: "l2", Name: "Maria Johansson", Status: models.LeadStatusQualified},
	}}
	leads, _ := newLeadFixture(t, backend)

	if err := leads.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if got := leads.Leads(); len(got) != 2 {
		t.Fatalf("got %d leads, want 2", len(got))
	}
	if leads.Err() != "" {
		t.Errorf("Err() = %q, want empty", leads.Err())
	}
}

func TestLeadFetchFailureFallsBackToDemo(t *testing.T) {
	backend := &leadBackend{fail: true}
	leads, _ := newLeadFixture(t, backend)

	err := leads.FetchAll(context.Background())
	if err == nil {
		t.Fatal("expected fetch error")
	}
	got := leads.Leads()
	if len(got) != 3 {
		t.Fatalf("got %d leads, want 3 demo leads", len(got))
	}
	if got[0].Name != "Anna Andersson" {
		t.Errorf("first demo lead = %s, want Anna Andersson", got[0].Name)
	}
	if leads.Err() == "" {
		t.Error("Err() should record the failure")
	}
}

func TestLeadCreateFailureAddsNothing(t *testing.T) {
	backend := &leadBackend{fail: true}
	leads, _ := newLeadFixture(t, backend)

	_, err := leads.Create(context.Background(), models.Lead{Name: "Erik Larsson"})
	if err == nil {
		t.Fatal("expected create error")
	}
	if len(leads.Leads()) != 0 {
		t.Error("failed create must not add a local lead")
	}
}

func TestLeadUpdateAppliesServerState(t *testing.T) {
	backend := &leadBackend{leads: []models.Lead{
		{ID: "l1", Name: "Anna Andersson", Status: models.LeadStatusNew},
	}}
	leads, _ := newLeadFixture(t, backend)
	if err := leads.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll: %v", err)
	}

	if err := leads.MoveStage(context.Background(), "l1", models.LeadStatusContacted); err != nil {
		t.Fatalf("MoveStage: %v", err)
	}
	lead, ok := leads.Get("l1")
	if !ok || lead.Status != models.LeadStatusContacted {
		t.Errorf("lead status = %s, want contacted", lead.Status)
	}
}

func TestLeadUpdateRevertsOnFailure(t *testing.T) {
	backend := &leadBackend{leads: []models.Lead{
		{ID: "l1", Name: "Anna Andersson", Status: models.LeadStatusNew, EstimatedValue: 15000},
	}}
	leads, _ := newLeadFixture(t, backend)
	if err := leads.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll: %v", err)
	}

	backend.fail = true
	err := leads.MoveStage(context.Background(), "l1", models.LeadStatusContacted)
	if err == nil {
		t.Fatal("expected update error")
	}

	lead, ok := leads.Get("l1")
	if !ok {
		t.Fatal("lead disappeared")
	}
	if lead.Status != models.LeadStatusNew {
		t.Errorf("lead status = %s, want reverted to new", lead.Status)
	}
	if lead.EstimatedValue != 15000 {
		t.Errorf("lead value = %d, want 15000", lead.EstimatedValue)
	}
	if leads.Err() == "" {
		t.Error("Err() should record the failure")
	}
}

func TestLeadDeleteClearsSelection(t *testing.T) {
	backend := &leadBackend{leads: []models.Lead{
		{ID: "l1", Name: "Anna Andersson", Status: models.LeadStatusNew},
	}}
	leads, _ := newLeadFixture(t, backend)
	if err := leads.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll: %v", err)
	}

	if !leads.Select("l1") {
		t.Fatal("Select failed")
	}
	if err := leads.Delete(context.Background(), "l1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(leads.Leads()) != 0 {
		t.Error("lead not removed")
	}
	if _, ok := leads.Selected(); ok {
		t.Error("selection should be cleared after deleting the selected lead")
	}
}

func TestLeadConvertToCustomer(t *testing.T) {
	backend := &leadBackend{leads: []models.Lead{
		{ID: "l1", Name: "Anna Andersson", Email: "anna@example.com", Status: models.LeadStatusClosedWon},
	}}
	server := httptest.NewServer(withCustomerEndpoints(backend.handler()))
	t.Cleanup(server.Close)
	client := api.NewClient(server.URL, nil)
	leads := NewLeadStore(client, nil)
	customers := NewCustomerStore(client, nil)
	if err := leads.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll: %v", err)
	}

	customer, err := leads.ConvertToCustomer(context.Background(), "l1", customers)
	if err != nil {
		t.Fatalf("ConvertToCustomer: %v", err)
	}
	if customer.Name != "Anna Andersson" || customer.Email != "anna@example.com" {
		t.Errorf("customer = %+v, want lead contact details", customer)
	}
	if customer.Status != models.CustomerStatusActive {
		t.Errorf("customer status = %s, want active", customer.Status)
	}
	if len(leads.Leads()) != 0 {
		t.Error("converted lead should be removed")
	}
	if len(customers.Customers()) != 1 {
		t.Error("customer should be added")
	}
}

// withCustomerEndpoints adds echoing customer create/delete endpoints on top
// of the lead backend.
func withCustomerEndpoints(next http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/crm/customers", func(w http.ResponseWriter, r *http.Request) {
		var customer models.Customer
		_ = json.NewDecoder(r.Body).Decode(&customer)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"customer": customer})
	})
	mux.Handle("/", next)
	return mux
}

func TestLeadMoveStagePipelineScenario(t *testing.T) {
	backend := &leadBackend{leads: []models.Lead{
		{ID: "l1", Name: "Anna Andersson", Status: models.LeadStatusNew},
		{ID: "l2", Name: "Företaget AB", Status: models.LeadStatusNew},
		{ID: "l3", Name: "Maria Johansson", Status: models.LeadStatusNew},
	}}
	leads, _ := newLeadFixture(t, backend)
	if err := leads.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll: %v", err)
	}

	if err := leads.MoveStage(context.Background(), "l2", models.LeadStatusQualified); err != nil {
		t.Fatalf("MoveStage: %v", err)
	}

	groups := pipeline.GroupByStage(leads.Leads())
	if got := groups[models.LeadStatusQualified]; len(got) != 1 || got[0].ID != "l2" {
		t.Errorf("qualified stage = %v, want exactly l2", got)
	}
	if got := groups[models.LeadStatusNew]; len(got) != 2 {
		t.Errorf("new stage has %d leads, want l1 and l3", len(got))
	}

	// A failed move reverts only the moved lead.
	backend.fail = true
	if err := leads.MoveStage(context.Background(), "l2", models.LeadStatusProposal); err == nil {
		t.Fatal("expected move error")
	}
	groups = pipeline.GroupByStage(leads.Leads())
	if got := groups[models.LeadStatusProposal]; len(got) != 0 {
		t.Errorf("proposal stage = %v, want empty after revert", got)
	}
	if got := groups[models.LeadStatusQualified]; len(got) != 1 || got[0].ID != "l2" {
		t.Errorf("qualified stage = %v, want l2 reverted there", got)
	}
	if got := groups[models.LeadStatusNew]; len(got) != 2 {
		t.Errorf("new stage has %d leads, want l1 and l3 untouched", len(got))
	}
}

func TestLeadPersistenceRoundTrip(t *testing.T) {
	snapshots, err := cache.Open(t.TempDir())
	if err != nil {
		t.Fatalf("cache.Open: %v", err)
	}
	defer snapshots.Close()

	backend := &leadBackend{leads: []models.Lead{
		{ID: "l1", Name: "Anna Andersson", Status: models.LeadStatusNew},
		{ID: "l2", Name: "Maria Johansson", Status: models.LeadStatusQualified},
	}}
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)
	client := api.NewClient(server.URL, nil)

	first := NewLeadStore(client, snapshots)
	if err := first.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll: %v", err)
	}

	// A fresh store over the same cache rehydrates without hitting the
	// backend.
	second := NewLeadStore(client, snapshots)
	got := second.Leads()
	if len(got) != 2 {
		t.Fatalf("rehydrated %d leads, want 2", len(got))
	}
	if got[0].ID != "l1" || got[1].ID != "l2" {
		t.Errorf("rehydrated leads = %v, want l1 and l2", []string{got[0].ID, got[1].ID})
	}
}
