// ABOUTME: Tests for the REST client
// ABOUTME: Covers auth headers, envelope decoding, and error types
package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordflytt/flyttcrm/models"
)

func TestListLeadsDecodesEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/crm/leads", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"leads": [{"id": "l1", "name": "Anna Andersson", "status": "new"}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, StaticTokenSource("test-token"))
	leads, err := client.ListLeads(context.Background())
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "l1", leads[0].ID)
	assert.Equal(t, "Anna Andersson", leads[0].Name)
}

func TestListLeadsMissingEnvelopeKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Valid JSON, wrong shape. Must not be coerced to an empty list.
		_, _ = w.Write([]byte(`{"data": []}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	_, err := client.ListLeads(context.Background())
	require.Error(t, err)

	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, "leads", decodeErr.Key)
}

func TestListLeadsMalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	_, err := client.ListLeads(context.Background())

	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Error(t, decodeErr.Err)
}

func TestStatusErrorCarriesCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	_, err := client.ListCustomers(context.Background())
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.Code)
	assert.Equal(t, "/api/crm/customers", statusErr.Path)
}

func TestUpdateLeadSendsPatchBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/crm/leads/l1", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(`{"lead": {"id": "l1", "name": "Anna", "status": "contacted"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	stage := "contacted"
	lead, err := client.UpdateLead(context.Background(), "l1", models.LeadPatch{Status: &stage})
	require.NoError(t, err)
	assert.Equal(t, "contacted", lead.Status)
}

func TestLoginDecodesUserAndToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/crm/auth/login", r.URL.Path)
		_, _ = w.Write([]byte(`{"user": {"id": "u1", "name": "Johan", "email": "johan@nordflytt.se", "role": "admin"}, "token": "session-token"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	user, token, err := client.Login(context.Background(), "johan@nordflytt.se", "secret")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "session-token", token)
}

func TestDefaultTokenSourceFallback(t *testing.T) {
	t.Setenv("CRM_TOKEN", "")
	t.Setenv("CRM_ENV", "")

	token, err := DefaultTokenSource().Token()
	require.NoError(t, err)
	assert.Equal(t, "dev-token", token)
}

func TestDefaultTokenSourceNoFallbackInProduction(t *testing.T) {
	t.Setenv("CRM_TOKEN", "")
	t.Setenv("CRM_ENV", "production")

	token, err := DefaultTokenSource().Token()
	require.NoError(t, err)
	assert.Equal(t, "", token)
}

func TestDefaultTokenSourcePrefersConfigured(t *testing.T) {
	t.Setenv("CRM_TOKEN", "real-token")

	token, err := DefaultTokenSource().Token()
	require.NoError(t, err)
	assert.Equal(t, "real-token", token)
}
