package search_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/invoiceqa/internal/search"
)

func newAzureTestServer(t *testing.T, status int, payload any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/indexes/invoices/docs/search", r.URL.Path)
		assert.Equal(t, "2023-11-01", r.URL.Query().Get("api-version"))
		assert.Equal(t, "test-key", r.Header.Get("api-key"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(5), body["top"])

		w.WriteHeader(status)
		if payload != nil {
			require.NoError(t, json.NewEncoder(w).Encode(payload))
		}
	}))
}

func newAzureBackend(t *testing.T, endpoint string) *search.AzureBackend {
	t.Helper()
	backend, err := search.NewAzureBackend(search.AzureConfig{
		Endpoint:  endpoint,
		APIKey:    "test-key",
		IndexName: "invoices",
	}, nil, nil)
	require.NoError(t, err)
	return backend
}

func TestAzureSearchReturnsRecordsInOrder(t *testing.T) {
	srv := newAzureTestServer(t, http.StatusOK, map[string]any{
		"value": []map[string]any{
			{"invoice_id": "101", "customer_name": "Alice Johnson", "@search.score": 2.5},
			{"invoice_id": "102", "customer_name": "Bob Smith", "@search.score": 1.2},
		},
	})
	defer srv.Close()

	records, err := newAzureBackend(t, srv.URL).Search(context.Background(), "invoices", 5)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "101", records[0]["invoice_id"])
	assert.Equal(t, "102", records[1]["invoice_id"])
	assert.Equal(t, 2.5, records[0]["@search.score"])
}

func TestAzureSearchEmptyResult(t *testing.T) {
	srv := newAzureTestServer(t, http.StatusOK, map[string]any{"value": []map[string]any{}})
	defer srv.Close()

	records, err := newAzureBackend(t, srv.URL).Search(context.Background(), "nobody", 5)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestAzureSearchNon200IsAnError(t *testing.T) {
	srv := newAzureTestServer(t, http.StatusForbidden, map[string]any{"error": "denied"})
	defer srv.Close()

	_, err := newAzureBackend(t, srv.URL).Search(context.Background(), "invoices", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestAzureSearchUnreachableHostIsAnError(t *testing.T) {
	_, err := newAzureBackend(t, "http://127.0.0.1:1").Search(context.Background(), "invoices", 5)
	assert.Error(t, err)
}

func TestAzureConfigValidation(t *testing.T) {
	_, err := search.NewAzureBackend(search.AzureConfig{IndexName: "invoices"}, nil, nil)
	assert.ErrorIs(t, err, search.ErrInvalidConfig)

	_, err = search.NewAzureBackend(search.AzureConfig{Endpoint: "http://example.com"}, nil, nil)
	assert.ErrorIs(t, err, search.ErrInvalidConfig)
}
