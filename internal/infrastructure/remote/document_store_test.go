package remote

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordedRequest struct {
	method string
	path   string
	apiKey string
	body   string
}

func newTestStore(t *testing.T, handler http.HandlerFunc) (*DocumentStore, *[]recordedRequest) {
	t.Helper()
	var requests []recordedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		requests = append(requests, recordedRequest{
			method: r.Method,
			path:   r.URL.Path,
			apiKey: r.Header.Get("X-Api-Key"),
			body:   string(body),
		})
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	store := NewDocumentStore(Config{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Timeout: 5 * time.Second,
	}, zap.NewNop())
	return store, &requests
}

func TestDocumentStore_Upsert(t *testing.T) {
	store, requests := newTestStore(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tenantID := uuid.New()
	recordID := uuid.New()
	err := store.Upsert(context.Background(), tenantID, "members", recordID, []byte(`{"name":"Maria"}`))
	require.NoError(t, err)

	require.Len(t, *requests, 1)
	req := (*requests)[0]
	assert.Equal(t, http.MethodPut, req.method)
	assert.Equal(t, "/tenants/"+tenantID.String()+"/members/"+recordID.String(), req.path)
	assert.Equal(t, "test-key", req.apiKey)
	assert.JSONEq(t, `{"name":"Maria"}`, req.body)
}

func TestDocumentStore_UpsertServerError(t *testing.T) {
	store, _ := newTestStore(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "storage full", http.StatusInternalServerError)
	})

	err := store.Upsert(context.Background(), uuid.New(), "members", uuid.New(), []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestDocumentStore_DeleteTreatsNotFoundAsSuccess(t *testing.T) {
	store, requests := newTestStore(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	err := store.Delete(context.Background(), uuid.New(), "members", uuid.New())
	require.NoError(t, err)
	require.Len(t, *requests, 1)
	assert.Equal(t, http.MethodDelete, (*requests)[0].method)
}

func TestDocumentStore_PurgeTenant(t *testing.T) {
	store, requests := newTestStore(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tenantID := uuid.New()
	require.NoError(t, store.PurgeTenant(context.Background(), tenantID))

	require.Len(t, *requests, 1)
	assert.Equal(t, "/tenants/"+tenantID.String(), (*requests)[0].path)
}

func TestDocumentStore_Ping(t *testing.T) {
	store, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	assert.NoError(t, store.Ping(context.Background()))
}
