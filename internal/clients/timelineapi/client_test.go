package timelineapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/andolan/internal/common"
	"github.com/bobmcallan/andolan/internal/models"
)

func TestListRecords_BareArray(t *testing.T) {
	records := []models.TimelineRecord{
		{ID: "a", Date: "2003-05-12T00:00:00.000Z", Title: "Founding", Gallery: []models.GalleryItem{{FilePath: "/u/a.jpg"}}},
		{ID: "b", Date: "2012-01-01T00:00:00.000Z", Title: "Program", IsKeyMilestone: true},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/timeline", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(records)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL + "/"))
	got, err := client.ListRecords(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "/u/a.jpg", got[0].Gallery[0].FilePath)
	assert.True(t, got[1].IsKeyMilestone)
}

func TestListRecords_DataEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"_id":"x","date":"2001-01-01","title":"t","description":"d"}]}`))
	}))
	defer srv.Close()

	got, err := NewClient(WithBaseURL(srv.URL)).ListRecords(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "x", got[0].ID)
}

func TestListRecords_NullBodyIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`null`))
	}))
	defer srv.Close()

	got, err := NewClient(WithBaseURL(srv.URL)).ListRecords(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListRecords_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"error":"upstream unavailable"}`))
	}))
	defer srv.Close()

	_, err := NewClient(WithBaseURL(srv.URL)).ListRecords(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "upstream unavailable", apiErr.Message)
	assert.Equal(t, "/api/timeline", apiErr.Endpoint)
}

func TestListRecords_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"_id":`))
	}))
	defer srv.Close()

	_, err := NewClient(WithBaseURL(srv.URL)).ListRecords(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
}

func TestListRecords_CancelledContext(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewClient(WithBaseURL(srv.URL)).ListRecords(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), hits.Load())
}

func TestKeyMilestones(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/timeline/key-milestones", r.URL.Path)
		w.Write([]byte(`[{"_id":"k","date":"2020-01-01","title":"t","description":"d","isKeyMilestone":true}]`))
	}))
	defer srv.Close()

	got, err := NewClient(WithBaseURL(srv.URL)).KeyMilestones(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].IsKeyMilestone)
}

func TestNewClientFromConfig(t *testing.T) {
	cfg := common.TimelineAPIConfig{BaseURL: "http://example.test/", RateLimit: 2, Timeout: "3s"}
	c := NewClientFromConfig(cfg, common.NewSilentLogger())

	assert.Equal(t, "http://example.test", c.baseURL)
	assert.Equal(t, 3*time.Second, c.httpClient.Timeout)
	assert.Equal(t, 2, c.limiter.Burst())
}
