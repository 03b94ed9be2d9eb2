package firenews

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agilemorph/firewatch/internal/model"
)

func sampleIncident() model.Incident {
	return model.Incident{
		TweetID:            "1949880559427342845",
		Title:              "House fire in Payson",
		Content:            "House Fire Preparedness Committee to hold public meeting in Payson.",
		PublishedDate:      "Mon Jul 28 17:12:07 +0000 2025",
		URL:                "https://x.com/GeorgeNemeh/status/1949880559427342845",
		Source:             "GeorgeNemeh",
		FireRelatedScore:   8,
		State:              "Arizona",
		County:             "Gila",
		VerificationResult: "yes",
		VerifiedAt:         "2025-07-29T01:06:36Z",
	}
}

func TestBulkUpload_OK(t *testing.T) {
	var got bulkRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(UploadResult{Inserted: 1, Skipped: 0, TotalProcessed: 1})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	result, err := c.BulkUpload(context.Background(), []model.Incident{sampleIncident()})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, 1, result.TotalProcessed)

	require.Len(t, got.Items, 1)
	item := got.Items[0]
	assert.Equal(t, "House fire in Payson", item.Title)
	assert.Equal(t, "2025-07-28T17:12:07Z", item.PublishedDate)
	assert.Equal(t, 8.0, item.FireRelatedScore)
	assert.Equal(t, "Arizona", item.State)
	assert.Equal(t, "Gila", item.County)
	assert.Equal(t, "USA", item.Country)
	assert.Equal(t, "fire,emergency,news,twitter", item.Tags)
	assert.Equal(t, "Twitter Fire Detection Bot", item.ReporterName)
	assert.Zero(t, item.Latitude)
	assert.Zero(t, item.Longitude)
}

func TestBulkUpload_EmptyBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var got bulkRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Empty(t, got.Items)
		json.NewEncoder(w).Encode(UploadResult{})
	}))
	defer srv.Close()

	result, err := NewClient(srv.URL).BulkUpload(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.TotalProcessed)
}

func TestBulkUpload_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).BulkUpload(context.Background(), []model.Incident{sampleIncident()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestBulkUpload_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).BulkUpload(context.Background(), []model.Incident{sampleIncident()})
	assert.Error(t, err)
}
