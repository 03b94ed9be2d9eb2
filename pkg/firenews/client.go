// Package firenews provides a client for the fire-news ingestion API's
// bulk-upload endpoint.
package firenews

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/agilemorph/firewatch/internal/model"
)

const (
	defaultTags     = "fire,emergency,news,twitter"
	defaultCountry  = "USA"
	defaultReporter = "Twitter Fire Detection Bot"
)

// Client defines the upload operations used by the export flow.
type Client interface {
	// BulkUpload pushes a batch of verified incidents to the ingestion
	// endpoint in a single request.
	BulkUpload(ctx context.Context, records []model.Incident) (*UploadResult, error)
}

// UploadResult is the endpoint's accounting of one bulk upload.
type UploadResult struct {
	Inserted       int `json:"inserted"`
	Skipped        int `json:"skipped"`
	TotalProcessed int `json:"total_processed"`
}

// uploadItem is the wire shape of one incident in a bulk upload.
type uploadItem struct {
	Title              string  `json:"title"`
	Content            string  `json:"content"`
	PublishedDate      string  `json:"published_date"`
	URL                string  `json:"url"`
	Source             string  `json:"source"`
	FireRelatedScore   float64 `json:"fire_related_score"`
	VerificationResult string  `json:"verification_result"`
	VerifiedAt         string  `json:"verified_at"`
	State              string  `json:"state"`
	County             string  `json:"county"`
	City               string  `json:"city"`
	Province           string  `json:"province"`
	Country            string  `json:"country"`
	Latitude           float64 `json:"latitude"`
	Longitude          float64 `json:"longitude"`
	ImageURL           string  `json:"image_url"`
	Tags               string  `json:"tags"`
	ReporterName       string  `json:"reporter_name"`
}

type bulkRequest struct {
	Items []uploadItem `json:"items"`
}

// Option configures the client.
type Option func(*httpClient)

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	uploadURL string
	http      *http.Client
}

// NewClient creates a bulk-upload client for the given endpoint URL.
func NewClient(uploadURL string, opts ...Option) Client {
	c := &httpClient{
		uploadURL: uploadURL,
		http: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) BulkUpload(ctx context.Context, records []model.Incident) (*UploadResult, error) {
	payload := bulkRequest{Items: make([]uploadItem, 0, len(records))}
	for _, inc := range records {
		payload.Items = append(payload.Items, toUploadItem(inc))
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, eris.Wrap(err, "firenews: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "firenews: create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "firenews: send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "firenews: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("firenews: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var result UploadResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, eris.Wrap(err, "firenews: unmarshal response")
	}

	zap.L().Info("firenews: bulk upload complete",
		zap.Int("sent", len(payload.Items)),
		zap.Int("inserted", result.Inserted),
		zap.Int("skipped", result.Skipped),
		zap.Int("total_processed", result.TotalProcessed),
	)
	return &result, nil
}

// toUploadItem maps a stored incident onto the ingestion schema. Location
// fields the pipeline never extracts (city, coordinates, image) get the
// endpoint's expected defaults.
func toUploadItem(inc model.Incident) uploadItem {
	published := model.NormalizeTimestamp(inc.PublishedDate)
	if published == "" {
		published = time.Now().Format(time.RFC3339)
	}
	verifiedAt := inc.VerifiedAt
	if verifiedAt == "" {
		verifiedAt = time.Now().Format(time.RFC3339)
	}

	return uploadItem{
		Title:              inc.Title,
		Content:            inc.Content,
		PublishedDate:      published,
		URL:                inc.URL,
		Source:             inc.Source,
		FireRelatedScore:   float64(inc.FireRelatedScore),
		VerificationResult: inc.VerificationResult,
		VerifiedAt:         verifiedAt,
		State:              inc.State,
		County:             inc.County,
		Country:            defaultCountry,
		Tags:               defaultTags,
		ReporterName:       defaultReporter,
	}
}
