package magfield

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the BGS IGRF-13 geomagnetic model web service.
const DefaultBaseURL = "https://geomag.bgs.ac.uk/web_service/GMModels/igrf/13"

// Client queries a geomagnetic model web service. It implements ModelQuerier.
type Client struct {
	HTTPClient *http.Client
	BaseURL    string
}

// NewClient creates a model client. A nil httpClient gets a 30 second timeout;
// an empty baseURL falls back to DefaultBaseURL.
func NewClient(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{HTTPClient: httpClient, BaseURL: baseURL}
}

// intensity is one field component of the service response.
type intensity struct {
	Units string  `json:"units"`
	Value float64 `json:"value"`
}

// modelResponse matches the service's JSON envelope.
type modelResponse struct {
	Result struct {
		FieldValue struct {
			North    intensity `json:"north-intensity"`
			East     intensity `json:"east-intensity"`
			Vertical intensity `json:"vertical-intensity"`
		} `json:"field-value"`
	} `json:"geomagnetic-field-model-result"`
}

// Query fetches the field components at the given geodetic point and date.
// Intensities are returned in nanotesla; the vertical component keeps the
// service's positive-down convention (the resolver flips the sign).
func (c *Client) Query(latDeg, lonDeg, altKm float64, at time.Time) (north, east, down float64, err error) {
	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%g", latDeg))
	q.Set("longitude", fmt.Sprintf("%g", lonDeg))
	q.Set("altitude", fmt.Sprintf("%g", altKm))
	q.Set("date", at.Format("2006-01-02"))
	q.Set("format", "json")

	resp, err := c.HTTPClient.Get(fmt.Sprintf("%s/?%s", c.BaseURL, q.Encode()))
	if err != nil {
		return 0, 0, 0, fmt.Errorf("geomagnetic model query failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return 0, 0, 0, fmt.Errorf("geomagnetic model query status %d: %s", resp.StatusCode, string(body))
	}

	var mr modelResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return 0, 0, 0, fmt.Errorf("failed to decode geomagnetic model response: %w", err)
	}
	fv := mr.Result.FieldValue
	return fv.North.Value, fv.East.Value, fv.Vertical.Value, nil
}
