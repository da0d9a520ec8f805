package jobspy

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"golang.org/x/time/rate"
)

type scrapeJobsResponse struct {
	Jobs []Listing `json:"jobs"`
}

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to a JobSpy-compatible scrape service over HTTP. The service
// queries the requested job boards itself and returns the combined results.
type Client struct {
	httpClient  HTTPClient
	baseURL     string
	rateLimiter *rate.Limiter
}

func NewClient(baseURL string) *Client {
	return &Client{httpClient: &http.Client{}, baseURL: baseURL}
}

func (c *Client) SetHTTPClient(client HTTPClient) {
	c.httpClient = client
}

func (c *Client) SetRateLimit(maxRequestsPerSecond float32) {
	c.rateLimiter = rate.NewLimiter(rate.Limit(maxRequestsPerSecond), 1)
}

func (c *Client) ScrapeJobs(ctx context.Context, parameters SearchParameters) ([]Listing, error) {

	if err := parameters.Validate(); err != nil {
		return nil, fatalError(0, "invalid parameters: %v", err)
	}

	apiURL := c.baseURL + "/jobs"
	params := parameters.ToUrlParams()

	body, err := c.sendRequest(ctx, "GET", apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var scrapeResponse scrapeJobsResponse
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&scrapeResponse); err != nil {
		return nil, fatalError(0, "error decoding JSON response: %v", err)
	}

	return scrapeResponse.Jobs, nil
}

func (c *Client) sendRequest(ctx context.Context, method string, url string, body io.Reader) ([]byte, error) {

	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, transientError(0, "rate limiter: %v", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fatalError(0, "error creating request: %v", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Network faults and timeouts are worth another attempt.
		return nil, transientError(0, "error sending request: %v", err)
	}
	defer resp.Body.Close()

	return c.handleResponse(resp)
}

func (c *Client) handleResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transientError(resp.StatusCode, "error reading response body: %v", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, transientError(resp.StatusCode, "request failed, body: %v", string(body))
	default:
		return nil, fatalError(resp.StatusCode, "request failed, body: %v", string(body))
	}
}
