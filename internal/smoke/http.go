package smoke

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"
)

// HTTPClient wraps http.Client with timeout.
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request.
func (c *HTTPClient) Get(rawURL string) (*http.Response, error) {
	return c.client.Get(rawURL)
}

// Mutate performs a bodiless mutation request (POST or DELETE).
func (c *HTTPClient) Mutate(ctx context.Context, method, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// readResponseBody reads and closes the response body.
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// signupURL builds the signup endpoint for one enrollment.
func signupURL(baseURL string, e Enrollment) string {
	return baseURL + "/activities/" + url.PathEscape(e.Activity) +
		"/signup?email=" + url.QueryEscape(e.Email)
}

// unregisterURL builds the unregister endpoint for one enrollment.
func unregisterURL(baseURL string, e Enrollment) string {
	return baseURL + "/activities/" + url.PathEscape(e.Activity) +
		"/unregister?email=" + url.QueryEscape(e.Email)
}

// submitEnrollments runs mutation requests concurrently using a worker pool.
// The method selects the operation: POST signs up, DELETE unregisters.
func submitEnrollments(ctx context.Context, config *Config, method string, enrollments []Enrollment) (successful, rejected, failed int) {
	client := newHTTPClient(config.Timeout)

	var (
		succ int64
		rej  int64
		fail int64
		done int64
	)

	var lastReport time.Time
	reportInterval := 1 * time.Second

	work := make(chan Enrollment, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for e := range work {
				select {
				case <-ctx.Done():
					return
				default:
					target := signupURL(config.BaseURL, e)
					if method == http.MethodDelete {
						target = unregisterURL(config.BaseURL, e)
					}

					switch submitSingleMutation(ctx, client, method, target) {
					case "success":
						atomic.AddInt64(&succ, 1)
					case "rejected":
						atomic.AddInt64(&rej, 1)
					default:
						atomic.AddInt64(&fail, 1)
					}
					total := atomic.AddInt64(&done, 1)

					if time.Since(lastReport) >= reportInterval {
						lastReport = time.Now()
						if config.Verbose {
							log.Printf("progress: %d/%d submitted (success: %d, rejected: %d, failed: %d)",
								total, len(enrollments),
								atomic.LoadInt64(&succ), atomic.LoadInt64(&rej), atomic.LoadInt64(&fail))
						}
					}
				}
			}
		}()
	}

	go func() {
		defer close(work)
		for _, e := range enrollments {
			select {
			case <-ctx.Done():
				return
			case work <- e:
			}
		}
	}()

	wg.Wait()

	return int(atomic.LoadInt64(&succ)), int(atomic.LoadInt64(&rej)), int(atomic.LoadInt64(&fail))
}

// submitSingleMutation fires one mutation and classifies the outcome.
func submitSingleMutation(ctx context.Context, client *HTTPClient, method, target string) string {
	resp, err := client.Mutate(ctx, method, target)
	if err != nil {
		return "failed"
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return "failed"
	}

	switch resp.StatusCode {
	case StatusOK:
		var msg MessageResponse
		if err := json.Unmarshal(body, &msg); err == nil && msg.Message != "" {
			return "success"
		}
		return "success"
	case StatusBadRequest:
		// Duplicate signup or unknown participant; the service stayed consistent.
		return "rejected"
	default:
		return "failed"
	}
}

// fetchActivities retrieves the full roster map.
func fetchActivities(ctx context.Context, config *Config) (map[string]Activity, error) {
	client := newHTTPClient(config.Timeout)

	resp, err := client.Get(config.BaseURL + "/activities")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch activities: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read activities response: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("activities request failed with status: %d", resp.StatusCode)
	}

	var activities map[string]Activity
	if err := json.Unmarshal(body, &activities); err != nil {
		return nil, fmt.Errorf("failed to decode activities: %w", err)
	}
	return activities, nil
}

// fetchChanges retrieves up to n audit records.
func fetchChanges(ctx context.Context, config *Config, n int) ([]Change, error) {
	client := newHTTPClient(config.Timeout)

	resp, err := client.Get(fmt.Sprintf("%s/changes?limit=%d", config.BaseURL, n))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch changes: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read changes response: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("changes request failed with status: %d", resp.StatusCode)
	}

	var changes []Change
	if err := json.Unmarshal(body, &changes); err != nil {
		return nil, fmt.Errorf("failed to decode changes: %w", err)
	}
	return changes, nil
}
