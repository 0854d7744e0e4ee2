package loadtest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// httpClient wraps http.Client with a fixed timeout.
type httpClient struct {
	client *http.Client
}

func newHTTPClient(timeout time.Duration) *httpClient {
	return &httpClient{client: &http.Client{Timeout: timeout}}
}

func (c *httpClient) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

func (c *httpClient) post(ctx context.Context, url string, body any) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// submitEvents submits events concurrently using a bounded worker pool.
func submitEvents(ctx context.Context, config *Config, events []Event, stats *Stats) error {
	log.Printf("submitting %d events with %d workers", len(events), config.Workers)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/events"

	var successful, duplicate, failed, submitted int64

	var lastReport time.Time
	reportInterval := 1 * time.Second

	eventChan := make(chan Event, config.Workers*workerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for event := range eventChan {
				select {
				case <-ctx.Done():
					return
				default:
					switch submitSingleEvent(ctx, client, url, event) {
					case "success":
						atomic.AddInt64(&successful, 1)
					case "duplicate":
						atomic.AddInt64(&duplicate, 1)
					case "failed":
						atomic.AddInt64(&failed, 1)
					}
					atomic.AddInt64(&submitted, 1)

					if time.Since(lastReport) >= reportInterval {
						lastReport = time.Now()
						if config.Verbose {
							log.Printf("progress: %d/%d submitted (success: %d, duplicate: %d, failed: %d)",
								atomic.LoadInt64(&submitted), len(events), atomic.LoadInt64(&successful),
								atomic.LoadInt64(&duplicate), atomic.LoadInt64(&failed))
						}
					}
				}
			}
		}()
	}

	go func() {
		defer close(eventChan)
		for _, event := range events {
			select {
			case <-ctx.Done():
				return
			case eventChan <- event:
			}
		}
	}()

	wg.Wait()

	stats.EventsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.EventsSuccessful = int(atomic.LoadInt64(&successful))
	stats.EventsDuplicate = int(atomic.LoadInt64(&duplicate))
	stats.EventsFailed = int(atomic.LoadInt64(&failed))

	log.Printf("event submission completed: successful=%d duplicate=%d failed=%d",
		stats.EventsSuccessful, stats.EventsDuplicate, stats.EventsFailed)

	return nil
}

// submitSingleEvent submits a single event and classifies the outcome.
func submitSingleEvent(ctx context.Context, client *httpClient, url string, event Event) string {
	resp, err := client.post(ctx, url, event)
	if err != nil {
		return "failed"
	}
	defer resp.Body.Close()

	body, err := readResponseBody(resp)
	if err != nil {
		return "failed"
	}

	switch resp.StatusCode {
	case statusAccepted:
		return "success"
	case statusOK:
		var ack AckResponse
		if err := json.Unmarshal(body, &ack); err == nil && ack.Duplicate {
			return "duplicate"
		}
		return "duplicate"
	default:
		return "failed"
	}
}
