package loadtest

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
)

// retrieveNeighbors fetches a one-up/one-down neighbor window for every
// customer that appears in events, concurrently.
func retrieveNeighbors(ctx context.Context, config *Config, events []Event, stats *Stats) ([]Entry, error) {
	customerIDs := uniqueCustomerIDs(events)
	log.Printf("retrieving neighbors for %d customers with %d workers", len(customerIDs), config.Workers)

	client := newHTTPClient(config.Timeout)

	entries := make([]Entry, len(customerIDs))
	var retrieved, failed int64

	idChan := make(chan int, config.Workers*workerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for index := range idChan {
				select {
				case <-ctx.Done():
					return
				default:
					entry, err := retrieveSingleNeighbor(ctx, client, config.BaseURL, customerIDs[index])
					if err != nil {
						atomic.AddInt64(&failed, 1)
						if config.Verbose {
							log.Printf("failed to get neighbors for customer %d: %v", customerIDs[index], err)
						}
						continue
					}
					entries[index] = entry
					atomic.AddInt64(&retrieved, 1)
				}
			}
		}()
	}

	go func() {
		defer close(idChan)
		for i := range customerIDs {
			select {
			case <-ctx.Done():
				return
			case idChan <- i:
			}
		}
	}()

	wg.Wait()

	valid := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.CustomerID != 0 {
			valid = append(valid, e)
		}
	}

	stats.NeighborsRetrieved = len(valid)
	log.Printf("neighbor retrieval completed: retrieved=%d failed=%d", len(valid), atomic.LoadInt64(&failed))

	return valid, nil
}

// retrieveSingleNeighbor fetches the customer's one-up/one-down neighbor
// window and returns the row whose customer ID matches.
func retrieveSingleNeighbor(ctx context.Context, client *httpClient, baseURL string, customerID int64) (Entry, error) {
	url := fmt.Sprintf("%s/customers/%d/neighbors?up=1&down=1", baseURL, customerID)

	resp, err := client.get(ctx, url)
	if err != nil {
		return Entry{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != statusOK {
		body, _ := readResponseBody(resp)
		return Entry{}, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to read response: %w", err)
	}

	var window []Entry
	if err := json.Unmarshal(body, &window); err != nil {
		return Entry{}, fmt.Errorf("failed to parse response: %w", err)
	}

	for _, entry := range window {
		if entry.CustomerID == customerID {
			return entry, nil
		}
	}
	return Entry{}, fmt.Errorf("customer %d absent from its own neighbor window", customerID)
}

// getLeaderboard retrieves a leaderboard band [1, span].
func getLeaderboard(ctx context.Context, config *Config, stats *Stats) ([]Entry, error) {
	log.Printf("fetching leaderboard band [1, %d]", config.RankSpan)

	client := newHTTPClient(config.Timeout)
	url := fmt.Sprintf("%s/leaderboard?start=1&end=%d", config.BaseURL, config.RankSpan)

	resp, err := client.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != statusOK {
		body, _ := readResponseBody(resp)
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var leaderboard []Entry
	if err := json.Unmarshal(body, &leaderboard); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	stats.LeaderboardEntries = len(leaderboard)
	log.Printf("retrieved %d leaderboard entries", len(leaderboard))

	return leaderboard, nil
}

func uniqueCustomerIDs(events []Event) []int64 {
	seen := make(map[int64]struct{}, len(events))
	ids := make([]int64, 0, len(events))
	for _, e := range events {
		if _, ok := seen[e.CustomerID]; ok {
			continue
		}
		seen[e.CustomerID] = struct{}{}
		ids = append(ids, e.CustomerID)
	}
	return ids
}
