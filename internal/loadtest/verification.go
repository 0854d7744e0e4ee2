package loadtest

import (
	"context"
	"fmt"
	"log"
	"sort"
)

// verifyResults checks the leaderboard band's ordering (logging a warning on
// failure) and logs the top customers from the neighbor rows and from the
// leaderboard; it does not compare the two against each other.
func verifyResults(_ context.Context, config *Config, neighbors, leaderboard []Entry, _ *Stats) error {
	log.Println("verifying results")

	if len(neighbors) == 0 {
		return fmt.Errorf("no neighbor entries to verify")
	}

	sorted := make([]Entry, len(neighbors))
	copy(sorted, neighbors)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })

	if len(leaderboard) > 0 {
		if err := verifyLeaderboardOrdering(leaderboard); err != nil {
			log.Printf("leaderboard consistency warning: %v", err)
		} else {
			log.Println("leaderboard ordering verified")
		}
	}

	displayTopPerformers(sorted, leaderboard, config.Verbose)

	log.Println("result verification completed")
	return nil
}

// verifyLeaderboardOrdering checks the leaderboard is sorted by rank and
// that rank and score both move monotonically.
func verifyLeaderboardOrdering(leaderboard []Entry) error {
	for i := 1; i < len(leaderboard); i++ {
		if leaderboard[i].Rank <= leaderboard[i-1].Rank {
			return fmt.Errorf("leaderboard ranks not strictly increasing at entry %d", i)
		}
		if leaderboard[i].Score > leaderboard[i-1].Score {
			return fmt.Errorf("leaderboard not sorted by score at entry %d", i)
		}
	}
	return nil
}

func displayTopPerformers(sortedNeighbors, leaderboard []Entry, verbose bool) {
	topN := 10
	if len(sortedNeighbors) < topN {
		topN = len(sortedNeighbors)
	}

	log.Printf("top %d customers from neighbor windows:", topN)
	for i := 0; i < topN; i++ {
		e := sortedNeighbors[i]
		log.Printf("   %d. customer %d - score: %.3f", i+1, e.CustomerID, e.Score)
	}

	if len(leaderboard) > 0 {
		n := topN
		if len(leaderboard) < n {
			n = len(leaderboard)
		}
		log.Printf("top %d customers from leaderboard:", n)
		for i := 0; i < n; i++ {
			e := leaderboard[i]
			log.Printf("   %d. customer %d - score: %.3f", i+1, e.CustomerID, e.Score)
		}
	}

	if verbose && len(sortedNeighbors) > 0 {
		log.Printf("score statistics: avg=%.3f max=%.3f min=%.3f",
			averageScore(sortedNeighbors), sortedNeighbors[0].Score, sortedNeighbors[len(sortedNeighbors)-1].Score)
	}
}

func averageScore(entries []Entry) float64 {
	if len(entries) == 0 {
		return 0
	}
	sum := 0.0
	for _, e := range entries {
		sum += e.Score
	}
	return sum / float64(len(entries))
}
