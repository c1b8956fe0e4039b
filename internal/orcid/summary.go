package orcid

import (
	"context"
	"sync"
	"time"
)

const (
	// summaryWorkers bounds the parallel request group used for summary
	// fetches. The reads are independent; the fan-out only cuts
	// wall-clock latency.
	summaryWorkers = 3

	// summaryTimeout bounds each individual summary request.
	summaryTimeout = 10 * time.Second
)

// Summary is the per-author bibliometric digest assembled from the
// profile and works listings.
type Summary struct {
	ORCID     string `json:"orcid"`
	Name      string `json:"name,omitempty"`
	WorkCount int    `json:"work_count"`
	Err       string `json:"error,omitempty"` // Per-iD failure; other iDs still resolve
}

// Summaries fetches author summaries for the given ORCID iDs with a
// small fixed-size parallel request group, each request under its own
// timeout. Results are merged by iD; a failed lookup yields an entry
// with Err set rather than failing the batch.
func (c *Client) Summaries(ctx context.Context, ids []string) map[string]Summary {
	results := make(map[string]Summary, len(ids))
	if len(ids) == 0 {
		return results
	}

	// Deduplicate while preserving nothing but the key set; output is a
	// map so order is irrelevant.
	unique := make(map[string]bool, len(ids))
	work := make(chan string)

	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < summaryWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range work {
				s := c.fetchSummary(ctx, id)
				mu.Lock()
				results[id] = s
				mu.Unlock()
			}
		}()
	}

	for _, id := range ids {
		if id == "" || unique[id] {
			continue
		}
		unique[id] = true
		work <- id
	}
	close(work)
	wg.Wait()

	return results
}

// fetchSummary resolves one author's profile and works count.
func (c *Client) fetchSummary(ctx context.Context, id string) Summary {
	ctx, cancel := context.WithTimeout(ctx, summaryTimeout)
	defer cancel()

	s := Summary{ORCID: id}

	profile, err := c.GetProfile(ctx, id)
	if err != nil {
		s.Err = err.Error()
		return s
	}
	s.Name = profile.DisplayName()

	works, err := c.GetWorks(ctx, id)
	if err != nil {
		s.Err = err.Error()
		return s
	}
	s.WorkCount = len(works)

	return s
}
