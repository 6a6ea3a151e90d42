package search

import (
	"fmt"
	"strings"
	"time"
)

// mockResults fabricates a deterministic result set for a query. The shape
// matches real responses so downstream rendering is exercised identically;
// titles embed the query verbatim and fact-check queries additionally get a
// knowledge-graph block.
func (c *Client) mockResults(query string) *Results {
	n := c.resultCount
	if n <= 0 {
		n = defaultResultCount
	}

	out := &Results{
		Query:     query,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Results:   make([]Result, 0, n),
		MockMode:  true,
	}
	for i := 1; i <= n; i++ {
		out.Results = append(out.Results, Result{
			Title:         fmt.Sprintf("Mock result %d for: %s", i, query),
			Link:          fmt.Sprintf("https://example.com/mock/%d", i),
			Snippet:       fmt.Sprintf("This is a mock search snippet %d discussing %q.", i, query),
			Source:        "example.com",
			PublishedDate: "2024-01-01",
		})
	}
	if strings.Contains(strings.ToLower(query), "fact check") {
		out.KnowledgeGraph = &KnowledgeGraph{
			Title:       "Mock Knowledge Graph",
			Type:        "FactCheck",
			Description: "Synthetic entity summary for " + query,
		}
	}
	return out
}
