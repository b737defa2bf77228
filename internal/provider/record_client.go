package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// RecordClient asks a judge record service which candidates have an
// accepted submission for a problem. It implements arena.StatusProvider.
// Any transport or decode failure comes back as an error with an empty
// set; the judge loop turns that into "no solve this round".
type RecordClient struct {
	base  string
	inner *http.Client
}

type recordList struct {
	Records []record `json:"records"`
}

type record struct {
	User   string `json:"user"`
	Status string `json:"status"`
}

const statusAccepted = "Accepted"

func NewRecordClient(base string, timeout time.Duration) *RecordClient {
	if timeout <= 0 {
		timeout = 7 * time.Second
	}
	return &RecordClient{base: base, inner: &http.Client{Timeout: timeout}}
}

func (c *RecordClient) LookupSolvers(ctx context.Context, problemID string, candidates []string) (map[string]struct{}, error) {
	endpoint := fmt.Sprintf("%s/records?pid=%s&status=accepted", c.base, url.QueryEscape(problemID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.inner.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("record lookup for %s failed with status %d", problemID, resp.StatusCode)
	}

	var list recordList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, err
	}

	candidateSet := make(map[string]struct{}, len(candidates))
	for _, name := range candidates {
		candidateSet[name] = struct{}{}
	}
	solvers := map[string]struct{}{}
	for _, rec := range list.Records {
		if rec.Status != statusAccepted {
			continue
		}
		if _, ok := candidateSet[rec.User]; ok {
			solvers[rec.User] = struct{}{}
		}
	}
	return solvers, nil
}
