package registry

import (
	"context"
	"sync"

	"github.com/codeviz-ai/codeviz/analyzer/models"
)

// Resolver enriches declared dependencies with registry lookups.
type Resolver struct {
	client *Client
}

// NewResolver creates a resolver backed by client.
func NewResolver(client *Client) *Resolver {
	return &Resolver{client: client}
}

// Resolve looks up the latest version of every request concurrently. Results
// occupy the slot of their request, so the returned order always matches the
// input enumeration regardless of completion order. A failed lookup leaves
// that entry's LatestVersion empty.
func (r *Resolver) Resolve(ctx context.Context, requests []DependencyRequest) []models.DependencyInfo {
	results := make([]models.DependencyInfo, len(requests))

	var wg sync.WaitGroup
	for i, request := range requests {
		wg.Add(1)
		go func(slot int, request DependencyRequest) {
			defer wg.Done()

			info := models.DependencyInfo{
				Name:    request.Name,
				Version: CleanVersion(request.Range),
			}
			if latest, found := r.client.GetLatestVersion(ctx, request.Name); found {
				info.LatestVersion = latest
			}
			results[slot] = info
		}(i, request)
	}
	wg.Wait()

	return results
}
