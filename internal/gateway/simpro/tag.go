package simpro

import (
	"context"
	"fmt"
	"net/http"

	"jobcard-automation/internal/gateway"
	"jobcard-automation/pkg/fallback"
	pkgSimpro "jobcard-automation/pkg/simpro"
)

func (g *implGateway) EnsureJobTag(ctx context.Context, jobID string, tagID int) (gateway.EnsureTagResult, error) {
	if tagID <= 0 {
		return gateway.EnsureTagResult{}, gateway.ErrInvalidTagID
	}

	job, err := g.GetJob(ctx, jobID)
	if err != nil {
		return gateway.EnsureTagResult{}, err
	}
	if job.HasTag(tagID) {
		return gateway.EnsureTagResult{AlreadyPresent: true}, nil
	}

	base := jobPath(jobID)
	post := func(path string, body any) fallback.Candidate[struct{}] {
		return fallback.Candidate[struct{}]{
			Name: "POST " + path,
			Try: func(ctx context.Context) (struct{}, error) {
				_, err := g.client.Post(ctx, path, body)
				return struct{}{}, stopOnAuth(err)
			},
		}
	}

	tags := append(append([]int{}, job.TagIDs...), tagID)
	_, idx, err := fallback.TryInOrder(ctx, "attach job tag", []fallback.Candidate[struct{}]{
		post(base+"/tags/", map[string]any{"ID": tagID}),
		post(base+"/tags", map[string]any{"TagID": tagID}),
		{
			Name: "PATCH " + base,
			Try: func(ctx context.Context) (struct{}, error) {
				_, err := g.client.Patch(ctx, base, map[string]any{"Tags": tags})
				return struct{}{}, stopOnAuth(err)
			},
		},
	})
	if err != nil {
		return gateway.EnsureTagResult{}, fmt.Errorf("job %s tag %d: %w", jobID, tagID, err)
	}

	g.l.Infof(ctx, "internal.gateway.simpro.EnsureJobTag: attached tag %d to job %s (candidate %d)", tagID, jobID, idx)
	return gateway.EnsureTagResult{AlreadyPresent: false}, nil
}

// stopOnAuth ends a fallback chain on credential failures, which no
// alternative endpoint or payload can fix.
func stopOnAuth(err error) error {
	switch pkgSimpro.StatusCode(err) {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fallback.Permanent(err)
	}
	return err
}
