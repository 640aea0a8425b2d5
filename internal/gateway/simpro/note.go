package simpro

import (
	"context"
	"fmt"
	"strings"

	"jobcard-automation/internal/gateway"
	"jobcard-automation/pkg/fallback"
)

// The notes routes require a trailing slash on some builds.
func notesPath(jobID string) string {
	return jobPath(jobID) + "/notes/"
}

func (g *implGateway) CreateNoteOnce(ctx context.Context, opt gateway.CreateNoteOptions) (gateway.CreateNoteResult, error) {
	if opt.JobID == "" {
		return gateway.CreateNoteResult{}, gateway.ErrInvalidJobID
	}
	if strings.TrimSpace(opt.MarkerToken) == "" {
		return gateway.CreateNoteResult{}, gateway.ErrEmptyMarker
	}

	resp, err := g.client.Get(ctx, notesPath(opt.JobID), nil)
	if err != nil {
		return gateway.CreateNoteResult{}, fmt.Errorf("list notes for job %s: %w", opt.JobID, err)
	}
	for _, note := range asArray(resp.JSON()) {
		for _, body := range allStrings(note, noteBodyPaths...) {
			if strings.Contains(body, opt.MarkerToken) {
				g.l.Debugf(ctx, "internal.gateway.simpro.CreateNoteOnce: marker %s already on job %s", opt.MarkerToken, opt.JobID)
				return gateway.CreateNoteResult{Created: false, NoteID: firstString(note, noteIDPaths...)}, nil
			}
		}
	}

	body := opt.Body
	if !strings.Contains(body, opt.MarkerToken) {
		body = strings.TrimRight(body, "\n") + "\n\n" + opt.MarkerToken
	}
	subject := opt.Subject
	if subject == "" {
		subject = firstLine(body)
	}

	path := notesPath(opt.JobID)
	post := func(name string, payload map[string]any) fallback.Candidate[string] {
		return fallback.Candidate[string]{
			Name: name,
			Try: func(ctx context.Context) (string, error) {
				resp, err := g.client.Post(ctx, path, payload)
				if err != nil {
					return "", stopOnAuth(err)
				}
				return firstString(resp.JSON(), noteIDPaths...), nil
			},
		}
	}

	id, _, err := fallback.TryInOrder(ctx, "create note", []fallback.Candidate[string]{
		post("Subject/Note", map[string]any{"Subject": subject, "Note": body}),
		post("Note", map[string]any{"Note": body}),
		post("Body", map[string]any{"Body": body}),
	})
	if err != nil {
		return gateway.CreateNoteResult{}, fmt.Errorf("job %s: %w", opt.JobID, err)
	}

	return gateway.CreateNoteResult{Created: true, NoteID: id}, nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return strings.TrimSpace(s)
}
