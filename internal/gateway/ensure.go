package gateway

import (
	"context"
	"fmt"
	"strings"
)

// EnsureTask creates a task only when no existing task carries exactly the same
// subject. The subject is the business key that survives process restarts.
func EnsureTask(ctx context.Context, gw Gateway, opt CreateTaskOptions) (EnsureTaskResult, error) {
	if strings.TrimSpace(opt.Subject) == "" {
		return EnsureTaskResult{}, ErrEmptySubject
	}

	existing, err := gw.FindTasksBySubject(ctx, opt.Subject)
	if err != nil {
		return EnsureTaskResult{}, fmt.Errorf("search tasks by subject: %w", err)
	}

	var ids []string
	for _, t := range existing {
		if strings.EqualFold(strings.TrimSpace(t.Subject), strings.TrimSpace(opt.Subject)) {
			ids = append(ids, t.ID)
		}
	}
	if len(ids) > 0 {
		return EnsureTaskResult{Created: false, TaskID: ids[0], Existing: ids}, nil
	}

	ref, err := gw.CreateTask(ctx, opt)
	if err != nil {
		return EnsureTaskResult{}, err
	}
	return EnsureTaskResult{Created: true, TaskID: ref.ID}, nil
}
