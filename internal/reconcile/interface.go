package reconcile

import (
	"context"

	"jobcard-automation/internal/model"
)

type UseCase interface {
	// HandleEvent runs the decision tree for one classified webhook.
	HandleEvent(ctx context.Context, ev model.WebhookEvent) (HandleOutput, error)

	// ReconcileJob replays job reconciliation outside the webhook path.
	ReconcileJob(ctx context.Context, input ReconcileJobInput) (HandleOutput, error)

	// PreviewTrigger evaluates the trigger predicate for a quote without side effects.
	PreviewTrigger(ctx context.Context, quoteID string) (TriggerPreview, error)
}
