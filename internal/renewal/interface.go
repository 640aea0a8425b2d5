package renewal

import "context"

type UseCase interface {
	// Run scans maintenance jobs and ensures a reminder task for every
	// checkpoint falling on the run date. Safe to repeat on the same day.
	Run(ctx context.Context, input RunInput) (RunReport, error)
}
