package app

import (
	"context"
	"fmt"

	"github.com/vk/shadersync/internal/ctxlog"
)

// Run performs one synchronization. It returns an error when the run was
// aborted, when an artifact could not be cleaned up, or when any file
// failed to compile.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	summary, err := a.syncer.Run(ctx)
	if err != nil {
		return fmt.Errorf("synchronization aborted: %w", err)
	}
	if a.json != nil && a.json.Err != nil {
		return fmt.Errorf("failed to write report: %w", a.json.Err)
	}

	a.logger.Info("Synchronization complete.",
		"processed", summary.Processed(),
		"failed", summary.Failed(),
		"deleted", summary.Deleted(),
	)
	return summary.Err()
}
