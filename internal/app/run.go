package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vk/sharegrid/internal/ctxlog"
	"github.com/vk/sharegrid/modules/print"
)

// Run starts every configured component, waits for ctx to be cancelled (or
// returns straight away in Once mode), then stops the components in reverse
// order and releases everything they still hold.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.HealthcheckPort > 0 {
		if err := a.startHealthcheckServer(ctx, a.config.HealthcheckPort); err != nil {
			return err
		}
		defer a.closeHealthcheckServer(context.WithoutCancel(ctx))
	}

	instances, err := a.prepare(ctx)
	if err != nil {
		return err
	}
	if len(instances) == 0 {
		a.logger.Warn("No components configured, nothing to run.")
		return a.shares.Close()
	}

	if err := a.startAll(ctx, instances); err != nil {
		stopErr := a.stopAll(context.WithoutCancel(ctx), instances)
		return errors.Join(err, stopErr)
	}
	a.logger.Info("All components started.", "count", len(instances))
	a.logShares()

	if !a.config.Once {
		<-ctx.Done()
		a.logger.Info("Shutdown requested.", "cause", context.Cause(ctx))
	}

	err = a.stopAll(context.WithoutCancel(ctx), instances)
	a.logger.Debug("App.Run method finished.")
	return err
}

// startAll runs every Start concurrently. Each component gets its own
// identity and handle, so creation races on a tag are settled by the shared
// registry.
func (a *App) startAll(ctx context.Context, instances []*instance) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, inst := range instances {
		g.Go(func() error {
			cctx := inst.context(gctx)
			ctxlog.FromContext(cctx).Debug("Starting component.")
			if err := inst.def.Start(cctx, inst.handle, inst.input); err != nil {
				ctxlog.FromContext(cctx).Error("Component failed to start.", "error", err)
				return fmt.Errorf("failed to start %s: %w", inst.cfg.ID(), err)
			}
			inst.started = true
			return nil
		})
	}
	return g.Wait()
}

// stopAll stops started components in reverse configuration order. After a
// component's Stop returns, whatever its handle still holds is relinquished.
// Shares left over after that are closed.
func (a *App) stopAll(ctx context.Context, instances []*instance) error {
	var errs []error
	for i := len(instances) - 1; i >= 0; i-- {
		inst := instances[i]
		cctx := inst.context(ctx)
		logger := ctxlog.FromContext(cctx)

		if inst.started && inst.def.Stop != nil {
			logger.Debug("Stopping component.")
			if err := inst.def.Stop(cctx, inst.handle, inst.input); err != nil {
				logger.Error("Component failed to stop cleanly.", "error", err)
				errs = append(errs, fmt.Errorf("failed to stop %s: %w", inst.cfg.ID(), err))
			}
		}
		if held := inst.handle.Held(); len(held) > 0 {
			logger.Debug("Releasing shares still held by component.", "tags", held)
			if err := inst.handle.RelinquishAll(); err != nil {
				errs = append(errs, fmt.Errorf("failed to release shares of %s: %w", inst.cfg.ID(), err))
			}
		}
		inst.started = false
	}

	if err := a.shares.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (a *App) logShares() {
	var b strings.Builder
	if err := print.WriteShares(&b, a.shares.ListShares()); err != nil {
		a.logger.Warn("Failed to render share table.", "error", err)
		return
	}
	a.logger.Info("Shared data in use.", "count", a.shares.Len(), "table", "\n"+b.String())
}
