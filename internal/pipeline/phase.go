package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"interviewlens/internal/logging"
	"interviewlens/internal/services"
)

// runPhase executes fn under a phase-scoped context and converts its result
// into an Outcome. Errors, panics, and zero-count results become
// OutcomeEmpty; nothing escapes the phase boundary.
func runPhase[T any](ctx context.Context, logger *slog.Logger, report *Report, name string, fn func(context.Context) (T, int, error)) (outcome Outcome[T]) {
	phaseCtx := services.WithPhase(ctx, name)
	phaseLogger := logger.With(logging.String(logging.FieldPhase, name))
	phaseLogger.Info("phase started", logging.String(logging.FieldEventType, "phase_start"))
	start := time.Now()

	var count int
	defer func() {
		if r := recover(); r != nil {
			outcome = Empty[T](fmt.Errorf("%s panicked: %v", name, r))
			count = 0
		}
		elapsed := time.Since(start)
		report.Phases = append(report.Phases, PhaseReport{
			Name:    name,
			Outcome: outcome.Kind.String(),
			Count:   count,
			Elapsed: elapsed,
			Error:   errString(outcome.Err),
		})
		logPhaseEnd(phaseLogger, outcome.Kind, outcome.Err, count, elapsed)
	}()

	value, n, err := fn(phaseCtx)
	count = n
	switch {
	case err != nil:
		count = 0
		return Empty[T](err)
	case n == 0:
		return Empty[T](nil)
	default:
		return Data(value)
	}
}

// skipPhase records a phase that did not run because an earlier phase left
// it nothing to do.
func skipPhase[T any](logger *slog.Logger, report *Report, name, reason string) Outcome[T] {
	report.Phases = append(report.Phases, PhaseReport{Name: name, Outcome: OutcomeEmpty.String()})
	logger.Info("phase skipped",
		logging.String(logging.FieldPhase, name),
		logging.String(logging.FieldEventType, "phase_skipped"),
		logging.String("reason", reason),
	)
	return Empty[T](nil)
}

func logPhaseEnd(logger *slog.Logger, kind OutcomeKind, err error, count int, elapsed time.Duration) {
	if err == nil {
		logger.Info("phase completed",
			logging.String(logging.FieldEventType, "phase_complete"),
			logging.String("outcome", kind.String()),
			logging.Int("count", count),
			logging.Duration("elapsed", elapsed),
		)
		return
	}
	details := services.Details(err)
	logging.WarnWithContext(logger, "phase degraded", "phase_degraded",
		logging.String("outcome", kind.String()),
		logging.String(logging.FieldErrorKind, details.Kind),
		logging.String("error_message", details.Message),
		logging.String(logging.FieldErrorHint, details.Hint),
		logging.String(logging.FieldImpact, "run continues without this phase's evidence"),
		logging.Duration("elapsed", elapsed),
	)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
