// Package reporting delivers storage and parse failures to operators.
// Every reporter satisfies schedule.ErrorReporter and never blocks the caller on delivery.
package reporting

import (
	"context"

	"github.com/brucesilvasad-lang/aplicativo-pilares/internal/domain/schedule"
	"github.com/brucesilvasad-lang/aplicativo-pilares/pkg/logger"
)

var (
	_ schedule.ErrorReporter = (*LogReporter)(nil)
	_ schedule.ErrorReporter = (*RollbarReporter)(nil)
	_ schedule.ErrorReporter = Multi(nil)
)

// LogReporter writes every failure as an ERROR log line.
type LogReporter struct {
	log *logger.Logger
}

// NewLogReporter creates a reporter over log.
func NewLogReporter(log *logger.Logger) *LogReporter {
	return &LogReporter{log: log.With(logger.Component("error_reporter"))}
}

// Report logs err with its location. A request-scoped logger in ctx wins.
func (r *LogReporter) Report(ctx context.Context, where string, err error) {
	if err == nil {
		return
	}
	log := logger.FromContextOr(ctx, r.log)
	if log != r.log {
		log = log.With(logger.Component("error_reporter"))
	}
	log.Error("operation failed", logger.String("where", where), logger.Err(err))
}

// Multi fans a report out to several reporters in order.
type Multi []schedule.ErrorReporter

// Report forwards to every non-nil reporter.
func (m Multi) Report(ctx context.Context, where string, err error) {
	for _, r := range m {
		if r != nil {
			r.Report(ctx, where, err)
		}
	}
}
