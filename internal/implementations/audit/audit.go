package audit

import (
	"context"
	e "passreset/internal/core/domain/errors"
	"passreset/internal/core/domain/logging"
	passwordreset "passreset/internal/core/domain/password_reset"

	"github.com/prometheus/client_golang/prometheus"
)

// Auditor writes audit events to the application log and counts them per event.
type Auditor struct {
	log    logging.Logger
	events *prometheus.CounterVec
}

func NewAuditor(log logging.Logger, registerer prometheus.Registerer) *Auditor {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if registerer == nil {
		panic(e.NewNilArgumentError("registerer"))
	}

	events := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "passreset",
			Name:      "audit_events_total",
			Help:      "Number of password reset audit events by event.",
		},
		[]string{"event"},
	)
	registerer.MustRegister(events)
	for _, event := range passwordreset.Events {
		events.WithLabelValues(string(event))
	}
	return &Auditor{log: log, events: events}
}

func (a *Auditor) Record(ctx context.Context, event passwordreset.Event, actor string, msg string) {
	a.events.WithLabelValues(string(event)).Inc()

	entries := []logging.LogEntry{
		logging.Entry("audit", string(event)),
		logging.Entry("actor", actor),
	}
	if event.IsFailure() {
		a.log.Error(ctx, msg, entries...)
		return
	}
	a.log.Info(ctx, msg, entries...)
}
