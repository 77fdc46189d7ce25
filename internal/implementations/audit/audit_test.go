package audit

import (
	"context"
	"passreset/internal/core/domain/logging"
	passwordreset "passreset/internal/core/domain/password_reset"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecordCountsAndLogs(t *testing.T) {
	// Setup ---
	log := logging.NewFakeLogger()
	auditor := NewAuditor(log, prometheus.NewRegistry())
	ctx := context.Background()

	// Exercise ---
	auditor.Record(ctx, passwordreset.EventLinkSent, "Alice", "Link sent.")
	auditor.Record(ctx, passwordreset.EventExpiredLink, "al***@example.com", "Expired link.")
	auditor.Record(ctx, passwordreset.EventExpiredLink, "al***@example.com", "Expired link.")

	// Verify ---
	assert := require.New(t)
	assert.Equal(1.0, testutil.ToFloat64(auditor.events.WithLabelValues(string(passwordreset.EventLinkSent))))
	assert.Equal(2.0, testutil.ToFloat64(auditor.events.WithLabelValues(string(passwordreset.EventExpiredLink))))
	assert.Equal(0.0, testutil.ToFloat64(auditor.events.WithLabelValues(string(passwordreset.EventPasswordReset))))

	records := log.Records()
	assert.Len(records, 3)
	assert.Equal(logging.INFO, records[0].Level)
	assert.Equal(logging.ERROR, records[1].Level)
	assert.Equal("Expired link.", records[1].Msg)
	assert.Equal(
		[]logging.LogEntry{
			logging.Entry("audit", string(passwordreset.EventExpiredLink)),
			logging.Entry("actor", "al***@example.com"),
		},
		records[1].Entries,
	)
}

func TestEveryEventIsExported(t *testing.T) {
	registry := prometheus.NewRegistry()
	NewAuditor(logging.NewFakeLogger(), registry)

	count, err := testutil.GatherAndCount(registry, "passreset_audit_events_total")

	assert := require.New(t)
	assert.Nil(err)
	assert.Equal(len(passwordreset.Events), count)
}
