// Package metrics exposes the process-shared, non-transactional counters
// spec §5 calls for ("Metrics counters are shared-process and updated
// non-transactionally").
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RemindersDispatched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reminders_dispatched_total",
		Help: "Dispatch events published by the dispatch scan.",
	})

	RemindersSuppressed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reminders_suppressed_total",
		Help: "Reminders skipped by the suppression rule during the dispatch scan.",
	})

	RemindersExpanded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reminders_expanded_total",
		Help: "Occurrences materialized from recurring templates by the expansion scan.",
	})

	RemindersExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reminders_expired_total",
		Help: "Active reminders deactivated by the expansion or cleanup scan.",
	})

	BrokerPublishFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "broker_publish_failures_total",
		Help: "Dispatch-event publish attempts that failed.",
	})

	PushSendTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "push_send_total",
		Help: "Push-provider send attempts by platform and result.",
	}, []string{"platform", "result"})
)
