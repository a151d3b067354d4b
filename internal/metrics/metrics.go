// Package metrics holds the domain counters exported next to the HTTP
// metrics at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Submission outcomes.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
	OutcomeClosed   = "closed"
)

// Move results.
const (
	MoveSwapped  = "swapped"
	MoveNoop     = "noop"
	MoveConflict = "conflict"
)

var (
	// Submissions counts public submissions by outcome.
	Submissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "formsdb",
		Name:      "submissions_total",
		Help:      "Public submissions by outcome.",
	}, []string{"outcome"})

	// FieldIssues counts individual field rejections across all submissions.
	FieldIssues = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "formsdb",
		Name:      "submission_field_issues_total",
		Help:      "Field level validation issues reported to submitters.",
	})

	// UnknownKeys counts submitted keys that matched no field.
	UnknownKeys = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "formsdb",
		Name:      "submission_unknown_keys_total",
		Help:      "Submitted keys passed through without a matching field.",
	})

	// FieldMoves counts reorder requests by result.
	FieldMoves = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "formsdb",
		Name:      "field_moves_total",
		Help:      "Field move requests by result.",
	}, []string{"result"})
)
