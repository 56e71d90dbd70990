package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry Metrics
var (
	RegistryMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameRegistryMutations,
			Help:      HelpTextRegistryMutations,
		},
		[]string{LabelOperation, LabelResult},
	)
)

// Duel Metrics
var (
	Duels = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameDuels,
			Help:      HelpTextDuels,
		},
		[]string{LabelOutcome},
	)

	DuelRounds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      MetricNameDuelRounds,
			Help:      HelpTextDuelRounds,
			Buckets:   DuelRoundBuckets,
		},
	)

	PotionsConsumed = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNamePotionsConsumed,
			Help:      HelpTextPotionsConsumed,
		},
	)
)

// Shop Metrics
var (
	ItemsBought = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameItemsBought,
			Help:      HelpTextItemsBought,
		},
		[]string{LabelItem},
	)
)

// RecordMutation counts one registry mutation, labelled by whether err is nil
func RecordMutation(operation string, err error) {
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	RegistryMutations.WithLabelValues(operation, result).Inc()
}

// WriteTextfile writes every metric in the default registry to path in the
// text exposition format read by node_exporter's textfile collector
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("failed to write metrics textfile %s: %w", path, err)
	}
	return nil
}
