package metrics

// ============================================================================
// Metric Names
// ============================================================================

// Namespace prefixes every metric name
const Namespace = "armorsmith"

// Registry metric names
const (
	MetricNameRegistryMutations = "registry_mutations_total"
)

// Duel metric names
const (
	MetricNameDuels           = "duels_total"
	MetricNameDuelRounds      = "duel_rounds"
	MetricNamePotionsConsumed = "potions_consumed_total"
)

// Shop metric names
const (
	MetricNameItemsBought = "items_bought_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

const (
	HelpTextRegistryMutations = "Total number of registry mutations by operation and result"
	HelpTextDuels             = "Total number of duels by outcome"
	HelpTextDuelRounds        = "Number of rounds fought per duel"
	HelpTextPotionsConsumed   = "Total number of potions consumed during duels"
	HelpTextItemsBought       = "Total number of items bought from the shop"
)

// ============================================================================
// Metric Label Names
// ============================================================================

const (
	LabelOperation = "operation"
	LabelResult    = "result"
	LabelOutcome   = "outcome"
	LabelItem      = "item"
)

// Label values
const (
	ResultOK    = "ok"
	ResultError = "error"

	OutcomeKnockout = "knockout"
	OutcomeCapped   = "capped"
	OutcomeRejected = "rejected"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// DuelRoundBuckets covers short brawls through the default round cap
var DuelRoundBuckets = []float64{1, 2, 3, 5, 8, 13, 21, 50, 100, 1000}
