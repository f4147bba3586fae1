package types

import "time"

// Freshness describes the state of a stored document relative to its
// source revision.
type Freshness string

const (
	// FreshnessAbsent means the document has never been ingested
	FreshnessAbsent Freshness = "ABSENT"
	// FreshnessStale means the source has a newer revision than the stored copy
	FreshnessStale Freshness = "STALE"
	// FreshnessFresh means the stored copy is at least as new as the source
	FreshnessFresh Freshness = "FRESH"
)

// String returns the string representation of the freshness state
func (f Freshness) String() string {
	return string(f)
}

// IngestDecision is the outcome of the reprocessing policy for one document.
type IngestDecision string

const (
	// DecisionSkip leaves the stored hierarchy untouched
	DecisionSkip IngestDecision = "SKIP"
	// DecisionReplace deletes the stored hierarchy before inserting a fresh one
	DecisionReplace IngestDecision = "REPLACE"
	// DecisionInsert inserts a hierarchy for a document not stored yet
	DecisionInsert IngestDecision = "INSERT"
)

// String returns the string representation of the ingest decision
func (d IngestDecision) String() string {
	return string(d)
}

// FreshnessOf derives the freshness state from the stored ingestion
// timestamp and the source revision timestamp. A zero stored timestamp
// means the document is absent.
func FreshnessOf(stored, revised time.Time) Freshness {
	if stored.IsZero() {
		return FreshnessAbsent
	}
	if stored.After(revised) {
		return FreshnessFresh
	}
	return FreshnessStale
}

// Decide maps a freshness state and the force-reprocess flag to an ingest
// decision. It is a pure function so the reprocessing policy can be tested
// without a store.
func Decide(state Freshness, force bool) IngestDecision {
	if state == FreshnessAbsent {
		return DecisionInsert
	}
	if force || state == FreshnessStale {
		return DecisionReplace
	}
	return DecisionSkip
}
