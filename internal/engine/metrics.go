package engine

import (
	"time"

	"github.com/uber-go/tally/v4"
)

type KindMetrics struct {
	Chunks        tally.Counter
	Rows          tally.Counter
	Errors        tally.Counter
	ChunkDuration tally.Histogram
}

func NewKindMetrics(scope tally.Scope) *KindMetrics {
	return &KindMetrics{
		Chunks: scope.Counter("chunks"),
		Rows:   scope.Counter("rows"),
		Errors: scope.Counter("errors"),
		ChunkDuration: scope.Histogram(
			"chunk_duration",
			tally.MustMakeExponentialDurationBuckets(time.Millisecond, 2, 12),
		),
	}
}

type Metrics struct {
	Batches [numBulkInsertKinds]*KindMetrics
	Selects [numSelectKinds]*KindMetrics
	Upserts [numUpsertKinds]*KindMetrics
}

func NewMetrics(scope tally.Scope) *Metrics {
	var m Metrics

	for _, kind := range BulkInsertKinds() {
		m.Batches[kind] = NewKindMetrics(scope.SubScope("batch").Tagged(map[string]string{"kind": kind.String()}))
	}

	for _, kind := range SelectKinds() {
		m.Selects[kind] = NewKindMetrics(scope.SubScope("select").Tagged(map[string]string{"kind": kind.String()}))
	}

	for _, kind := range UpsertKinds() {
		m.Upserts[kind] = NewKindMetrics(scope.SubScope("upsert").Tagged(map[string]string{"kind": kind.String()}))
	}

	return &m
}
