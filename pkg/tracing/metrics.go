package tracing

import (
	"context"
	"time"

	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

var (
	LeadsReceived  = stats.Int64("leadpipe/leads_received", "Lead notifications accepted by intake", stats.UnitDimensionless)
	LeadsProcessed = stats.Int64("leadpipe/leads_processed", "Pipeline runs by outcome", stats.UnitDimensionless)
	FetchLatency   = stats.Float64("leadpipe/fetch_latency_ms", "Graph API lead fetch latency", stats.UnitMilliseconds)

	KeyOutcome = tag.MustNewKey("outcome")
	KeyIsNew   = tag.MustNewKey("is_new")
)

var leadViews = []*view.View{
	{
		Name:        "leadpipe/leads_received",
		Measure:     LeadsReceived,
		Description: "Count of lead notifications by novelty",
		TagKeys:     []tag.Key{KeyIsNew},
		Aggregation: view.Count(),
	},
	{
		Name:        "leadpipe/leads_processed",
		Measure:     LeadsProcessed,
		Description: "Count of pipeline runs by outcome",
		TagKeys:     []tag.Key{KeyOutcome},
		Aggregation: view.Count(),
	},
	{
		Name:        "leadpipe/fetch_latency_ms",
		Measure:     FetchLatency,
		Description: "Distribution of lead fetch latency",
		Aggregation: view.Distribution(25, 50, 100, 250, 500, 1000, 2500, 5000, 10000),
	},
}

// RegisterLeadViews registers the pipeline views with the active exporters
func RegisterLeadViews() error {
	return view.Register(leadViews...)
}

// UnregisterLeadViews is used by tests
func UnregisterLeadViews() {
	view.Unregister(leadViews...)
}

// RecordLeadReceived counts one intake notification
func RecordLeadReceived(ctx context.Context, isNew bool) {
	v := "false"
	if isNew {
		v = "true"
	}
	_ = stats.RecordWithTags(ctx, []tag.Mutator{tag.Upsert(KeyIsNew, v)}, LeadsReceived.M(1))
}

// RecordLeadProcessed counts one pipeline run with its outcome (completed, skipped, failed)
func RecordLeadProcessed(ctx context.Context, outcome string) {
	_ = stats.RecordWithTags(ctx, []tag.Mutator{tag.Upsert(KeyOutcome, outcome)}, LeadsProcessed.M(1))
}

// RecordFetchLatency records the duration of one Graph API call
func RecordFetchLatency(ctx context.Context, d time.Duration) {
	stats.Record(ctx, FetchLatency.M(float64(d)/float64(time.Millisecond)))
}
