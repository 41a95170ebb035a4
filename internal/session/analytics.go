package session

import "context"

// AnalyticsRecorder counts game activity. Failures never fail a request.
type AnalyticsRecorder interface {
	RecordFleetPlaced(ctx context.Context) error
	RecordShotFired(ctx context.Context) error
}

type NoopAnalytics struct{}

var _ AnalyticsRecorder = NoopAnalytics{}

func (NoopAnalytics) RecordFleetPlaced(context.Context) error { return nil }

func (NoopAnalytics) RecordShotFired(context.Context) error { return nil }
