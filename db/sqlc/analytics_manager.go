package sqlc

import (
	"context"
	"database/sql"
	"errors"
	"net"

	"github.com/sqlc-dev/pqtype"
)

// AnalyticsManager counts game activity per server. Every method is
// scoped to the ip the manager was built with.
type AnalyticsManager struct {
	queries  Querier
	serverIp pqtype.Inet
}

func NewAnalyticsManager(queries Querier, serverIpNet net.IPNet) *AnalyticsManager {
	return &AnalyticsManager{
		queries:  queries,
		serverIp: pqtype.Inet{IPNet: serverIpNet, Valid: true},
	}
}

func (a *AnalyticsManager) ServerIp() pqtype.Inet {
	return a.serverIp
}

func (a *AnalyticsManager) RecordFleetPlaced(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, QuerierCtxTimeout)
	defer cancel()
	return a.queries.IncrementFleetsPlacedCount(ctx, a.serverIp)
}

func (a *AnalyticsManager) RecordShotFired(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, QuerierCtxTimeout)
	defer cancel()
	return a.queries.IncrementShotsFiredCount(ctx, a.serverIp)
}

// A server that has not placed a fleet yet has no row; that reads as 0.
func (a *AnalyticsManager) GetFleetsPlacedCount(ctx context.Context) (int64, error) {
	count, err := a.queries.GetFleetsPlacedCount(ctx, a.serverIp)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return count, err
}

func (a *AnalyticsManager) GetShotsFiredCount(ctx context.Context) (int64, error) {
	count, err := a.queries.GetShotsFiredCount(ctx, a.serverIp)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return count, err
}
