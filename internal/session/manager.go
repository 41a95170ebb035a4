// Package session runs the game for one session key at a time on top of
// a cache.Store. The fleet lives under <key>-AllShips and the last shot
// result with its history under <key>-ShootResult.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/saeidalz13/battleship-solo/internal/cache"
	cerr "github.com/saeidalz13/battleship-solo/internal/error"
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
	mc "github.com/saeidalz13/battleship-solo/models/connection"
)

const DefaultTTL = time.Minute * 60

type Service interface {
	PlaceFleet(ctx context.Context, key string) (mc.RespFleet, error)
	Shoot(ctx context.Context, key string, row, column int) (mc.RespShot, error)
	Forget(ctx context.Context, key string) error
}

type Manager struct {
	store     cache.Store
	placer    mb.FleetPlacer
	analytics AnalyticsRecorder
	ttl       time.Duration
	locker    cache.Locker
}

var _ Service = (*Manager)(nil)

type Option func(*Manager)

func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

func WithPlacer(placer mb.FleetPlacer) Option {
	return func(m *Manager) {
		if placer != nil {
			m.placer = placer
		}
	}
}

func WithAnalytics(analytics AnalyticsRecorder) Option {
	return func(m *Manager) {
		if analytics != nil {
			m.analytics = analytics
		}
	}
}

func NewManager(store cache.Store, opts ...Option) *Manager {
	m := &Manager{
		store:     store,
		placer:    mb.NewRandomFleetPlacer(nil),
		analytics: NoopAnalytics{},
		ttl:       DefaultTTL,
	}
	for _, opt := range opts {
		opt(m)
	}

	// a store shared between processes serializes keys itself
	if locker, ok := store.(cache.Locker); ok {
		m.locker = locker
	} else {
		m.locker = cache.NewKeyLocker()
	}
	return m
}

// PlaceFleet starts a new game for key. Whatever was stored for key
// before, fleet and history alike, is discarded.
func (m *Manager) PlaceFleet(ctx context.Context, key string) (mc.RespFleet, error) {
	if strings.TrimSpace(key) == "" {
		return mc.RespFleet{}, cerr.ErrMissingSessionKey
	}

	unlock, err := m.locker.Lock(ctx, key)
	if err != nil {
		return mc.RespFleet{}, fmt.Errorf("%s: %w", cerr.ConstErrPlaceFailed, err)
	}
	defer unlock()

	if err := m.clear(ctx, key); err != nil {
		return mc.RespFleet{}, fmt.Errorf("%s: %w", cerr.ConstErrPlaceFailed, err)
	}

	fleet, err := m.placer.PlaceFleet(mb.AllShipKinds)
	switch {
	case errors.Is(err, cerr.ErrNotEnoughSpace):
		log.Printf("placing fleet for %s: %v", key, err)
		return mc.NewFailedResult[mb.Fleet](mc.MsgNotEnoughSpace), nil
	case errors.Is(err, cerr.ErrShipNotFound):
		return mc.NewFailedResult[mb.Fleet](mc.MsgShipNotFound), nil
	case err != nil:
		return mc.RespFleet{}, fmt.Errorf("%s: %w", cerr.ConstErrPlaceFailed, err)
	}

	encoded, err := encode(cache.Key(key, cache.NamespaceAllShips), fleet)
	if err != nil {
		return mc.RespFleet{}, fmt.Errorf("%s: %w", cerr.ConstErrPlaceFailed, err)
	}
	if err := m.store.Set(ctx, encoded.Key, encoded.Value, m.ttl); err != nil {
		return mc.RespFleet{}, fmt.Errorf("%s: %w", cerr.ConstErrPlaceFailed, err)
	}

	if err := m.analytics.RecordFleetPlaced(ctx); err != nil {
		log.Println("failed to record placed fleet:", err)
	}
	return mc.NewSuccessResult("", fleet), nil
}

// Shoot fires at (row, column) of the fleet stored for key. Shots on one
// key are applied one at a time, in the order they acquire the key. The
// damaged fleet and the grown history are written together or not at all.
func (m *Manager) Shoot(ctx context.Context, key string, row, column int) (mc.RespShot, error) {
	if strings.TrimSpace(key) == "" {
		return mc.RespShot{}, cerr.ErrMissingSessionKey
	}

	unlock, err := m.locker.Lock(ctx, key)
	if err != nil {
		return mc.RespShot{}, fmt.Errorf("%s: %w", cerr.ConstErrShootFailed, err)
	}
	defer unlock()

	fleetKey := cache.Key(key, cache.NamespaceAllShips)
	resultKey := cache.Key(key, cache.NamespaceShootResult)

	var fleet mb.Fleet
	found, err := m.load(ctx, fleetKey, &fleet)
	if err != nil {
		return mc.RespShot{}, fmt.Errorf("%s: %w", cerr.ConstErrShootFailed, err)
	}
	if !found || len(fleet) == 0 {
		return mc.NewFailedResult[mb.ShotResult](mc.MsgNoFleetFound), nil
	}

	var last mb.ShotResult
	if _, err := m.load(ctx, resultKey, &last); err != nil {
		return mc.RespShot{}, fmt.Errorf("%s: %w", cerr.ConstErrShootFailed, err)
	}

	result, err := mb.ResolveShot(fleet, last.History, mb.NewCoordinates(row, column))
	if errors.Is(err, cerr.ErrNoShipsFound) {
		return mc.NewFailedResult[mb.ShotResult](mc.MsgNoFleetFound), nil
	}
	if err != nil {
		return mc.RespShot{}, fmt.Errorf("%s: %w", cerr.ConstErrShootFailed, err)
	}

	fleetEntry, err := encode(fleetKey, result.Fleet)
	if err != nil {
		return mc.RespShot{}, fmt.Errorf("%s: %w", cerr.ConstErrShootFailed, err)
	}
	resultEntry, err := encode(resultKey, result)
	if err != nil {
		return mc.RespShot{}, fmt.Errorf("%s: %w", cerr.ConstErrShootFailed, err)
	}
	if err := m.store.SetMany(ctx, m.ttl, fleetEntry, resultEntry); err != nil {
		return mc.RespShot{}, fmt.Errorf("%s: %w", cerr.ConstErrShootFailed, err)
	}

	if len(result.History) > len(last.History) {
		if err := m.analytics.RecordShotFired(ctx); err != nil {
			log.Println("failed to record shot:", err)
		}
	}
	return mc.NewSuccessResult(result.Message, result), nil
}

// Forget drops everything stored for key.
func (m *Manager) Forget(ctx context.Context, key string) error {
	if strings.TrimSpace(key) == "" {
		return cerr.ErrMissingSessionKey
	}

	unlock, err := m.locker.Lock(ctx, key)
	if err != nil {
		return err
	}
	defer unlock()

	return m.clear(ctx, key)
}

func (m *Manager) clear(ctx context.Context, key string) error {
	for _, ns := range []cache.Namespace{cache.NamespaceAllShips, cache.NamespaceShootResult} {
		if err := m.store.Remove(ctx, cache.Key(key, ns)); err != nil {
			return err
		}
	}
	return nil
}

func encode(key string, value any) (cache.Entry, error) {
	encoded, err := json.Marshal(value)
	if err != nil {
		return cache.Entry{}, fmt.Errorf("encode %s: %w", key, err)
	}
	return cache.Entry{Key: key, Value: encoded}, nil
}

func (m *Manager) load(ctx context.Context, key string, dst any) (bool, error) {
	encoded, found, err := m.store.Get(ctx, key)
	if err != nil || !found {
		return false, err
	}
	if err := json.Unmarshal(encoded, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}
