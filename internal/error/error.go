package error

import (
	"errors"
	"fmt"
)

const (
	ConstErrShootFailed = "shoot operation failed"
	ConstErrPlaceFailed = "ship placement failed"
)

var (
	ErrMissingSessionKey   = errors.New("no consumer key found")
	ErrNoShipsFound        = errors.New("no ships found")
	ErrShipNotFound        = errors.New("ship not found")
	ErrNotEnoughSpace      = errors.New("not enough space found")
	ErrDuplicateShipKind   = errors.New("ship kind is already part of the fleet")
	ErrSessionNotFound     = errors.New("session not found")
	ErrInvalidCacheBackend = errors.New("invalid cache backend")
)

func ErrInvalidShipKind(kind string) error {
	return fmt.Errorf("%w: %q", ErrShipNotFound, kind)
}

func ErrShipKindTwice(kind string) error {
	return fmt.Errorf("%w: %s", ErrDuplicateShipKind, kind)
}

func ErrNoSpaceForShip(kind string, attempts int) error {
	return fmt.Errorf("%w for %s after %d attempts", ErrNotEnoughSpace, kind, attempts)
}

func ErrSessionNotFoundID(sessionId string) error {
	return fmt.Errorf("%w, id: %s", ErrSessionNotFound, sessionId)
}

func ErrSessionIsNil(sessionId string) error {
	return fmt.Errorf("session is nil, id: %s", sessionId)
}

func ErrInvalidQueryParam(name, value string) error {
	return fmt.Errorf("query parameter %s must be an integer, got: %q", name, value)
}

func ErrInvalidStage(stage string) error {
	return fmt.Errorf("stage must be either dev or prod, got: %s", stage)
}

func ErrUnknownCacheBackend(backend string) error {
	return fmt.Errorf("%w: %s", ErrInvalidCacheBackend, backend)
}

func ErrStorageNotConfigured() error {
	return errors.New("storage is not configured")
}
