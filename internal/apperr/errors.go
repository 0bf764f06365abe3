package apperr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"

	"gorm.io/gorm"
)

// Sentinel errors for the expected, recoverable failure classes. Handlers map
// these onto HTTP status codes; services never retry them.
var (
	ErrNotFound            = errors.New("referenced entity not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrStoreUnavailable    = errors.New("store unavailable")
)

// InsufficientStockError is returned when a distribution (or a historical
// correction) would drive a product's available stock negative. It carries the
// quantities so callers can render the standard message.
type InsufficientStockError struct {
	Available int64
	Requested int64
	Unit      string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock. Available: %d %s, Requested: %d %s",
		e.Available, e.Unit, e.Requested, e.Unit)
}

// IsInsufficientStock reports whether err is an insufficient stock failure.
func IsInsufficientStock(err error) bool {
	var ise *InsufficientStockError
	return errors.As(err, &ise)
}

// Invalid wraps a human-readable reason into the InvalidInput class.
func Invalid(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, reason)
}

// FromStore classifies an error surfaced by the ledger store. Relies on GORM's
// translated errors (Config.TranslateError) for constraint failures.
func FromStore(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: duplicate value", ErrConstraintViolation)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: referenced entity does not exist", ErrConstraintViolation)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, gorm.ErrInvalidDB):
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	case isConnectionError(err):
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	default:
		return err
	}
}

// isConnectionError matches transport-level failures reaching the database:
// refused or reset connections and network timeouts. These are outages, not
// bugs, so they classify as ErrStoreUnavailable.
func isConnectionError(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
