package services

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrValidation marks business-rule violations (not sellable, already
	// listed, bid out of bounds, listing not active).
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks a referenced product, listing or threshold that is absent.
	ErrNotFound = errors.New("not found")
)

// Severity and state reported alongside every auction error, matching the
// pair the legacy procedures raised.
const (
	ErrorSeverity = 16
	ErrorState    = 1
)

// Postgres SQLSTATE codes we react to
const (
	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// AuctionError is returned for every business-rule failure. Match the kind
// with errors.Is(err, ErrValidation) or errors.Is(err, ErrNotFound).
type AuctionError struct {
	Kind     error
	Message  string
	Severity int
	State    int
}

func (e *AuctionError) Error() string {
	return e.Message
}

func (e *AuctionError) Unwrap() error {
	return e.Kind
}

func validationError(format string, args ...interface{}) error {
	return &AuctionError{Kind: ErrValidation, Message: fmt.Sprintf(format, args...), Severity: ErrorSeverity, State: ErrorState}
}

func notFoundError(format string, args ...interface{}) error {
	return &AuctionError{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...), Severity: ErrorSeverity, State: ErrorState}
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && (pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected)
}

// runInTransaction runs fn in a transaction, retrying with jittered backoff
// when Postgres aborts it with a serialization failure or deadlock. Business
// errors are returned on the first attempt.
func runInTransaction(db *gorm.DB, maxAttempts int, fn func(tx *gorm.DB) error) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = db.Transaction(fn)
		if err == nil || !isRetryable(err) {
			return err
		}

		ctx := db.Statement.Context
		backoff := time.Duration(attempt*50+rand.Intn(50)) * time.Millisecond
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return fmt.Errorf("transaction aborted after %d attempts: %w", maxAttempts, err)
}
