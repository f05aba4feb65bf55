package database

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	txnMaxAttempts = 5
	txnBaseBackoff = 10 * time.Millisecond
)

// Transaction runs fn inside a database transaction and retries the whole
// closure when the store reports a write conflict. Every retry starts from a
// fresh transaction, so fn must re-read any preconditions it checks rather
// than capturing them outside the closure.
func Transaction(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 0; attempt < txnMaxAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(txnBaseBackoff << (attempt - 1))
		}
		err = db.Transaction(fn)
		if err == nil || !IsConflict(err) {
			return err
		}
	}
	return err
}

// IsConflict reports whether an error is a transient write conflict that a
// retry from a fresh read can resolve. SQLite surfaces these as busy/locked
// errors rather than a distinct serialization error type.
func IsConflict(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked") ||
		strings.Contains(msg, "sqlite_busy")
}
