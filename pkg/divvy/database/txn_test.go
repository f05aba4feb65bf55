package database

import (
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestIsConflict(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
		{
			name: "generic error",
			err:  errors.New("some random error"),
			want: false,
		},
		{
			name: "database is locked",
			err:  errors.New("database is locked (5) (SQLITE_BUSY)"),
			want: true,
		},
		{
			name: "table locked",
			err:  errors.New("database table is locked: group_memberships"),
			want: true,
		},
		{
			name: "uppercase busy code",
			err:  errors.New("SQLITE_BUSY: unable to acquire write lock"),
			want: true,
		},
		{
			name: "constraint violation is not a conflict",
			err:  errors.New("UNIQUE constraint failed: group_memberships.user_id"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsConflict(tt.err)
			if got != tt.want {
				t.Errorf("IsConflict(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestTransactionRetriesOnConflict(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	attempts := 0
	err = Transaction(db, func(tx *gorm.DB) error {
		attempts++
		if attempts < 3 {
			return errors.New("database is locked")
		}
		return nil
	})

	if err != nil {
		t.Errorf("Expected nil after retries, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}
}

func TestTransactionDoesNotRetryBusinessErrors(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sentinel := errors.New("display name taken")
	attempts := 0
	err = Transaction(db, func(tx *gorm.DB) error {
		attempts++
		return sentinel
	})

	if !errors.Is(err, sentinel) {
		t.Errorf("Expected sentinel error, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("Expected 1 attempt, got %d", attempts)
	}
}
