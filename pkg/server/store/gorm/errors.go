package gorm

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/credstore/pkg/server/store"
)

// translateError maps driver errors onto the store sentinels. Uniqueness
// violations are matched by message because the PostgreSQL and SQLite
// drivers report them differently.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return store.ErrConflict
	}
	msg := err.Error()
	if strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "UNIQUE constraint failed") {
		return store.ErrConflict
	}
	return err
}

// wrapNotFound converts gorm's record-not-found into the store sentinel,
// annotated with the record kind and id.
func wrapNotFound(err error, kind string, id int64) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %d: %w", kind, id, store.ErrNotFound)
	}
	return err
}
