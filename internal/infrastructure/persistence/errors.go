package persistence

import (
	"errors"
	"strings"

	"github.com/fuelsync/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// notFound translates gorm.ErrRecordNotFound into a NOT_FOUND domain error
// naming the missing entity
func notFound(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.NewDomainError(shared.CodeNotFound, entity+" not found")
	}
	return err
}

// duplicate translates unique constraint violations into ALREADY_EXISTS
func duplicate(err error, message string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.NewDomainError(shared.CodeAlreadyExists, message)
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint") {
		return shared.NewDomainError(shared.CodeAlreadyExists, message)
	}
	return err
}

// forUpdate is the row lock clause used by Lock* repository methods.
// SQLite ignores it, PostgreSQL emits SELECT ... FOR UPDATE.
var forUpdate = clause.Locking{Strength: "UPDATE"}

// forShare lets writers of one station day run side by side while keeping
// out a holder of forUpdate
var forShare = clause.Locking{Strength: "SHARE"}

// likePattern builds a case-insensitive contains pattern for LOWER(col) LIKE ?
func likePattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}
