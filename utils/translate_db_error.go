package utils

import (
	"errors"
	"strings"

	"github.com/jackc/pgconn"
	"gorm.io/gorm"
)

// TranslateDBError turns database errors into messages safe to return to a
// client. Raw driver text never leaves the boundary.
func TranslateDBError(err error) string {
	if err == nil {
		return ""
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique violation
			switch {
			case strings.Contains(pgErr.Message, "email"):
				return "Email already exists"
			case strings.Contains(pgErr.Message, "username"):
				return "Username already exists"
			}
			return "Duplicate value, please use another"
		case "23503":
			return "This record is referenced by another table"
		case "23502":
			return "Some required fields are missing"
		case "22P02":
			return "Invalid data format"
		}
		return "A database error occurred"
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "Record not found"
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return "Duplicate value, please use another"
	}

	lowerErr := strings.ToLower(err.Error())
	if strings.Contains(lowerErr, "unique") || strings.Contains(lowerErr, "duplicate") {
		return "Duplicate value, please use another"
	}
	if strings.Contains(lowerErr, "context deadline exceeded") {
		return "Request timeout"
	}
	if strings.Contains(lowerErr, "context canceled") {
		return "Request was cancelled"
	}

	return "Internal server error"
}

// IsDuplicateKey reports whether err is a unique-constraint violation.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	lowerErr := strings.ToLower(err.Error())
	return strings.Contains(lowerErr, "unique") || strings.Contains(lowerErr, "duplicate")
}
