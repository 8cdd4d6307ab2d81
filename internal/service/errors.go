package service

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("insufficient permissions")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountExists      = errors.New("email or username already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrPaperNotFound      = errors.New("paper not found")
	ErrRecordNotFound     = errors.New("exam record not found")
	ErrConflict           = errors.New("concurrent update conflict, please retry")
	ErrNoQuestionsParsed  = errors.New("format not recognized: no questions could be parsed")
	ErrInvalidInput       = errors.New("invalid input")
)

// Postgres SQLSTATEs that mean the transaction lost a race and can be replayed.
var retryableCodes = map[string]bool{
	"40001": true, // serialization_failure
	"40P01": true, // deadlock_detected
	"23505": true, // unique_violation, two first answers inserting the same progress row
}

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return retryableCodes[pgErr.Code]
	}
	return false
}
