package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrStoreUnreachable  = errors.New("store unreachable")
	ErrStoreRead         = errors.New("store read failed")
	ErrStoreWrite        = errors.New("store write failed")
	ErrNotFound          = errors.New("not found")
	ErrRemoteUnreachable = errors.New("remote unreachable")
	ErrRemoteRejected    = errors.New("remote rejected request")
	ErrNoMatch           = errors.New("no match")
	ErrInvalidID         = errors.New("invalid id")
	ErrTranslation       = errors.New("translation failed")
	ErrMalformedResponse = errors.New("malformed response")
	ErrConfiguration     = errors.New("configuration error")
	ErrValidation        = errors.New("validation error")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrStoreWrite
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Severity levels used when a per-file failure is logged.
const (
	SeverityWarn  = "warn"
	SeverityError = "error"
)

// Severity reports how a pipeline failure should be logged. Expected outcomes
// (no match, invalid id, translation problems) are warnings; faults are errors.
func Severity(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoMatch), errors.Is(err, ErrInvalidID), errors.Is(err, ErrTranslation):
		return SeverityWarn
	default:
		return SeverityError
	}
}

// IsFatal reports whether a failure must abort a whole scan run.
func IsFatal(err error) bool {
	return errors.Is(err, ErrStoreUnreachable)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
