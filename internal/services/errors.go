package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSchema marks an extract whose header lacks a required column.
	ErrSchema = errors.New("extract schema mismatch")
	// ErrExtractUnreadable marks an extract that could not be opened or decoded.
	ErrExtractUnreadable = errors.New("extract unreadable")
	// ErrNoUsableInput marks a run with nothing left to merge.
	ErrNoUsableInput = errors.New("no usable input")
	ErrConfiguration = errors.New("configuration error")
	ErrExport        = errors.New("export error")
	ErrStore         = errors.New("store error")
)

// Rejection reasons recorded for extracts excluded from a run.
const (
	RejectionSchema     = "schema"
	RejectionUnreadable = "unreadable"
	RejectionOther      = "error"
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		if err == nil {
			return errors.New(detail)
		}
		return fmt.Errorf("%s: %w", detail, err)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// RejectionReason maps an extract-level ingestion error to the reason stored
// alongside the rejected extract.
func RejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrSchema):
		return RejectionSchema
	case errors.Is(err, ErrExtractUnreadable):
		return RejectionUnreadable
	default:
		return RejectionOther
	}
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
		return "pipeline failure"
	}
	return strings.Join(parts, ": ")
}
