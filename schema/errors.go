package schema

import "errors"

// Failure classes shared across the analysis pipeline. Callers wrap these with
// fmt.Errorf("...: %w", ...) and match with errors.Is.
var (
	// ErrDimensionMismatch reports parallel arrays of differing lengths.
	// Always fatal; sequences are never silently truncated.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrInsufficientData reports too few points for a stable fit or
	// quartile computation.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrInvalidConfiguration reports an unrecognized flag value. Raised
	// before any computation starts; values never silently default.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrRecordNotFound reports an identifier that could not be mapped back
	// to a record. This is a data-integrity failure, never skipped.
	ErrRecordNotFound = errors.New("record not found")

	// ErrDuplicateID reports a non-unique record identifier at ingestion.
	// Identifiers are the removal key, so duplicates are rejected up front.
	ErrDuplicateID = errors.New("duplicate identifier")
)
