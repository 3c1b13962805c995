package distribution

import (
	"fmt"

	common_models "go-docdist/internal/common/models"
)

// ValidationError marks malformed or incomplete input. Nothing was changed.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// PreconditionError marks a request that is well-formed but not allowed in
// the distribution's current state (wrong status, department mismatch,
// document not at the origin location). Nothing was changed.
type PreconditionError struct {
	Msg string
}

func (e *PreconditionError) Error() string { return e.Msg }

func preconditionf(format string, args ...any) error {
	return &PreconditionError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError marks a distribution that does not exist or was soft-deleted.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string { return e.Msg }

func notFoundf(format string, args ...any) error {
	return &NotFoundError{Msg: fmt.Sprintf(format, args...)}
}

// DiscrepancyConfirmationError is returned when receiver verification found
// missing or damaged documents and the caller did not acknowledge them.
// Resubmitting with the acknowledgment flag proceeds.
type DiscrepancyConfirmationError struct {
	Documents []common_models.DocumentRef
}

func (e *DiscrepancyConfirmationError) Error() string {
	return fmt.Sprintf("verification found %d document(s) missing or damaged; resubmit with accept_discrepancies to confirm", len(e.Documents))
}

// ConflictError marks a transition that lost a race: the status read at the
// start of the request no longer matched at write time. Callers should
// refetch and retry.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

func conflictf(format string, args ...any) error {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}
