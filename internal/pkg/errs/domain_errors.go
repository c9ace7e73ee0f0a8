package errs

import (
	"errors"
	"sort"
	"strings"
)

// Error taxonomy shared by all usecase layers. Every failure a caller is
// expected to recover from is marked with one of these sentinels; anything
// else is an infrastructure failure for that single request.
var (
	// ErrLifecycleViolation: mutation attempted against a session, proposal
	// or quick run whose status does not permit it.
	ErrLifecycleViolation = errors.New("lifecycle violation")

	// ErrRoleClaimLost: the claim race was lost; the role is already held.
	// Returned, never retried.
	ErrRoleClaimLost = errors.New("role already assigned")

	// ErrPermissionDenied: actor lacks the role or admin status the
	// attempted mutation requires.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound: referenced entity id does not resolve within the org.
	ErrNotFound = errors.New("not found")

	// ErrValidation: malformed input; carries per-field detail via
	// FieldErrors so forms can highlight individual inputs.
	ErrValidation = errors.New("validation error")
)

// FieldErrors reports validation failures field by field.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+f[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (f FieldErrors) Is(target error) bool {
	return target == ErrValidation
}

// AsFieldErrors extracts field-level detail from a validation error, if any.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
