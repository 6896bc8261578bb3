package domain

import "errors"

// Outcome is the discriminated result of an engine operation.
type Outcome int

const (
	// OutcomeOK means the operation succeeded.
	OutcomeOK Outcome = iota
	// OutcomeNotFound means an id, key, version, deployment or resource is unknown.
	OutcomeNotFound
	// OutcomeInvalid means the caller supplied an unusable argument.
	OutcomeInvalid
	// OutcomeFatal covers deploy failures, internal consistency failures and I/O errors.
	OutcomeFatal
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeInvalid:
		return "invalid"
	default:
		return "fatal"
	}
}

// Classify maps an error returned by the engine to its Outcome.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrDeployFailed), errors.Is(err, ErrInternalConsistency):
		return OutcomeFatal
	case errors.Is(err, ErrDefinitionNotFound),
		errors.Is(err, ErrDeploymentNotFound),
		errors.Is(err, ErrResourceNotFound):
		return OutcomeNotFound
	case errors.Is(err, ErrInvalidArgument),
		errors.Is(err, ErrDeploymentInUse):
		return OutcomeInvalid
	default:
		return OutcomeFatal
	}
}
