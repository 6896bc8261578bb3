package domain

import (
	"errors"

	"go.trai.ch/zerr"
)

var (
	// ErrInvalidArgument is returned when an empty identifier or malformed input is supplied.
	ErrInvalidArgument = zerr.New("invalid argument")

	// ErrDefinitionNotFound is returned when no definition matches the requested id, key or version.
	ErrDefinitionNotFound = zerr.New("definition not found")

	// ErrDeploymentNotFound is returned when the requested deployment does not exist.
	ErrDeploymentNotFound = zerr.New("deployment not found")

	// ErrResourceNotFound is returned when a deployment exists but lacks the requested resource bytes.
	ErrResourceNotFound = zerr.New("resource not found")

	// ErrDeployFailed is matched by every DeployError.
	ErrDeployFailed = zerr.New("deploy failed")

	// ErrInternalConsistency is returned when a successful deploy did not produce the requested entry.
	ErrInternalConsistency = zerr.New("deployer did not put process definition in the cache")

	// ErrDeploymentInUse is returned when deleting a deployment with dependent rows without cascade.
	ErrDeploymentInUse = zerr.New("deployment has dependent rows")

	// ErrDuplicateVersion is returned when a definition key/version/tenant triple already exists.
	ErrDuplicateVersion = zerr.New("definition version already exists")

	// ErrDuplicateResource is returned when a deployment already holds a resource with the same name.
	ErrDuplicateResource = zerr.New("duplicate resource")

	// ErrDuplicateProcess is returned when a deployment defines the same process key twice.
	ErrDuplicateProcess = zerr.New("duplicate process key in deployment")

	// ErrDuplicateElement is returned when a process model declares the same element id twice.
	ErrDuplicateElement = zerr.New("duplicate element")

	// ErrMissingFlowTarget is returned when a sequence flow points to an undeclared element.
	ErrMissingFlowTarget = zerr.New("missing flow target")

	// ErrCycleDetected is returned when a process graph contains a cycle.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrInvalidModel is returned when a process model fails structural validation.
	ErrInvalidModel = zerr.New("invalid process model")

	// ErrInvalidArtifact is returned when a resource cannot be parsed.
	ErrInvalidArtifact = zerr.New("invalid process artifact")

	// ErrInvalidConfig is returned when the engine configuration fails validation.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrDeploymentExists is returned when saving a deployment whose id is already stored.
	ErrDeploymentExists = zerr.New("deployment already exists")
)

// DeployError reports a deployer stage failure with the deployment context.
type DeployError struct {
	DeploymentID string
	Stage        string
	// Resource is empty when the failure is not tied to a single resource.
	Resource string
	Err      error
}

func (e *DeployError) Error() string {
	msg := "deploy of " + e.DeploymentID + " failed in stage " + e.Stage
	if e.Resource != "" {
		msg += " (resource " + e.Resource + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DeployError) Unwrap() error { return e.Err }

// Is makes every DeployError match ErrDeployFailed.
func (e *DeployError) Is(target error) bool {
	return target == ErrDeployFailed
}

// ArtifactError ties a parse or compile failure to the resource that caused it.
type ArtifactError struct {
	Resource string
	Err      error
}

func (e *ArtifactError) Error() string {
	return "resource " + e.Resource + ": " + e.Err.Error()
}

func (e *ArtifactError) Unwrap() error { return e.Err }

// ResourceOf returns the resource name carried by an ArtifactError in err's chain.
func ResourceOf(err error) string {
	var ae *ArtifactError
	if errors.As(err, &ae) {
		return ae.Resource
	}
	return ""
}
