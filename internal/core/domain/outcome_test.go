package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/flow/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestClassify(t *testing.T) {
	deployErr := &domain.DeployError{
		DeploymentID: "dep-1",
		Stage:        "parse",
		Err:          zerr.Wrap(domain.ErrDefinitionNotFound, "stored row vanished"),
	}

	tests := []struct {
		name string
		err  error
		want domain.Outcome
	}{
		{"nil", nil, domain.OutcomeOK},
		{"definition", zerr.With(zerr.Wrap(domain.ErrDefinitionNotFound, "x"), "definition_id", "pd-1"), domain.OutcomeNotFound},
		{"deployment", domain.ErrDeploymentNotFound, domain.OutcomeNotFound},
		{"resource", zerr.Wrap(domain.ErrResourceNotFound, "x"), domain.OutcomeNotFound},
		{"invalid", zerr.Wrap(domain.ErrInvalidArgument, "empty id"), domain.OutcomeInvalid},
		{"in use", domain.ErrDeploymentInUse, domain.OutcomeInvalid},
		{"deploy failure wins over cause", deployErr, domain.OutcomeFatal},
		{"consistency", zerr.Wrap(domain.ErrInternalConsistency, "x"), domain.OutcomeFatal},
		{"io", errors.New("connection reset"), domain.OutcomeFatal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.Classify(tt.err))
		})
	}
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "ok", domain.OutcomeOK.String())
	assert.Equal(t, "not_found", domain.OutcomeNotFound.String())
	assert.Equal(t, "invalid", domain.OutcomeInvalid.String())
	assert.Equal(t, "fatal", domain.OutcomeFatal.String())
}

func TestDeployError(t *testing.T) {
	cause := &domain.ArtifactError{Resource: "invoice.process.yaml", Err: domain.ErrInvalidArtifact}
	err := error(&domain.DeployError{DeploymentID: "dep-1", Stage: "parse", Resource: domain.ResourceOf(cause), Err: cause})

	assert.ErrorIs(t, err, domain.ErrDeployFailed)
	assert.ErrorIs(t, err, domain.ErrInvalidArtifact)
	assert.Contains(t, err.Error(), "dep-1")
	assert.Contains(t, err.Error(), "invoice.process.yaml")

	var de *domain.DeployError
	assert.ErrorAs(t, err, &de)
	assert.Equal(t, "parse", de.Stage)
	assert.Empty(t, domain.ResourceOf(errors.New("plain")))
}
