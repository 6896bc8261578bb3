package process_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/flow/internal/adapters/process"
	"go.trai.ch/flow/internal/core/domain"
)

func parseOne(t *testing.T, data string) *domain.Model {
	t.Helper()
	models, err := process.NewParser().Parse("test.process.yaml", []byte(data))
	require.NoError(t, err)
	require.Len(t, models, 1)
	return models[0]
}

func TestCompile(t *testing.T) {
	exe, err := process.Compile(parseOne(t, invoiceYAML))
	require.NoError(t, err)

	assert.Equal(t, "invoice", exe.Key)
	require.Len(t, exe.Steps, 6)
	assert.Equal(t, "start", exe.Steps[exe.Start].Element.String())
	assert.Equal(t, domain.StartEvent, exe.Steps[exe.Start].Type)
	assert.NotZero(t, exe.Checksum)

	for i, step := range exe.Steps {
		for _, next := range step.Next {
			assert.Greater(t, next, i, "successors of %s come later", step.Element)
		}
	}
}

func TestCompile_ChecksumIsStable(t *testing.T) {
	a, err := process.Compile(parseOne(t, invoiceYAML))
	require.NoError(t, err)
	b, err := process.Compile(parseOne(t, invoiceYAML))
	require.NoError(t, err)
	assert.Equal(t, a.Checksum, b.Checksum)

	other := `
processes:
  - key: invoice
    elements:
      - {id: start, type: startEvent, next: [done]}
      - {id: done, type: endEvent}
`
	c, err := process.Compile(parseOne(t, other))
	require.NoError(t, err)
	assert.NotEqual(t, a.Checksum, c.Checksum)
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{
			"no start event",
			"processes:\n  - key: a\n    elements:\n      - {id: e, type: endEvent}\n",
			domain.ErrInvalidModel,
		},
		{
			"cycle",
			"processes:\n  - key: a\n    elements:\n      - {id: s, type: startEvent, next: [t]}\n      - {id: t, type: userTask, next: [u]}\n      - {id: u, type: userTask, next: [t]}\n",
			domain.ErrCycleDetected,
		},
		{
			"dangling flow",
			"processes:\n  - key: a\n    elements:\n      - {id: s, type: startEvent, next: [missing]}\n",
			domain.ErrMissingFlowTarget,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := process.Compile(parseOne(t, tt.data))
			require.ErrorIs(t, err, tt.want)
		})
	}
}
