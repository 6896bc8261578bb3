package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/flow/internal/core/domain"
)

func TestSymbol_Intern(t *testing.T) {
	a := domain.Intern("review")
	b := domain.Intern("review")
	c := domain.Intern("book")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, "review", a.String())
	assert.Equal(t, 1, a.Compare(c))
}

func TestSymbol_Zero(t *testing.T) {
	var s domain.Symbol
	assert.True(t, s.IsZero())
	assert.Empty(t, s.String())
	assert.False(t, domain.Intern("").IsZero())
}

func TestSymbol_Text(t *testing.T) {
	s := domain.Intern("start")
	text, err := s.MarshalText()
	require.NoError(t, err)

	var out domain.Symbol
	require.NoError(t, out.UnmarshalText(text))
	assert.Equal(t, s, out)

	require.NoError(t, out.UnmarshalText(nil))
	assert.True(t, out.IsZero())
}
