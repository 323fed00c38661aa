package errs

import (
	"io"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	k, ok := KindOf(Validation("bad zip"))
	require.True(t, ok)
	assert.Equal(t, KindValidation, k)

	_, ok = KindOf(io.EOF)
	assert.False(t, ok)
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := errors.Wrap(NotFound("Order not found"), "get order")
	assert.True(t, IsKind(err, KindNotFound))
	assert.False(t, IsKind(err, KindDependency))
}

func TestDependencyKeepsCause(t *testing.T) {
	err := Dependency("Failed to create order", io.ErrUnexpectedEOF)
	assert.Equal(t, "Failed to create order", err.Error())
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
}
