package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalString(t *testing.T) {
	assert.Nil(t, optionalString(""))

	name := optionalString("Amine")
	require.NotNil(t, name)
	assert.Equal(t, "Amine", *name)
}
