package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhaseConstants(t *testing.T) {
	assert.Equal(t, "pre_edit", PhasePreEdit)
	assert.Equal(t, "post_edit", PhasePostEdit)
	assert.NotEqual(t, PhasePreEdit, PhasePostEdit)
}

func TestConnect_InvalidURL(t *testing.T) {
	_, err := Connect(context.Background(), "not-a-connection-string")
	assert.Error(t, err)
}
