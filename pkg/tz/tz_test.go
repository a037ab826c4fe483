package tz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	loc, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	loc, err = Load("UTC")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	_, err = Load("Not/AZone")
	assert.Error(t, err)
}
