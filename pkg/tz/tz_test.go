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

	_, err = Load("Not/AZone")
	assert.Error(t, err)
}

func TestFormat_FallsBackToUTC(t *testing.T) {
	at := time.Date(2026, 3, 1, 18, 30, 0, 0, time.UTC)
	assert.Equal(t, "18:30", Format(at, "Not/AZone", "15:04"))
}
