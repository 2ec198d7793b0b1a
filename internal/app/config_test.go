package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetenv(t *testing.T) {
	t.Setenv("MB_TEST_STRING", "value")
	t.Setenv("MB_TEST_EMPTY", "")
	t.Setenv("MB_TEST_INT", "42")
	t.Setenv("MB_TEST_BAD_INT", "forty-two")
	t.Setenv("MB_TEST_BOOL", "true")
	t.Setenv("MB_TEST_DURATION", "90s")

	assert.Equal(t, "value", getenv("MB_TEST_STRING", "fallback"))
	assert.Equal(t, "fallback", getenv("MB_TEST_EMPTY", "fallback"))
	assert.Equal(t, "fallback", getenv("MB_TEST_UNSET", "fallback"))

	assert.Equal(t, 42, getenvInt("MB_TEST_INT", 1))
	assert.Equal(t, 1, getenvInt("MB_TEST_BAD_INT", 1))

	assert.True(t, getenvBool("MB_TEST_BOOL", false))
	assert.False(t, getenvBool("MB_TEST_UNSET", false))

	assert.Equal(t, 90*time.Second, getenvDuration("MB_TEST_DURATION", time.Minute))
	assert.Equal(t, time.Minute, getenvDuration("MB_TEST_UNSET", time.Minute))
}
