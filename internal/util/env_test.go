package util_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github/chapool/go-keyring/internal/util"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("KEYRING_TEST_STRING", "abc")
	t.Setenv("KEYRING_TEST_INT", "42")
	t.Setenv("KEYRING_TEST_INT_BROKEN", "forty-two")
	t.Setenv("KEYRING_TEST_BOOL", "true")

	assert.Equal(t, "abc", util.GetEnv("KEYRING_TEST_STRING", "def"))
	assert.Equal(t, "def", util.GetEnv("KEYRING_TEST_UNSET", "def"))
	assert.Equal(t, 42, util.GetEnvAsInt("KEYRING_TEST_INT", 1))
	assert.Equal(t, 1, util.GetEnvAsInt("KEYRING_TEST_INT_BROKEN", 1))
	assert.True(t, util.GetEnvAsBool("KEYRING_TEST_BOOL", false))
	assert.False(t, util.GetEnvAsBool("KEYRING_TEST_UNSET", false))
}

func TestGetEnvAsStringArr(t *testing.T) {
	t.Setenv("KEYRING_TEST_ARR", "http://a, http://b,,")
	t.Setenv("KEYRING_TEST_ARR_PIPE", "x|y")

	assert.Equal(t, []string{"http://a", "http://b"}, util.GetEnvAsStringArr("KEYRING_TEST_ARR", nil))
	assert.Equal(t, []string{"x", "y"}, util.GetEnvAsStringArr("KEYRING_TEST_ARR_PIPE", nil, "|"))
	assert.Equal(t, []string{"d"}, util.GetEnvAsStringArr("KEYRING_TEST_UNSET", []string{"d"}))
}

func TestLogFromContext(t *testing.T) {
	ctx := context.Background()
	assert.NotEqual(t, zerolog.Disabled, util.LogFromContext(ctx).GetLevel())

	disabled := util.DisableLogger(ctx, true)
	assert.True(t, util.ShouldDisableLogger(disabled))
	assert.Equal(t, zerolog.Disabled, util.LogFromContext(disabled).GetLevel())

	l := zerolog.New(nil).Level(zerolog.WarnLevel)
	withLogger := util.WithLogger(ctx, l)
	assert.Equal(t, zerolog.WarnLevel, util.LogFromContext(withLogger).GetLevel())
}

func TestLogLevelFromString(t *testing.T) {
	assert.Equal(t, zerolog.WarnLevel, util.LogLevelFromString("warn"))
	assert.Equal(t, zerolog.DebugLevel, util.LogLevelFromString("loud"))
}

func TestRunningInTest(t *testing.T) {
	assert.True(t, util.RunningInTest())
}
