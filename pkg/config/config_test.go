package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	assert.NoError(t, Validate(&cfg))
}

func TestValidateRejectsEmptyCommandPrefix(t *testing.T) {
	cfg := Default()
	cfg.CommandPrefix = ""
	err := Validate(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "command-prefix")
}

func TestValidateRequiresBackendAddrWhenProxyEnabled(t *testing.T) {
	cfg := Default()
	cfg.BackendAddr = ""
	err := Validate(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend-addr")
}

func TestValidateSkipsBackendAddrWhenProxyDisabled(t *testing.T) {
	cfg := Default()
	cfg.ProxyEnabled = false
	cfg.BackendAddr = ""
	assert.NoError(t, Validate(&cfg))
}

func TestValidateRejectsOutOfRangeProxyPort(t *testing.T) {
	cfg := Default()
	cfg.ProxyPort = 70000
	err := Validate(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "proxy-port")
}

func TestValidateRejectsBadCompressionThreshold(t *testing.T) {
	cfg := Default()
	cfg.Compression.Threshold = -2
	err := Validate(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compression.threshold")
}

func TestValidateRejectsBadCompressionLevel(t *testing.T) {
	cfg := Default()
	cfg.Compression.Level = 10
	err := Validate(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compression.level")
}

func TestValidateRejectsBadWorldPort(t *testing.T) {
	cfg := Default()
	cfg.Worlds = map[string]World{"lobby": {Port: -1, Desc: "lobby"}}
	err := Validate(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "worlds[lobby].port")
}

func TestValidateAccumulatesMultipleErrors(t *testing.T) {
	cfg := Default()
	cfg.CommandPrefix = ""
	cfg.MaxPlayers = -1
	err := Validate(&cfg)
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "command-prefix")
	assert.Contains(t, msg, "max-players")
}

func TestConfigErrorPrefixesReason(t *testing.T) {
	e := &ConfigError{Reason: "something broke"}
	assert.Equal(t, "config: something broke", e.Error())
}
