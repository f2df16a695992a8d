package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/rotmguard-proxy/internal/config"
)

func TestIsCommand(t *testing.T) {
	assert.True(t, IsCommand("/hi"))
	assert.True(t, IsCommand("/1move"))
	assert.False(t, IsCommand("hi"))
	assert.False(t, IsCommand("/"))
	assert.False(t, IsCommand("/ hi"))
	assert.False(t, IsCommand(""))
}

func TestHandleUnknownVerbIsNotHandled(t *testing.T) {
	h := New(config.Default())
	handled, _ := h.Handle("/nope")
	assert.False(t, handled)
}

func TestHandleAutonexusReportsCurrentThreshold(t *testing.T) {
	settings := config.Default()
	h := New(settings)

	handled, effect := h.Handle("/autonexus")
	require.True(t, handled)
	require.Len(t, effect.Notifications, 1)
	assert.Contains(t, effect.Notifications[0].Text, "20")
}

func TestHandleAutonexusSetsThreshold(t *testing.T) {
	settings := config.Default()
	h := New(settings)

	handled, _ := h.Handle("/autonexus 55")
	require.True(t, handled)
	assert.Equal(t, int64(55), settings.AutonexusHP())
}

func TestHandleAutonexusRejectsGarbageArg(t *testing.T) {
	settings := config.Default()
	h := New(settings)

	handled, effect := h.Handle("/autonexus banana")
	require.True(t, handled)
	assert.Contains(t, effect.Notifications[0].Text, "usage")
	assert.Equal(t, int64(20), settings.AutonexusHP(), "a malformed arg must not change the threshold")
}

func TestHandleToggleCommandsReturnEffectFlags(t *testing.T) {
	h := New(config.Default())

	_, effect := h.Handle("/ap")
	assert.True(t, effect.ToggleAntipush)

	_, effect = h.Handle("/slow")
	assert.True(t, effect.ToggleFakeSlow)

	_, effect = h.Handle("/antilag")
	assert.True(t, effect.ToggleAntilag)
}

func TestHandleDmgCapturesArg(t *testing.T) {
	h := New(config.Default())

	_, effect := h.Handle("/dmg 42")
	assert.Equal(t, "42", effect.DamageReport)

	_, effect = h.Handle("/dmg")
	assert.Equal(t, "", effect.DamageReport)
}

func TestHandleConUnknownServerIsRejected(t *testing.T) {
	h := New(config.Default())
	handled, effect := h.Handle("/con nowhere")
	require.True(t, handled)
	assert.Nil(t, effect.Reconnect)
	assert.Contains(t, effect.Notifications[0].Text, "invalid")
}

func TestHandleConKnownServerInjectsReconnect(t *testing.T) {
	h := New(config.Default())
	handled, effect := h.Handle("/con usw")
	require.True(t, handled)
	require.NotNil(t, effect.Reconnect)
	assert.Equal(t, Reconnect["usw"], effect.Reconnect.Host)
	assert.Equal(t, uint16(reconnectPort), effect.Reconnect.Port)
}

func TestHandleConCaseInsensitive(t *testing.T) {
	h := New(config.Default())
	handled, effect := h.Handle("/con USW")
	require.True(t, handled)
	require.NotNil(t, effect.Reconnect)
}

func TestHandleDevModeToggles(t *testing.T) {
	settings := config.Default()
	h := New(settings)

	assert.False(t, settings.DevMode())
	h.Handle("/devmode")
	assert.True(t, settings.DevMode())
	h.Handle("/devmode")
	assert.False(t, settings.DevMode())
}
