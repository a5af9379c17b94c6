package uuid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOfflineIsDeterministic(t *testing.T) {
	a := Offline("Notch")
	b := Offline("Notch")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, Offline("notch"), "offline derivation is case-sensitive, matching exact-bytes hashing")
}

func TestOfflineKnownValue(t *testing.T) {
	// Mojang's documented offline-UUID example: MD5("OfflinePlayer:Notch").
	want, err := Canonical("b50ad385-829d-3141-a216-7e7d7539ba7f")
	require.NoError(t, err)
	assert.Equal(t, want, Offline("Notch"))
}

func TestCanonicalLowercasesAndRoundTrips(t *testing.T) {
	u, err := Canonical("8667BA71-B85A-3041-9B10-1E1950C3E1A9")
	require.NoError(t, err)
	assert.Equal(t, "8667ba71-b85a-3041-9b10-1e1950c3e1a9", u.String())
}

func TestCanonicalRejectsMalformed(t *testing.T) {
	_, err := Canonical("not-a-uuid")
	assert.Error(t, err)
}
