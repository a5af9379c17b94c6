package username

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFoldPassesThroughASCII(t *testing.T) {
	assert.Equal(t, "Notch", Fold("Notch"))
}

func TestFoldNarrowsFullwidthForm(t *testing.T) {
	// U+FF2E..U+FF54 etc are fullwidth Latin variants an IME can emit;
	// folding must converge to the same bytes as the plain ASCII name so
	// offline UUID derivation hashes identically for both.
	fullwidth := "Ｎｏｔｃｈ" // "Notch" in fullwidth forms
	assert.Equal(t, "Notch", Fold(fullwidth))
}
