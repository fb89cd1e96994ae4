package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealOpen(t *testing.T) {
	sealed, err := Seal(`[{"id":1}]`, "pass")
	require.NoError(t, err)

	plain, err := Open(sealed, "pass")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1}]`, plain)
}

func TestSealUsesFreshSaltAndNonce(t *testing.T) {
	a, err := Seal("same", "pass")
	require.NoError(t, err)
	b, err := Seal("same", "pass")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestOpenWrongPassphrase(t *testing.T) {
	sealed, err := Seal("secret", "pass")
	require.NoError(t, err)

	_, err = Open(sealed, "other")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrMalformed)
}

func TestOpenMalformed(t *testing.T) {
	for _, in := range []string{"", "not base64!", "c2hvcnQ="} {
		_, err := Open(in, "pass")
		assert.ErrorIs(t, err, ErrMalformed, "input %q", in)
	}
}

func TestLooksSealed(t *testing.T) {
	sealed, err := Seal("[]", "pass")
	require.NoError(t, err)
	assert.True(t, LooksSealed(sealed))

	for _, in := range []string{"", "null", `[{"id":1}]`, "c2hvcnQ="} {
		assert.False(t, LooksSealed(in), "input %q", in)
	}
}
