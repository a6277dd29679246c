package fcs_test

import (
	"testing"

	"github.com/dumphfdl/dumphfdl-go/internal/fcs"
	"github.com/stretchr/testify/require"
)

func TestAppendThenVerifyRoundTrips(t *testing.T) {
	t.Parallel()
	buf := []byte{0x01, 0x02, 0x03, 0x04, 0x05}
	framed := fcs.Append(append([]byte{}, buf...))
	require.True(t, fcs.Verify(framed))
}

func TestVerifyDetectsCorruption(t *testing.T) {
	t.Parallel()
	buf := []byte{0x01, 0x02, 0x03, 0x04, 0x05}
	framed := fcs.Append(append([]byte{}, buf...))
	framed[0] ^= 0xFF
	require.False(t, fcs.Verify(framed))
}

func TestVerifyShortBufferFails(t *testing.T) {
	t.Parallel()
	require.False(t, fcs.Verify([]byte{0x01}))
}

func TestComputeDeterministic(t *testing.T) {
	t.Parallel()
	buf := []byte("HFDL")
	require.Equal(t, fcs.Compute(buf), fcs.Compute(buf))
}

func TestComputeDiffersOnMutation(t *testing.T) {
	t.Parallel()
	a := fcs.Compute([]byte{0x00, 0x00})
	b := fcs.Compute([]byte{0x00, 0x01})
	require.NotEqual(t, a, b)
}
