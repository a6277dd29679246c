package channelizer_test

import (
	"testing"

	"github.com/dumphfdl/dumphfdl-go/internal/channelizer"
	"github.com/stretchr/testify/require"
)

func TestNewAcceptsSmallTapCount(t *testing.T) {
	t.Parallel()
	_, err := channelizer.New(12000000, 3000, 8)
	require.NoError(t, err)
}

func TestProcessProducesOneOutputPerChannel(t *testing.T) {
	t.Parallel()
	c, err := channelizer.New(12000000, 3000, 64)
	require.NoError(t, err)

	ch1 := c.AddChannel(4, 100000)
	ch2 := c.AddChannel(4, -250000)

	block := make([]complex128, c.InputBlockSize())
	for i := range block {
		block[i] = complex(1, 0)
	}

	out := c.Process(block)
	require.Contains(t, out, ch1)
	require.Contains(t, out, ch2)
	require.NotEmpty(t, out[ch1])
	require.NotEmpty(t, out[ch2])
}

func TestProcessHandlesShortFinalBlock(t *testing.T) {
	t.Parallel()
	c, err := channelizer.New(12000000, 3000, 64)
	require.NoError(t, err)
	ch := c.AddChannel(2, 0)

	block := make([]complex128, c.InputBlockSize()/2)
	out := c.Process(block)
	require.Contains(t, out, ch)
}
