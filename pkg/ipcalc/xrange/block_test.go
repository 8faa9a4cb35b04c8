package xrange

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/ipkit/pkg/ipcalc/xaddr"
)

func TestNewBlock(t *testing.T) {
	t.Run("aligned", func(t *testing.T) {
		p, err := NewBlock(netip.MustParseAddr("192.168.1.0"), 24)
		require.NoError(t, err)
		assert.Equal(t, "192.168.1.0/24", p.String())

		p, err = NewBlock(netip.MustParseAddr("2001:db8::"), 32)
		require.NoError(t, err)
		assert.Equal(t, "2001:db8::/32", p.String())
	})

	t.Run("misaligned rejected, never rounded", func(t *testing.T) {
		_, err := NewBlock(netip.MustParseAddr("192.168.1.1"), 24)
		require.ErrorIs(t, err, ErrMisaligned)

		_, err = NewBlock(netip.MustParseAddr("2001:db8::1"), 64)
		require.ErrorIs(t, err, ErrMisaligned)
	})

	t.Run("prefix out of range", func(t *testing.T) {
		_, err := NewBlock(netip.MustParseAddr("10.0.0.0"), 33)
		require.ErrorIs(t, err, ErrInvalidPrefix)

		_, err = NewBlock(netip.MustParseAddr("10.0.0.0"), -1)
		require.ErrorIs(t, err, ErrInvalidPrefix)

		_, err = NewBlock(netip.MustParseAddr("2001:db8::"), 129)
		require.ErrorIs(t, err, ErrInvalidPrefix)
	})

	t.Run("invalid address", func(t *testing.T) {
		_, err := NewBlock(netip.Addr{}, 24)
		require.ErrorIs(t, err, xaddr.ErrInvalidAddress)
	})

	t.Run("whole address space", func(t *testing.T) {
		p, err := NewBlock(netip.MustParseAddr("0.0.0.0"), 0)
		require.NoError(t, err)
		assert.Equal(t, "0.0.0.0/0", p.String())
	})
}

func TestNormalizeToNetwork(t *testing.T) {
	p, err := NormalizeToNetwork(netip.MustParseAddr("192.168.1.77"), 24)
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.0/24", p.String())

	p, err = NormalizeToNetwork(netip.MustParseAddr("2001:db8::dead:beef"), 64)
	require.NoError(t, err)
	assert.Equal(t, "2001:db8::/64", p.String())

	_, err = NormalizeToNetwork(netip.MustParseAddr("10.0.0.1"), 64)
	require.ErrorIs(t, err, ErrInvalidPrefix)
}

func TestBlockRange(t *testing.T) {
	r := BlockRange(netip.MustParsePrefix("10.0.0.0/30"))
	assert.Equal(t, "10.0.0.0", r.From().String())
	assert.Equal(t, "10.0.0.3", r.To().String())

	r = BlockRange(netip.MustParsePrefix("10.1.2.3/32"))
	assert.Equal(t, r.From(), r.To())

	assert.False(t, BlockRange(netip.Prefix{}).IsValid())
}

func TestSingleBlock(t *testing.T) {
	r, err := ParseEntry("192.168.1.0-192.168.1.255")
	require.NoError(t, err)
	p, ok := SingleBlock(r)
	require.True(t, ok)
	assert.Equal(t, "192.168.1.0/24", p.String())

	r, err = ParseEntry("192.168.1.1-192.168.1.100")
	require.NoError(t, err)
	_, ok = SingleBlock(r)
	assert.False(t, ok)
}
