package xcidr

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustBlocks(t *testing.T, ss ...string) []netip.Prefix {
	t.Helper()
	out := make([]netip.Prefix, len(ss))
	for i, s := range ss {
		out[i] = netip.MustParsePrefix(s)
	}
	return out
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name  string
		in    []string
		want  []string
	}{
		{
			name: "sibling pair becomes parent",
			in:   []string{"192.168.1.0/25", "192.168.1.128/25"},
			want: []string{"192.168.1.0/24"},
		},
		{
			name: "cascading merge to grandparent",
			in:   []string{"10.0.0.0/26", "10.0.0.64/26", "10.0.0.128/25"},
			want: []string{"10.0.0.0/24"},
		},
		{
			name: "non-siblings stay apart",
			in:   []string{"10.0.1.0/24", "10.0.2.0/24"},
			want: []string{"10.0.1.0/24", "10.0.2.0/24"},
		},
		{
			name: "same prefix length but different parents",
			in:   []string{"192.168.1.128/25", "192.168.2.0/25"},
			want: []string{"192.168.1.128/25", "192.168.2.0/25"},
		},
		{
			name: "contained block dropped",
			in:   []string{"10.0.0.0/16", "10.0.5.0/24"},
			want: []string{"10.0.0.0/16"},
		},
		{
			name: "unsorted input",
			in:   []string{"192.168.1.128/25", "192.168.1.0/25"},
			want: []string{"192.168.1.0/24"},
		},
		{
			name: "families aggregated independently",
			in:   []string{"2001:db8::/33", "2001:db8:8000::/33", "10.0.0.0/25", "10.0.0.128/25"},
			want: []string{"10.0.0.0/24", "2001:db8::/32"},
		},
		{
			name: "two halves of everything",
			in:   []string{"0.0.0.0/1", "128.0.0.0/1"},
			want: []string{"0.0.0.0/0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cover, err := Summarize(mustBlocks(t, tt.in...))
			require.NoError(t, err)
			assert.Equal(t, tt.want, cover.Strings())
			assert.False(t, cover.OverCovers)
		})
	}
}

func TestSummarizeRejectsUnaligned(t *testing.T) {
	_, err := Summarize([]netip.Prefix{netip.MustParsePrefix("10.0.0.1/24")})
	require.ErrorIs(t, err, ErrNotNormalized)

	_, err = Summarize([]netip.Prefix{{}})
	require.ErrorIs(t, err, ErrNotNormalized)
}

func TestSummarizeEmpty(t *testing.T) {
	cover, err := Summarize(nil)
	require.NoError(t, err)
	assert.Empty(t, cover.Blocks)
}

func TestSummarizeEntries(t *testing.T) {
	t.Run("merge scenario", func(t *testing.T) {
		cover, err := SummarizeEntries([]string{"192.168.1.0/25", "192.168.1.128/25"})
		require.NoError(t, err)
		assert.Equal(t, []string{"192.168.1.0/24"}, cover.Strings())
	})

	t.Run("ranges and addresses mixed", func(t *testing.T) {
		cover, err := SummarizeEntries([]string{
			"10.0.0.0-10.0.0.127",
			"10.0.0.128/25",
			"10.0.1.4",
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"10.0.0.0/24", "10.0.1.4/32"}, cover.Strings())
	})

	t.Run("bad line aborts", func(t *testing.T) {
		_, err := SummarizeEntries([]string{"10.0.0.0/8", "bogus"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 2")
	})
}

func TestCoverTo(t *testing.T) {
	t.Run("already under target is untouched", func(t *testing.T) {
		cover, err := CoverTo(mustBlocks(t, "10.0.1.0/24", "10.0.2.0/24"), 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"10.0.1.0/24", "10.0.2.0/24"}, cover.Strings())
		assert.False(t, cover.OverCovers)
	})

	t.Run("lossy merge flags over-cover", func(t *testing.T) {
		// 10.0.1.0/24 和 10.0.2.0/24 的最小公共父块是 10.0.0.0/22，
		// 会额外覆盖 10.0.0.0/24 和 10.0.3.0/24。
		cover, err := CoverTo(mustBlocks(t, "10.0.1.0/24", "10.0.2.0/24"), 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"10.0.0.0/22"}, cover.Strings())
		assert.True(t, cover.OverCovers)
	})

	t.Run("picks the cheapest pair first", func(t *testing.T) {
		// 192.168.0.0/24 与 192.168.1.0/24 是兄弟（零浪费），
		// 应先于跨度更大的 10.0.0.0/24 对被合并。
		cover, err := CoverTo(mustBlocks(t,
			"10.0.0.0/24", "192.168.0.0/24", "192.168.1.0/24"), 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"10.0.0.0/24", "192.168.0.0/23"}, cover.Strings())
		assert.False(t, cover.OverCovers)
	})

	t.Run("families never merged together", func(t *testing.T) {
		cover, err := CoverTo(mustBlocks(t, "10.0.0.0/8", "2001:db8::/32"), 1)
		require.NoError(t, err)
		// 无同族可合并对，结果保持 2 块。
		assert.Equal(t, []string{"10.0.0.0/8", "2001:db8::/32"}, cover.Strings())
	})

	t.Run("invalid target", func(t *testing.T) {
		_, err := CoverTo(mustBlocks(t, "10.0.0.0/8"), 0)
		require.ErrorIs(t, err, ErrInvalidTarget)
	})
}
