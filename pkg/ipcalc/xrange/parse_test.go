package xrange

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/ipkit/pkg/ipcalc/xaddr"
)

func TestParseEntry(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantStart string
		wantEnd   string
		wantErr   error
	}{
		{
			name:      "single IPv4",
			input:     "192.168.1.1",
			wantStart: "192.168.1.1",
			wantEnd:   "192.168.1.1",
		},
		{
			name:      "single IPv6",
			input:     "2001:db8::1",
			wantStart: "2001:db8::1",
			wantEnd:   "2001:db8::1",
		},
		{
			name:      "IPv4 CIDR",
			input:     "192.168.1.0/24",
			wantStart: "192.168.1.0",
			wantEnd:   "192.168.1.255",
		},
		{
			name:      "CIDR with host bits rounds down",
			input:     "192.168.1.77/24",
			wantStart: "192.168.1.0",
			wantEnd:   "192.168.1.255",
		},
		{
			name:      "IPv6 CIDR",
			input:     "2001:db8::/32",
			wantStart: "2001:db8::",
			wantEnd:   "2001:db8:ffff:ffff:ffff:ffff:ffff:ffff",
		},
		{
			name:      "mask notation",
			input:     "192.168.1.0/255.255.255.0",
			wantStart: "192.168.1.0",
			wantEnd:   "192.168.1.255",
		},
		{
			name:      "explicit range",
			input:     "10.0.0.1-10.0.0.100",
			wantStart: "10.0.0.1",
			wantEnd:   "10.0.0.100",
		},
		{
			name:      "explicit range with spaces",
			input:     " 10.0.0.1 - 10.0.0.100 ",
			wantStart: "10.0.0.1",
			wantEnd:   "10.0.0.100",
		},
		{
			name:      "IPv6 explicit range",
			input:     "2001:db8::1-2001:db8::ff",
			wantStart: "2001:db8::1",
			wantEnd:   "2001:db8::ff",
		},
		{
			name:      "zone accepted and discarded",
			input:     "fe80::1%eth0",
			wantStart: "fe80::1",
			wantEnd:   "fe80::1",
		},
		{
			name:      "zone containing hyphen",
			input:     "fe80::1%br-lan",
			wantStart: "fe80::1",
			wantEnd:   "fe80::1",
		},
		{
			name:    "reversed range",
			input:   "10.0.0.100-10.0.0.1",
			wantErr: ErrReversedRange,
		},
		{
			name:    "range spans families",
			input:   "10.0.0.1-2001:db8::1",
			wantErr: xaddr.ErrFamilyMismatch,
		},
		{
			name:    "prefix too long",
			input:   "10.0.0.0/33",
			wantErr: ErrInvalidPrefix,
		},
		{
			name:    "negative prefix",
			input:   "10.0.0.0/-1",
			wantErr: ErrInvalidPrefix,
		},
		{
			name:    "junk prefix",
			input:   "10.0.0.0/abc",
			wantErr: ErrInvalidPrefix,
		},
		{
			name:    "non-contiguous mask",
			input:   "192.168.1.0/255.0.255.0",
			wantErr: ErrInvalidEntry,
		},
		{
			name:    "empty",
			input:   "   ",
			wantErr: ErrInvalidEntry,
		},
		{
			name:    "garbage",
			input:   "not-an-address",
			wantErr: xaddr.ErrInvalidAddress,
		},
		{
			name:    "bad range end",
			input:   "10.0.0.1-banana",
			wantErr: xaddr.ErrInvalidAddress,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParseEntry(tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, xaddr.Format(r.From()))
			assert.Equal(t, tt.wantEnd, xaddr.Format(r.To()))
		})
	}
}

func TestParseEntryFamily(t *testing.T) {
	t.Run("pinned family accepted", func(t *testing.T) {
		r, err := ParseEntryFamily("10.0.0.0/8", xaddr.F4)
		require.NoError(t, err)
		assert.Equal(t, "10.0.0.0", xaddr.Format(r.From()))
	})

	t.Run("pinned family rejected", func(t *testing.T) {
		_, err := ParseEntryFamily("2001:db8::/32", xaddr.F4)
		require.ErrorIs(t, err, xaddr.ErrFamilyMismatch)

		_, err = ParseEntryFamily("10.0.0.1-10.0.0.2", xaddr.F6)
		require.ErrorIs(t, err, xaddr.ErrFamilyMismatch)
	})

	t.Run("mask notation is IPv4-only", func(t *testing.T) {
		_, err := ParseEntryFamily("192.168.1.0/255.255.255.0", xaddr.F6)
		require.ErrorIs(t, err, xaddr.ErrFamilyMismatch)
	})

	t.Run("invalid pin", func(t *testing.T) {
		_, err := ParseEntryFamily("10.0.0.1", xaddr.F0)
		require.ErrorIs(t, err, xaddr.ErrInvalidFamily)
	})
}

func TestParseEntries(t *testing.T) {
	t.Run("all lines parsed, blanks skipped", func(t *testing.T) {
		ranges, err := ParseEntries([]string{
			"192.168.0.0/16",
			"",
			"  ",
			"10.0.0.1-10.0.0.5",
			"2001:db8::1",
		})
		require.NoError(t, err)
		assert.Len(t, ranges, 3)
	})

	t.Run("bad line aborts whole call with line number", func(t *testing.T) {
		_, err := ParseEntries([]string{
			"192.168.0.0/16",
			"512.0.0.1",
		})
		require.ErrorIs(t, err, xaddr.ErrInvalidAddress)
		assert.Contains(t, err.Error(), "line 2")
		assert.Contains(t, err.Error(), "512.0.0.1")
	})
}
