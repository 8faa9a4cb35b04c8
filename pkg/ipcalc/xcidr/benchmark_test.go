package xcidr

import (
	"fmt"
	"testing"

	"github.com/omeyang/ipkit/pkg/ipcalc/xrange"
)

func BenchmarkDecomposeIPv4(b *testing.B) {
	r, err := xrange.ParseEntry("10.0.0.1-10.255.255.254")
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Decompose(r); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecomposeIPv6(b *testing.B) {
	r, err := xrange.ParseEntry("2001:db8::1-2001:db8:ffff:ffff:ffff:ffff:ffff:fffe")
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Decompose(r); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSummarize(b *testing.B) {
	// 1024 个可全部归并为一个 /22 块族的 /32。
	lines := make([]string, 0, 1024)
	for i := 0; i < 1024; i++ {
		lines = append(lines, fmt.Sprintf("10.0.%d.%d", i/256, i%256))
	}
	ranges, err := xrange.ParseEntries(lines)
	if err != nil {
		b.Fatal(err)
	}
	prefixes, err := DecomposeAll(ranges)
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Summarize(prefixes); err != nil {
			b.Fatal(err)
		}
	}
}
