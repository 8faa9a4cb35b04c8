package xdiff

import (
	"context"
	"fmt"
	"net/netip"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/omeyang/ipkit/pkg/ipcalc/xaddr"
	"github.com/omeyang/ipkit/pkg/ipcalc/xcidr"
	"github.com/omeyang/ipkit/pkg/ipcalc/xrange"
)

// Result 是清单对比结果，三个序列都是规范块字符串，
// 按网络地址升序（IPv4 在前，地址相同时前缀长的在前）。
type Result struct {
	// Added 仅出现在清单 B 的块。
	Added []string
	// Removed 仅出现在清单 A 的块。
	Removed []string
	// Unchanged 两份清单都有的块。
	Unchanged []string
}

// Compare 对比两份网络清单。
// 每行文法同 [xrange.ParseEntry]；空行跳过。任何一行解析失败，
// 整体返回包装了 [ErrBadLine] 的错误并标明清单和行号。
// 两份清单并发规范化，结果与串行完全一致。
func Compare(listA, listB []string, opts ...xcidr.Option) (Result, error) {
	var setA, setB map[netip.Prefix]struct{}

	g, _ := errgroup.WithContext(context.Background())
	g.Go(func() error {
		var err error
		setA, err = canonicalSet("A", listA, opts)
		return err
	})
	g.Go(func() error {
		var err error
		setB, err = canonicalSet("B", listB, opts)
		return err
	})
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	var added, removed, unchanged []netip.Prefix
	for p := range setB {
		if _, ok := setA[p]; ok {
			unchanged = append(unchanged, p)
		} else {
			added = append(added, p)
		}
	}
	for p := range setA {
		if _, ok := setB[p]; !ok {
			removed = append(removed, p)
		}
	}

	return Result{
		Added:     render(added),
		Removed:   render(removed),
		Unchanged: render(unchanged),
	}, nil
}

// canonicalSet 把一份清单规范化为块集合。
// 规范化逐条目进行：每行独立分解为精确块，不跨条目归并，
// 仅折叠完全相同的规范块。
func canonicalSet(tag string, lines []string, opts []xcidr.Option) (map[netip.Prefix]struct{}, error) {
	set := make(map[netip.Prefix]struct{}, len(lines))
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		r, err := xrange.ParseEntry(trimmed)
		if err != nil {
			return nil, fmt.Errorf("%w: list %s line %d %q: %w", ErrBadLine, tag, i+1, trimmed, err)
		}
		blocks, err := xcidr.Decompose(r, opts...)
		if err != nil {
			return nil, fmt.Errorf("list %s line %d %q: %w", tag, i+1, trimmed, err)
		}
		for _, p := range blocks {
			set[p] = struct{}{}
		}
	}
	return set, nil
}

// render 排序并渲染为规范字符串。
func render(blocks []netip.Prefix) []string {
	sort.Slice(blocks, func(i, j int) bool {
		a, b := blocks[i], blocks[j]
		fa, fb := xaddr.FamilyOf(a.Addr()), xaddr.FamilyOf(b.Addr())
		if fa != fb {
			return fa == xaddr.F4
		}
		if c := a.Addr().Compare(b.Addr()); c != 0 {
			return c < 0
		}
		// 地址相同时更精确的块在前。
		return a.Bits() > b.Bits()
	})
	out := make([]string, len(blocks))
	for i, p := range blocks {
		out[i] = fmt.Sprintf("%s/%d", xaddr.Format(p.Addr()), p.Bits())
	}
	return out
}
