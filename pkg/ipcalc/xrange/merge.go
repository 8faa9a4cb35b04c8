package xrange

import (
	"context"
	"fmt"
	"sort"

	"go4.org/netipx"
	"golang.org/x/sync/errgroup"

	"github.com/omeyang/ipkit/pkg/ipcalc/xaddr"
)

// Merge 把任意可能重叠的范围归并为最小的有序互斥范围集。
//
// 输入按地址族分组后各自归并，绝不跨族合并；输出 IPv4 范围在前、
// IPv6 范围在后，每族内按起点升序，且满足不变式：任意相邻两个范围
// r1、r2 之间至少隔着一个地址（重叠和恰好相邻都已折叠）。
//
// 含无效范围（起点大于终点、混合地址族、零值）时整体失败。
// 空输入返回 (nil, nil)。
func Merge(ranges []netipx.IPRange) ([]netipx.IPRange, error) {
	v4, v6, err := splitByFamily(ranges)
	if err != nil {
		return nil, err
	}
	if len(v4) == 0 && len(v6) == 0 {
		return nil, nil
	}
	out := mergeFamily(v4)
	return append(out, mergeFamily(v6)...), nil
}

// MergeParallel 与 [Merge] 结果完全一致，但两个地址族并发归并。
// 仅在族内范围数量很大时有收益；ctx 取消时尽快返回。
func MergeParallel(ctx context.Context, ranges []netipx.IPRange) ([]netipx.IPRange, error) {
	v4, v6, err := splitByFamily(ranges)
	if err != nil {
		return nil, err
	}
	if len(v4) == 0 && len(v6) == 0 {
		return nil, nil
	}

	var m4, m6 []netipx.IPRange
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		m4 = mergeFamily(v4)
		return nil
	})
	g.Go(func() error {
		m6 = mergeFamily(v6)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append(m4, m6...), nil
}

// splitByFamily 校验并按地址族分组。
func splitByFamily(ranges []netipx.IPRange) (v4, v6 []netipx.IPRange, err error) {
	for i, r := range ranges {
		if !r.IsValid() {
			return nil, nil, fmt.Errorf("%w: range [%d] %s-%s", ErrReversedRange, i, r.From(), r.To())
		}
		if xaddr.FamilyOf(r.From()) == xaddr.F4 {
			v4 = append(v4, r)
		} else {
			v6 = append(v6, r)
		}
	}
	return v4, v6, nil
}

// mergeFamily 对单一地址族做排序加线性扫描归并。
// 排序键：起点升序，起点相同时终点降序（完全包含后续范围的先处理）。
// 扫描时把起点不超过当前范围终点后继的范围折叠进当前范围。
func mergeFamily(ranges []netipx.IPRange) []netipx.IPRange {
	if len(ranges) == 0 {
		return nil
	}
	rs := make([]netipx.IPRange, len(ranges))
	copy(rs, ranges)
	sort.Slice(rs, func(i, j int) bool {
		if c := rs[i].From().Compare(rs[j].From()); c != 0 {
			return c < 0
		}
		return rs[i].To().Compare(rs[j].To()) > 0
	})

	out := make([]netipx.IPRange, 0, len(rs))
	running := rs[0]
	for _, r := range rs[1:] {
		// 终点后继无效说明 running 已到地址空间顶端，一切后续都折叠。
		next := running.To().Next()
		if !next.IsValid() || r.From().Compare(next) <= 0 {
			if r.To().Compare(running.To()) > 0 {
				running = netipx.IPRangeFrom(running.From(), r.To())
			}
			continue
		}
		out = append(out, running)
		running = r
	}
	return append(out, running)
}

// ToIPSet 把范围集合转换为 [*netipx.IPSet]，供已经使用 netipx
// 集合类型的调用方互操作。归并语义与 [Merge] 一致。
func ToIPSet(ranges []netipx.IPRange) (*netipx.IPSet, error) {
	var b netipx.IPSetBuilder
	for i, r := range ranges {
		if !r.IsValid() {
			return nil, fmt.Errorf("%w: range [%d] %s-%s", ErrReversedRange, i, r.From(), r.To())
		}
		b.AddRange(r)
	}
	set, err := b.IPSet()
	if err != nil {
		return nil, fmt.Errorf("build IPSet: %w", err)
	}
	return set, nil
}
