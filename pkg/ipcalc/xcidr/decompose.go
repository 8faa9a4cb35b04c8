package xcidr

import (
	"fmt"
	"math/big"
	"math/bits"
	"net/netip"

	"go4.org/netipx"

	"github.com/omeyang/ipkit/pkg/ipcalc/xaddr"
	"github.com/omeyang/ipkit/pkg/ipcalc/xrange"
)

// Decompose 把闭区间范围精确分解为覆盖它的最少对齐 CIDR 块。
// 输出块按网络地址升序、互不重叠，其并恰等于 [r.From, r.To]。
// 无效范围返回 [xrange.ErrReversedRange]；
// 块数超限返回 [ErrTooFragmented]，不返回部分结果。
func Decompose(r netipx.IPRange, opts ...Option) ([]netip.Prefix, error) {
	o := buildOptions(opts)
	if !r.IsValid() {
		return nil, fmt.Errorf("%w: %s-%s", xrange.ErrReversedRange, r.From(), r.To())
	}
	return decomposeInto(nil, r, o.MaxBlocks)
}

// DecomposeAll 先按 [xrange.Merge] 归并再逐个范围分解。
// 所有范围共享同一个块数上限；任一范围无效则整体失败。
func DecomposeAll(ranges []netipx.IPRange, opts ...Option) ([]netip.Prefix, error) {
	o := buildOptions(opts)
	merged, err := xrange.Merge(ranges)
	if err != nil {
		return nil, err
	}
	var out []netip.Prefix
	for _, r := range merged {
		out, err = decomposeInto(out, r, o.MaxBlocks)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// decomposeInto 把 r 的分解结果追加到 out，受共享上限 max 约束。
func decomposeInto(out []netip.Prefix, r netipx.IPRange, max int) ([]netip.Prefix, error) {
	if xaddr.FamilyOf(r.From()) == xaddr.F4 {
		return decompose4(out, r, max)
	}
	return decompose6(out, r, max)
}

// decompose4 是 IPv4 快速路径：cursor 用 uint64 表示避免顶端回绕。
func decompose4(out []netip.Prefix, r netipx.IPRange, max int) ([]netip.Prefix, error) {
	start, _ := xaddr.ToUint32(r.From())
	end, _ := xaddr.ToUint32(r.To())
	cursor := uint64(start)
	last := uint64(end)

	for cursor <= last {
		// cursor 能锚定的最大块（尾随零位数，0 视为整个位宽）。
		align := bits.TrailingZeros64(cursor)
		if align > 32 {
			align = 32
		}
		// 不越过 end 还放得下的最大块。
		span := last - cursor + 1
		size := bits.Len64(span) - 1
		k := min(align, size)

		if len(out) >= max {
			return nil, fmt.Errorf("%w: more than %d blocks", ErrTooFragmented, max)
		}
		out = append(out, netip.PrefixFrom(xaddr.FromUint32(uint32(cursor)), 32-k))
		cursor += 1 << k
	}
	return out, nil
}

// decompose6 是 IPv6 路径，cursor 用 big.Int 运算。
func decompose6(out []netip.Prefix, r netipx.IPRange, max int) ([]netip.Prefix, error) {
	cursor := xaddr.ToBigInt(r.From())
	last := xaddr.ToBigInt(r.To())
	one := big.NewInt(1)

	for cursor.Cmp(last) <= 0 {
		align := 128
		if cursor.Sign() != 0 {
			if tz := int(cursor.TrailingZeroBits()); tz < align {
				align = tz
			}
		}
		span := new(big.Int).Sub(last, cursor)
		span.Add(span, one)
		size := span.BitLen() - 1
		k := min(align, size)

		if len(out) >= max {
			return nil, fmt.Errorf("%w: more than %d blocks", ErrTooFragmented, max)
		}
		addr, err := xaddr.FromBigInt(cursor, xaddr.F6)
		if err != nil {
			return nil, err
		}
		out = append(out, netip.PrefixFrom(addr, 128-k))
		cursor.Add(cursor, new(big.Int).Lsh(one, uint(k)))
	}
	return out, nil
}

// FormatBlocks 把块清单渲染为规范的 "<地址>/<前缀>" 字符串序列。
func FormatBlocks(blocks []netip.Prefix) []string {
	out := make([]string, len(blocks))
	for i, p := range blocks {
		out[i] = fmt.Sprintf("%s/%d", xaddr.Format(p.Addr()), p.Bits())
	}
	return out
}
