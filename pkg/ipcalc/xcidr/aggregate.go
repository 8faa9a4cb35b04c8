package xcidr

import (
	"fmt"
	"math/big"
	"math/bits"
	"net/netip"
	"sort"

	"go4.org/netipx"

	"github.com/omeyang/ipkit/pkg/ipcalc/xaddr"
	"github.com/omeyang/ipkit/pkg/ipcalc/xrange"
)

// Cover 是聚合结果。
// OverCovers 为 true 表示结果覆盖了输入之外的地址（有损聚合），
// 下游渲染层应据此提示用户；兄弟合并（[Summarize]）恒为 false。
type Cover struct {
	Blocks     []netip.Prefix
	OverCovers bool
}

// Strings 返回结果块的规范字符串序列。
func (c Cover) Strings() []string {
	return FormatBlocks(c.Blocks)
}

// Summarize 把块清单做兄弟合并直到不动点。
// 前缀长度相同、仅在区分位上不同的相邻两块替换为锚定在低地址的
// 父块；被其他块完全包含的块丢弃。两个完整兄弟的并恰好是父块，
// 因此结果覆盖的地址集与输入完全一致（OverCovers 恒为 false）。
//
// 输入块必须对齐（宿主位为零），否则返回 [ErrNotNormalized]；
// 顺序不限，混合地址族允许（各族独立合并）。
func Summarize(blocks []netip.Prefix, opts ...Option) (Cover, error) {
	o := buildOptions(opts)
	if len(blocks) == 0 {
		return Cover{}, nil
	}
	if len(blocks) > o.MaxBlocks {
		return Cover{}, fmt.Errorf("%w: more than %d blocks", ErrTooFragmented, o.MaxBlocks)
	}
	norm, err := sortedBlocks(blocks)
	if err != nil {
		return Cover{}, err
	}

	// 单调栈扫描：新块先跳过被栈顶包含的，压栈后自底向上尝试兄弟合并。
	// 合并产生的父块可能与更早的块再次成为兄弟，循环直到栈顶稳定，
	// 一次扫描即达到不动点。
	stack := make([]netip.Prefix, 0, len(norm))
	for _, p := range norm {
		if n := len(stack); n > 0 && stack[n-1].Contains(p.Addr()) {
			continue
		}
		stack = append(stack, p)
		for len(stack) >= 2 {
			parent, ok := siblingParent(stack[len(stack)-2], stack[len(stack)-1])
			if !ok {
				break
			}
			stack = stack[:len(stack)-2]
			stack = append(stack, parent)
		}
	}
	return Cover{Blocks: stack}, nil
}

// siblingParent 判断 lower、upper 是否为同一父块的完整兄弟对，
// 是则返回父块。lower 必须是低地址一侧。
func siblingParent(lower, upper netip.Prefix) (netip.Prefix, bool) {
	if lower.Bits() != upper.Bits() || lower.Bits() == 0 {
		return netip.Prefix{}, false
	}
	// lower 必须落在父块的低半：父块网络地址与 lower 相同。
	parent := netip.PrefixFrom(lower.Addr(), lower.Bits()-1).Masked()
	if parent.Addr().Compare(lower.Addr()) != 0 {
		return netip.Prefix{}, false
	}
	// upper 必须恰好是紧随 lower 之后的高半兄弟。
	next := netipx.RangeOfPrefix(lower).To().Next()
	if !next.IsValid() || next.Compare(upper.Addr()) != 0 {
		return netip.Prefix{}, false
	}
	return parent, true
}

// CoverTo 把块清单有损聚合到不超过 target 个块。
// 先做精确的兄弟合并；仍超过 target 时，反复把公共父块最小的
// 同族相邻块对归并为父块（父块吞掉其覆盖的所有块），直到达标
// 或没有可合并的同族块对为止（如 target 小于出现的地址族数量，
// 结果可能仍超过 target）。
// OverCovers 按实际覆盖地址数与输入比较得出。
func CoverTo(blocks []netip.Prefix, target int, opts ...Option) (Cover, error) {
	if target < 1 {
		return Cover{}, fmt.Errorf("%w: %d", ErrInvalidTarget, target)
	}
	cover, err := Summarize(blocks, opts...)
	if err != nil {
		return Cover{}, err
	}
	before := coveredSize(cover.Blocks)

	work := cover.Blocks
	for len(work) > target {
		idx, parent := bestMergePair(work)
		if idx < 0 {
			break
		}
		work = absorb(work, idx, parent)
	}

	after := coveredSize(work)
	return Cover{Blocks: work, OverCovers: after.Cmp(before) > 0}, nil
}

// bestMergePair 在升序块清单里找公共父块最小（前缀最长）的同族
// 相邻块对，返回低块下标和父块；无可合并对时返回 (-1, 零值)。
func bestMergePair(blocks []netip.Prefix) (int, netip.Prefix) {
	bestIdx := -1
	bestBits := -1
	var bestParent netip.Prefix
	for i := 0; i+1 < len(blocks); i++ {
		a, b := blocks[i], blocks[i+1]
		if xaddr.FamilyOf(a.Addr()) != xaddr.FamilyOf(b.Addr()) {
			continue
		}
		pb := commonPrefixLen(a.Addr(), b.Addr())
		if pb > a.Bits() {
			pb = a.Bits()
		}
		if pb > b.Bits() {
			pb = b.Bits()
		}
		if pb > bestBits {
			bestBits = pb
			bestIdx = i
			bestParent = netip.PrefixFrom(a.Addr(), pb).Masked()
		}
	}
	return bestIdx, bestParent
}

// absorb 用 parent 替换从 idx 开始被其覆盖的连续块。
func absorb(blocks []netip.Prefix, idx int, parent netip.Prefix) []netip.Prefix {
	out := make([]netip.Prefix, 0, len(blocks))
	// parent 锚定在 blocks[idx]，向左不可能再覆盖（清单升序且互斥，
	// 但父块网络地址可能低于 blocks[idx]，所以左侧也要检查）。
	for _, p := range blocks {
		if parent.Contains(p.Addr()) {
			continue
		}
		out = append(out, p)
	}
	// 插入 parent 并保持升序。
	pos := sort.Search(len(out), func(i int) bool {
		return blockLess(parent, out[i])
	})
	out = append(out, netip.Prefix{})
	copy(out[pos+1:], out[pos:])
	out[pos] = parent
	return out
}

// commonPrefixLen 返回两个同族地址的公共前缀位数。
func commonPrefixLen(a, b netip.Addr) int {
	if a.Is4() {
		au, _ := xaddr.ToUint32(a)
		bu, _ := xaddr.ToUint32(b)
		return bits.LeadingZeros32(au ^ bu)
	}
	x := new(big.Int).Xor(xaddr.ToBigInt(a), xaddr.ToBigInt(b))
	return 128 - x.BitLen()
}

// coveredSize 返回块清单覆盖的地址总数（清单须互斥）。
func coveredSize(blocks []netip.Prefix) *big.Int {
	total := new(big.Int)
	one := big.NewInt(1)
	for _, p := range blocks {
		hostBits := uint(xaddr.FamilyOf(p.Addr()).Bits() - p.Bits())
		total.Add(total, new(big.Int).Lsh(one, hostBits))
	}
	return total
}

// sortedBlocks 校验对齐并返回排序副本：IPv4 在前，族内按网络地址
// 升序，地址相同时前缀短（块大）的在前，便于包含跳过。
func sortedBlocks(blocks []netip.Prefix) ([]netip.Prefix, error) {
	norm := make([]netip.Prefix, len(blocks))
	for i, p := range blocks {
		if !p.IsValid() || p.Addr().Is4In6() {
			return nil, fmt.Errorf("%w: block [%d] %s", ErrNotNormalized, i, p)
		}
		if p.Masked().Addr().Compare(p.Addr()) != 0 {
			return nil, fmt.Errorf("%w: block [%d] %s has host bits set", ErrNotNormalized, i, p)
		}
		norm[i] = p
	}
	sort.Slice(norm, func(i, j int) bool {
		return blockLess(norm[i], norm[j])
	})
	return norm, nil
}

// blockLess 是块清单的全序：IPv4 在前，网络地址升序，
// 地址相同时前缀短的在前。
func blockLess(a, b netip.Prefix) bool {
	fa, fb := xaddr.FamilyOf(a.Addr()), xaddr.FamilyOf(b.Addr())
	if fa != fb {
		return fa == xaddr.F4
	}
	if c := a.Addr().Compare(b.Addr()); c != 0 {
		return c < 0
	}
	return a.Bits() < b.Bits()
}

// SummarizeEntries 是汇总器的完整管线：解析输入行、归并范围、
// 精确分解、兄弟合并。任何一行解析失败整体失败。
func SummarizeEntries(lines []string, opts ...Option) (Cover, error) {
	ranges, err := xrange.ParseEntries(lines)
	if err != nil {
		return Cover{}, err
	}
	blocks, err := DecomposeAll(ranges, opts...)
	if err != nil {
		return Cover{}, err
	}
	return Summarize(blocks, opts...)
}
