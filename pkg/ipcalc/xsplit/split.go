package xsplit

import (
	"fmt"
	"math/big"
	"math/bits"
	"net/netip"

	"github.com/omeyang/ipkit/pkg/ipcalc/xaddr"
	"github.com/omeyang/ipkit/pkg/ipcalc/xrange"
)

// DefaultMaxChildren 是单次划分允许物化的默认子块数上限。
const DefaultMaxChildren = 65536

// Options 定义划分的可调参数。
type Options struct {
	// MaxChildren 子块数上限，超过时返回 [ErrTooManyChildren]。
	// 非正数时使用 [DefaultMaxChildren]。
	MaxChildren int
}

// Option 定义选项函数类型。
type Option func(*Options)

// WithMaxChildren 设置子块数上限。
func WithMaxChildren(n int) Option {
	return func(o *Options) {
		o.MaxChildren = n
	}
}

func buildOptions(opts []Option) *Options {
	o := &Options{MaxChildren: DefaultMaxChildren}
	for _, opt := range opts {
		opt(o)
	}
	if o.MaxChildren <= 0 {
		o.MaxChildren = DefaultMaxChildren
	}
	return o
}

// Split 是划分结果。
type Split struct {
	// Parent 是取整后的父块。
	Parent netip.Prefix
	// Children 是全部子块，按网络地址升序。
	Children []netip.Prefix
	// Requested 是调用方请求的子网数（ByPrefix 时等于 len(Children)）。
	Requested int
	// Utilization 是请求数与实际分配数之比（百分数）。
	// 地址覆盖率按构造恒为 100%，该字段度量的是 2 的幂取整损耗。
	Utilization float64
}

// ByCount 把父块划分为至少 n 个等大的子块。
// 实际发射 2^ceil(log2(n)) 个子块。n < 1 返回 [ErrInvalidCount]；
// 剩余位宽不足返回 [ErrAddressSpace]。
func ByCount(parent netip.Prefix, n int, opts ...Option) (Split, error) {
	o := buildOptions(opts)
	parent, fam, err := normalizeParent(parent)
	if err != nil {
		return Split{}, err
	}
	if n < 1 {
		return Split{}, fmt.Errorf("%w: %d", ErrInvalidCount, n)
	}

	childBits := bits.Len(uint(n - 1)) // ceil(log2(n))，n=1 时为 0
	target := parent.Bits() + childBits
	if target > fam.Bits() {
		return Split{}, fmt.Errorf("%w: %s into %d children needs /%d",
			ErrAddressSpace, parent, n, target)
	}

	children, err := emitChildren(parent, fam, target, o.MaxChildren)
	if err != nil {
		return Split{}, err
	}
	return Split{
		Parent:      parent,
		Children:    children,
		Requested:   n,
		Utilization: float64(n) / float64(len(children)) * 100,
	}, nil
}

// ByPrefix 把父块划分为目标前缀长度的全部子块。
// target 必须严格长于父块前缀且不超过地址族位宽，
// 否则返回 [ErrInvalidPrefix]。
func ByPrefix(parent netip.Prefix, target int, opts ...Option) (Split, error) {
	o := buildOptions(opts)
	parent, fam, err := normalizeParent(parent)
	if err != nil {
		return Split{}, err
	}
	if target <= parent.Bits() || target > fam.Bits() {
		return Split{}, fmt.Errorf("%w: /%d for parent %s (valid %d..%d)",
			ErrInvalidPrefix, target, parent, parent.Bits()+1, fam.Bits())
	}

	children, err := emitChildren(parent, fam, target, o.MaxChildren)
	if err != nil {
		return Split{}, err
	}
	return Split{
		Parent:      parent,
		Children:    children,
		Requested:   len(children),
		Utilization: 100,
	}, nil
}

// normalizeParent 校验并按文档化语义取整父块。
func normalizeParent(parent netip.Prefix) (netip.Prefix, xaddr.Family, error) {
	if !parent.IsValid() {
		return netip.Prefix{}, xaddr.F0, fmt.Errorf("%w: invalid parent prefix", xaddr.ErrInvalidAddress)
	}
	p, err := xrange.NormalizeToNetwork(parent.Addr(), parent.Bits())
	if err != nil {
		return netip.Prefix{}, xaddr.F0, err
	}
	return p, xaddr.FamilyOf(p.Addr()), nil
}

// emitChildren 物化 [parent 内全部 target 前缀子块]，升序。
func emitChildren(parent netip.Prefix, fam xaddr.Family, target, max int) ([]netip.Prefix, error) {
	diff := target - parent.Bits()
	// diff 不超过 128；先用位宽判断再物化，避免 1<<diff 溢出。
	if diff >= 63 || (1<<diff) > max {
		return nil, fmt.Errorf("%w: 2^%d children, limit %d", ErrTooManyChildren, diff, max)
	}
	count := 1 << diff

	if fam == xaddr.F4 {
		base, _ := xaddr.ToUint32(parent.Addr())
		step := uint64(1) << (32 - target)
		children := make([]netip.Prefix, count)
		cursor := uint64(base)
		for i := range children {
			children[i] = netip.PrefixFrom(xaddr.FromUint32(uint32(cursor)), target)
			cursor += step
		}
		return children, nil
	}

	cursor := xaddr.ToBigInt(parent.Addr())
	step := new(big.Int).Lsh(big.NewInt(1), uint(128-target))
	children := make([]netip.Prefix, count)
	for i := range children {
		addr, err := xaddr.FromBigInt(cursor, xaddr.F6)
		if err != nil {
			return nil, err
		}
		children[i] = netip.PrefixFrom(addr, target)
		cursor = new(big.Int).Add(cursor, step)
	}
	return children, nil
}
