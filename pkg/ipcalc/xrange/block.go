package xrange

import (
	"fmt"
	"net/netip"

	"go4.org/netipx"

	"github.com/omeyang/ipkit/pkg/ipcalc/xaddr"
)

// NewBlock 严格构造 CIDR 块。
// 前缀长度超出 [0, W] 返回 [ErrInvalidPrefix]；
// 网络地址的宿主位非零返回 [ErrMisaligned]，绝不静默取整 ——
// 需要取整语义的调用方（子网划分、清单对比）应使用 [NormalizeToNetwork]。
func NewBlock(addr netip.Addr, bits int) (netip.Prefix, error) {
	p, err := NormalizeToNetwork(addr, bits)
	if err != nil {
		return netip.Prefix{}, err
	}
	if p.Addr().Compare(addr.Unmap()) != 0 {
		return netip.Prefix{}, fmt.Errorf("%w: %s/%d (network is %s)",
			ErrMisaligned, xaddr.Format(addr), bits, xaddr.Format(p.Addr()))
	}
	return p, nil
}

// NormalizeToNetwork 构造 CIDR 块，宿主位非零时向下取整到网络地址。
// 这是文档化的取整行为，仅校验前缀长度范围。
func NormalizeToNetwork(addr netip.Addr, bits int) (netip.Prefix, error) {
	fam := xaddr.FamilyOf(addr)
	if fam == xaddr.F0 {
		return netip.Prefix{}, fmt.Errorf("%w: invalid address", xaddr.ErrInvalidAddress)
	}
	if bits < 0 || bits > fam.Bits() {
		return netip.Prefix{}, fmt.Errorf("%w: /%d for %s (valid 0..%d)",
			ErrInvalidPrefix, bits, fam, fam.Bits())
	}
	return netip.PrefixFrom(addr.Unmap(), bits).Masked(), nil
}

// BlockRange 把 CIDR 块无损转换为闭区间范围：
// 起点是网络地址，终点是块内最后一个地址。
// 无效前缀返回零值 IPRange。
func BlockRange(p netip.Prefix) netipx.IPRange {
	if !p.IsValid() {
		return netipx.IPRange{}
	}
	return netipx.RangeOfPrefix(p.Masked())
}

// SingleBlock 报告范围是否恰好对应单个 CIDR 块，是则返回该块。
// 不是每个范围都能表示为单个块；一般范围的分解见 xcidr 包。
func SingleBlock(r netipx.IPRange) (netip.Prefix, bool) {
	if !r.IsValid() {
		return netip.Prefix{}, false
	}
	return r.Prefix()
}
