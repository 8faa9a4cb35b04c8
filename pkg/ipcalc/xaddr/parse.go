package xaddr

import (
	"fmt"
	"net/netip"
	"strings"
)

// ParseAddr 解析单个 IP 地址文本。
// 接受 IPv4 点分十进制和 IPv6 冒号十六进制（含 "::" 压缩）两种形式。
//
// 解析结果做两步规范化：
//   - IPv6 zone 后缀（如 "fe80::1%eth0"）被接受并丢弃 —— 引擎的所有
//     运算都是纯地址算术，zone 对其无意义；
//   - IPv4-mapped IPv6 地址（::ffff:a.b.c.d）收窄为纯 IPv4，
//     保证同一地址只有一种内部表示。
//
// 越界的八位组/hextet、多于一处的 "::"、展开后位数不足等语法错误
// 统一返回包装了原始 token 的 [ErrInvalidAddress]。
func ParseAddr(s string) (netip.Addr, error) {
	s = strings.TrimSpace(s)
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	// zone 仅接受后丢弃；地址值本身不变。
	if addr.Zone() != "" {
		addr = addr.WithZone("")
	}
	if addr.Is4In6() {
		addr = addr.Unmap()
	}
	return addr, nil
}

// ParseAddrFamily 解析单个 IP 地址文本并校验其地址族。
// 族不一致返回 [ErrFamilyMismatch]，不做任何转换。
func ParseAddrFamily(s string, fam Family) (netip.Addr, error) {
	if !fam.IsValid() {
		return netip.Addr{}, fmt.Errorf("%w: %d", ErrInvalidFamily, fam)
	}
	addr, err := ParseAddr(s)
	if err != nil {
		return netip.Addr{}, err
	}
	if got := FamilyOf(addr); got != fam {
		return netip.Addr{}, fmt.Errorf("%w: %q is %s, want %s", ErrFamilyMismatch, strings.TrimSpace(s), got, fam)
	}
	return addr, nil
}

// Format 返回地址的规范文本形式。
// IPv4 输出点分十进制；IPv6 输出 RFC 5952 规范形式：
// 十六进制小写、hextet 无前导零、最长的连续全零段（长度 ≥ 2）
// 压缩为 "::"（并列时取最左），单个全零 hextet 不压缩。
// IPv4-mapped IPv6 地址按纯 IPv4 输出。
// 无效地址返回空字符串。
func Format(addr netip.Addr) string {
	if !addr.IsValid() {
		return ""
	}
	return addr.Unmap().WithZone("").String()
}
