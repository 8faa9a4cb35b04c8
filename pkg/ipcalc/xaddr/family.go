package xaddr

import "net/netip"

// Family 表示 IP 地址族。
// 地址族固定了下游所有运算的位宽 W（32 或 128）。
type Family uint8

const (
	// F0 表示无效或未知的地址族。
	F0 Family = 0
	// F4 表示 IPv4（W = 32）。
	F4 Family = 4
	// F6 表示 IPv6（W = 128）。
	F6 Family = 6
)

// String 返回地址族的字符串表示。
func (f Family) String() string {
	switch f {
	case F4:
		return "IPv4"
	case F6:
		return "IPv6"
	default:
		return "unknown"
	}
}

// Bits 返回地址族的位宽：IPv4 为 32，IPv6 为 128。
// 这也是该族合法前缀长度的上界（maxPrefixLength）。
// 无效地址族返回 0。
func (f Family) Bits() int {
	switch f {
	case F4:
		return 32
	case F6:
		return 128
	default:
		return 0
	}
}

// IsValid 报告 f 是否为合法地址族（F4 或 F6）。
func (f Family) IsValid() bool {
	return f == F4 || f == F6
}

// FamilyOf 返回 addr 的地址族。
// IPv4-mapped IPv6 地址（::ffff:a.b.c.d）视为 F4。
// 无效地址返回 F0。
func FamilyOf(addr netip.Addr) Family {
	if addr.Is4() || addr.Is4In6() {
		return F4
	}
	if addr.IsValid() {
		return F6
	}
	return F0
}
