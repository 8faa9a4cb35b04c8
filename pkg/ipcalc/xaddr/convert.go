package xaddr

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"net/netip"
)

// FromUint32 从 uint32 值（网络字节序）构造 IPv4 地址。
func FromUint32(v uint32) netip.Addr {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return netip.AddrFrom4(b)
}

// ToUint32 将 IPv4 地址转换为 uint32（网络字节序）。
// 非 IPv4 地址返回 (0, false)。
func ToUint32(addr netip.Addr) (uint32, bool) {
	if !addr.Is4() && !addr.Is4In6() {
		return 0, false
	}
	b := addr.Unmap().As4()
	return binary.BigEndian.Uint32(b[:]), true
}

// FromBigInt 从非负整数值构造指定地址族的地址。
// 值超出地址族位宽（v ≥ 2^W）或为负数时返回 [ErrOverflow]。
func FromBigInt(v *big.Int, fam Family) (netip.Addr, error) {
	if v == nil || v.Sign() < 0 {
		return netip.Addr{}, fmt.Errorf("%w: negative or nil value", ErrOverflow)
	}
	switch fam {
	case F4:
		if v.BitLen() > 32 {
			return netip.Addr{}, fmt.Errorf("%w: %s exceeds 32 bits", ErrOverflow, v)
		}
		var b [4]byte
		raw := v.Bytes()
		copy(b[4-len(raw):], raw)
		return netip.AddrFrom4(b), nil
	case F6:
		if v.BitLen() > 128 {
			return netip.Addr{}, fmt.Errorf("%w: %s exceeds 128 bits", ErrOverflow, v)
		}
		var b [16]byte
		raw := v.Bytes()
		copy(b[16-len(raw):], raw)
		return netip.AddrFrom16(b), nil
	default:
		return netip.Addr{}, fmt.Errorf("%w: %d", ErrInvalidFamily, fam)
	}
}

// ToBigInt 将地址转换为非负整数值。
// IPv4 地址映射到 [0, 2^32)，IPv6 地址映射到 [0, 2^128)。
// 无效地址返回零值 big.Int。
func ToBigInt(addr netip.Addr) *big.Int {
	if !addr.IsValid() {
		return new(big.Int)
	}
	if addr.Is4() || addr.Is4In6() {
		v, _ := ToUint32(addr)
		return new(big.Int).SetUint64(uint64(v))
	}
	b := addr.As16()
	return new(big.Int).SetBytes(b[:])
}

// Distance 返回闭区间 [from, to] 包含的地址数量（to - from + 1）。
// 两个地址必须同族且 from <= to，否则返回 nil。
func Distance(from, to netip.Addr) *big.Int {
	if FamilyOf(from) == F0 || FamilyOf(from) != FamilyOf(to) || from.Compare(to) > 0 {
		return nil
	}
	size := new(big.Int).Sub(ToBigInt(to), ToBigInt(from))
	return size.Add(size, big.NewInt(1))
}
