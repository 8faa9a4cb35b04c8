package xrange

import (
	"fmt"
	"net/netip"
	"strconv"
	"strings"

	"go4.org/netipx"

	"github.com/omeyang/ipkit/pkg/ipcalc/xaddr"
)

// ParseEntry 解析一个输入行为 IP 范围。
// 文法见包文档：单地址、CIDR、IPv4 掩码写法、显式范围。
// 地址族按语法推断，不做钉定。
func ParseEntry(s string) (netipx.IPRange, error) {
	return parseEntry(s, xaddr.F0)
}

// ParseEntryFamily 解析一个输入行，并要求条目属于指定地址族。
// 族不一致返回 [xaddr.ErrFamilyMismatch]。
func ParseEntryFamily(s string, fam xaddr.Family) (netipx.IPRange, error) {
	if !fam.IsValid() {
		return netipx.IPRange{}, fmt.Errorf("%w: %d", xaddr.ErrInvalidFamily, fam)
	}
	return parseEntry(s, fam)
}

// parseEntry 是解析核心。fam 为 F0 时表示不钉定地址族。
func parseEntry(s string, fam xaddr.Family) (netipx.IPRange, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return netipx.IPRange{}, fmt.Errorf("%w: empty entry", ErrInvalidEntry)
	}

	// 显式范围 "start-end"。zone 后缀可以合法包含 '-'
	// （如 "fe80::1%br-lan"），两侧都解析失败时回退到单地址分支。
	if idx := strings.Index(s, "-"); idx >= 0 && !strings.Contains(s, "/") {
		if r, err, handled := parseExplicitRange(s, idx, fam); handled {
			return r, err
		}
	}

	// CIDR "addr/bits" 或掩码写法 "addr/mask"（仅 IPv4）。
	if idx := strings.Index(s, "/"); idx >= 0 {
		addrPart := strings.TrimSpace(s[:idx])
		suffix := strings.TrimSpace(s[idx+1:])
		if strings.Contains(suffix, ".") {
			return parseMaskEntry(addrPart, suffix, fam)
		}
		return parseCIDREntry(addrPart, suffix, fam)
	}

	// 单地址：长度为一的范围。
	addr, err := parsePinned(s, fam)
	if err != nil {
		return netipx.IPRange{}, err
	}
	return netipx.IPRangeFrom(addr, addr), nil
}

// parsePinned 解析单个地址并套用可选的地址族钉定。
func parsePinned(s string, fam xaddr.Family) (netip.Addr, error) {
	if fam.IsValid() {
		return xaddr.ParseAddrFamily(s, fam)
	}
	return xaddr.ParseAddr(s)
}

// parseExplicitRange 尝试把 s 按位置 idx 的 '-' 拆成起止地址。
// handled 为 false 时调用方应回退到其他文法分支。
func parseExplicitRange(s string, idx int, fam xaddr.Family) (netipx.IPRange, error, bool) {
	startStr := strings.TrimSpace(s[:idx])
	endStr := strings.TrimSpace(s[idx+1:])
	start, startErr := parsePinned(startStr, fam)
	end, endErr := parsePinned(endStr, fam)

	switch {
	case startErr == nil && endErr == nil:
		if xaddr.FamilyOf(start) != xaddr.FamilyOf(end) {
			return netipx.IPRange{}, fmt.Errorf("%w: range %q spans %s and %s",
				xaddr.ErrFamilyMismatch, s, xaddr.FamilyOf(start), xaddr.FamilyOf(end)), true
		}
		if start.Compare(end) > 0 {
			return netipx.IPRange{}, fmt.Errorf("%w: %q", ErrReversedRange, s), true
		}
		return netipx.IPRangeFrom(start, end), nil, true

	case startErr == nil:
		// 起点可解析而终点不可，可能是 zone 含 '-' 的单地址，
		// 先尝试整体解析。
		if addr, err := parsePinned(s, fam); err == nil {
			return netipx.IPRangeFrom(addr, addr), nil, true
		}
		return netipx.IPRange{}, fmt.Errorf("invalid range end %q: %w", endStr, endErr), true

	case endErr == nil:
		return netipx.IPRange{}, fmt.Errorf("invalid range start %q: %w", startStr, startErr), true

	default:
		return netipx.IPRange{}, nil, false
	}
}

// parseCIDREntry 解析 "addr/bits" 形式。
// 宿主位按 [NormalizeToNetwork] 向下取整（文档化行为）。
func parseCIDREntry(addrStr, bitsStr string, fam xaddr.Family) (netipx.IPRange, error) {
	addr, err := parsePinned(addrStr, fam)
	if err != nil {
		return netipx.IPRange{}, err
	}
	bits, err := strconv.Atoi(bitsStr)
	if err != nil {
		return netipx.IPRange{}, fmt.Errorf("%w: prefix length %q", ErrInvalidPrefix, bitsStr)
	}
	p, err := NormalizeToNetwork(addr, bits)
	if err != nil {
		return netipx.IPRange{}, err
	}
	return BlockRange(p), nil
}

// parseMaskEntry 解析 IPv4 掩码写法 "addr/mask"，拒绝非连续掩码。
func parseMaskEntry(addrStr, maskStr string, fam xaddr.Family) (netipx.IPRange, error) {
	if fam == xaddr.F6 {
		return netipx.IPRange{}, fmt.Errorf("%w: mask notation is IPv4-only", xaddr.ErrFamilyMismatch)
	}
	addr, err := xaddr.ParseAddrFamily(addrStr, xaddr.F4)
	if err != nil {
		return netipx.IPRange{}, err
	}
	mask, err := xaddr.ParseAddrFamily(maskStr, xaddr.F4)
	if err != nil {
		return netipx.IPRange{}, err
	}

	addrU, _ := xaddr.ToUint32(addr)
	maskU, _ := xaddr.ToUint32(mask)

	// 合法掩码为前缀全 1 后缀全 0。
	inverted := ^maskU
	if inverted&(inverted+1) != 0 {
		return netipx.IPRange{}, fmt.Errorf("%w: non-contiguous mask %q", ErrInvalidEntry, maskStr)
	}

	start := addrU & maskU
	end := start | inverted
	return netipx.IPRangeFrom(xaddr.FromUint32(start), xaddr.FromUint32(end)), nil
}

// ParseEntries 解析多行输入。空行和纯空白行跳过。
// 任何一行解析失败都会携带行号和原文整体失败，不返回部分结果。
func ParseEntries(lines []string) ([]netipx.IPRange, error) {
	return parseEntries(lines, xaddr.F0)
}

// ParseEntriesFamily 解析多行输入并钉定地址族。
func ParseEntriesFamily(lines []string, fam xaddr.Family) ([]netipx.IPRange, error) {
	if !fam.IsValid() {
		return nil, fmt.Errorf("%w: %d", xaddr.ErrInvalidFamily, fam)
	}
	return parseEntries(lines, fam)
}

func parseEntries(lines []string, fam xaddr.Family) ([]netipx.IPRange, error) {
	out := make([]netipx.IPRange, 0, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		r, err := parseEntry(line, fam)
		if err != nil {
			return nil, fmt.Errorf("line %d %q: %w", i+1, strings.TrimSpace(line), err)
		}
		out = append(out, r)
	}
	return out, nil
}
