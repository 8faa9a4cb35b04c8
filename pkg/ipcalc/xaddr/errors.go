package xaddr

import "errors"

// 预定义错误变量，支持 errors.Is 判断。
var (
	// ErrInvalidAddress 表示无效的 IP 地址文本（语法错误、
	// 八位组/hextet 越界、非法 "::" 用法等）。
	ErrInvalidAddress = errors.New("xaddr: invalid IP address")

	// ErrFamilyMismatch 表示地址族与调用方指定的族不一致。
	ErrFamilyMismatch = errors.New("xaddr: address family mismatch")

	// ErrInvalidFamily 表示无效的地址族。
	ErrInvalidFamily = errors.New("xaddr: invalid address family")

	// ErrOverflow 表示整数值超出目标地址族的位宽。
	ErrOverflow = errors.New("xaddr: value out of range for address family")
)
