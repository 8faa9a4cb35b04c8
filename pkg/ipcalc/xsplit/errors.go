package xsplit

import "errors"

// 预定义错误变量，支持 errors.Is 判断。
var (
	// ErrInvalidCount 表示请求的子网数小于 1。
	ErrInvalidCount = errors.New("xsplit: child count must be at least 1")

	// ErrInvalidPrefix 表示目标前缀长度不合法
	// （不长于父块前缀，或超出地址族位宽）。
	ErrInvalidPrefix = errors.New("xsplit: invalid target prefix length")

	// ErrAddressSpace 表示父块剩余位宽不足以容纳请求的划分。
	ErrAddressSpace = errors.New("xsplit: insufficient address space in parent")

	// ErrTooManyChildren 表示划分产生的子块数超过上限。
	ErrTooManyChildren = errors.New("xsplit: child ceiling exceeded")
)
