package xrange

import "errors"

// 预定义错误变量，支持 errors.Is 判断。
var (
	// ErrInvalidPrefix 表示前缀长度超出所属地址族的 [0, W] 区间。
	ErrInvalidPrefix = errors.New("xrange: invalid prefix length")

	// ErrMisaligned 表示网络地址的宿主位非零（块未对齐到自身大小）。
	ErrMisaligned = errors.New("xrange: network address not aligned to prefix length")

	// ErrReversedRange 表示显式范围的起点大于终点。
	ErrReversedRange = errors.New("xrange: range start exceeds end")

	// ErrInvalidEntry 表示输入行不符合任何已知文法。
	ErrInvalidEntry = errors.New("xrange: invalid input entry")
)
