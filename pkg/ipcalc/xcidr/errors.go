package xcidr

import "errors"

// 预定义错误变量，支持 errors.Is 判断。
var (
	// ErrTooFragmented 表示分解或聚合产生的块数超过上限。
	ErrTooFragmented = errors.New("xcidr: range too fragmented, block ceiling exceeded")

	// ErrNotNormalized 表示输入块无效或未对齐到自身前缀长度。
	ErrNotNormalized = errors.New("xcidr: block list not normalized")

	// ErrInvalidTarget 表示 CoverTo 的目标块数不合法。
	ErrInvalidTarget = errors.New("xcidr: invalid target block count")
)
