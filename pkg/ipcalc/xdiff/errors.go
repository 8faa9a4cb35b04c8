package xdiff

import "errors"

// ErrBadLine 表示某份清单的某一行无法解析。
// 错误文本携带清单标识（A/B）、行号和原文。
var ErrBadLine = errors.New("xdiff: unparseable list line")
