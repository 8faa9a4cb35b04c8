package xcidr

// DefaultMaxBlocks 是分解与聚合共用的默认块数上限。
const DefaultMaxBlocks = 100_000

// Options 定义分解与聚合的可调参数。
type Options struct {
	// MaxBlocks 块数上限，超过时返回 [ErrTooFragmented]。
	// 非正数时使用 [DefaultMaxBlocks]。
	MaxBlocks int
}

// Option 定义选项函数类型。
type Option func(*Options)

// WithMaxBlocks 设置块数上限。
func WithMaxBlocks(n int) Option {
	return func(o *Options) {
		o.MaxBlocks = n
	}
}

func buildOptions(opts []Option) *Options {
	o := &Options{MaxBlocks: DefaultMaxBlocks}
	for _, opt := range opts {
		opt(o)
	}
	if o.MaxBlocks <= 0 {
		o.MaxBlocks = DefaultMaxBlocks
	}
	return o
}
