// Package xaddr 提供 IP 地址的解析、规范化格式化和整数转换。
//
// xaddr 是 ipkit 计算引擎的叶子包：地址族判断、地址 ↔ 整数互转、
// 规范化文本输出，全部构建在标准库 [net/netip] 之上。
// 上层的范围归并（xrange）、CIDR 分解（xcidr）、子网划分（xsplit）
// 和网络清单对比（xdiff）都依赖本包的规范化语义。
//
// # 地址族
//
// [Family] 是显式的地址族标签（[F4] / [F6]），固定了下游所有运算的
// 位宽 W（32 或 128）。IPv4-mapped IPv6 地址（::ffff:a.b.c.d）在解析时
// 统一收窄为纯 IPv4，保证同一地址只有一种内部表示。
//
// # 规范化输出
//
// [Format] 输出 RFC 5952 规范形式：十六进制小写、hextet 无前导零、
// 最长的连续全零段（长度 ≥ 2）压缩为 "::"（并列时取最左），
// 单个全零 hextet 不压缩。引擎的所有组件都按此形式逐字节比较地址，
// 因此规范化是强制的，不是显示偏好。
//
// # 整数运算
//
// IPv4 走 uint32 快速路径（零分配），IPv6 走 [math/big] 路径。
// 所有地址算术都基于整数，不使用浮点。
//
// # 错误
//
// 所有可失败函数返回预定义错误变量（支持 errors.Is），
// 并通过 %w 包装携带出错的原始 token，绝不静默纠正输入。
package xaddr
