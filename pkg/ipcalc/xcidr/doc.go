// Package xcidr 提供范围到 CIDR 块的精确分解与块清单的聚合。
//
// # 分解
//
// [Decompose] 把任意闭区间范围分解为覆盖它的最少对齐 CIDR 块：
// 从 cursor = start 开始，每步取 min(cursor 的尾随零位数, 放得下的
// 最大块位数) 作为块大小，发射后前进，直到越过 end。贪心取最大
// 对齐块保证块数最少且覆盖精确（不多一个地址、不少一个地址）。
// IPv4 走 uint64 快速路径，IPv6 走 [math/big] 路径。
//
// 病态输入（接近每隔一个地址断开的 /0 范围）每个断点最多产生
// 2·W 个块，单个范围有界，但范围数量不受引擎控制，因此所有分解
// 入口共享一个块数上限（默认 100000，[WithMaxBlocks] 可调），
// 超限返回 [ErrTooFragmented] 而不是耗尽内存。
//
// # 聚合
//
// [Summarize] 对已分解的块清单做兄弟块合并到不动点：前缀长度相同、
// 网络地址仅在第 W-p 位不同的相邻两块替换为锚定在低地址的父块。
// 兄弟合并是精确的（两个完整兄弟的并恰好是父块），结果的
// [Cover].OverCovers 为 false。
//
// [CoverTo] 在此之上提供有损的"最小覆盖"模式：当块数仍超过目标时，
// 反复把公共父块最小的相邻块对归并为父块，以覆盖多余地址为代价
// 换取块数，多覆盖通过 OverCovers 标志显式暴露给调用方，绝不隐藏。
package xcidr
