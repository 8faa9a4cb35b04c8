// Package ipcalc 提供 IP 范围与 CIDR 代数相关的子包。
//
// 子包列表：
//   - xaddr: 地址编解码，IPv4/IPv6 规范化解析与格式化、整数互转
//   - xrange: 范围模型与归一化，条目文法解析、区间排序归并
//   - xcidr: 范围 → 最小精确 CIDR 块分解，兄弟块聚合与有损最小覆盖
//   - xsplit: 父块等分，按数量或目标前缀长度切分
//   - xdiff: 网络清单对比，逐条目规范化后求增删集
//
// 设计原则：
//   - 全部为纯函数，调用之间不保留任何状态
//   - IPv4 走 uint32 快路径，IPv6 走 big.Int，语义完全一致
//   - 失败即整体失败，不返回部分结果
package ipcalc
