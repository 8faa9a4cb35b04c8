// Package xrange 提供 IP 范围与 CIDR 块的构造、行文法解析和范围归并。
//
// 范围使用 [go4.org/netipx] 的 [netipx.IPRange]，CIDR 块使用
// [netip.Prefix]，但本包对块施加比标准库更严格的约束：
// [NewBlock] 拒绝宿主位非零的网络地址（netip 本身接受），
// 只有 [NormalizeToNetwork] 才执行文档化的向下取整。
//
// # 行文法
//
// [ParseEntry] 接受计算引擎的输入行文法，每行一个条目：
//
//	<地址>                 单地址（起止相同的范围）
//	<地址>/<前缀长度>       CIDR（宿主位按 NormalizeToNetwork 取整）
//	<地址>/<点分掩码>       IPv4 掩码写法（扩展形式，掩码必须连续）
//	<地址1>-<地址2>         显式范围（地址1 > 地址2 拒绝）
//
// 地址族按语法逐行推断（含 ":" 即 IPv6），也可由调用方钉定。
// IPv6 zone 后缀接受并丢弃。
//
// # 归并
//
// [Merge] 把任意可能重叠的范围集合归并为每族一组升序、互不重叠、
// 相邻已合并的最小范围集：先按起点升序（起点相同按终点降序）排序，
// 再做一次线性扫描，把重叠或恰好相邻的范围折叠进当前范围。
// 不同地址族的范围分别归并，绝不混合。归并满足幂等性：
// Merge(Merge(x)) == Merge(x)。
//
// 所有函数都是纯函数，不持有任何跨调用状态。
package xrange
