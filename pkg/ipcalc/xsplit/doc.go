// Package xsplit 提供 CIDR 块的等分划分。
//
// [ByCount] 按目标子网数划分：childBits = ceil(log2(n))，发射全部
// 2^childBits 个连续子块，因此实际分配的子网数是不小于 n 的最小
// 二的幂。划分恒为精确分区（子块互斥、并恰为父块）；
// [Split].Utilization 度量的是请求数与分配数之比
// （n / 2^childBits x 100），而非地址覆盖率 —— 覆盖率按构造恒为 100%。
//
// [ByPrefix] 按目标前缀长度划分，发射全部 2^(target-parent) 个子块。
//
// 两个入口都对子块数量设上限（默认 65536，[WithMaxChildren] 可调），
// 避免一次调用物化出天文数字的切片；宿主位非零的父块按
// [xrange.NormalizeToNetwork] 的文档化语义向下取整。
package xsplit
