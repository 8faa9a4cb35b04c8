// Package xdiff 提供两份网络清单的差集对比。
//
// [Compare] 独立规范化两份清单（解析 → 逐条精确分解 → 规范块字符串，
// 重复项折叠为集合），再按规范字符串集合计算 added（仅在 B）、
// removed（仅在 A）、unchanged（两边都有）。
//
// 注意规范化是逐条目的：清单里的 "10.0.0.0/24" 和 "10.0.0.0/25"
// 是两个不同的条目，不会被跨条目归并 —— 对比的对象是网络清单，
// 不是地址集合。
//
// 任何一行解析失败，整个对比携带清单标识、行号和原文整体失败，
// 绝不返回部分结果。两份清单并发规范化（无共享状态），结果确定。
//
// 输出按网络地址升序排列，IPv4 在前；地址相同时更精确的
// （前缀更长的）块在前。
package xdiff
