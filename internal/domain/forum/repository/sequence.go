package repository

import "sync/atomic"

// Sequence 单调递增的 ID 生成器，从 1 开始，并发安全
type Sequence struct {
	last atomic.Uint64
}

// Next 返回下一个 ID，永不重复
func (s *Sequence) Next() uint64 {
	return s.last.Add(1)
}

// Last 返回最近一次分配的 ID，尚未分配时为 0
func (s *Sequence) Last() uint64 {
	return s.last.Load()
}
