package order

import "sync/atomic"

// Sequence источник id заказов, один на процесс
type Sequence struct {
	last atomic.Int64
}

func NewSequence(start int64) *Sequence {
	s := &Sequence{}
	s.last.Store(start)
	return s
}

// Next следующий id, строго больше всех выданных ранее
func (s *Sequence) Next() int64 {
	return s.last.Add(1)
}
