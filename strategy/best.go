package strategy

import "container/heap"

// Compile time check to ensure BestFirst satisfies the Strategy interface.
var _ Strategy = (*BestFirst)(nil)

// Compile time check to ensure itemHeap satisfies the heap interface.
var _ heap.Interface = (*itemHeap)(nil)

// BestFirst expands the highest-scored frontier vertex next. Ties break in
// insertion order, so equal scores degrade to FIFO.
type BestFirst struct {
	h   itemHeap
	seq uint64
}

// NewBestFirst creates a best-first frontier.
func NewBestFirst() *BestFirst {
	return &BestFirst{}
}

// Enqueue adds a vertex keyed on item.Score.
func (s *BestFirst) Enqueue(item Item) {
	heap.Push(&s.h, scoredItem{item: item, seq: s.seq})
	s.seq++
}

// Next removes and returns the highest-scored vertex.
func (s *BestFirst) Next() (Item, bool) {
	if s.h.Len() == 0 {
		return Item{}, false
	}

	top, _ := heap.Pop(&s.h).(scoredItem)
	return top.item, true
}

// Len returns the number of vertices awaiting expansion.
func (s *BestFirst) Len() int {
	return s.h.Len()
}

type scoredItem struct {
	item Item
	seq  uint64
}

type itemHeap []scoredItem

func (h itemHeap) Len() int { return len(h) }

func (h itemHeap) Less(i, j int) bool {
	if h[i].item.Score != h[j].item.Score {
		return h[i].item.Score > h[j].item.Score
	}
	return h[i].seq < h[j].seq
}

func (h itemHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *itemHeap) Push(x any) {
	item, _ := x.(scoredItem)
	*h = append(*h, item)
}

func (h *itemHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = scoredItem{}
	*h = old[:n-1]

	return item
}
