package strategy

// Compile time check to ensure BreadthFirst satisfies the Strategy interface.
var _ Strategy = (*BreadthFirst)(nil)

// bfsEntry is one queue slot. Boundary entries separate frontier depths: a
// boundary signals that every vertex at the current depth has been enqueued
// and the next dequeue moves one level deeper.
type bfsEntry struct {
	item     Item
	boundary bool
}

// BreadthFirst expands the frontier in FIFO order, one depth level at a
// time. Dequeued items are stamped with the depth derived from the boundary
// markers, so enqueuers need not track depth themselves.
type BreadthFirst struct {
	depth int
	count int
	queue []bfsEntry
}

// NewBreadthFirst creates a breadth-first frontier. The queue starts with a
// single boundary and depth -1, so the first dequeue lands on depth 0.
func NewBreadthFirst() *BreadthFirst {
	return &BreadthFirst{
		depth: -1,
		queue: []bfsEntry{{boundary: true}},
	}
}

// Enqueue pushes a vertex onto the back of the queue.
func (s *BreadthFirst) Enqueue(item Item) {
	s.queue = append(s.queue, bfsEntry{item: item})
	s.count++
}

// Next pops from the front of the queue. Popping a boundary advances the
// depth and pushes a fresh boundary at the tail, unless the queue is now
// empty, which means the search space is exhausted.
func (s *BreadthFirst) Next() (Item, bool) {
	for len(s.queue) > 0 {
		head := s.queue[0]
		s.queue[0] = bfsEntry{}
		s.queue = s.queue[1:]

		if !head.boundary {
			s.count--
			head.item.Depth = s.depth
			return head.item, true
		}

		if len(s.queue) == 0 {
			return Item{}, false
		}

		s.depth++
		s.queue = append(s.queue, bfsEntry{boundary: true})
	}

	return Item{}, false
}

// Len returns the number of vertices awaiting expansion.
func (s *BreadthFirst) Len() int {
	return s.count
}

// Depth returns the depth level currently being expanded.
func (s *BreadthFirst) Depth() int {
	return s.depth
}
