// Package queue implements the work list of breadth-first traversals over grammar states.
package queue

// Queue is a FIFO of distinct items in range [0, limit).
// Each item can be queued at most once during queue lifetime, so a traversal never revisits a state.
type Queue struct {
	items []int
	head  int
	seen  []bool
}

// New creates a queue for items below limit, initially containing given items.
func New(limit int, items ...int) *Queue {
	q := &Queue{
		items: make([]int, 0, limit),
		seen:  make([]bool, limit),
	}
	for _, item := range items {
		q.Push(item)
	}
	return q
}

// Push queues item. Returns false if the item is out of range or was queued before.
func (q *Queue) Push(item int) bool {
	if item < 0 || item >= len(q.seen) || q.seen[item] {
		return false
	}

	q.seen[item] = true
	q.items = append(q.items, item)
	return true
}

// Pop removes and returns the first item; false if the queue is empty.
func (q *Queue) Pop() (int, bool) {
	if q.head == len(q.items) {
		return 0, false
	}

	item := q.items[q.head]
	q.head++
	return item, true
}

func (q *Queue) Len() int {
	return len(q.items) - q.head
}

func (q *Queue) IsEmpty() bool {
	return q.head == len(q.items)
}

// Seen reports whether item was ever queued.
func (q *Queue) Seen(item int) bool {
	return item >= 0 && item < len(q.seen) && q.seen[item]
}

// Unseen returns items never queued, in ascending order.
func (q *Queue) Unseen() []int {
	var result []int
	for item, s := range q.seen {
		if !s {
			result = append(result, item)
		}
	}
	return result
}
