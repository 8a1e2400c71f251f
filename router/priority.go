package router

import (
	"container/heap"
	"sync"
)

// Priority classes, highest first.
type Priority int

const (
	PriorityInteractive Priority = iota
	PriorityBatch
	PriorityBackground
)

// String returns the class name.
func (p Priority) String() string {
	switch p {
	case PriorityInteractive:
		return "interactive"
	case PriorityBatch:
		return "batch"
	case PriorityBackground:
		return "background"
	default:
		return "unknown"
	}
}

// Request is one queued unit of work.
type Request struct {
	ID       string
	Priority Priority
	Query    string

	seq uint64
}

// PriorityRouter orders pending requests by priority class, FIFO within a
// class. Safe for concurrent use.
type PriorityRouter struct {
	mu   sync.Mutex
	heap requestHeap
	seq  uint64
}

// NewPriorityRouter creates an empty queue.
func NewPriorityRouter() *PriorityRouter {
	return &PriorityRouter{}
}

// Enqueue adds a request to the queue.
func (r *PriorityRouter) Enqueue(request Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	request.seq = r.seq
	heap.Push(&r.heap, request)
}

// Next pops the highest-priority request, oldest first within a class.
// Returns false when the queue is empty.
func (r *PriorityRouter) Next() (Request, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.heap) == 0 {
		return Request{}, false
	}
	return heap.Pop(&r.heap).(Request), true
}

// Len returns the number of pending requests.
func (r *PriorityRouter) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.heap)
}

type requestHeap []Request

func (h requestHeap) Len() int { return len(h) }

func (h requestHeap) Less(i, j int) bool {
	if h[i].Priority != h[j].Priority {
		return h[i].Priority < h[j].Priority
	}
	return h[i].seq < h[j].seq
}

func (h requestHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *requestHeap) Push(x any) {
	*h = append(*h, x.(Request))
}

func (h *requestHeap) Pop() any {
	old := *h
	n := len(old)
	request := old[n-1]
	*h = old[:n-1]
	return request
}
