package runtime

import (
	"fmt"

	"github.com/eBu1171/winona-chat/domain"
	"github.com/eBu1171/winona-chat/errors"
)

// WaitQueue holds participants awaiting a match, one FIFO bucket per
// attribute value. A participant id appears in at most one bucket, at most
// once. WaitQueue is not safe for concurrent use by itself: the engine
// serializes access inside its critical section.
type WaitQueue struct {
	buckets map[domain.Attribute][]string
	index   map[string]domain.Attribute
}

func NewWaitQueue() *WaitQueue {
	return &WaitQueue{
		buckets: make(map[domain.Attribute][]string),
		index:   make(map[string]domain.Attribute),
	}
}

// Enqueue appends id to the bucket for value. Re-entry requires an explicit
// Remove first; a second slot for one connection is never allowed.
func (q *WaitQueue) Enqueue(id string, value domain.Attribute) error {
	if bucket, ok := q.index[id]; ok {
		return fmt.Errorf("%w: %s in bucket %q", errors.ErrAlreadyQueued, id, bucket)
	}
	q.buckets[value] = append(q.buckets[value], id)
	q.index[id] = value
	return nil
}

// Dequeue pops and returns the head of the bucket for value.
// This pop is the atomic linchpin of matching: once popped, the returned
// participant is assigned to exactly one session by the caller.
func (q *WaitQueue) Dequeue(value domain.Attribute) (string, bool) {
	bucket := q.buckets[value]
	if len(bucket) == 0 {
		return "", false
	}
	head := bucket[0]
	q.buckets[value] = bucket[1:]
	if len(q.buckets[value]) == 0 {
		delete(q.buckets, value)
	}
	delete(q.index, head)
	return head, true
}

// Remove deletes id from whichever bucket holds it, no-op if absent.
func (q *WaitQueue) Remove(id string) bool {
	value, ok := q.index[id]
	if !ok {
		return false
	}
	bucket := q.buckets[value]
	for i, queued := range bucket {
		if queued == id {
			q.buckets[value] = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}
	if len(q.buckets[value]) == 0 {
		delete(q.buckets, value)
	}
	delete(q.index, id)
	return true
}

// Contains reports whether id is queued in any bucket.
func (q *WaitQueue) Contains(id string) bool {
	_, ok := q.index[id]
	return ok
}

// Counts returns the current bucket sizes, keyed by attribute value.
func (q *WaitQueue) Counts() map[domain.Attribute]int {
	counts := make(map[domain.Attribute]int, len(q.buckets))
	for value, bucket := range q.buckets {
		counts[value] = len(bucket)
	}
	return counts
}

// Len returns the total number of waiting participants.
func (q *WaitQueue) Len() int {
	return len(q.index)
}
