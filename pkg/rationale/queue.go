package rationale

import "slices"

// PermissionID identifies a runtime permission, e.g. "android.permission.CAMERA".
// The queue treats it as an opaque token.
type PermissionID string

// Queue is an ordered set of permissions waiting for a rationale dialog.
//
// Entries are kept in denial order without duplicates. The only mutations are
// append-if-absent (RecordResult with granted=false) and remove-front
// (DismissFront). Listeners registered with AddListener run after every
// mutation that changes the contents.
type Queue struct {
	pending   []PermissionID
	listeners []*queueListener
}

type queueListener struct {
	fn func()
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// RecordResult records the outcome of a permission request.
//
// A denial appends the permission to the back of the queue unless it is
// already present. A grant leaves the queue untouched, even when the
// permission is still queued from an earlier denial.
func (q *Queue) RecordResult(permission PermissionID, granted bool) {
	if granted || q.Contains(permission) {
		return
	}
	q.pending = append(q.pending, permission)
	q.notify()
}

// FrontToBack returns the queued permissions ordered from the most recently
// denied to the earliest denied. This is the order dialogs are stacked in:
// the last element is the one DismissFront removes.
//
// The returned slice is a copy and may be modified by the caller.
func (q *Queue) FrontToBack() []PermissionID {
	out := make([]PermissionID, len(q.pending))
	for i, p := range q.pending {
		out[len(q.pending)-1-i] = p
	}
	return out
}

// DismissFront removes the earliest queued permission.
// It is a no-op on an empty queue.
func (q *Queue) DismissFront() {
	_, _ = q.TryDismissFront()
}

// TryDismissFront removes and returns the earliest queued permission.
// It returns ErrEmptyQueue when nothing is queued.
func (q *Queue) TryDismissFront() (PermissionID, error) {
	if len(q.pending) == 0 {
		return "", ErrEmptyQueue
	}
	front := q.pending[0]
	q.pending[0] = ""
	q.pending = q.pending[1:]
	if len(q.pending) == 0 {
		q.pending = nil
	}
	q.notify()
	return front, nil
}

// Front returns the earliest queued permission without removing it.
func (q *Queue) Front() (PermissionID, bool) {
	if len(q.pending) == 0 {
		return "", false
	}
	return q.pending[0], true
}

// Len returns the number of queued permissions.
func (q *Queue) Len() int {
	return len(q.pending)
}

// Contains reports whether permission is queued.
func (q *Queue) Contains(permission PermissionID) bool {
	return slices.Contains(q.pending, permission)
}

// AddListener registers fn to run after each change to the queue.
// The returned function removes the listener; calling it more than once is safe.
func (q *Queue) AddListener(fn func()) (unsubscribe func()) {
	l := &queueListener{fn: fn}
	q.listeners = append(q.listeners, l)
	return func() {
		q.listeners = slices.DeleteFunc(q.listeners, func(other *queueListener) bool {
			return other == l
		})
	}
}

func (q *Queue) notify() {
	// Copy so listeners can unsubscribe while being notified.
	listeners := slices.Clone(q.listeners)
	for _, l := range listeners {
		if l.fn != nil {
			l.fn()
		}
	}
}
