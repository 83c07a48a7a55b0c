package rationale

import (
	"slices"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// queueOp is one generated call against the queue: a permission result, or a
// dismissal when dismiss is set.
type queueOp struct {
	permission PermissionID
	granted    bool
	dismiss    bool
}

func genQueueOp() gopter.Gen {
	return gopter.CombineGens(
		gen.OneConstOf(
			PermissionCamera, PermissionRecordAudio, PermissionCallPhone,
			PermissionReadContacts, PermissionReadMediaImages, PermissionID("UNKNOWN"),
		),
		gen.Bool(),
		gen.IntRange(0, 4),
	).Map(func(values []any) queueOp {
		return queueOp{
			permission: values[0].(PermissionID),
			granted:    values[1].(bool),
			dismiss:    values[2].(int) == 0,
		}
	})
}

// model is a reference implementation tracking insertion order.
type model struct {
	order []PermissionID
}

func (m *model) apply(op queueOp) {
	switch {
	case op.dismiss:
		if len(m.order) > 0 {
			m.order = m.order[1:]
		}
	case !op.granted && !slices.Contains(m.order, op.permission):
		m.order = append(m.order, op.permission)
	}
}

func apply(q *Queue, op queueOp) {
	if op.dismiss {
		q.DismissFront()
		return
	}
	q.RecordResult(op.permission, op.granted)
}

func TestQueueProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("never holds duplicates", prop.ForAll(
		func(ops []queueOp) bool {
			q := NewQueue()
			for _, op := range ops {
				apply(q, op)
				seen := make(map[PermissionID]bool)
				for _, p := range q.FrontToBack() {
					if seen[p] {
						return false
					}
					seen[p] = true
				}
			}
			return true
		},
		gen.SliceOf(genQueueOp()),
	))

	properties.Property("matches FIFO model", prop.ForAll(
		func(ops []queueOp) bool {
			q := NewQueue()
			m := &model{}
			for _, op := range ops {
				apply(q, op)
				m.apply(op)
				want := slices.Clone(m.order)
				slices.Reverse(want)
				if !slices.Equal(q.FrontToBack(), want) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(genQueueOp()),
	))

	properties.Property("granting never changes membership", prop.ForAll(
		func(ops []queueOp, p PermissionID) bool {
			q := NewQueue()
			for _, op := range ops {
				apply(q, op)
			}
			before := q.FrontToBack()
			q.RecordResult(p, true)
			return slices.Equal(before, q.FrontToBack())
		},
		gen.SliceOf(genQueueOp()),
		gen.OneConstOf(PermissionCamera, PermissionRecordAudio, PermissionID("UNKNOWN")),
	))

	properties.Property("denied absent permission becomes the logical back", prop.ForAll(
		func(ops []queueOp) bool {
			q := NewQueue()
			for _, op := range ops {
				apply(q, op)
			}
			const fresh PermissionID = "FRESH"
			q.RecordResult(fresh, false)
			return q.FrontToBack()[0] == fresh
		},
		gen.SliceOf(genQueueOp()),
	))

	properties.Property("dismiss removes the earliest inserted entry", prop.ForAll(
		func(ops []queueOp) bool {
			q := NewQueue()
			for _, op := range ops {
				apply(q, op)
			}
			front, ok := q.Front()
			if !ok {
				return true
			}
			before := q.FrontToBack()
			q.DismissFront()
			after := q.FrontToBack()
			return !q.Contains(front) &&
				before[len(before)-1] == front &&
				slices.Equal(before[:len(before)-1], after)
		},
		gen.SliceOf(genQueueOp()),
	))

	properties.Property("FrontToBack is a pure read", prop.ForAll(
		func(ops []queueOp) bool {
			q := NewQueue()
			for _, op := range ops {
				apply(q, op)
			}
			return slices.Equal(q.FrontToBack(), q.FrontToBack())
		},
		gen.SliceOf(genQueueOp()),
	))

	properties.TestingRun(t)
}
