package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBacklog_Peek_NonEmpty_ReturnsFront(t *testing.T) {
	// GIVEN a backlog with requests [A, B]
	b := &Backlog{}
	reqA := &CargoReq{ID: "A"}
	reqB := &CargoReq{ID: "B"}
	b.Enqueue(reqA)
	b.Enqueue(reqB)

	// WHEN Peek() is called
	got := b.Peek()

	// THEN it returns the front element without removing it
	if got != reqA {
		t.Errorf("Peek: got request %v, want %v", got.ID, reqA.ID)
	}
	if b.Len() != 2 {
		t.Errorf("Peek modified backlog length: got %d, want 2", b.Len())
	}
}

func TestBacklog_Peek_Empty_ReturnsNil(t *testing.T) {
	b := &Backlog{}
	if got := b.Peek(); got != nil {
		t.Errorf("Peek on empty backlog: got %v, want nil", got)
	}
}

func TestBacklog_Remove_PreservesOrder(t *testing.T) {
	// GIVEN a backlog [A, B, C]
	b := &Backlog{}
	reqA, reqB, reqC := &CargoReq{ID: "A"}, &CargoReq{ID: "B"}, &CargoReq{ID: "C"}
	b.Enqueue(reqA)
	b.Enqueue(reqB)
	b.Enqueue(reqC)

	// WHEN the middle request is removed
	removed := b.Remove(reqB)

	// THEN the others keep their order and a second removal reports false
	assert.True(t, removed)
	assert.Equal(t, []*CargoReq{reqA, reqC}, b.Items())
	assert.False(t, b.Remove(reqB))
}

func TestBacklog_Snapshot_IsIndependentCopy(t *testing.T) {
	// GIVEN a backlog with one request
	b := &Backlog{}
	req := &CargoReq{ID: "A"}
	b.Enqueue(req)

	// WHEN the snapshot is mutated
	snap := b.Snapshot()
	snap[0] = nil

	// THEN the backlog is unchanged
	assert.Equal(t, 1, b.Len())
	assert.Same(t, req, b.Peek())
}

func TestBacklog_Reorder_ChangingLength_Panics(t *testing.T) {
	b := &Backlog{}
	b.Enqueue(&CargoReq{ID: "A"})
	b.Enqueue(&CargoReq{ID: "B"})
	assert.Panics(t, func() {
		b.Reorder(func([]*CargoReq) {
			b.queue = b.queue[:1]
		})
	})
}

func TestBacklog_Reorder_NilFn_Panics(t *testing.T) {
	b := &Backlog{}
	assert.Panics(t, func() { b.Reorder(nil) })
}

func TestBacklog_String(t *testing.T) {
	b := &Backlog{}
	b.Enqueue(&CargoReq{ID: "x", Src: "A", Dst: "B", Weight: 10, Content: "helmet"})
	b.Enqueue(&CargoReq{ID: "y", Src: "C", Dst: "D", Weight: 5, prio: true})
	assert.Equal(t, "[helmet(A->B, 10) !y(C->D, 5)]", b.String())
}
