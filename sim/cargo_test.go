package sim

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCargoState_Constants_HaveExpectedStringValues(t *testing.T) {
	assert.Equal(t, CargoState("new"), CargoNew)
	assert.Equal(t, CargoState("pending"), CargoPending)
	assert.Equal(t, CargoState("loaded"), CargoLoaded)
	assert.Equal(t, CargoState("delivered"), CargoDelivered)
	assert.Equal(t, CargoState("discarded"), CargoDiscarded)
	assert.Equal(t, CargoState("rejected"), CargoRejected)
}

func TestNewCargoReq_Fields(t *testing.T) {
	// GIVEN required field values
	// WHEN NewCargoReq is called
	req := NewCargoReq("A", "B", 20, "helmet")

	// THEN fields are set, the ID is a UUID and controller-owned fields are unset
	assert.Equal(t, Station("A"), req.Src)
	assert.Equal(t, Station("B"), req.Dst)
	assert.Equal(t, 20.0, req.Weight)
	assert.Equal(t, "helmet", req.Content)
	_, err := uuid.Parse(req.ID)
	assert.NoError(t, err)
	assert.False(t, req.Prio())
	assert.Equal(t, CargoNew, req.State())
	assert.Equal(t, int64(-1), req.SubmittedAt())
	assert.Equal(t, int64(-1), req.EscalatedAt())
	assert.Equal(t, int64(-1), req.LoadedAt())
	assert.Equal(t, int64(-1), req.UnloadedAt())
}

func TestNewCargoReq_UniqueIDs(t *testing.T) {
	a := NewCargoReq("A", "B", 1, nil)
	b := NewCargoReq("A", "B", 1, nil)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestCargoReq_ZeroValue_IsNew(t *testing.T) {
	req := &CargoReq{Src: "A", Dst: "B", Weight: 1}
	assert.Equal(t, CargoNew, req.State())
}

func TestCargoReq_String(t *testing.T) {
	labelled := &CargoReq{ID: "id-1", Src: "A", Dst: "B", Weight: 20, Content: "helmet"}
	assert.Equal(t, "helmet(A->B, 20)", labelled.String())

	unlabelled := &CargoReq{ID: "id-2", Src: "C", Dst: "D", Weight: 2.5, prio: true}
	assert.Equal(t, "!id-2(C->D, 2.5)", unlabelled.String())
}
