package light

import (
	"encoding/binary"
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/renderertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCollection(t *testing.T) (*renderertest.Recorder, Collection) {
	t.Helper()
	rec := renderertest.New()
	c, err := NewCollection(rec, "lights")
	require.NoError(t, err)
	return rec, c
}

func pointAt(x float32) Record {
	r := NewRecord()
	r.Position = common.Vec3{x, 0, 0}
	return r
}

func TestRecordMarshalLayout(t *testing.T) {
	r := NewRecord()
	r.Position = common.Vec3{1, 2, 3}
	r.Direction = common.Vec3{4, 5, 6}
	r.Type = LightTypeSpot
	r.Cutoff = 0.5
	r.assign(7)

	buf := r.Marshal()

	require.Len(t, buf, RecordSize)
	floats := renderertest.DecodeFloats(buf)
	assert.Equal(t, []float32{1, 2, 3, 0}, floats[0:4])
	assert.Equal(t, []float32{4, 5, 6, 0}, floats[4:8])
	assert.Equal(t, []float32{0, 0.1, 0.02, 0}, floats[8:12])
	assert.Equal(t, []float32{1, 1, 1, 1}, floats[12:16])
	assert.Equal(t, uint32(LightTypeSpot), binary.LittleEndian.Uint32(buf[64:]))
	assert.Equal(t, float32(0.5), floats[17])
	assert.Equal(t, uint32(7), binary.LittleEndian.Uint32(buf[72:]))
}

func TestUnassignedRecordIDPanics(t *testing.T) {
	r := NewRecord()
	assert.False(t, r.Assigned())
	assert.Panics(t, func() { r.ID() })
}

func TestEmptyCollectionKeepsPlaceholder(t *testing.T) {
	rec, c := newTestCollection(t)

	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0, c.MirrorLen())
	assert.Equal(t, uint64(RecordSize), rec.BufferSize(c.Buffer()))
}

func TestRemoveMiddleKeepsIDs(t *testing.T) {
	rec, c := newTestCollection(t)
	a := c.AddLight(pointAt(1))
	b := c.AddLight(pointAt(2))
	d := c.AddLight(pointAt(3))

	c.RemoveLight(b)

	require.Equal(t, 2, c.Len())
	assert.Equal(t, 2, c.MirrorLen())
	assert.Equal(t, uint64(2*RecordSize), rec.BufferSize(c.Buffer()))
	lights := c.Lights()
	assert.Equal(t, a, lights[0].ID())
	assert.Equal(t, d, lights[1].ID())
	assert.Equal(t, float32(3), c.GetLight(d).Position[0])
	assert.Panics(t, func() { c.GetLight(b) })
	assert.Panics(t, func() { c.RemoveLight(b) })
}

func TestIDsAreNeverReused(t *testing.T) {
	_, c := newTestCollection(t)
	a := c.AddLight(pointAt(1))
	c.RemoveLight(a)

	b := c.AddLight(pointAt(2))

	assert.NotEqual(t, a, b)
	assert.False(t, c.Has(a))
	assert.True(t, c.Has(b))
}

func TestGetLightReturnsAddedRecord(t *testing.T) {
	_, c := newTestCollection(t)
	r := pointAt(4)
	r.Color = common.Vec4{1, 0, 0, 1}

	id := c.AddLight(r)
	got := c.GetLight(id)

	assert.Equal(t, r.Position, got.Position)
	assert.Equal(t, r.Color, got.Color)
	assert.Equal(t, id, got.ID())
}

func TestUpdateLightWritesOnlyThatRecord(t *testing.T) {
	rec, c := newTestCollection(t)
	c.AddLight(pointAt(1))
	id := c.AddLight(pointAt(2))
	creates := rec.BufferCreates
	buf := c.Buffer()

	c.GetLight(id).Position = common.Vec3{9, 9, 9}
	c.UpdateLight(id)

	assert.Equal(t, creates, rec.BufferCreates)
	assert.Equal(t, buf, c.Buffer())
	last := rec.BufferWrites[len(rec.BufferWrites)-1]
	assert.Equal(t, renderertest.BufferWrite{ID: buf, Offset: RecordSize, Len: RecordSize}, last)
	data := rec.Buffers[buf].Data
	assert.Equal(t, []float32{9, 9, 9}, renderertest.DecodeFloats(data[RecordSize:RecordSize+12]))
	assert.Panics(t, func() { c.UpdateLight(99) })
}

func TestBindFollowsReallocation(t *testing.T) {
	rec, c := newTestCollection(t)
	c.Bind(0)
	assert.Equal(t, c.Buffer(), rec.StorageSlots[0])

	c.AddLight(pointAt(1))

	assert.Equal(t, c.Buffer(), rec.StorageSlots[0])
	assert.Equal(t, "lights", rec.Buffers[c.Buffer()].Label)
}

func TestReleaseIsIdempotent(t *testing.T) {
	rec, c := newTestCollection(t)
	buf := c.Buffer()

	c.Release()
	c.Release()

	assert.True(t, rec.Buffers[buf].Released)
}
