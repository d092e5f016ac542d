package light

import (
	"fmt"
	"slices"

	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
)

type collectionImpl struct {
	backend   renderer.Backend
	label     string
	buffer    renderer.BufferID
	records   []Record
	nextID    uint32
	mirrorLen int
	slots     []uint32
}

// Collection is an ordered, id-addressed set of light records mirrored into a GPU storage
// buffer. It is shared by reference between every shader and light wrapper lighting the same
// scene.
//
// Adding or removing a record reallocates the whole mirror. Changing a record's fields goes
// through UpdateLight, which rewrites only that record's bytes.
type Collection interface {
	// AddLight assigns rec the next id, appends it and reallocates the GPU mirror.
	// Ids are never reused within a collection.
	//
	// Parameters:
	//   - rec: the record to add; it must not already carry an id
	//
	// Returns:
	//   - uint32: the id of the added record
	AddLight(rec Record) uint32

	// RemoveLight erases the record with id and reallocates the GPU mirror. It panics if no
	// record has that id.
	//
	// Parameters:
	//   - id: the id to remove
	RemoveLight(id uint32)

	// GetLight returns a mutable pointer to the record with id. It panics if no record has
	// that id. The pointer is valid until the next AddLight or RemoveLight; call UpdateLight
	// after mutating through it.
	//
	// Parameters:
	//   - id: the id to look up
	//
	// Returns:
	//   - *Record: the record
	GetLight(id uint32) *Record

	// Has reports whether a record with id exists.
	//
	// Parameters:
	//   - id: the id to look up
	//
	// Returns:
	//   - bool: true if present
	Has(id uint32) bool

	// UpdateLight writes the record with id into the GPU mirror at its current index without
	// reallocating. It panics if no record has that id.
	//
	// Parameters:
	//   - id: the id to upload
	UpdateLight(id uint32)

	// Bind binds the GPU mirror to a storage slot. The slot is remembered and rebound after
	// every reallocation.
	//
	// Parameters:
	//   - slot: the @group(1) binding index
	Bind(slot uint32)

	// Len returns the number of records.
	//
	// Returns:
	//   - int: the record count
	Len() int

	// MirrorLen returns the number of records the GPU mirror was last allocated for. An empty
	// collection reports 0 even though its buffer holds one placeholder record.
	//
	// Returns:
	//   - int: the mirrored record count
	MirrorLen() int

	// Lights returns a copy of the records in order.
	//
	// Returns:
	//   - []Record: the records
	Lights() []Record

	// Buffer returns the current GPU mirror.
	//
	// Returns:
	//   - renderer.BufferID: the storage buffer
	Buffer() renderer.BufferID

	// Release destroys the GPU mirror.
	Release()
}

var _ Collection = &collectionImpl{}

// NewCollection creates an empty Collection and its placeholder GPU mirror.
//
// Parameters:
//   - backend: the GPU context owning the mirror
//   - label: debug label for the storage buffer
//
// Returns:
//   - Collection: the empty collection
//   - error: error if the storage buffer cannot be created
func NewCollection(backend renderer.Backend, label string) (Collection, error) {
	c := &collectionImpl{backend: backend, label: label}
	buf, err := backend.CreateStorageBuffer(label, RecordSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create light buffer: %w", err)
	}
	c.buffer = buf
	backend.WriteBuffer(buf, 0, MarshalRecords(nil))
	return c, nil
}

func (c *collectionImpl) AddLight(rec Record) uint32 {
	id := c.nextID
	c.nextID++
	rec.assign(id)
	c.records = append(c.records, rec)
	c.realloc()
	return id
}

func (c *collectionImpl) RemoveLight(id uint32) {
	i := c.indexOf(id)
	if i < 0 {
		panic(fmt.Sprintf("light: removing non-existent light %d", id))
	}
	c.records = slices.Delete(c.records, i, i+1)
	c.realloc()
}

func (c *collectionImpl) GetLight(id uint32) *Record {
	i := c.indexOf(id)
	if i < 0 {
		panic(fmt.Sprintf("light: light %d does not exist", id))
	}
	return &c.records[i]
}

func (c *collectionImpl) Has(id uint32) bool {
	return c.indexOf(id) >= 0
}

func (c *collectionImpl) UpdateLight(id uint32) {
	i := c.indexOf(id)
	if i < 0 {
		panic(fmt.Sprintf("light: updating non-existent light %d", id))
	}
	if len(c.records) != c.mirrorLen {
		panic(fmt.Sprintf("light: mirror holds %d records but collection has %d", c.mirrorLen, len(c.records)))
	}
	c.backend.WriteBuffer(c.buffer, uint64(i*RecordSize), c.records[i].Marshal())
}

func (c *collectionImpl) Bind(slot uint32) {
	c.backend.BindStorageBuffer(c.buffer, slot)
	if !slices.Contains(c.slots, slot) {
		c.slots = append(c.slots, slot)
	}
}

func (c *collectionImpl) Len() int {
	return len(c.records)
}

func (c *collectionImpl) MirrorLen() int {
	return c.mirrorLen
}

func (c *collectionImpl) Lights() []Record {
	return slices.Clone(c.records)
}

func (c *collectionImpl) Buffer() renderer.BufferID {
	return c.buffer
}

func (c *collectionImpl) Release() {
	if c.buffer == 0 {
		return
	}
	c.backend.ReleaseBuffer(c.buffer)
	c.buffer = 0
}

func (c *collectionImpl) indexOf(id uint32) int {
	return slices.IndexFunc(c.records, func(r Record) bool { return r.id == id })
}

// realloc replaces the mirror with one sized for the current records. It is only legal when the
// record count changed.
func (c *collectionImpl) realloc() {
	if len(c.records) == c.mirrorLen {
		panic("light: reallocation without a change in record count, use UpdateLight")
	}
	data := MarshalRecords(c.records)
	buf, err := c.backend.CreateStorageBuffer(c.label, uint64(len(data)))
	if err != nil {
		panic(fmt.Sprintf("light: failed to reallocate light buffer: %v", err))
	}
	c.backend.WriteBuffer(buf, 0, data)
	if c.buffer != 0 {
		c.backend.ReleaseBuffer(c.buffer)
	}
	c.buffer = buf
	c.mirrorLen = len(c.records)
	for _, slot := range c.slots {
		c.backend.BindStorageBuffer(c.buffer, slot)
	}
}
