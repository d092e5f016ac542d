package bind_group_provider

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// CreateFunc creates a bind group from its entries.
type CreateFunc[G any] func(label string, entries []wgpu.BindGroupEntry) (G, error)

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider[G any] struct {
	// label is a debug label added for convenience.
	label string
	// group is the bind group index in the pipeline layout.
	group int

	create  CreateFunc[G]
	release func(G)

	// cache holds the created bind groups keyed by the resource ids they reference, written as
	// ",id,id," so that an id can be matched without splitting.
	cache map[string]G
}

// BindGroupProvider hands out the bind groups of one group index of a program. A bind group is
// created the first time a combination of resources is bound and reused afterwards, until a
// resource it references is released.
//
// Usage pattern:
//  1. The backend creates a provider per group when a program is compiled
//  2. Draw asks the provider for the group of the currently bound resources
//  3. Releasing a buffer or texture evicts every group that references it
//  4. Releasing the program releases the provider
type BindGroupProvider[G any] interface {
	// Label returns the debug label for this provider.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// Group returns the bind group index this provider serves.
	//
	// Returns:
	//   - int: the group index
	Group() int

	// BindGroup returns the bind group for the given resources, creating it on first use.
	//
	// Parameters:
	//   - ids: the ids of the referenced resources, in binding order
	//   - entries: the bind group entries, used only when the group has to be created
	//
	// Returns:
	//   - G: the bind group
	//   - error: error if the group cannot be created
	BindGroup(ids []uint32, entries []wgpu.BindGroupEntry) (G, error)

	// Evict releases every cached bind group referencing id.
	//
	// Parameters:
	//   - id: the resource id
	//
	// Returns:
	//   - int: the number of groups released
	Evict(id uint32) int

	// Len returns the number of cached bind groups.
	//
	// Returns:
	//   - int: the cache size
	Len() int

	// Release releases all cached bind groups.
	Release()
}

var _ BindGroupProvider[*wgpu.BindGroup] = &bindGroupProvider[*wgpu.BindGroup]{}

// NewBindGroupProvider creates a provider for one group index.
//
// Parameters:
//   - label: the debug label used for created groups
//   - group: the bind group index
//   - create: creates a group from its entries
//   - options: builder options
//
// Returns:
//   - BindGroupProvider[G]: the provider
func NewBindGroupProvider[G any](label string, group int, create CreateFunc[G], options ...BindGroupProviderOption[G]) BindGroupProvider[G] {
	p := &bindGroupProvider[G]{
		label:   label,
		group:   group,
		create:  create,
		release: func(G) {},
		cache:   make(map[string]G),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider[G]) Label() string {
	return p.label
}

func (p *bindGroupProvider[G]) Group() int {
	return p.group
}

func (p *bindGroupProvider[G]) BindGroup(ids []uint32, entries []wgpu.BindGroupEntry) (G, error) {
	key := cacheKey(ids)
	if bg, ok := p.cache[key]; ok {
		return bg, nil
	}
	bg, err := p.create(fmt.Sprintf("%s group %d", p.label, p.group), entries)
	if err != nil {
		var zero G
		return zero, fmt.Errorf("create bind group %d for %s: %w", p.group, p.label, err)
	}
	p.cache[key] = bg
	return bg, nil
}

func (p *bindGroupProvider[G]) Evict(id uint32) int {
	needle := "," + strconv.FormatUint(uint64(id), 10) + ","
	evicted := 0
	for key, bg := range p.cache {
		if strings.Contains(key, needle) {
			p.release(bg)
			delete(p.cache, key)
			evicted++
		}
	}
	return evicted
}

func (p *bindGroupProvider[G]) Len() int {
	return len(p.cache)
}

func (p *bindGroupProvider[G]) Release() {
	keys := make([]string, 0, len(p.cache))
	for key := range p.cache {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		p.release(p.cache[key])
	}
	clear(p.cache)
}

func cacheKey(ids []uint32) string {
	var sb strings.Builder
	sb.WriteByte(',')
	for _, id := range ids {
		sb.WriteString(strconv.FormatUint(uint64(id), 10))
		sb.WriteByte(',')
	}
	return sb.String()
}
