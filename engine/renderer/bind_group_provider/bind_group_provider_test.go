package bind_group_provider

import (
	"errors"
	"fmt"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGroups struct {
	created  int
	released []string
	fail     bool
}

func (f *fakeGroups) provider() BindGroupProvider[string] {
	return NewBindGroupProvider("lights", 1,
		func(label string, entries []wgpu.BindGroupEntry) (string, error) {
			if f.fail {
				return "", errors.New("device lost")
			}
			f.created++
			return fmt.Sprintf("%s #%d (%d entries)", label, f.created, len(entries)), nil
		},
		WithRelease(func(g string) { f.released = append(f.released, g) }),
	)
}

func TestBindGroupIsCachedPerResourceSet(t *testing.T) {
	f := &fakeGroups{}
	p := f.provider()

	a, err := p.BindGroup([]uint32{3}, make([]wgpu.BindGroupEntry, 1))
	require.NoError(t, err)
	assert.Equal(t, "lights group 1 #1 (1 entries)", a)

	again, err := p.BindGroup([]uint32{3}, nil)
	require.NoError(t, err)
	assert.Equal(t, a, again)

	_, err = p.BindGroup([]uint32{3, 12}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, f.created)
	assert.Equal(t, 2, p.Len())
}

func TestEvictMatchesWholeIDs(t *testing.T) {
	f := &fakeGroups{}
	p := f.provider()
	for _, ids := range [][]uint32{{1}, {11}, {2, 1}, {21}} {
		_, err := p.BindGroup(ids, nil)
		require.NoError(t, err)
	}

	assert.Equal(t, 2, p.Evict(1))
	assert.Equal(t, 2, p.Len())
	assert.Len(t, f.released, 2)
	assert.Zero(t, p.Evict(1))
}

func TestCreateFailure(t *testing.T) {
	f := &fakeGroups{fail: true}
	p := f.provider()
	_, err := p.BindGroup([]uint32{1}, nil)
	assert.ErrorContains(t, err, "bind group 1 for lights")
	assert.Zero(t, p.Len())
}

func TestReleaseEmptiesCache(t *testing.T) {
	f := &fakeGroups{}
	p := f.provider()
	_, _ = p.BindGroup([]uint32{1}, nil)
	_, _ = p.BindGroup([]uint32{2}, nil)

	p.Release()
	assert.Zero(t, p.Len())
	assert.Len(t, f.released, 2)
	assert.Equal(t, "lights", p.Label())
	assert.Equal(t, 1, p.Group())
}
