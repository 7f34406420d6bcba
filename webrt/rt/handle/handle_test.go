package handle

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObject struct {
	Handle
	label string
}

func TestAllocatorSkipsReservedRange(t *testing.T) {
	alloc := NewAllocator(DefaultReservedIDs)

	first := alloc.Next(Buffer)
	assert.Equal(t, uint32(DefaultReservedIDs+1), first)
	assert.Equal(t, first+1, alloc.Next(Buffer))

	// Counters are per kind.
	assert.Equal(t, uint32(DefaultReservedIDs+1), alloc.Next(Texture))
}

func TestAllocatorConcurrentIdsAreUnique(t *testing.T) {
	alloc := NewAllocator(0)
	const workers, each = 8, 200

	var mu sync.Mutex
	seen := make(map[uint32]bool)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < each; i++ {
				id := alloc.Next(Program)
				mu.Lock()
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Len(t, seen, workers*each)
}

func TestContextIDsNeverZero(t *testing.T) {
	alloc := NewAllocator(0)
	for i := 0; i < 600; i++ {
		id, err := alloc.NextContextID()
		require.NoError(t, err)
		require.NotZero(t, id)
		alloc.ReleaseContextID(id)
	}
}

func TestContextIDsSkipLiveOnes(t *testing.T) {
	alloc := NewAllocator(0)
	seen := make(map[uint8]bool)
	for i := 0; i < 255; i++ {
		id, err := alloc.NextContextID()
		require.NoError(t, err)
		require.False(t, seen[id], "id %d handed out twice", id)
		seen[id] = true
	}
	_, err := alloc.NextContextID()
	assert.ErrorIs(t, err, ErrContextIDsExhausted)

	alloc.ReleaseContextID(42)
	id, err := alloc.NextContextID()
	require.NoError(t, err)
	assert.Equal(t, uint8(42), id)
}

func TestMarkDeletedIsTerminal(t *testing.T) {
	h := New(Shader, 42)
	assert.True(t, h.Alive())
	assert.True(t, h.MarkDeleted())
	assert.False(t, h.MarkDeleted())
	assert.False(t, h.Alive())
	assert.True(t, h.IsDeleted())

	var nilHandle *Handle
	assert.False(t, nilHandle.Alive())
	assert.False(t, nilHandle.MarkDeleted())
	assert.Equal(t, uint32(0), nilHandle.ID())
}

func TestTableLookupIgnoresDeleted(t *testing.T) {
	alloc := NewAllocator(DefaultReservedIDs)
	table := NewTable[*fakeObject](Buffer)

	a := &fakeObject{Handle: alloc.NewHandle(Buffer), label: "a"}
	b := &fakeObject{Handle: alloc.NewHandle(Buffer), label: "b"}
	table.Insert(a)
	table.Insert(b)

	got, ok := table.Get(a.ID())
	require.True(t, ok)
	assert.Equal(t, "a", got.label)
	assert.True(t, table.Contains(b))

	b.MarkDeleted()
	_, ok = table.Get(b.ID())
	assert.False(t, ok)
	assert.False(t, table.Contains(b))

	var order []string
	table.Each(func(o *fakeObject) { order = append(order, o.label) })
	assert.Equal(t, []string{"a", "b"}, order)

	assert.Equal(t, 1, table.Release())
	assert.Equal(t, 0, table.Len())
	assert.True(t, a.IsDeleted())
}
