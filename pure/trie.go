package pure

import (
	"sync"
	"sync/atomic"
)

// Trie is a bounded, concurrency-safe memo table keyed by a path of comparable values.
//
// It keeps two generations of entries. When the active generation reaches maxSize the
// other generation is cleared and becomes active, so at most 2*maxSize entries are held
// and recently stored entries survive one rotation.
type Trie[O any] struct {
	memos   [2]*atomic.Pointer[sync.Map]
	headIdx atomic.Uint32
	size    atomic.Uint32
	maxSize uint32
	rotate  sync.Mutex
}

// Load looks the path up in the active generation first, then in the previous one.
func (t *Trie[O]) Load(keys []ComparableOrString) (O, bool) {
	if len(keys) == 0 {
		panic("trie: empty keys")
	}
	head := t.headIdx.Load()
	for _, idx := range [2]uint32{head, 1 - head} {
		if v, ok := lookup(t.memos[idx].Load(), keys); ok {
			return v.(O), true
		}
	}
	var zero O
	return zero, false
}

// Store writes the value under the path in the active generation.
func (t *Trie[O]) Store(keys []ComparableOrString, value O) {
	if len(keys) == 0 {
		panic("trie: empty keys")
	}
	if t.size.Load() >= t.maxSize {
		t.rotate.Lock()
		if t.size.Load() >= t.maxSize {
			next := 1 - t.headIdx.Load()
			t.memos[next].Store(&sync.Map{})
			t.headIdx.Store(next)
			t.size.Store(0)
		}
		t.rotate.Unlock()
	}
	m := t.memos[t.headIdx.Load()].Load()
	for _, k := range keys[:len(keys)-1] {
		v, _ := m.LoadOrStore(k, &sync.Map{})
		m = v.(*sync.Map)
	}
	m.Store(keys[len(keys)-1], value)
	t.size.Add(1)
}

func lookup(m *sync.Map, keys []ComparableOrString) (any, bool) {
	for _, k := range keys[:len(keys)-1] {
		v, ok := m.Load(k)
		if !ok {
			return nil, false
		}
		m = v.(*sync.Map)
	}
	return m.Load(keys[len(keys)-1])
}

// NewTrie creates a table holding up to maxSize entries per generation.
func NewTrie[O any](maxSize uint32) *Trie[O] {
	if maxSize == 0 {
		panic("maxSize should be greater than 0")
	}
	t := &Trie[O]{maxSize: maxSize}
	for i := range t.memos {
		t.memos[i] = &atomic.Pointer[sync.Map]{}
		t.memos[i].Store(&sync.Map{})
	}
	return t
}
