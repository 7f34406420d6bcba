package placeholder

import "sync"

// Entry maps a uniform name used by a scene-graph library onto the camera
// matrix it carries.
type Entry struct {
	Name      string
	ID        ID
	Multiview bool
}

// DefaultEntries covers the naming used by Babylon.js and three.js shaders.
func DefaultEntries() []Entry {
	return []Entry{
		{Name: "projection", ID: ProjectionMatrix},
		{Name: "view", ID: ViewMatrix},
		{Name: "viewProjection", ID: ViewProjectionMatrix},
		{Name: "viewProjectionR", ID: ViewProjectionMatrixForRightEye},
		{Name: "projectionMatrix", ID: ProjectionMatrix},
		{Name: "viewMatrix", ID: ViewMatrix},
		{Name: "projectionMatrices", ID: ProjectionMatrix, Multiview: true},
		{Name: "viewMatrices", ID: ViewMatrix, Multiview: true},
	}
}

// NameTable is the set of uniform names recognised as camera matrices. It is
// built once per registry and can be extended by the embedding engine.
type NameTable struct {
	mu      sync.RWMutex
	entries []Entry
	byName  map[string]int
}

func NewNameTable(entries ...Entry) *NameTable {
	t := &NameTable{byName: make(map[string]int)}
	for _, e := range entries {
		t.Add(e)
	}
	return t
}

func NewDefaultNameTable() *NameTable {
	return NewNameTable(DefaultEntries()...)
}

// Add registers e, replacing an entry with the same name.
func (t *NameTable) Add(e Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if i, ok := t.byName[e.Name]; ok {
		t.entries[i] = e
		return
	}
	t.byName[e.Name] = len(t.entries)
	t.entries = append(t.entries, e)
}

func (t *NameTable) Match(name string) (Entry, bool) {
	if t == nil {
		return Entry{}, false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	i, ok := t.byName[name]
	if !ok {
		return Entry{}, false
	}
	return t.entries[i], true
}

func (t *NameTable) Entries() []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// GraphFor builds the descriptor for a matched uniform.
func GraphFor(e Entry, handedness Handedness) Graph {
	return Graph{ID: e.ID, Handedness: handedness, Multiview: e.Multiview}
}
