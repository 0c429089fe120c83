package view

import (
	"sync"
	"sync/atomic"
)

// MutationKind names what changed on a node.
type MutationKind string

const (
	MutationText       MutationKind = "text"
	MutationClass      MutationKind = "class"
	MutationAttr       MutationKind = "attr"
	MutationVisibility MutationKind = "visibility"
	MutationEnabled    MutationKind = "enabled"
	MutationInsert     MutationKind = "insert"
	MutationRemove     MutationKind = "remove"
)

// Mutation is one structural or content change.
type Mutation struct {
	Kind   MutationKind `json:"kind"`
	NodeID string       `json:"node_id,omitempty"`
	Tag    string       `json:"tag"`
}

// Document owns a node tree and an id index. Its lock is the UI lock: every
// mutation happens inside Update, so poll renders and action feedback never
// interleave within a batch.
type Document struct {
	mu      sync.RWMutex
	root    *Node
	byID    map[string]*Node
	pending []Mutation
	count   atomic.Uint64

	obsMu     sync.Mutex
	observers map[int]func([]Mutation)
	nextObs   int
}

// NewDocument returns a document with an empty root element.
func NewDocument() *Document {
	d := &Document{
		byID:      make(map[string]*Node),
		observers: make(map[int]func([]Mutation)),
	}
	d.root = &Node{doc: d, tag: "body"}
	return d
}

// Root is the top of the tree. Safe to call without the lock.
func (d *Document) Root() *Node { return d.root }

// CreateElement makes a detached node and indexes it by id when id is set.
// Call inside Update.
func (d *Document) CreateElement(tag, id string) *Node {
	n := &Node{doc: d, tag: tag, id: id}
	if id != "" {
		d.byID[id] = n
	}
	return n
}

// ByID looks a node up by id. Call inside Update or View.
func (d *Document) ByID(id string) *Node {
	return d.byID[id]
}

// Update runs fn with exclusive access and then notifies observers of the
// mutations fn made.
func (d *Document) Update(fn func()) {
	d.mu.Lock()
	fn()
	batch := d.pending
	d.pending = nil
	d.mu.Unlock()

	if len(batch) > 0 {
		d.notify(batch)
	}
}

// View runs fn with shared read access.
func (d *Document) View(fn func()) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	fn()
}

// Mutations is the number of changes applied since the document was created.
func (d *Document) Mutations() uint64 {
	return d.count.Load()
}

// Observe registers fn to receive each non-empty mutation batch. The returned
// func unregisters it. fn runs outside the document lock.
func (d *Document) Observe(fn func([]Mutation)) func() {
	d.obsMu.Lock()
	defer d.obsMu.Unlock()
	id := d.nextObs
	d.nextObs++
	d.observers[id] = fn
	return func() {
		d.obsMu.Lock()
		defer d.obsMu.Unlock()
		delete(d.observers, id)
	}
}

// Walk visits n and its descendants depth first until fn returns false.
// Call inside Update or View.
func Walk(n *Node, fn func(*Node) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	for _, c := range n.children {
		if !Walk(c, fn) {
			return false
		}
	}
	return true
}

func (d *Document) record(kind MutationKind, n *Node) {
	if d == nil {
		return
	}
	d.count.Add(1)
	d.pending = append(d.pending, Mutation{Kind: kind, NodeID: n.id, Tag: n.tag})
}

func (d *Document) notify(batch []Mutation) {
	d.obsMu.Lock()
	fns := make([]func([]Mutation), 0, len(d.observers))
	for _, fn := range d.observers {
		fns = append(fns, fn)
	}
	d.obsMu.Unlock()

	for _, fn := range fns {
		fn(batch)
	}
}

// NodeSnapshot is a serialisable copy of a subtree.
type NodeSnapshot struct {
	ID       string            `json:"id,omitempty"`
	Tag      string            `json:"tag"`
	Classes  []string          `json:"classes,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Text     string            `json:"text,omitempty"`
	Hidden   bool              `json:"hidden,omitempty"`
	Disabled bool              `json:"disabled,omitempty"`
	Children []NodeSnapshot    `json:"children,omitempty"`
}

// Snapshot copies the whole tree. It takes the read lock itself.
func (d *Document) Snapshot() NodeSnapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return snapshot(d.root)
}

func snapshot(n *Node) NodeSnapshot {
	s := NodeSnapshot{
		ID:       n.id,
		Tag:      n.tag,
		Classes:  n.Classes(),
		Text:     n.text,
		Hidden:   n.hidden,
		Disabled: n.disabled,
	}
	if len(n.attrs) > 0 {
		s.Attrs = make(map[string]string, len(n.attrs))
		for k, v := range n.attrs {
			s.Attrs[k] = v
		}
	}
	for _, c := range n.children {
		s.Children = append(s.Children, snapshot(c))
	}
	return s
}
