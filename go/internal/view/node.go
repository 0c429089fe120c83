package view

import "slices"

// Node is one retained view element. Identity is stable: code that holds a
// *Node keeps seeing the same element for as long as nobody replaces it.
//
// Node methods are not locked themselves. Mutate nodes inside
// Document.Update and read them inside Document.View. All methods accept a
// nil receiver and do nothing, so a missing element degrades to a no-op.
type Node struct {
	doc      *Document
	id       string
	tag      string
	classes  []string
	attrs    map[string]string
	text     string
	hidden   bool
	disabled bool
	parent   *Node
	children []*Node
}

func (n *Node) ID() string {
	if n == nil {
		return ""
	}
	return n.id
}

func (n *Node) Tag() string {
	if n == nil {
		return ""
	}
	return n.tag
}

func (n *Node) Text() string {
	if n == nil {
		return ""
	}
	return n.text
}

// SetText replaces the text content. Writing the same text is not a mutation.
func (n *Node) SetText(text string) {
	if n == nil || n.text == text {
		return
	}
	n.text = text
	n.doc.record(MutationText, n)
}

func (n *Node) HasClass(class string) bool {
	if n == nil {
		return false
	}
	return slices.Contains(n.classes, class)
}

// Classes returns a copy of the class list in insertion order.
func (n *Node) Classes() []string {
	if n == nil {
		return nil
	}
	return slices.Clone(n.classes)
}

func (n *Node) AddClass(class string) {
	if n == nil || class == "" || n.HasClass(class) {
		return
	}
	n.classes = append(n.classes, class)
	n.doc.record(MutationClass, n)
}

func (n *Node) RemoveClass(class string) {
	if n == nil {
		return
	}
	idx := slices.Index(n.classes, class)
	if idx < 0 {
		return
	}
	n.classes = slices.Delete(n.classes, idx, idx+1)
	n.doc.record(MutationClass, n)
}

// ToggleClass adds class when on is true and removes it otherwise.
func (n *Node) ToggleClass(class string, on bool) {
	if on {
		n.AddClass(class)
	} else {
		n.RemoveClass(class)
	}
}

func (n *Node) Attr(key string) string {
	if n == nil {
		return ""
	}
	return n.attrs[key]
}

func (n *Node) SetAttr(key, value string) {
	if n == nil || n.attrs[key] == value {
		return
	}
	if n.attrs == nil {
		n.attrs = make(map[string]string)
	}
	n.attrs[key] = value
	n.doc.record(MutationAttr, n)
}

func (n *Node) Hidden() bool {
	if n == nil {
		return true
	}
	return n.hidden
}

// SetVisible shows or hides the node.
func (n *Node) SetVisible(visible bool) {
	if n == nil || n.hidden == !visible {
		return
	}
	n.hidden = !visible
	n.doc.record(MutationVisibility, n)
}

func (n *Node) Show() { n.SetVisible(true) }
func (n *Node) Hide() { n.SetVisible(false) }

func (n *Node) Disabled() bool {
	if n == nil {
		return true
	}
	return n.disabled
}

// SetEnabled toggles whether the node accepts input.
func (n *Node) SetEnabled(enabled bool) {
	if n == nil || n.disabled == !enabled {
		return
	}
	n.disabled = !enabled
	n.doc.record(MutationEnabled, n)
}

func (n *Node) Parent() *Node {
	if n == nil {
		return nil
	}
	return n.parent
}

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	if n == nil {
		return nil
	}
	return slices.Clone(n.children)
}

func (n *Node) FirstChild() *Node {
	if n == nil || len(n.children) == 0 {
		return nil
	}
	return n.children[0]
}

// NextSibling returns the node following n in its parent, or nil.
func (n *Node) NextSibling() *Node {
	if n == nil || n.parent == nil {
		return nil
	}
	siblings := n.parent.children
	idx := slices.Index(siblings, n)
	if idx < 0 || idx+1 >= len(siblings) {
		return nil
	}
	return siblings[idx+1]
}

// AppendChild attaches child as the last child, detaching it first if needed.
func (n *Node) AppendChild(child *Node) {
	n.InsertBefore(child, nil)
}

// InsertBefore attaches child right before ref. A nil ref, or a ref that is
// not a child of n, appends.
func (n *Node) InsertBefore(child, ref *Node) {
	if n == nil || child == nil || child == ref {
		return
	}
	child.detach()
	idx := len(n.children)
	if ref != nil && ref.parent == n {
		idx = slices.Index(n.children, ref)
	}
	n.children = slices.Insert(n.children, idx, child)
	child.parent = n
	n.doc.record(MutationInsert, child)
}

// RemoveChild detaches child from n. The node itself stays valid and may be
// attached again.
func (n *Node) RemoveChild(child *Node) {
	if n == nil || child == nil || child.parent != n {
		return
	}
	child.detach()
	n.doc.record(MutationRemove, child)
}

// Contains reports whether child is a direct child of n.
func (n *Node) Contains(child *Node) bool {
	return n != nil && child != nil && child.parent == n
}

func (n *Node) detach() {
	if n.parent == nil {
		return
	}
	siblings := n.parent.children
	if idx := slices.Index(siblings, n); idx >= 0 {
		n.parent.children = slices.Delete(siblings, idx, idx+1)
	}
	n.parent = nil
}
