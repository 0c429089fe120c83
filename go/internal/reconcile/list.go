// Package reconcile keeps an ordered, keyed list of view rows in step with a
// sequence of records without ever recreating a row for a key it has seen.
package reconcile

import (
	"github.com/mcdev12/rikiki/go/internal/view"
)

// Keyed is anything with a stable identity key.
type Keyed interface {
	Key() string
}

// Renderer projects one item onto its row. It must be idempotent: rendering
// the same item twice leaves the row unchanged the second time.
type Renderer[T any] func(row *view.Node, item T)

// StalePolicy decides what happens to rows whose key is missing from a
// snapshot. Rows are never destroyed either way.
type StalePolicy int

const (
	// StaleKeep leaves stale rows untouched.
	StaleKeep StalePolicy = iota
	// StaleHide hides stale rows and shows them again if their key returns.
	StaleHide
)

// Options configure a List.
type Options[T Keyed] struct {
	// Tag of newly created rows. Defaults to "li".
	Tag string
	// RowID derives the element id of a new row. Defaults to the key.
	RowID func(item T) string
	// Classes are added once, when a row is created.
	Classes func(item T) []string
	Stale   StalePolicy
}

// List owns the rows of one container, keyed by item key.
type List[T Keyed] struct {
	doc  *view.Document
	opts Options[T]
	rows map[string]*view.Node
}

func NewList[T Keyed](doc *view.Document, opts Options[T]) *List[T] {
	if opts.Tag == "" {
		opts.Tag = "li"
	}
	return &List[T]{
		doc:  doc,
		opts: opts,
		rows: make(map[string]*view.Node),
	}
}

// Row returns the row for key, or nil if the key was never seen.
func (l *List[T]) Row(key string) *view.Node {
	return l.rows[key]
}

// Len is the number of rows ever created.
func (l *List[T]) Len() int { return len(l.rows) }

// Reconcile updates container to reflect items. Call inside Document.Update.
//
// The cursor starts at the container's first child. A row at or after the
// cursor is updated in place and the cursor moves past it. A row before the
// cursor is updated in place and left where it is: attached rows are never
// moved. A new row is inserted before the cursor (appended when the cursor is
// exhausted) and the cursor moves to the row following it.
func (l *List[T]) Reconcile(items []T, container *view.Node, render Renderer[T]) {
	if container == nil {
		return
	}

	seen := make(map[string]bool, len(items))
	cursor := container.FirstChild()

	for _, item := range items {
		key := item.Key()
		if seen[key] {
			continue
		}
		seen[key] = true

		row, ok := l.rows[key]
		if !ok {
			row = l.create(item)
			render(row, item)
			container.InsertBefore(row, cursor)
			cursor = row.NextSibling()
			continue
		}

		if l.opts.Stale == StaleHide {
			row.Show()
		}
		render(row, item)

		switch {
		case !container.Contains(row):
			// detached by someone else; put the same node back
			container.InsertBefore(row, cursor)
			cursor = row.NextSibling()
		case atOrAfter(row, cursor):
			cursor = row.NextSibling()
		}
	}

	if l.opts.Stale == StaleHide {
		for key, row := range l.rows {
			if !seen[key] {
				row.Hide()
			}
		}
	}
}

func (l *List[T]) create(item T) *view.Node {
	id := item.Key()
	if l.opts.RowID != nil {
		id = l.opts.RowID(item)
	}
	row := l.doc.CreateElement(l.opts.Tag, id)
	if l.opts.Classes != nil {
		for _, class := range l.opts.Classes(item) {
			row.AddClass(class)
		}
	}
	l.rows[item.Key()] = row
	return row
}

// atOrAfter reports whether row is cursor or one of its following siblings.
func atOrAfter(row, cursor *view.Node) bool {
	for n := cursor; n != nil; n = n.NextSibling() {
		if n == row {
			return true
		}
	}
	return false
}
