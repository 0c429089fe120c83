package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/rikiki/go/internal/view"
)

type item struct {
	id    string
	label string
}

func (i item) Key() string { return i.id }

func items(ids ...string) []item {
	out := make([]item, 0, len(ids))
	for _, id := range ids {
		out = append(out, item{id: id, label: "label " + id})
	}
	return out
}

type fixture struct {
	doc       *view.Document
	container *view.Node
	list      *List[item]
	renders   int
}

func newFixture(stale StalePolicy) *fixture {
	f := &fixture{doc: view.NewDocument()}
	f.doc.Update(func() {
		f.container = f.doc.CreateElement("ul", "rows")
		f.doc.Root().AppendChild(f.container)
	})
	f.list = NewList[item](f.doc, Options[item]{
		Classes: func(i item) []string { return []string{"row"} },
		Stale:   stale,
	})
	return f
}

func (f *fixture) render(row *view.Node, i item) {
	f.renders++
	row.SetText(i.label)
}

func (f *fixture) apply(in []item) {
	f.doc.Update(func() { f.list.Reconcile(in, f.container, f.render) })
}

func (f *fixture) order() []string {
	var out []string
	f.doc.View(func() {
		for _, n := range f.container.Children() {
			out = append(out, n.ID())
		}
	})
	return out
}

func TestReconcile_RowsKeepIdentity(t *testing.T) {
	f := newFixture(StaleKeep)
	f.apply(items("a", "b", "c"))

	a, b, c := f.list.Row("a"), f.list.Row("b"), f.list.Row("c")
	require.NotNil(t, a)

	next := []item{{id: "a", label: "Ann"}, {id: "b", label: "Bob"}, {id: "c", label: "Cy"}}
	f.apply(next)

	assert.Same(t, a, f.list.Row("a"))
	assert.Same(t, b, f.list.Row("b"))
	assert.Same(t, c, f.list.Row("c"))
	f.doc.View(func() {
		assert.Equal(t, "Ann", a.Text())
		assert.True(t, a.HasClass("row"))
	})
	assert.Equal(t, 3, f.list.Len())
}

func TestReconcile_ReorderDoesNotMoveAttachedRows(t *testing.T) {
	f := newFixture(StaleKeep)
	f.apply(items("a", "b", "c"))
	before := f.list.Row("b")

	f.apply(items("a", "c", "b"))

	assert.Equal(t, []string{"a", "b", "c"}, f.order())
	assert.Same(t, before, f.list.Row("b"))
}

func TestReconcile_NewRowsFollowSnapshotOrder(t *testing.T) {
	tests := []struct {
		name   string
		first  []string
		second []string
		want   []string
	}{
		{"insert in the middle", []string{"a", "b", "c"}, []string{"a", "d", "b", "c"}, []string{"a", "d", "b", "c"}},
		{"insert at the front", []string{"a", "b"}, []string{"z", "a", "b"}, []string{"z", "a", "b"}},
		{"append at the end", []string{"a", "b"}, []string{"a", "b", "c", "d"}, []string{"a", "b", "c", "d"}},
		{"insert after a reordered row", []string{"a", "b", "c"}, []string{"a", "c", "d", "b"}, []string{"a", "b", "c", "d"}},
		{"insert before a skipped row", []string{"a", "b", "c"}, []string{"a", "c", "b", "d"}, []string{"a", "b", "c", "d"}},
		{"empty container", nil, []string{"b", "a"}, []string{"b", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(StaleKeep)
			f.apply(items(tt.first...))
			f.apply(items(tt.second...))
			assert.Equal(t, tt.want, f.order())
		})
	}
}

func TestReconcile_SameSnapshotMutatesNothing(t *testing.T) {
	f := newFixture(StaleKeep)
	f.apply(items("a", "b"))
	before := f.doc.Mutations()

	f.apply(items("a", "b"))

	assert.Equal(t, before, f.doc.Mutations())
}

func TestReconcile_StaleRows(t *testing.T) {
	t.Run("keep", func(t *testing.T) {
		f := newFixture(StaleKeep)
		f.apply(items("a", "b"))
		f.apply(items("a"))

		assert.Equal(t, []string{"a", "b"}, f.order())
		f.doc.View(func() { assert.False(t, f.list.Row("b").Hidden()) })
	})

	t.Run("hide", func(t *testing.T) {
		f := newFixture(StaleHide)
		f.apply(items("a", "b"))
		b := f.list.Row("b")

		f.apply(items("a"))
		f.doc.View(func() { assert.True(t, b.Hidden()) })

		f.apply(items("a", "b"))
		assert.Same(t, b, f.list.Row("b"))
		f.doc.View(func() { assert.False(t, b.Hidden()) })
	})
}

func TestReconcile_DetachedRowIsReinserted(t *testing.T) {
	f := newFixture(StaleKeep)
	f.apply(items("a", "b"))
	b := f.list.Row("b")

	f.doc.Update(func() { f.container.RemoveChild(b) })
	f.apply(items("a", "b"))

	assert.Equal(t, []string{"a", "b"}, f.order())
	assert.Same(t, b, f.list.Row("b"))
}

func TestReconcile_DuplicateKeysIgnored(t *testing.T) {
	f := newFixture(StaleKeep)
	f.apply(items("a", "a", "b"))
	assert.Equal(t, []string{"a", "b"}, f.order())
}

func TestReconcile_MissingContainerIsNoOp(t *testing.T) {
	f := newFixture(StaleKeep)
	f.doc.Update(func() { f.list.Reconcile(items("a"), nil, f.render) })
	assert.Equal(t, 0, f.renders)
	assert.Nil(t, f.list.Row("a"))
}
