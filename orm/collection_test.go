package orm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type item struct {
	id   string
	name string
}

func (i *item) GetID() string { return i.id }

func TestCollectionOrderAndRemove(t *testing.T) {
	c := NewOrderedCollection[*item, string]([]*item{{id: "a"}, {id: "b"}, {id: "c"}})
	c.Add(&item{id: "b", name: "replaced"})
	assert.Equal(t, []string{"a", "b", "c"}, c.IDs())

	b, ok := c.Find("b")
	assert.True(t, ok)
	assert.Equal(t, "replaced", b.name)

	assert.True(t, c.Remove("a"))
	assert.False(t, c.Remove("a"))
	assert.Equal(t, []string{"b", "c"}, c.IDs())
	assert.Equal(t, 2, c.Len())
}

func TestFilterFirstCollect(t *testing.T) {
	c := NewOrderedCollection[*item, string]([]*item{{id: "1", name: "x"}, {id: "2", name: "y"}, {id: "3", name: "x"}})

	xs := c.Filter(func(i *item) bool { return i.name == "x" })
	assert.Equal(t, []string{"1", "3"}, xs.IDs())

	first, ok := c.First(func(i *item) bool { return i.name == "y" })
	assert.True(t, ok)
	assert.Equal(t, "2", first.id)
	_, ok = c.First(func(i *item) bool { return i.name == "z" })
	assert.False(t, ok)

	names := CollectToSlice(c, func(i *item) *string {
		if i.id == "2" {
			return nil
		}
		return &i.name
	})
	assert.Equal(t, []string{"x", "x"}, names)
}
