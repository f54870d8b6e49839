package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testObserver struct {
	events []Event
}

func (o *testObserver) OnResourceEvent(e Event) {
	o.events = append(o.events, e)
}

func TestUnifiedTable_Basic(t *testing.T) {
	table := NewTable()

	h := table.Insert(1, "test")
	require.NotZero(t, h)

	val, ok := table.Get(h)
	require.True(t, ok)
	assert.Equal(t, "test", val)

	_, ok = table.GetTyped(h, 1)
	assert.True(t, ok, "matching type")
	_, ok = table.GetTyped(h, 2)
	assert.False(t, ok, "other type")

	val, ok = table.Release(h)
	require.True(t, ok, "last reference drops")
	assert.Equal(t, "test", val)
	assert.Zero(t, table.Len())
}

func TestUnifiedTable_RetainRelease(t *testing.T) {
	table := NewTable()
	h := table.Insert(1, "shared")

	require.True(t, table.Retain(h))
	refs, _ := table.Refs(h)
	require.Equal(t, 2, refs)

	_, dropped := table.Release(h)
	assert.False(t, dropped, "shared resource survives one release")
	_, ok := table.Get(h)
	assert.True(t, ok)

	_, dropped = table.Release(h)
	assert.True(t, dropped)
	_, dropped = table.Release(h)
	assert.False(t, dropped, "release after drop is a no-op")
	assert.False(t, table.Retain(h))
}

func TestUnifiedTable_Observer(t *testing.T) {
	table := NewTable()
	obs := &testObserver{}
	table.Subscribe(obs)

	h := table.Insert(1, "test")
	table.Retain(h)
	table.Release(h)
	table.Release(h)

	want := []EventType{EventCreated, EventRetained, EventReleased, EventDropped}
	require.Len(t, obs.events, len(want))
	for i, typ := range want {
		assert.Equal(t, typ, obs.events[i].Type, "event %d", i)
		assert.Equal(t, h, obs.events[i].Handle, "event %d", i)
	}
	assert.Equal(t, 2, obs.events[1].Refs)
	assert.Equal(t, 1, obs.events[2].Refs)

	table.Unsubscribe(obs)
	table.Insert(1, "test2")
	assert.Len(t, obs.events, len(want), "no events after Unsubscribe")
}

func TestUnifiedTable_Clear(t *testing.T) {
	table := NewTable()

	table.Insert(1, "a")
	h := table.Insert(1, "b")
	table.Retain(h)
	table.Insert(1, "c")
	require.Equal(t, 3, table.Len())

	table.Clear()

	assert.Zero(t, table.Len())
}

func TestUnifiedTable_Close(t *testing.T) {
	table := NewTable()

	table.Insert(1, "a")
	table.Insert(1, "b")

	require.NoError(t, table.Close())
	assert.Zero(t, table.Insert(1, "c"), "Insert fails after Close")
}

type dropCounter struct {
	count int
}

func (d *dropCounter) Drop() {
	d.count++
}

func TestUnifiedTable_DropperInterface(t *testing.T) {
	table := NewTable()
	d := &dropCounter{}

	h := table.Insert(1, d)
	table.Retain(h)
	table.Release(h)
	assert.Zero(t, d.count, "Drop waits for the last reference")

	table.Release(h)
	assert.Equal(t, 1, d.count)
}
