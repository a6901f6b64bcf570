package debounce

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestDisabledFiresEveryCall(t *testing.T) {
	var got []int
	d := New(-1, func(v int) { got = append(got, v) })
	d.Call(1)
	d.Call(2)
	d.Call(3)
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestBurstFiresFirstAndLast(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	var got []int
	d := New(100*time.Millisecond, func(v int) { got = append(got, v) }, WithClock(clock.now))

	d.Call(1)
	assert.Equal(t, []int{1}, got, "first call fires synchronously")
	assert.Equal(t, Cooldown, d.State())

	clock.advance(30 * time.Millisecond)
	d.Call(2)
	clock.advance(30 * time.Millisecond)
	d.Call(3)
	assert.Equal(t, Pending, d.State())
	assert.False(t, d.Flush(), "window restarted by the last call")

	clock.advance(99 * time.Millisecond)
	assert.False(t, d.Flush())
	clock.advance(time.Millisecond)
	assert.True(t, d.Flush())
	assert.Equal(t, []int{1, 3}, got, "intermediate calls are dropped")
	assert.False(t, d.Flush(), "nothing left to fire")
}

func TestRearmsAfterQuietWindow(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	var got []int
	d := New(50*time.Millisecond, func(v int) { got = append(got, v) }, WithClock(clock.now))

	d.Call(1)
	clock.advance(60 * time.Millisecond)
	assert.Equal(t, Armed, d.State())
	d.Call(2)
	assert.Equal(t, []int{1, 2}, got)
}

func TestTrailingOnly(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	var got []string
	d := New(10*time.Millisecond, func(v string) { got = append(got, v) }, WithClock(clock.now), WithImmediate(false))

	d.Call("a")
	assert.Empty(t, got)
	clock.advance(10 * time.Millisecond)
	assert.True(t, d.Flush())
	assert.Equal(t, []string{"a"}, got)
}

func TestStopDropsPending(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	calls := 0
	d := New(10*time.Millisecond, func(int) { calls++ }, WithClock(clock.now))

	d.Call(1)
	d.Call(2)
	d.Stop()
	clock.advance(time.Second)
	assert.False(t, d.Flush())
	d.Call(3)
	assert.Equal(t, 1, calls)
}
