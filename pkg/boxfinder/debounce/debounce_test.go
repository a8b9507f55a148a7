package debounce

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/mikepea/boxfinder/pkg/boxfinder/clock"
)

type recorder struct {
	mu     sync.Mutex
	values []string
}

func (r *recorder) emit(v string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, v)
}

func (r *recorder) get() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.values...)
}

func TestRapidEditsEmitOnlyFinalValue(t *testing.T) {
	c := clock.NewFake(time.Unix(0, 0))
	rec := &recorder{}
	d := New(c, 300*time.Millisecond, rec.emit)

	for _, v := range []string{"i", "ir", "iro", "iron"} {
		d.Set(v)
		c.Advance(100 * time.Millisecond)
	}
	assert.Empty(t, rec.get(), "nothing should be emitted while typing")

	c.Advance(300 * time.Millisecond)
	assert.Equal(t, []string{"iron"}, rec.get())
}

func TestQuietPeriodRestartsOnEachSet(t *testing.T) {
	c := clock.NewFake(time.Unix(0, 0))
	rec := &recorder{}
	d := New(c, 300*time.Millisecond, rec.emit)

	d.Set("a")
	c.Advance(299 * time.Millisecond)
	d.Set("ab")
	c.Advance(299 * time.Millisecond)
	assert.Empty(t, rec.get())

	c.Advance(time.Millisecond)
	assert.Equal(t, []string{"ab"}, rec.get())
}

func TestSeparatedValuesAreEachEmitted(t *testing.T) {
	c := clock.NewFake(time.Unix(0, 0))
	rec := &recorder{}
	d := New(c, 300*time.Millisecond, rec.emit)

	d.Set("first")
	c.Advance(time.Second)
	d.Set("second")
	c.Advance(time.Second)

	assert.Equal(t, []string{"first", "second"}, rec.get())
}

func TestStopDropsPendingEmission(t *testing.T) {
	c := clock.NewFake(time.Unix(0, 0))
	rec := &recorder{}
	d := New(c, 300*time.Millisecond, rec.emit)

	d.Set("pending")
	d.Stop()
	c.Advance(time.Second)
	assert.Empty(t, rec.get())

	d.Set("after stop")
	c.Advance(time.Second)
	assert.Empty(t, rec.get(), "a stopped debouncer must never emit")
}

func TestCancelKeepsDebouncerUsable(t *testing.T) {
	c := clock.NewFake(time.Unix(0, 0))
	rec := &recorder{}
	d := New(c, 300*time.Millisecond, rec.emit)

	d.Set("dropped")
	d.Cancel()
	c.Advance(time.Second)
	d.Set("kept")
	c.Advance(time.Second)

	assert.Equal(t, []string{"kept"}, rec.get())
}

func TestRealClockStopLeavesNoGoroutines(t *testing.T) {
	defer goleak.VerifyNone(t)

	done := make(chan string, 1)
	d := New(nil, 20*time.Millisecond, func(v string) { done <- v })

	d.Set("x")
	select {
	case v := <-done:
		require.Equal(t, "x", v)
	case <-time.After(2 * time.Second):
		t.Fatal("debounced value never emitted")
	}

	d.Set("y")
	d.Stop()
	select {
	case v := <-done:
		t.Fatalf("unexpected emission after Stop: %q", v)
	case <-time.After(100 * time.Millisecond):
	}
}
