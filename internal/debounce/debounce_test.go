package debounce

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultWait(t *testing.T) {
	assert.Equal(t, DefaultWait, New(0).Wait())
	assert.Equal(t, 300*time.Millisecond, New(-1).Wait())
	assert.Equal(t, time.Second, New(time.Second).Wait())
}

func TestOnlyLastCallRuns(t *testing.T) {
	d := New(50 * time.Millisecond)

	var last atomic.Int32
	var runs atomic.Int32
	done := make(chan struct{})

	for i := 1; i <= 5; i++ {
		i := int32(i)
		d.Schedule(func() {
			last.Store(i)
			if runs.Add(1) == 1 {
				close(done)
			}
		})
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduled call never ran")
	}

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(5), last.Load())
	assert.Equal(t, int32(1), runs.Load())
	assert.False(t, d.Pending())
}

func TestCancel(t *testing.T) {
	d := New(50 * time.Millisecond)
	assert.False(t, d.Cancel())

	var runs atomic.Int32
	d.Schedule(func() { runs.Add(1) })
	assert.True(t, d.Pending())
	assert.True(t, d.Cancel())
	assert.False(t, d.Pending())

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(0), runs.Load())
}

func TestScheduleAfterRun(t *testing.T) {
	d := New(10 * time.Millisecond)

	ran := make(chan struct{}, 2)
	d.Schedule(func() { ran <- struct{}{} })
	<-ran

	d.Schedule(func() { ran <- struct{}{} })
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("second burst did not run")
	}
}
