package timer

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedule_FiresOnce(t *testing.T) {
	m := NewManager()
	defer m.Stop()

	var fired atomic.Int32
	m.Schedule(50*time.Millisecond, 0, func() { fired.Add(1) })

	require.Eventually(t, func() bool { return fired.Load() == 1 },
		2*time.Second, 20*time.Millisecond)

	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(1), fired.Load(), "one-shot tasks do not repeat")
}

func TestSchedule_Repeating(t *testing.T) {
	m := NewManager()
	defer m.Stop()

	var fired atomic.Int32
	m.Schedule(50*time.Millisecond, 100*time.Millisecond, func() { fired.Add(1) })

	require.Eventually(t, func() bool { return fired.Load() >= 3 },
		3*time.Second, 20*time.Millisecond)
}

func TestCancel(t *testing.T) {
	m := NewManager()
	defer m.Stop()

	var fired atomic.Int32
	id := m.Schedule(500*time.Millisecond, 0, func() { fired.Add(1) })
	m.Cancel(id)

	time.Sleep(900 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
}

func TestCancel_AfterFireIsNoop(t *testing.T) {
	m := NewManager()
	defer m.Stop()

	var fired atomic.Int32
	id := m.Schedule(50*time.Millisecond, 0, func() { fired.Add(1) })
	require.Eventually(t, func() bool { return fired.Load() == 1 },
		2*time.Second, 20*time.Millisecond)

	m.Cancel(id)
}

func TestStop_PendingTasksNeverFire(t *testing.T) {
	m := NewManager()

	var fired atomic.Int32
	m.Schedule(300*time.Millisecond, 0, func() { fired.Add(1) })
	m.Stop()

	time.Sleep(600 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
}

func TestSchedule_OrderByDeadline(t *testing.T) {
	m := NewManager()
	defer m.Stop()

	order := make(chan string, 2)
	m.Schedule(400*time.Millisecond, 0, func() { order <- "late" })
	m.Schedule(150*time.Millisecond, 0, func() { order <- "early" })

	require.Eventually(t, func() bool { return len(order) == 2 },
		3*time.Second, 20*time.Millisecond)
	assert.Equal(t, "early", <-order)
	assert.Equal(t, "late", <-order)
}
