// Package timer provides a coarse scheduled-callback manager. The server
// uses it for housekeeping such as reclaiming lobbies that never start. The
// in-game countdowns are not driven by it; those belong to each game's own
// turn loop.
package timer

import (
	"container/heap"
	"sync"
	"time"
)

type Task struct {
	ID       int64
	Execute  time.Time
	Interval time.Duration
	Callback func()
	index    int
}

type taskQueue []*Task

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	return q[i].Execute.Before(q[j].Execute)
}

func (q taskQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *taskQueue) Push(x interface{}) {
	n := len(*q)
	task := x.(*Task)
	task.index = n
	*q = append(*q, task)
}

func (q *taskQueue) Pop() interface{} {
	old := *q
	n := len(old)
	task := old[n-1]
	task.index = -1
	*q = old[0 : n-1]
	return task
}

// Manager runs callbacks at their scheduled time, with 100ms resolution.
type Manager struct {
	queue  taskQueue
	mutex  sync.Mutex
	nextID int64
	done   chan struct{}
}

func NewManager() *Manager {
	m := &Manager{
		queue:  make(taskQueue, 0),
		nextID: 1,
		done:   make(chan struct{}),
	}
	heap.Init(&m.queue)
	go m.process()
	return m
}

// Schedule registers a callback after delay. A non-zero interval reschedules
// it after every run. Returns the task ID for cancellation.
func (m *Manager) Schedule(delay time.Duration, interval time.Duration, callback func()) int64 {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	task := &Task{
		ID:       m.nextID,
		Execute:  time.Now().Add(delay),
		Interval: interval,
		Callback: callback,
	}
	m.nextID++

	heap.Push(&m.queue, task)
	return task.ID
}

// Cancel removes a pending task. No-op if it already fired.
func (m *Manager) Cancel(taskID int64) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for i, task := range m.queue {
		if task.ID == taskID {
			heap.Remove(&m.queue, i)
			break
		}
	}
}

// Stop shuts the manager down. Pending tasks never fire.
func (m *Manager) Stop() {
	close(m.done)
}

func (m *Manager) process() {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			var due []*Task

			m.mutex.Lock()
			for m.queue.Len() > 0 {
				task := m.queue[0]
				if task.Execute.After(now) {
					break
				}
				heap.Pop(&m.queue)
				due = append(due, task)

				if task.Interval > 0 {
					next := *task
					next.Execute = now.Add(task.Interval)
					heap.Push(&m.queue, &next)
				}
			}
			m.mutex.Unlock()

			for _, task := range due {
				go task.Callback()
			}

		case <-m.done:
			return
		}
	}
}
