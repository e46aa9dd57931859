package xtimer

import (
	"container/heap"
	"time"
)

// event 队列中的一个待执行条目。
// 字段全部由调度器锁保护，event 本身不做同步。
type event struct {
	seq  uint64    // 调度序号，同一循环任务各轮次共用
	wake time.Time // 唤醒时间
	task Task
	opts taskOptions

	interval  time.Duration // >0 表示循环任务
	index     int           // 在堆中的下标，出堆后为 -1
	running   bool          // 循环任务本轮正在执行
	cancelled bool          // 执行期间被取消，阻止下一轮入队
}

// eventQueue 按 (wake, seq) 排序的索引化最小堆。
//
// 每个 event 记录自己在堆中的下标，取消走 heap.Remove 直接摘除，
// 队列里不留墓碑；items 提供 seq 到 event 的 O(1) 反查。
// 设计决策: 不用惰性删除。惰性删除在"大量 schedule 后紧跟 cancel"
// 的场景下让队列被死条目撑大，且堆顶可能堆积墓碑拖慢 peek；
// 索引化删除的代价只是每次 swap 多维护一个 int。
type eventQueue struct {
	h     eventHeap
	items map[uint64]*event
}

func newEventQueue() *eventQueue {
	return &eventQueue{
		h:     make(eventHeap, 0, 16),
		items: make(map[uint64]*event),
	}
}

// push 将事件入堆并登记索引。
func (q *eventQueue) push(e *event) {
	heap.Push(&q.h, e)
	q.items[e.seq] = e
}

// peek 返回堆顶事件，队列为空时返回 nil。
func (q *eventQueue) peek() *event {
	if len(q.h) == 0 {
		return nil
	}
	return q.h[0]
}

// pop 弹出堆顶事件并从索引中摘除。
func (q *eventQueue) pop() *event {
	e, ok := heap.Pop(&q.h).(*event)
	if !ok {
		return nil
	}
	delete(q.items, e.seq)
	return e
}

// remove 按序号摘除一个在堆中的事件。
// 事件不在堆中（未知、已触发、执行中）时返回 nil。
func (q *eventQueue) remove(seq uint64) *event {
	e, ok := q.items[seq]
	if !ok || e.index < 0 {
		return nil
	}
	heap.Remove(&q.h, e.index)
	delete(q.items, seq)
	return e
}

// lookup 按序号返回事件，包括已出堆但仍在执行中的循环任务。
func (q *eventQueue) lookup(seq uint64) *event {
	return q.items[seq]
}

// track 登记一个不在堆中的事件（循环任务执行期间），
// 使 Cancel 在执行窗口内仍能找到它。
func (q *eventQueue) track(e *event) {
	q.items[e.seq] = e
}

// forget 从索引中移除事件。
func (q *eventQueue) forget(seq uint64) {
	delete(q.items, seq)
}

// len 返回堆中待执行事件数。
func (q *eventQueue) len() int {
	return len(q.h)
}

// eventHeap 实现 container/heap，排序键为 (wake, seq)。
type eventHeap []*event

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if !h[i].wake.Equal(h[j].wake) {
		return h[i].wake.Before(h[j].wake)
	}
	return h[i].seq < h[j].seq
}

func (h eventHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *eventHeap) Push(x any) {
	e, ok := x.(*event)
	if !ok {
		return
	}
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

var _ heap.Interface = (*eventHeap)(nil)
