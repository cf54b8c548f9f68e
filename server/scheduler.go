package server

import (
	"container/heap"
	"math/rand"
	"time"
)

// Clock 时间来源；测试中用手动时钟替换
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// FrameFunc 帧回调，参数为本次 Step 的时间点
type FrameFunc func(now time.Time)

// Timer 由 Scheduler 持有的定时任务句柄
type Timer struct {
	at      time.Time
	seq     uint64
	fn      FrameFunc
	next    func() time.Duration // 非 nil 表示重复任务，每次触发后重新取间隔
	stopped bool
	index   int
}

// Stop 取消定时器；已出队但尚未执行的触发也会被丢弃
func (t *Timer) Stop() {
	if t != nil {
		t.stopped = true
	}
}

// Stopped 是否已取消
func (t *Timer) Stopped() bool { return t == nil || t.stopped }

type timerHeap []*Timer

func (h timerHeap) Len() int { return len(h) }
func (h timerHeap) Less(i, j int) bool {
	if h[i].at.Equal(h[j].at) {
		return h[i].seq < h[j].seq
	}
	return h[i].at.Before(h[j].at)
}
func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *timerHeap) Push(x any) {
	t := x.(*Timer)
	t.index = len(*h)
	*h = append(*h, t)
}
func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}

// Scheduler 单线程协作式调度：帧回调 + 定时器，全部在调用 Step 的 goroutine 上执行
type Scheduler struct {
	clock  Clock
	frames []FrameFunc
	timers timerHeap
	seq    uint64
}

// NewScheduler 创建调度器；clock 为 nil 时使用系统时间
func NewScheduler(clock Clock) *Scheduler {
	if clock == nil {
		clock = systemClock{}
	}
	return &Scheduler{clock: clock}
}

// Now 调度器当前时间
func (s *Scheduler) Now() time.Time { return s.clock.Now() }

// RequestFrame 在下一次 Step 执行 fn（等价于“下一个绘制时机”）
func (s *Scheduler) RequestFrame(fn FrameFunc) {
	s.frames = append(s.frames, fn)
}

// AfterFunc d 之后执行一次 fn
func (s *Scheduler) AfterFunc(d time.Duration, fn FrameFunc) *Timer {
	return s.schedule(s.clock.Now().Add(d), fn, nil)
}

// Every 重复执行 fn，每次触发后由 next 给出下一个间隔
func (s *Scheduler) Every(next func() time.Duration, fn FrameFunc) *Timer {
	return s.schedule(s.clock.Now().Add(next()), fn, next)
}

func (s *Scheduler) schedule(at time.Time, fn FrameFunc, next func() time.Duration) *Timer {
	s.seq++
	t := &Timer{at: at, seq: s.seq, fn: fn, next: next}
	heap.Push(&s.timers, t)
	return t
}

// Step 推进一次：先按截止时间执行到期定时器，再执行本次 Step 之前登记的帧回调。
// Step 内新登记的帧回调（包括定时器里登记的）留到下一次 Step。
func (s *Scheduler) Step() {
	now := s.clock.Now()
	frames := s.frames
	s.frames = nil

	for s.timers.Len() > 0 && !s.timers[0].at.After(now) {
		t := heap.Pop(&s.timers).(*Timer)
		if t.stopped {
			continue
		}
		t.fn(now)
		if t.next != nil && !t.stopped {
			d := t.next()
			if d <= 0 {
				d = time.Millisecond
			}
			t.at = now.Add(d)
			s.seq++
			t.seq = s.seq
			heap.Push(&s.timers, t)
		}
	}

	for _, fn := range frames {
		fn(now)
	}
}

// Pending 待执行的帧回调数与活跃定时器数
func (s *Scheduler) Pending() (frames, timers int) {
	for _, t := range s.timers {
		if !t.stopped {
			timers++
		}
	}
	return len(s.frames), timers
}

// Jitter 在 [min, max] 内均匀取一个间隔
func Jitter(rng *rand.Rand, min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(rng.Int63n(int64(max-min)+1))
}
