package server

import (
	"time"
)

const (
	// Epsilon 小于该距离（px）的移动视为原地，不启动动画
	Epsilon = 1.0
	// DefaultSpeed 默认移动速度（px/s）
	DefaultSpeed = 200.0
)

// AnimationTask 一次直线插值动画；只属于驱动它的角色
type AnimationTask struct {
	From      Pixel
	To        Pixel
	StartedAt time.Time
	Duration  time.Duration

	cancelled bool
}

// Cancelled 是否已被新的任务取代
func (t *AnimationTask) Cancelled() bool { return t.cancelled }

// Progress 已过时间占总时长的比例，裁剪到 [0,1]
func (t *AnimationTask) Progress(now time.Time) float64 {
	if t.Duration <= 0 {
		return 1
	}
	p := float64(now.Sub(t.StartedAt)) / float64(t.Duration)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Position 在 now 时刻的插值位置
func (t *AnimationTask) Position(now time.Time) Pixel {
	p := t.Progress(now)
	if p == 1 {
		return t.To
	}
	return Lerp(t.From, t.To, p)
}

// Animator 驱动角色像素位置的动画
type Animator struct {
	sched    *Scheduler
	cellSize float64
	speed    func() float64
	metrics  *HallMetrics

	// OnFrame 每帧位置更新后调用（渲染；访客还需重算镜头）
	OnFrame func(c *Character)
	// OnDone 动画完成、逻辑格提交后调用
	OnDone func(c *Character)
}

// NewAnimator speed 每次 MoveTo 时读取，允许运行期调整
func NewAnimator(sched *Scheduler, cellSize float64, speed func() float64, metrics *HallMetrics) *Animator {
	if speed == nil {
		speed = func() float64 { return DefaultSpeed }
	}
	if metrics == nil {
		metrics = &HallMetrics{}
	}
	return &Animator{sched: sched, cellSize: cellSize, speed: speed, metrics: metrics}
}

// MoveTo 将 c 从当前像素位置移动到 target。
// 距离小于 Epsilon 时不做任何事并返回 false；已有动画则先取消，后到的请求生效。
func (a *Animator) MoveTo(c *Character, target Pixel) bool {
	dist := Distance(c.Pixel, target)
	if dist < Epsilon {
		return false
	}
	if prev := c.task; prev != nil {
		prev.cancelled = true
		c.task = nil
		a.metrics.IncAnimationsCancelled()
	}

	task := &AnimationTask{
		From:      c.Pixel,
		To:        target,
		StartedAt: a.sched.Now(),
		Duration:  time.Duration(dist / a.speed() * float64(time.Second)),
	}
	c.task = task
	a.metrics.IncAnimationsStarted()
	a.sched.RequestFrame(func(now time.Time) { a.step(c, task, now) })
	return true
}

// Moving 角色是否有进行中的动画
func (a *Animator) Moving(c *Character) bool { return c.Moving() }

func (a *Animator) step(c *Character, task *AnimationTask, now time.Time) {
	// 过期的帧：任务已被取代，不得修改任何状态
	if task.cancelled || c.task != task {
		a.metrics.IncStaleFramesDropped()
		return
	}

	progress := task.Progress(now)
	c.Pixel = task.Position(now)
	if a.OnFrame != nil {
		a.OnFrame(c)
	}
	if progress < 1 {
		a.sched.RequestFrame(func(now time.Time) { a.step(c, task, now) })
		return
	}

	c.Cell = RoundPixelToCell(c.Pixel, a.cellSize)
	c.task = nil
	a.metrics.IncAnimationsCompleted()
	if a.OnDone != nil {
		a.OnDone(c)
	}
}
