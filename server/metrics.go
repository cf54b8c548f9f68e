package server

import (
	"sync/atomic"
)

// HallMetrics 展馆运行期指标（所有会话共享，原子计数）
type HallMetrics struct {
	FrameCount          int64 // 统计的帧数
	TotalFrameNs        int64 // 帧累计耗时（纳秒）
	SessionsStarted     int64 // 完成设置并生成访客的会话数
	SetupRejected       int64 // 设置被拒绝（未选头像等）
	ClicksMoved         int64 // 触发移动的点击
	ClicksBlocked       int64 // 落在展位上的点击
	ClicksBusy          int64 // 访客移动中被忽略的点击
	ClicksSamePlace     int64 // 目标即当前位置
	BoothOpens          int64 // 打开展位详情
	AnimationsStarted   int64
	AnimationsCancelled int64 // 被新的 MoveTo 取代
	AnimationsCompleted int64
	StaleFramesDropped  int64 // 已失效任务的帧回调
	PatrolSkipped       int64 // NPC 动画中跳过的巡逻触发
	ChanFullDiscarded   int64 // 因输入通道满被丢弃
}

func (m *HallMetrics) IncSessionsStarted() { atomic.AddInt64(&m.SessionsStarted, 1) }
func (m *HallMetrics) IncSetupRejected() { atomic.AddInt64(&m.SetupRejected, 1) }
func (m *HallMetrics) IncClicksMoved() { atomic.AddInt64(&m.ClicksMoved, 1) }
func (m *HallMetrics) IncClicksBlocked() { atomic.AddInt64(&m.ClicksBlocked, 1) }
func (m *HallMetrics) IncClicksBusy() { atomic.AddInt64(&m.ClicksBusy, 1) }
func (m *HallMetrics) IncClicksSamePlace() { atomic.AddInt64(&m.ClicksSamePlace, 1) }
func (m *HallMetrics) IncBoothOpens() { atomic.AddInt64(&m.BoothOpens, 1) }
func (m *HallMetrics) IncAnimationsStarted() { atomic.AddInt64(&m.AnimationsStarted, 1) }
func (m *HallMetrics) IncAnimationsCancelled() { atomic.AddInt64(&m.AnimationsCancelled, 1) }
func (m *HallMetrics) IncAnimationsCompleted() { atomic.AddInt64(&m.AnimationsCompleted, 1) }
func (m *HallMetrics) IncStaleFramesDropped() { atomic.AddInt64(&m.StaleFramesDropped, 1) }
func (m *HallMetrics) IncPatrolSkipped() { atomic.AddInt64(&m.PatrolSkipped, 1) }
func (m *HallMetrics) IncChanFullDiscarded() { atomic.AddInt64(&m.ChanFullDiscarded, 1) }
func (m *HallMetrics) AddFrame(ns int64) {
	atomic.AddInt64(&m.FrameCount, 1)
	atomic.AddInt64(&m.TotalFrameNs, ns)
}

// Snapshot 返回只读副本，便于 HTTP 输出
func (m *HallMetrics) Snapshot() map[string]any {
	frames := atomic.LoadInt64(&m.FrameCount)
	total := atomic.LoadInt64(&m.TotalFrameNs)
	var avgMs float64
	if frames > 0 {
		avgMs = float64(total) / float64(frames) / 1e6
	}
	return map[string]any{
		"frame_count":          frames,
		"avg_frame_ms":         avgMs,
		"sessions_started":     atomic.LoadInt64(&m.SessionsStarted),
		"setup_rejected":       atomic.LoadInt64(&m.SetupRejected),
		"clicks_moved":         atomic.LoadInt64(&m.ClicksMoved),
		"clicks_blocked":       atomic.LoadInt64(&m.ClicksBlocked),
		"clicks_busy":          atomic.LoadInt64(&m.ClicksBusy),
		"clicks_same_place":    atomic.LoadInt64(&m.ClicksSamePlace),
		"booth_opens":          atomic.LoadInt64(&m.BoothOpens),
		"animations_started":   atomic.LoadInt64(&m.AnimationsStarted),
		"animations_cancelled": atomic.LoadInt64(&m.AnimationsCancelled),
		"animations_completed": atomic.LoadInt64(&m.AnimationsCompleted),
		"stale_frames_dropped": atomic.LoadInt64(&m.StaleFramesDropped),
		"patrol_skipped":       atomic.LoadInt64(&m.PatrolSkipped),
		"chan_full_discarded":  atomic.LoadInt64(&m.ChanFullDiscarded),
	}
}
