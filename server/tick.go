package server

import "time"

const (
	// FramesPerSecond 默认帧率，对应浏览器的绘制节奏
	FramesPerSecond = 60
)

// FrameInterval 由帧率得到帧间隔
func FrameInterval(fps int) time.Duration {
	if fps <= 0 {
		fps = FramesPerSecond
	}
	return time.Second / time.Duration(fps)
}

// StartTicker 启动会话的帧循环（单线程推进世界），会话结束后退出
func (s *Session) StartTicker(interval time.Duration) {
	if s.tickerStarted {
		return
	}
	s.tickerStarted = true
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.done:
				return
			case <-ticker.C:
			}
			// 核心循环：处理输入 → 到期定时器 → 动画帧
			start := time.Now()
			s.Frame()
			s.metrics.AddFrame(time.Since(start).Nanoseconds())
		}
	}()
}
