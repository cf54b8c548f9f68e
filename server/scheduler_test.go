package server

import (
	"math/rand"
	"testing"
	"time"
)

func TestSchedulerFramesRunNextStep(t *testing.T) {
	clock := newFakeClock()
	s := NewScheduler(clock)

	var order []string
	s.RequestFrame(func(time.Time) {
		order = append(order, "a")
		s.RequestFrame(func(time.Time) { order = append(order, "c") })
	})
	s.RequestFrame(func(time.Time) { order = append(order, "b") })

	s.Step()
	if got := len(order); got != 2 {
		t.Fatalf("after first step ran %v, want [a b]", order)
	}
	if frames, _ := s.Pending(); frames != 1 {
		t.Fatalf("pending frames = %d, want 1", frames)
	}
	s.Step()
	if len(order) != 3 || order[2] != "c" {
		t.Fatalf("order = %v, want [a b c]", order)
	}
}

func TestSchedulerTimerFrameRunsNextStep(t *testing.T) {
	clock := newFakeClock()
	s := NewScheduler(clock)

	ran := 0
	s.AfterFunc(time.Second, func(time.Time) {
		s.RequestFrame(func(time.Time) { ran++ })
	})
	clock.Advance(time.Second)
	s.Step()
	if ran != 0 {
		t.Fatal("frame requested by a timer ran in the same step")
	}
	s.Step()
	if ran != 1 {
		t.Fatalf("frame ran %d times, want 1", ran)
	}
}

func TestSchedulerTimersInDeadlineOrder(t *testing.T) {
	clock := newFakeClock()
	s := NewScheduler(clock)

	var fired []int
	s.AfterFunc(3*time.Second, func(time.Time) { fired = append(fired, 3) })
	s.AfterFunc(1*time.Second, func(time.Time) { fired = append(fired, 1) })
	stopped := s.AfterFunc(2*time.Second, func(time.Time) { fired = append(fired, 2) })
	stopped.Stop()

	clock.Advance(500 * time.Millisecond)
	s.Step()
	if len(fired) != 0 {
		t.Fatalf("fired early: %v", fired)
	}
	clock.Advance(5 * time.Second)
	s.Step()
	if len(fired) != 2 || fired[0] != 1 || fired[1] != 3 {
		t.Fatalf("fired = %v, want [1 3]", fired)
	}
	if _, timers := s.Pending(); timers != 0 {
		t.Errorf("pending timers = %d, want 0", timers)
	}
}

func TestSchedulerEveryRedrawsInterval(t *testing.T) {
	clock := newFakeClock()
	s := NewScheduler(clock)

	intervals := []time.Duration{time.Second, 2 * time.Second, 3 * time.Second}
	calls := 0
	next := func() time.Duration {
		d := intervals[calls%len(intervals)]
		calls++
		return d
	}
	var at []time.Duration
	start := clock.Now()
	timer := s.Every(next, func(now time.Time) { at = append(at, now.Sub(start)) })

	runFor(clock, s, 6500*time.Millisecond)
	timer.Stop()
	runFor(clock, s, 10*time.Second)

	// 1s, 1+2=3s, 3+3=6s（按帧粒度向上取整）
	if len(at) != 3 {
		t.Fatalf("fired %d times at %v, want 3", len(at), at)
	}
	want := []time.Duration{time.Second, 3 * time.Second, 6 * time.Second}
	for i, w := range want {
		if at[i] < w || at[i] > w+50*time.Millisecond {
			t.Errorf("firing %d at %v, want ~%v", i, at[i], w)
		}
	}
}

func TestJitterRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		d := Jitter(rng, 5*time.Second, 8*time.Second)
		if d < 5*time.Second || d > 8*time.Second {
			t.Fatalf("Jitter = %v, outside [5s, 8s]", d)
		}
	}
	if d := Jitter(rng, 4*time.Second, 4*time.Second); d != 4*time.Second {
		t.Errorf("Jitter with min == max = %v", d)
	}
}
