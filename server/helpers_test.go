package server

import (
	"math/rand"
	"time"

	"exhibithall/catalog"
)

type fakeClock struct{ now time.Time }

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type bubbleEvent struct {
	id      string
	text    string
	visible bool
	at      time.Time
}

// recordPresenter 记录所有通知，供断言使用
type recordPresenter struct {
	clock     *fakeClock
	hello     []HelloMessage
	spawned   [][]CharacterState
	failures  []string
	renders   map[string][]Pixel
	cameras   []Pixel
	bubbles   []bubbleEvent
	booths    []catalog.Booth
	countdown []string
}

func newRecordPresenter(clock *fakeClock) *recordPresenter {
	return &recordPresenter{clock: clock, renders: make(map[string][]Pixel)}
}

func (p *recordPresenter) Hello(h HelloMessage) { p.hello = append(p.hello, h) }
func (p *recordPresenter) Spawned(chars []CharacterState) { p.spawned = append(p.spawned, chars) }
func (p *recordPresenter) SetupFailed(reason string) { p.failures = append(p.failures, reason) }
func (p *recordPresenter) RenderCharacter(id string, at Pixel) { p.renders[id] = append(p.renders[id], at) }
func (p *recordPresenter) SetCamera(offset Pixel) { p.cameras = append(p.cameras, offset) }
func (p *recordPresenter) OpenBooth(b catalog.Booth) { p.booths = append(p.booths, b) }
func (p *recordPresenter) Countdown(text string) { p.countdown = append(p.countdown, text) }

func (p *recordPresenter) ShowBubble(id, text string) {
	p.bubbles = append(p.bubbles, bubbleEvent{id: id, text: text, visible: true, at: p.clock.Now()})
}

func (p *recordPresenter) HideBubble(id string) {
	p.bubbles = append(p.bubbles, bubbleEvent{id: id, visible: false, at: p.clock.Now()})
}

// 15×10 格、每格 100px 的世界，(2,2) 起 2×2 的展位
var testWorld = World{CellSize: 100, Cols: 15, Rows: 10}

func testCatalog(npcs ...catalog.NPC) *catalog.Catalog {
	return &catalog.Catalog{
		Avatars: []catalog.Avatar{
			{ID: "cat", Image: "img/cat.png", Name: "貓"},
			{ID: "dog", Image: "img/dog.png", Name: "狗"},
		},
		Booths: []catalog.Booth{{
			ID:       "robotics",
			Name:     "Robotics",
			Position: catalog.Point{X: 2, Y: 2},
			Size:     catalog.Dimensions{Width: 2, Height: 2},
		}},
		NPCs: npcs,
	}
}

func newTestSession(clock *fakeClock, cat *catalog.Catalog, tun Tunables) (*Session, *recordPresenter) {
	present := newRecordPresenter(clock)
	s := NewSession("test", cat, present, SessionOptions{
		World:         testWorld,
		EventDuration: time.Hour,
		Tunables:      func() Tunables { return tun },
		Clock:         clock,
		Rand:          rand.New(rand.NewSource(7)),
	})
	return s, present
}

// runFor 以 16ms 为一帧推进调度器
func runFor(clock *fakeClock, sched *Scheduler, d time.Duration) {
	const frame = 16 * time.Millisecond
	for elapsed := time.Duration(0); elapsed < d; elapsed += frame {
		clock.Advance(frame)
		sched.Step()
	}
}
