package server

import (
	"math/rand"
	"time"
)

// Tunables 运行期可调整的行为参数（/admin/config）
type Tunables struct {
	Speed       float64       `json:"speed"`
	PatrolMin   time.Duration `json:"patrolMin"`
	PatrolMax   time.Duration `json:"patrolMax"`
	DialogueMin time.Duration `json:"dialogueMin"`
	DialogueMax time.Duration `json:"dialogueMax"`
	BubbleTTL   time.Duration `json:"bubbleTtl"`
}

// DefaultTunables 5–8s 巡逻，8–13s 对话，气泡 4s
var DefaultTunables = Tunables{
	Speed:       DefaultSpeed,
	PatrolMin:   5 * time.Second,
	PatrolMax:   8 * time.Second,
	DialogueMin: 8 * time.Second,
	DialogueMax: 13 * time.Second,
	BubbleTTL:   4 * time.Second,
}

// Behaviors NPC 的巡逻与对话定时器
type Behaviors struct {
	sched    *Scheduler
	anim     *Animator
	store    *Store
	present  Presenter
	rng      *rand.Rand
	tunables func() Tunables
	cellSize float64
	metrics  *HallMetrics

	patrol   map[string]*Timer
	dialogue map[string]*Timer
	bubbles  map[string]*Timer
	started  bool
}

func NewBehaviors(sched *Scheduler, anim *Animator, store *Store, present Presenter, rng *rand.Rand,
	tunables func() Tunables, cellSize float64, metrics *HallMetrics) *Behaviors {
	return &Behaviors{
		sched:    sched,
		anim:     anim,
		store:    store,
		present:  present,
		rng:      rng,
		tunables: tunables,
		cellSize: cellSize,
		metrics:  metrics,
		patrol:   make(map[string]*Timer),
		dialogue: make(map[string]*Timer),
		bubbles:  make(map[string]*Timer),
	}
}

// Start 为每个 NPC 启动巡逻与对话定时器；只生效一次
func (b *Behaviors) Start() {
	if b.started {
		return
	}
	b.started = true
	for _, npc := range b.store.NPCs() {
		if len(npc.PatrolPoints) > 0 {
			b.patrol[npc.ID] = b.startPatrol(npc)
		}
		if len(npc.Dialogue) > 0 {
			b.dialogue[npc.ID] = b.startDialogue(npc)
		}
	}
}

// Stop 会话结束时取消所有定时器
func (b *Behaviors) Stop() {
	for _, timers := range []map[string]*Timer{b.patrol, b.dialogue, b.bubbles} {
		for id, t := range timers {
			t.Stop()
			delete(timers, id)
		}
	}
}

func (b *Behaviors) startPatrol(npc *Character) *Timer {
	index := 0
	next := func() time.Duration {
		t := b.tunables()
		return Jitter(b.rng, t.PatrolMin, t.PatrolMax)
	}
	return b.sched.Every(next, func(time.Time) {
		// 动画中的触发直接跳过，不排队；下一次触发再试
		if b.anim.Moving(npc) {
			b.metrics.IncPatrolSkipped()
			return
		}
		index = (index + 1) % len(npc.PatrolPoints)
		b.anim.MoveTo(npc, CellToPixel(npc.PatrolPoints[index], b.cellSize))
	})
}

func (b *Behaviors) startDialogue(npc *Character) *Timer {
	next := func() time.Duration {
		t := b.tunables()
		return Jitter(b.rng, t.DialogueMin, t.DialogueMax)
	}
	return b.sched.Every(next, func(time.Time) {
		line := npc.Dialogue[b.rng.Intn(len(npc.Dialogue))]
		b.present.ShowBubble(npc.ID, line)
		// 新气泡重新计时，旧的隐藏任务作废
		b.bubbles[npc.ID].Stop()
		b.bubbles[npc.ID] = b.sched.AfterFunc(b.tunables().BubbleTTL, func(time.Time) {
			b.present.HideBubble(npc.ID)
			delete(b.bubbles, npc.ID)
		})
	})
}
