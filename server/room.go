package server

import (
	"math/rand"
	"time"

	"go.uber.org/zap"

	"exhibithall/catalog"
)

// SessionOptions 会话构造参数
type SessionOptions struct {
	World         World
	EventDuration time.Duration
	Tunables      func() Tunables
	Clock         Clock
	Rand          *rand.Rand
	Metrics       *HallMetrics
}

// Session 一位访客的展馆：权威状态维护在内存，单线程逐帧推进
type Session struct {
	ID string

	world   World
	catalog *catalog.Catalog
	opts    SessionOptions

	store    *Store
	sched    *Scheduler
	anim     *Animator
	router   *Router
	npcs     *Behaviors
	camera   *Camera
	present  Presenter
	metrics  *HallMetrics
	rng      *rand.Rand
	log      *zap.SugaredLogger
	tunables func() Tunables

	inputChan chan Input
	leaveChan chan struct{}
	done      chan struct{}
	closed    bool

	started   bool
	countdown *Timer

	tickerStarted bool
}

// NewSession 以目录数据构造会话；访客在 Setup 成功后才生成
func NewSession(id string, cat *catalog.Catalog, present Presenter, opts SessionOptions) *Session {
	if opts.Tunables == nil {
		opts.Tunables = func() Tunables { return DefaultTunables }
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Metrics == nil {
		opts.Metrics = &HallMetrics{}
	}
	if opts.EventDuration <= 0 {
		opts.EventDuration = 7 * 24 * time.Hour
	}

	s := &Session{
		ID:        id,
		world:     opts.World,
		catalog:   cat,
		opts:      opts,
		present:   present,
		metrics:   opts.Metrics,
		rng:       opts.Rand,
		tunables:  opts.Tunables,
		log:       Log.With("session", id),
		inputChan: make(chan Input, 256), // 足够缓冲，避免网络读阻塞影响帧推进
		leaveChan: make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
	s.store = NewStore(opts.World, cat.Booths, cat.NPCs)
	s.sched = NewScheduler(opts.Clock)
	s.anim = NewAnimator(s.sched, opts.World.CellSize, func() float64 { return s.tunables().Speed }, s.metrics)
	s.anim.OnFrame = s.onFrame
	s.router = NewRouter(opts.World, s.store, s.anim, present, s.metrics)
	s.npcs = NewBehaviors(s.sched, s.anim, s.store, present, s.rng, s.tunables, opts.World.CellSize, s.metrics)
	s.camera = &Camera{Viewport: DefaultViewport, World: opts.World.PixelSize()}
	return s
}

// Store 会话的实体存储
func (s *Session) Store() *Store { return s.store }

// Started 访客是否已生成
func (s *Session) Started() bool { return s.started }

// Camera 当前镜头偏移
func (s *Session) Camera() Pixel { return s.camera.Offset }

// Done 会话结束后关闭
func (s *Session) Done() <-chan struct{} { return s.done }

// Greet 下发世界尺寸与目录
func (s *Session) Greet() {
	s.present.Hello(HelloMessage{
		Session: s.ID,
		World:   s.world,
		Avatars: s.catalog.Avatars,
		Booths:  s.catalog.Booths,
	})
}

// onFrame 先提交位置再渲染；访客移动时镜头跟随
func (s *Session) onFrame(c *Character) {
	s.present.RenderCharacter(c.ID, c.Pixel)
	if c.Kind == KindPlayer {
		s.present.SetCamera(s.camera.Follow(c, s.world.CellSize))
	}
}

// OnInput 入站输入（不立即处理），等下一帧在会话 goroutine 上解释
func (s *Session) OnInput(in Input) {
	select {
	case s.inputChan <- in:
	default:
		// 丢弃：为了实时性，避免背压影响帧推进
		s.metrics.IncChanFullDiscarded()
	}
}

// RequestLeave 请求在会话 goroutine 中结束会话，避免并发改动状态
func (s *Session) RequestLeave() {
	select {
	case s.leaveChan <- struct{}{}:
	default:
	}
}

// ProcessInputs 处理当前帧的所有输入（非阻塞 drain）
func (s *Session) ProcessInputs() {
	for {
		select {
		case <-s.leaveChan:
			s.close()
			return
		case in := <-s.inputChan:
			s.apply(in)
		default:
			return
		}
	}
}

func (s *Session) apply(in Input) {
	switch in.Kind {
	case InputSetup:
		if err := s.Setup(in.Name, in.AvatarID); err != nil {
			s.metrics.IncSetupRejected()
			s.log.Debugw("setup rejected", "err", err)
			s.present.SetupFailed(err.Error())
		}
	case InputClick:
		res := s.router.HandleClick(in.Point)
		s.log.Debugw("click", "x", in.Point.X, "y", in.Point.Y, "result", res.String())
	case InputBooth:
		if !s.router.HandleBoothClick(in.BoothID) {
			s.log.Debugw("unknown booth", "booth", in.BoothID)
		}
	case InputViewport:
		s.camera.Viewport = in.Viewport
		if p := s.store.Player(); p != nil {
			s.present.SetCamera(s.camera.Follow(p, s.world.CellSize))
		}
	}
}

// Frame 一帧：处理输入 → 执行到期定时器与帧回调
func (s *Session) Frame() {
	s.ProcessInputs()
	if s.closed {
		return
	}
	s.sched.Step()
}

// close 停止所有定时器；只在会话 goroutine 上调用
func (s *Session) close() {
	if s.closed {
		return
	}
	s.closed = true
	s.npcs.Stop()
	s.countdown.Stop()
	close(s.done)
	s.log.Infow("session closed", "started", s.started)
}
