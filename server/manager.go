package server

import (
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"exhibithall/catalog"
)

// ManagerOptions 管理器构造参数
type ManagerOptions struct {
	World         World
	FrameRate     int
	EventDuration time.Duration
	Tunables      Tunables
}

// Manager 管理所有访客会话的生命周期，并持有共享的目录、参数与指标
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	nextID   int64

	catalog  *catalog.Catalog
	opts     ManagerOptions
	tunables atomic.Pointer[Tunables]
	metrics  *HallMetrics
}

func NewManager(cat *catalog.Catalog, opts ManagerOptions) *Manager {
	m := &Manager{
		sessions: make(map[string]*Session),
		catalog:  cat,
		opts:     opts,
		metrics:  &HallMetrics{},
	}
	t := opts.Tunables
	m.tunables.Store(&t)
	return m
}

// Tunables 当前行为参数（会话每次取用时读取）
func (m *Manager) Tunables() Tunables { return *m.tunables.Load() }

// SetTunables 热更新行为参数
func (m *Manager) SetTunables(t Tunables) { m.tunables.Store(&t) }

// Metrics 共享指标
func (m *Manager) Metrics() *HallMetrics { return m.metrics }

// Catalog 静态目录
func (m *Manager) Catalog() *catalog.Catalog { return m.catalog }

// CreateSession 创建会话：先下发目录，再开始倒数与帧循环。
// 倒数在访客设置之前就开始，与页面载入时一致。
func (m *Manager) CreateSession(present Presenter) *Session {
	id := fmt.Sprintf("s-%d", atomic.AddInt64(&m.nextID, 1))
	s := NewSession(id, m.catalog, present, SessionOptions{
		World:         m.opts.World,
		EventDuration: m.opts.EventDuration,
		Tunables:      m.Tunables,
		Rand:          rand.New(rand.NewSource(time.Now().UnixNano())),
		Metrics:       m.metrics,
	})

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	// 帧循环启动前仍在当前 goroutine，可以直接操作会话
	s.Greet()
	s.StartCountdown()
	s.StartTicker(FrameInterval(m.opts.FrameRate))
	go func() {
		<-s.Done()
		m.remove(id)
	}()
	return s
}

func (m *Manager) remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// SessionCount 活跃会话数
func (m *Manager) SessionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
