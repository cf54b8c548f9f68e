package server

// InputKind 入站输入类型
type InputKind int

const (
	InputSetup InputKind = iota
	InputClick
	InputBooth
	InputViewport
)

// Input 客户端输入（意图），由会话在帧内解释
type Input struct {
	Kind     InputKind
	Point    Pixel  // InputClick：世界坐标
	BoothID  string // InputBooth：视图层已解析出的展位
	Name     string // InputSetup
	AvatarID string // InputSetup
	Viewport Size   // InputViewport
}

// 入站的 JSON 结构（WebSocket 文本消息）
// 示例：{"type":"click","x":550,"y":250}  {"type":"booth","id":"b1"}
type InputMessage struct {
	Type   string  `json:"type"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	ID     string  `json:"id,omitempty"`
	Name   string  `json:"name,omitempty"`
	Avatar string  `json:"avatar,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// ToInput 转换为内部输入；未知类型返回 false
func (m InputMessage) ToInput() (Input, bool) {
	switch m.Type {
	case "setup":
		return Input{Kind: InputSetup, Name: m.Name, AvatarID: m.Avatar}, true
	case "click":
		return Input{Kind: InputClick, Point: Pixel{X: m.X, Y: m.Y}}, true
	case "booth":
		return Input{Kind: InputBooth, BoothID: m.ID}, true
	case "viewport":
		if m.Width <= 0 || m.Height <= 0 {
			return Input{}, false
		}
		return Input{Kind: InputViewport, Viewport: Size{Width: m.Width, Height: m.Height}}, true
	}
	return Input{}, false
}

// ClickResult 世界点击的处理结果（不反馈给用户，只计数）
type ClickResult int

const (
	ClickMoved ClickResult = iota
	ClickSamePlace
	ClickBusy
	ClickBlocked
	ClickNoPlayer
)

func (r ClickResult) String() string {
	switch r {
	case ClickMoved:
		return "moved"
	case ClickSamePlace:
		return "same_place"
	case ClickBusy:
		return "busy"
	case ClickBlocked:
		return "blocked"
	case ClickNoPlayer:
		return "no_player"
	}
	return "unknown"
}

// Router 把指针点击映射为访客的移动请求
type Router struct {
	world   World
	store   *Store
	anim    *Animator
	present Presenter
	metrics *HallMetrics
}

func NewRouter(world World, store *Store, anim *Animator, present Presenter, metrics *HallMetrics) *Router {
	return &Router{world: world, store: store, anim: anim, present: present, metrics: metrics}
}

// HandleClick 世界点击：移动中忽略（不排队、不取消）；目标格裁剪进世界；展位格拒绝
func (r *Router) HandleClick(p Pixel) ClickResult {
	player := r.store.Player()
	if player == nil {
		return ClickNoPlayer
	}
	if r.anim.Moving(player) {
		r.metrics.IncClicksBusy()
		return ClickBusy
	}
	cell := r.world.Clamp(PixelToCell(p, r.world.CellSize))
	if r.store.Occupied(cell) {
		r.metrics.IncClicksBlocked()
		return ClickBlocked
	}
	if !r.anim.MoveTo(player, CellToPixel(cell, r.world.CellSize)) {
		r.metrics.IncClicksSamePlace()
		return ClickSamePlace
	}
	r.metrics.IncClicksMoved()
	return ClickMoved
}

// HandleBoothClick 展位点击只打开详情，不会被当作世界点击
func (r *Router) HandleBoothClick(id string) bool {
	b, ok := r.store.Booth(id)
	if !ok {
		return false
	}
	r.metrics.IncBoothOpens()
	r.present.OpenBooth(b)
	return true
}
