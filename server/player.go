package server

// CharacterKind 角色类型
type CharacterKind string

const (
	KindPlayer CharacterKind = "player"
	KindNPC    CharacterKind = "npc"
)

// Character 展馆内的角色（访客或 NPC）。
// 没有动画时 Cell 为权威位置；动画期间以 Pixel 为准，Cell 在动画完成时才提交。
type Character struct {
	ID    string
	Name  string
	Kind  CharacterKind
	Image string

	Cell  Cell
	Pixel Pixel

	PatrolPoints []Cell
	Dialogue     []string

	task *AnimationTask // 至多一个进行中的动画
}

// Moving 是否有进行中的动画
func (c *Character) Moving() bool { return c.task != nil }

// Task 当前动画任务，没有则为 nil
func (c *Character) Task() *AnimationTask { return c.task }

// CharacterState 下发给客户端的轻量状态
type CharacterState struct {
	ID    string        `json:"id"`
	Name  string        `json:"name"`
	Kind  CharacterKind `json:"kind"`
	Image string        `json:"image"`
	X     float64       `json:"x"`
	Y     float64       `json:"y"`
}

// State 当前快照
func (c *Character) State() CharacterState {
	return CharacterState{ID: c.ID, Name: c.Name, Kind: c.Kind, Image: c.Image, X: c.Pixel.X, Y: c.Pixel.Y}
}
