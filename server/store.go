package server

import (
	"exhibithall/catalog"
)

// Store 一次会话内的角色与展位；只在会话 goroutine 上读写
type Store struct {
	chars  []*Character
	byID   map[string]*Character
	player *Character

	booths     []catalog.Booth
	footprints []Rect
}

// NewStore 以目录数据构造：NPC 放在各自的初始格，展位只读
func NewStore(world World, booths []catalog.Booth, npcs []catalog.NPC) *Store {
	s := &Store{byID: make(map[string]*Character)}
	for _, b := range booths {
		s.booths = append(s.booths, b)
		s.footprints = append(s.footprints, Rect{X: b.Position.X, Y: b.Position.Y, W: b.Size.Width, H: b.Size.Height})
	}
	for _, n := range npcs {
		c := &Character{
			ID:       n.ID,
			Name:     n.Name,
			Kind:     KindNPC,
			Image:    n.Image,
			Cell:     Cell{X: n.Position.X, Y: n.Position.Y},
			Dialogue: append([]string(nil), n.Dialogue...),
		}
		for _, p := range n.PatrolPoints {
			c.PatrolPoints = append(c.PatrolPoints, Cell{X: p.X, Y: p.Y})
		}
		c.Pixel = CellToPixel(c.Cell, world.CellSize)
		s.add(c)
	}
	return s
}

func (s *Store) add(c *Character) {
	s.chars = append(s.chars, c)
	s.byID[c.ID] = c
}

// AddPlayer 放入访客角色；每个会话只有一个
func (s *Store) AddPlayer(c *Character) {
	c.Kind = KindPlayer
	s.player = c
	s.add(c)
}

// Player 访客角色，未生成时为 nil
func (s *Store) Player() *Character { return s.player }

// Character 按 id 查找
func (s *Store) Character(id string) *Character { return s.byID[id] }

// Characters 全部角色（顺序：NPC 在前，访客最后）
func (s *Store) Characters() []*Character { return s.chars }

// NPCs 全部 NPC
func (s *Store) NPCs() []*Character {
	out := make([]*Character, 0, len(s.chars))
	for _, c := range s.chars {
		if c.Kind == KindNPC {
			out = append(out, c)
		}
	}
	return out
}

// Booths 展位列表
func (s *Store) Booths() []catalog.Booth { return s.booths }

// Booth 按 id 查找展位
func (s *Store) Booth(id string) (catalog.Booth, bool) {
	for _, b := range s.booths {
		if b.ID == id {
			return b, true
		}
	}
	return catalog.Booth{}, false
}

// BoothAt 返回占据该格的展位
func (s *Store) BoothAt(c Cell) (catalog.Booth, bool) {
	for i, r := range s.footprints {
		if RectContainsCell(r, c) {
			return s.booths[i], true
		}
	}
	return catalog.Booth{}, false
}

// Occupied 该格是否被展位占据
func (s *Store) Occupied(c Cell) bool {
	_, ok := s.BoothAt(c)
	return ok
}

// States 全部角色快照
func (s *Store) States() []CharacterState {
	out := make([]CharacterState, 0, len(s.chars))
	for _, c := range s.chars {
		out = append(out, c.State())
	}
	return out
}
