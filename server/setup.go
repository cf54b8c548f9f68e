package server

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"exhibithall/catalog"
)

// DefaultPlayerName 未填写名字时使用
const DefaultPlayerName = "訪客"

var (
	ErrNoAvatar       = errors.New("請選擇一個頭像！")
	ErrUnknownAvatar  = errors.New("unknown avatar")
	ErrAlreadyStarted = errors.New("session already started")
	ErrNoFreeCell     = errors.New("no free cell to spawn")
)

// Setup 校验访客设置并生成访客；失败时不改变任何状态
func (s *Session) Setup(name, avatarID string) error {
	if s.started {
		return ErrAlreadyStarted
	}
	if avatarID == "" {
		return ErrNoAvatar
	}
	avatar, ok := s.catalog.Avatar(avatarID)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAvatar, avatarID)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultPlayerName
	}
	name = catalog.FilterText(name)

	cell, err := s.spawnCell()
	if err != nil {
		return err
	}

	player := &Character{
		ID:    catalog.PlayerID,
		Name:  name,
		Image: avatar.Image,
		Cell:  cell,
		Pixel: CellToPixel(cell, s.world.CellSize),
	}
	s.store.AddPlayer(player)
	s.started = true
	s.metrics.IncSessionsStarted()
	s.log.Infow("player spawned", "name", name, "avatar", avatar.ID, "cell", cell)

	s.present.Spawned(s.store.States())
	s.present.SetCamera(s.camera.Follow(player, s.world.CellSize))
	s.npcs.Start()
	return nil
}

// spawnCell 在未被展位占据的格中随机选一个
func (s *Session) spawnCell() (Cell, error) {
	free := 0
	for y := 0; y < s.world.Rows; y++ {
		for x := 0; x < s.world.Cols; x++ {
			if !s.store.Occupied(Cell{X: x, Y: y}) {
				free++
			}
		}
	}
	if free == 0 {
		return Cell{}, ErrNoFreeCell
	}
	for {
		c := Cell{X: s.rng.Intn(s.world.Cols), Y: s.rng.Intn(s.world.Rows)}
		if !s.store.Occupied(c) {
			return c, nil
		}
	}
}

// StartCountdown 每秒下发活动倒数；只生效一次，须在会话 goroutine 上（或帧循环启动前）调用
func (s *Session) StartCountdown() {
	if s.countdown != nil {
		return
	}
	end := s.sched.Now().Add(s.opts.EventDuration)
	update := func(now time.Time) {
		remaining := end.Sub(now)
		s.present.Countdown(FormatCountdown(remaining))
		if remaining <= 0 {
			s.countdown.Stop()
		}
	}
	update(s.sched.Now())
	s.countdown = s.sched.Every(func() time.Duration { return time.Second }, update)
}

// FormatCountdown 活動倒數：Nd HH:MM:SS；到期后显示結束
func FormatCountdown(remaining time.Duration) string {
	if remaining <= 0 {
		return "活動已結束"
	}
	total := int64(remaining / time.Second)
	days := total / 86400
	hours := total / 3600 % 24
	minutes := total / 60 % 60
	seconds := total % 60
	return fmt.Sprintf("活動倒數：%d天 %02d:%02d:%02d", days, hours, minutes, seconds)
}
