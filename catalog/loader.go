package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

const (
	// PlayerID 访客角色的固定 id，NPC 不可占用
	PlayerID = "player"

	AvatarsFile = "avatars.json"
	BoothsFile  = "booths.json"
	NPCsFile    = "npcs.json"
)

// Options 加载选项
type Options struct {
	DataDir    string // avatars.json / booths.json / npcs.json 所在目录
	BoothSheet string // 可选：以 xlsx 表格替代 booths.json
	WordList   string // 可选：敏感词文件
}

// Load 并行加载全部静态数据；任何一份失败则整体失败，不做部分初始化
func Load(ctx context.Context, opts Options) (*Catalog, error) {
	var (
		avatars []Avatar
		booths  []Booth
		npcs    []NPC
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return readJSON(ctx, filepath.Join(opts.DataDir, AvatarsFile), &avatars)
	})
	g.Go(func() error {
		if opts.BoothSheet != "" {
			b, err := LoadBoothSheet(opts.BoothSheet)
			if err != nil {
				return err
			}
			booths = b
			return nil
		}
		return readJSON(ctx, filepath.Join(opts.DataDir, BoothsFile), &booths)
	})
	g.Go(func() error {
		return readJSON(ctx, filepath.Join(opts.DataDir, NPCsFile), &npcs)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if opts.WordList != "" {
		if err := LoadWordList(opts.WordList); err != nil {
			return nil, err
		}
	}

	c := &Catalog{Avatars: avatars, Booths: booths, NPCs: npcs}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func readJSON(ctx context.Context, path string, dst any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("catalog: load %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("catalog: parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Validate 检查 id 唯一与展位尺寸
func (c *Catalog) Validate() error {
	seen := make(map[string]bool)
	for _, a := range c.Avatars {
		if a.ID == "" {
			return fmt.Errorf("catalog: avatar with empty id")
		}
		if seen["avatar:"+a.ID] {
			return fmt.Errorf("catalog: duplicate avatar id %q", a.ID)
		}
		seen["avatar:"+a.ID] = true
	}
	for _, b := range c.Booths {
		if b.ID == "" {
			return fmt.Errorf("catalog: booth with empty id")
		}
		if seen["booth:"+b.ID] {
			return fmt.Errorf("catalog: duplicate booth id %q", b.ID)
		}
		seen["booth:"+b.ID] = true
		if b.Size.Width <= 0 || b.Size.Height <= 0 {
			return fmt.Errorf("catalog: booth %q has empty footprint %dx%d", b.ID, b.Size.Width, b.Size.Height)
		}
	}
	for _, n := range c.NPCs {
		if n.ID == "" {
			return fmt.Errorf("catalog: npc with empty id")
		}
		// 角色共享同一命名空间，玩家占用 PlayerID
		if seen["char:"+n.ID] || n.ID == PlayerID {
			return fmt.Errorf("catalog: duplicate character id %q", n.ID)
		}
		seen["char:"+n.ID] = true
	}
	return nil
}
