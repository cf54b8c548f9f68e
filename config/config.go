// Package config 从环境变量读取展馆服务配置
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config 服务与模拟参数
type Config struct {
	Addr       string `env:"HALL_ADDR"        envDefault:":8080"`
	DataDir    string `env:"HALL_DATA_DIR"    envDefault:"web/data"`
	BoothSheet string `env:"HALL_BOOTH_SHEET"`
	WordList   string `env:"HALL_WORD_LIST"`

	LogFile  string `env:"HALL_LOG_FILE"  envDefault:"app.log"`
	LogLevel string `env:"HALL_LOG_LEVEL" envDefault:"debug"`

	// 世界：15×10 格，每格 100px
	CellSize  float64 `env:"HALL_CELL_SIZE"  envDefault:"100"`
	GridCols  int     `env:"HALL_GRID_COLS"  envDefault:"15"`
	GridRows  int     `env:"HALL_GRID_ROWS"  envDefault:"10"`
	Speed     float64 `env:"HALL_SPEED"      envDefault:"200"` // px/s
	FrameRate int     `env:"HALL_FRAME_RATE" envDefault:"60"`

	PatrolMin   time.Duration `env:"HALL_PATROL_MIN"   envDefault:"5s"`
	PatrolMax   time.Duration `env:"HALL_PATROL_MAX"   envDefault:"8s"`
	DialogueMin time.Duration `env:"HALL_DIALOGUE_MIN" envDefault:"8s"`
	DialogueMax time.Duration `env:"HALL_DIALOGUE_MAX" envDefault:"13s"`
	BubbleTTL   time.Duration `env:"HALL_BUBBLE_TTL"   envDefault:"4s"`

	EventDuration time.Duration `env:"HALL_EVENT_DURATION" envDefault:"168h"`
}

// Load 解析环境变量并校验
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate 检查取值范围
func (c Config) Validate() error {
	switch {
	case c.CellSize <= 0:
		return fmt.Errorf("config: cell size must be positive, got %v", c.CellSize)
	case c.GridCols <= 0 || c.GridRows <= 0:
		return fmt.Errorf("config: grid must be non-empty, got %dx%d", c.GridCols, c.GridRows)
	case c.Speed <= 0:
		return fmt.Errorf("config: speed must be positive, got %v", c.Speed)
	case c.FrameRate <= 0:
		return fmt.Errorf("config: frame rate must be positive, got %d", c.FrameRate)
	case c.PatrolMin <= 0 || c.PatrolMax < c.PatrolMin:
		return fmt.Errorf("config: invalid patrol interval [%v, %v]", c.PatrolMin, c.PatrolMax)
	case c.DialogueMin <= 0 || c.DialogueMax < c.DialogueMin:
		return fmt.Errorf("config: invalid dialogue interval [%v, %v]", c.DialogueMin, c.DialogueMax)
	case c.BubbleTTL <= 0:
		return fmt.Errorf("config: bubble ttl must be positive, got %v", c.BubbleTTL)
	}
	return nil
}
