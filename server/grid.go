package server

import "math"

// Cell 网格坐标（整数格）
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Pixel 世界像素坐标（动画期间的权威位置）
type Pixel struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size 像素尺寸（视口/世界）
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect 以格为单位的矩形占地（展位 footprint）
type Rect struct {
	X int
	Y int
	W int
	H int
}

// CellToPixel 格 → 像素左上角，无偏移
func CellToPixel(c Cell, size float64) Pixel {
	return Pixel{X: float64(c.X) * size, Y: float64(c.Y) * size}
}

// PixelToCell 像素 → 格（向下取整）
func PixelToCell(p Pixel, size float64) Cell {
	return Cell{X: int(math.Floor(p.X / size)), Y: int(math.Floor(p.Y / size))}
}

// RoundPixelToCell 动画结束时提交逻辑格使用四舍五入
func RoundPixelToCell(p Pixel, size float64) Cell {
	return Cell{X: int(math.Round(p.X / size)), Y: int(math.Round(p.Y / size))}
}

// RectContainsCell 半开区间：[X, X+W) × [Y, Y+H)
func RectContainsCell(r Rect, c Cell) bool {
	return c.X >= r.X && c.X < r.X+r.W && c.Y >= r.Y && c.Y < r.Y+r.H
}

// ClampCell 将格裁剪到 cols×rows 的世界网格内
func ClampCell(c Cell, cols, rows int) Cell {
	if c.X < 0 {
		c.X = 0
	}
	if c.Y < 0 {
		c.Y = 0
	}
	if c.X > cols-1 {
		c.X = cols - 1
	}
	if c.Y > rows-1 {
		c.Y = rows - 1
	}
	return c
}

// Distance 两点直线距离
func Distance(a, b Pixel) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Lerp 线性插值：a + (b-a)·t
func Lerp(a, b Pixel, t float64) Pixel {
	return Pixel{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
}

// World 网格世界尺寸
type World struct {
	CellSize float64 `json:"cellSize"`
	Cols     int     `json:"cols"`
	Rows     int     `json:"rows"`
}

// PixelSize 世界像素尺寸
func (w World) PixelSize() Size {
	return Size{Width: float64(w.Cols) * w.CellSize, Height: float64(w.Rows) * w.CellSize}
}

// Clamp 将格裁剪进世界网格
func (w World) Clamp(c Cell) Cell { return ClampCell(c, w.Cols, w.Rows) }
