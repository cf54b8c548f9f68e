package server

// DefaultViewport 客户端未上报视口时使用
var DefaultViewport = Size{Width: 1024, Height: 768}

// Recenter 计算让 center 位于视口中心的滚动偏移，两轴分别裁剪到 [0, world-viewport]。
// 纯函数，相同输入总是得到相同结果。
func Recenter(center Pixel, viewport, world Size) Pixel {
	return Pixel{
		X: clampAxis(center.X-viewport.Width/2, world.Width-viewport.Width),
		Y: clampAxis(center.Y-viewport.Height/2, world.Height-viewport.Height),
	}
}

func clampAxis(v, max float64) float64 {
	if max < 0 {
		max = 0 // 视口比世界大
	}
	if v > max {
		v = max
	}
	if v < 0 {
		v = 0
	}
	return v
}

// Camera 会话的镜头状态
type Camera struct {
	Viewport Size
	World    Size
	Offset   Pixel
}

// Follow 以角色所在格的中心重新居中，返回新的偏移
func (c *Camera) Follow(ch *Character, cellSize float64) Pixel {
	center := Pixel{X: ch.Pixel.X + cellSize/2, Y: ch.Pixel.Y + cellSize/2}
	c.Offset = Recenter(center, c.Viewport, c.World)
	return c.Offset
}
