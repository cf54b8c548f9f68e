// Package catalog 加载展馆的静态数据：头像、展位与 NPC。
package catalog

// Point 以格为单位的坐标
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Dimensions 展位占地（格）
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Image 展位图片集条目
type Image struct {
	URL     string `json:"url"`
	Caption string `json:"caption,omitempty"`
}

// Link 展位外部链接
type Link struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// Avatar 头像目录条目，仅在访客设置阶段使用
type Avatar struct {
	ID          string `json:"id"`
	Image       string `json:"image"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Booth 展位：加载后只读
type Booth struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Category         string     `json:"category"`
	ShortDescription string     `json:"shortDescription"`
	Description      string     `json:"description"`
	PosterImage      string     `json:"posterImage"`
	Position         Point      `json:"position"`
	Size             Dimensions `json:"size"`
	Images           []Image    `json:"images,omitempty"`
	VideoURL         string     `json:"videoUrl,omitempty"`
	Links            []Link     `json:"links,omitempty"`
}

// NPC 巡逻 / 对话角色定义
type NPC struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Image        string   `json:"image"`
	Position     Point    `json:"position"`
	PatrolPoints []Point  `json:"patrolPoints,omitempty"`
	Dialogue     []string `json:"dialogue,omitempty"`
}

// Catalog 三份静态数据的集合
type Catalog struct {
	Avatars []Avatar `json:"avatars"`
	Booths  []Booth  `json:"booths"`
	NPCs    []NPC    `json:"npcs"`
}

// Avatar 按 id 查找头像
func (c *Catalog) Avatar(id string) (Avatar, bool) {
	for _, a := range c.Avatars {
		if a.ID == id {
			return a, true
		}
	}
	return Avatar{}, false
}
