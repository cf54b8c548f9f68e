package server

import (
	"encoding/json"

	"exhibithall/catalog"
)

// Presenter 视图层边界：全部为单向通知，核心不关心返回
type Presenter interface {
	Hello(h HelloMessage)
	Spawned(chars []CharacterState)
	SetupFailed(reason string)
	RenderCharacter(id string, at Pixel)
	SetCamera(offset Pixel)
	ShowBubble(id, text string)
	HideBubble(id string)
	OpenBooth(b catalog.Booth)
	Countdown(text string)
}

// HelloMessage 连接建立后下发的静态信息
type HelloMessage struct {
	Session string           `json:"session"`
	World   World            `json:"world"`
	Avatars []catalog.Avatar `json:"avatars"`
	Booths  []catalog.Booth  `json:"booths"`
}

// 出站消息统一带 type 字段
type outMessage struct {
	Type       string           `json:"type"`
	ID         string           `json:"id,omitempty"`
	X          *float64         `json:"x,omitempty"`
	Y          *float64         `json:"y,omitempty"`
	Text       string           `json:"text,omitempty"`
	Visible    *bool            `json:"visible,omitempty"`
	Reason     string           `json:"reason,omitempty"`
	Booth      *catalog.Booth   `json:"booth,omitempty"`
	Characters []CharacterState `json:"characters,omitempty"`
	Hello      *HelloMessage    `json:"hello,omitempty"`
}

// Enqueuer 出站字节的去处（ClientConn）
type Enqueuer interface {
	Enqueue(b []byte)
}

// JSONPresenter 将通知编码为 JSON 文本消息
type JSONPresenter struct {
	out Enqueuer
}

func NewJSONPresenter(out Enqueuer) *JSONPresenter { return &JSONPresenter{out: out} }

func (p *JSONPresenter) send(m outMessage) {
	b, err := json.Marshal(m)
	if err != nil {
		Log.Errorf("encode %s message: %v", m.Type, err)
		return
	}
	p.out.Enqueue(b)
}

func (p *JSONPresenter) Hello(h HelloMessage) { p.send(outMessage{Type: "hello", Hello: &h}) }

func (p *JSONPresenter) Spawned(chars []CharacterState) {
	p.send(outMessage{Type: "spawned", Characters: chars})
}

func (p *JSONPresenter) SetupFailed(reason string) {
	p.send(outMessage{Type: "setup_error", Reason: reason})
}

func (p *JSONPresenter) RenderCharacter(id string, at Pixel) {
	p.send(outMessage{Type: "render", ID: id, X: &at.X, Y: &at.Y})
}

func (p *JSONPresenter) SetCamera(offset Pixel) {
	p.send(outMessage{Type: "camera", X: &offset.X, Y: &offset.Y})
}

func (p *JSONPresenter) ShowBubble(id, text string) {
	visible := true
	p.send(outMessage{Type: "bubble", ID: id, Text: text, Visible: &visible})
}

func (p *JSONPresenter) HideBubble(id string) {
	visible := false
	p.send(outMessage{Type: "bubble", ID: id, Visible: &visible})
}

func (p *JSONPresenter) OpenBooth(b catalog.Booth) {
	p.send(outMessage{Type: "booth", ID: b.ID, Booth: &b})
}

func (p *JSONPresenter) Countdown(text string) {
	p.send(outMessage{Type: "countdown", Text: text})
}
