package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

type sink struct{ msgs [][]byte }

func (s *sink) Enqueue(b []byte) { s.msgs = append(s.msgs, b) }

func TestJSONPresenterMessages(t *testing.T) {
	out := &sink{}
	p := NewJSONPresenter(out)
	p.RenderCharacter("player", Pixel{0, 200})
	p.HideBubble("guard")

	var render map[string]any
	if err := json.Unmarshal(out.msgs[0], &render); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// x 为 0 时也必须出现
	if render["type"] != "render" || render["id"] != "player" || render["x"] != 0.0 || render["y"] != 200.0 {
		t.Errorf("render message = %s", out.msgs[0])
	}
	var bubble map[string]any
	if err := json.Unmarshal(out.msgs[1], &bubble); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if bubble["visible"] != false {
		t.Errorf("bubble message = %s", out.msgs[1])
	}
}

func newTestManager() *Manager {
	return NewManager(testCatalog(guard), ManagerOptions{
		World:         testWorld,
		FrameRate:     120,
		EventDuration: time.Hour,
		Tunables:      DefaultTunables,
	})
}

func TestAdminConfig(t *testing.T) {
	m := newTestManager()

	rec := httptest.NewRecorder()
	m.HandleAdminConfig(rec, httptest.NewRequest(http.MethodPost, "/admin/config",
		strings.NewReader(`{"speed":320,"patrolMinMs":1000,"patrolMaxMs":2000}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("POST status = %d: %s", rec.Code, rec.Body)
	}
	got := m.Tunables()
	if got.Speed != 320 || got.PatrolMin != time.Second || got.PatrolMax != 2*time.Second {
		t.Errorf("tunables = %+v", got)
	}
	if got.DialogueMin != DefaultTunables.DialogueMin {
		t.Errorf("untouched field changed: %+v", got)
	}

	rec = httptest.NewRecorder()
	m.HandleAdminConfig(rec, httptest.NewRequest(http.MethodPost, "/admin/config",
		strings.NewReader(`{"patrolMinMs":9000}`)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("min > max accepted: %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	m.HandleAdminConfig(rec, httptest.NewRequest(http.MethodGet, "/admin/config", nil))
	var cur adminConfig
	if err := json.NewDecoder(rec.Body).Decode(&cur); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cur.Speed == nil || *cur.Speed != 320 || cur.BubbleTTLMs == nil || *cur.BubbleTTLMs != 4000 {
		t.Errorf("GET = %+v", cur)
	}

	rec = httptest.NewRecorder()
	m.HandleAdminConfig(rec, httptest.NewRequest(http.MethodDelete, "/admin/config", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("DELETE status = %d", rec.Code)
	}
}

func TestCatalogAndMetricsEndpoints(t *testing.T) {
	m := newTestManager()

	rec := httptest.NewRecorder()
	m.HandleCatalog(rec, httptest.NewRequest(http.MethodGet, "/api/catalog", nil))
	if rec.Code != http.StatusOK || !bytes.Contains(rec.Body.Bytes(), []byte(`"robotics"`)) {
		t.Errorf("catalog = %d %s", rec.Code, rec.Body)
	}

	rec = httptest.NewRecorder()
	m.HandleMetrics(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	var body struct {
		Sessions int            `json:"sessions"`
		Metrics  map[string]any `json:"metrics"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := body.Metrics["clicks_blocked"]; !ok {
		t.Errorf("metrics = %+v", body.Metrics)
	}
}

// 读取消息直到出现指定 type
func readUntil(t *testing.T, conn *websocket.Conn, typ string) map[string]any {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("waiting for %s: %v", typ, err)
		}
		var msg map[string]any
		if err := json.Unmarshal(payload, &msg); err != nil {
			t.Fatalf("decode %s: %v", payload, err)
		}
		if msg["type"] == typ {
			return msg
		}
	}
}

func TestWebSocketSession(t *testing.T) {
	m := newTestManager()
	srv := httptest.NewServer(http.HandlerFunc(m.HandleWS))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	hello := readUntil(t, conn, "hello")
	if h, ok := hello["hello"].(map[string]any); !ok || h["session"] == "" {
		t.Fatalf("hello = %+v", hello)
	}
	// 倒数在设置之前就开始
	readUntil(t, conn, "countdown")

	send := func(v any) {
		if err := conn.WriteJSON(v); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	send(InputMessage{Type: "setup", Name: "小明"})
	if msg := readUntil(t, conn, "setup_error"); msg["reason"] != ErrNoAvatar.Error() {
		t.Errorf("setup_error = %+v", msg)
	}

	send(InputMessage{Type: "setup", Name: "小明", Avatar: "cat"})
	spawned := readUntil(t, conn, "spawned")
	if chars, ok := spawned["characters"].([]any); !ok || len(chars) != 2 {
		t.Fatalf("spawned = %+v", spawned)
	}

	send(InputMessage{Type: "booth", ID: "robotics"})
	booth := readUntil(t, conn, "booth")
	if booth["id"] != "robotics" {
		t.Errorf("booth = %+v", booth)
	}
	if m.SessionCount() != 1 {
		t.Errorf("sessions = %d, want 1", m.SessionCount())
	}

	conn.Close()
	deadline := time.Now().Add(5 * time.Second)
	for m.SessionCount() != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if m.SessionCount() != 0 {
		t.Error("session not removed after disconnect")
	}
}

func TestWebSocketIdleVisitorStaysConnected(t *testing.T) {
	oldPong, oldPing := pongWait, pingPeriod
	pongWait, pingPeriod = 300*time.Millisecond, 100*time.Millisecond
	t.Cleanup(func() { pongWait, pingPeriod = oldPong, oldPing })

	m := newTestManager()
	srv := httptest.NewServer(m.Routes(t.TempDir()))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	if err := conn.WriteJSON(InputMessage{Type: "setup", Name: "小明", Avatar: "cat"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	// 只读不写：默认的 ping 处理会自动回 pong
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	time.Sleep(time.Second)
	if n := m.SessionCount(); n != 1 {
		t.Fatalf("sessions after idling past the read deadline = %d, want 1", n)
	}
}

func TestRoutes(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "avatars.json"), []byte(`[]`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	h := newTestManager().Routes(dir)

	tests := []struct {
		path string
		code int
	}{
		{"/", http.StatusNotFound},
		{"/data/avatars.json", http.StatusOK},
		{"/healthz", http.StatusOK},
		{"/api/catalog", http.StatusOK},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
		if rec.Code != tt.code {
			t.Errorf("GET %s = %d, want %d", tt.path, rec.Code, tt.code)
		}
	}
}
