package server

import (
	"encoding/json"
	"net/http"
	"time"
)

// adminConfig 以毫秒表示的可调参数，POST 时只更新出现的字段
type adminConfig struct {
	Speed         *float64 `json:"speed,omitempty"`
	PatrolMinMs   *int64   `json:"patrolMinMs,omitempty"`
	PatrolMaxMs   *int64   `json:"patrolMaxMs,omitempty"`
	DialogueMinMs *int64   `json:"dialogueMinMs,omitempty"`
	DialogueMaxMs *int64   `json:"dialogueMaxMs,omitempty"`
	BubbleTTLMs   *int64   `json:"bubbleTtlMs,omitempty"`
}

func ms(d time.Duration) *int64 {
	v := d.Milliseconds()
	return &v
}

// HandleAdminConfig 提供行为参数的读取与更新（热更新）
// GET /admin/config  返回当前配置
// POST /admin/config 以 JSON 载荷更新部分字段
func (m *Manager) HandleAdminConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		t := m.Tunables()
		cur := adminConfig{
			Speed:         &t.Speed,
			PatrolMinMs:   ms(t.PatrolMin),
			PatrolMaxMs:   ms(t.PatrolMax),
			DialogueMinMs: ms(t.DialogueMin),
			DialogueMaxMs: ms(t.DialogueMax),
			BubbleTTLMs:   ms(t.BubbleTTL),
		}
		writeJSON(w, http.StatusOK, cur)
	case http.MethodPost:
		var body adminConfig
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		t := m.Tunables()
		if body.Speed != nil {
			t.Speed = *body.Speed
		}
		apply := func(dst *time.Duration, v *int64) {
			if v != nil {
				*dst = time.Duration(*v) * time.Millisecond
			}
		}
		apply(&t.PatrolMin, body.PatrolMinMs)
		apply(&t.PatrolMax, body.PatrolMaxMs)
		apply(&t.DialogueMin, body.DialogueMinMs)
		apply(&t.DialogueMax, body.DialogueMaxMs)
		apply(&t.BubbleTTL, body.BubbleTTLMs)

		if t.Speed <= 0 || t.PatrolMin <= 0 || t.PatrolMax < t.PatrolMin ||
			t.DialogueMin <= 0 || t.DialogueMax < t.DialogueMin || t.BubbleTTL <= 0 {
			http.Error(w, "invalid config values", http.StatusBadRequest)
			return
		}
		m.SetTunables(t)
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		Log.Infof("config updated: speed=%.1f patrol=[%v,%v] dialogue=[%v,%v] bubble=%v",
			t.Speed, t.PatrolMin, t.PatrolMax, t.DialogueMin, t.DialogueMax, t.BubbleTTL)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleMetrics 输出运行指标
// GET /metrics
func (m *Manager) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"sessions": m.SessionCount(),
		"metrics":  m.metrics.Snapshot(),
	})
}

// HandleCatalog 输出静态目录（头像、展位、NPC）
// GET /api/catalog
func (m *Manager) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, m.catalog)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
