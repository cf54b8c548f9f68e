package server

import "net/http"

// Routes 服务端接口。展馆页面（视图层）由独立部署的前端提供，
// 这里不挂载 "/"；静态数据文件在 /data/ 下供前端直接读取。
func (m *Manager) Routes(dataDir string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", m.HandleWS)
	mux.Handle("/data/", http.StripPrefix("/data/", http.FileServer(http.Dir(dataDir))))
	mux.HandleFunc("/api/catalog", m.HandleCatalog)
	// 管理与监控接口
	mux.HandleFunc("/admin/config", m.HandleAdminConfig)
	mux.HandleFunc("/metrics", m.HandleMetrics)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}
