package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"exhibithall/catalog"
	"exhibithall/config"
	"exhibithall/server"
)

// 展馆入口：加载静态数据，启动 HTTP + WebSocket 服务
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "server listen address, e.g. :8080")
	flag.StringVar(&cfg.DataDir, "data", cfg.DataDir, "directory holding avatars.json, booths.json and npcs.json")
	flag.Parse()

	// 使用 zap 日志写入文件（带滚动）
	if err := server.InitLogger(cfg.LogFile, cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer server.SyncLogger()

	// 任何一份数据加载失败都不启动
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	cat, err := catalog.Load(ctx, catalog.Options{
		DataDir:    cfg.DataDir,
		BoothSheet: cfg.BoothSheet,
		WordList:   cfg.WordList,
	})
	cancel()
	if err != nil {
		server.Log.Errorf("資料載入失敗: %v", err)
		server.SyncLogger()
		fmt.Fprintf(os.Stderr, "資料載入失敗，請檢查資料檔: %v\n", err)
		os.Exit(1)
	}
	server.Log.Infof("catalog loaded: %d avatars, %d booths, %d npcs", len(cat.Avatars), len(cat.Booths), len(cat.NPCs))

	mgr := server.NewManager(cat, server.ManagerOptions{
		World:         server.World{CellSize: cfg.CellSize, Cols: cfg.GridCols, Rows: cfg.GridRows},
		FrameRate:     cfg.FrameRate,
		EventDuration: cfg.EventDuration,
		Tunables: server.Tunables{
			Speed:       cfg.Speed,
			PatrolMin:   cfg.PatrolMin,
			PatrolMax:   cfg.PatrolMax,
			DialogueMin: cfg.DialogueMin,
			DialogueMax: cfg.DialogueMax,
			BubbleTTL:   cfg.BubbleTTL,
		},
	})

	// 页面由独立部署的前端提供，这里只有 WebSocket、数据与管理接口
	srv := &http.Server{Addr: cfg.Addr, Handler: mgr.Routes(cfg.DataDir)}

	go func() {
		server.Log.Infof("Exhibition hall listening on %s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			server.Log.Fatalf("listen: %v", err)
		}
	}()

	// 优雅退出（Ctrl+C）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	server.Log.Info("Shutting down...")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	_ = srv.Shutdown(shutdownCtx)
}
