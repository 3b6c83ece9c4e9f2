package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anoixa/fish-bed/api/core"
	"github.com/anoixa/fish-bed/config"
	"github.com/anoixa/fish-bed/internal/app"
	"github.com/anoixa/fish-bed/utils"
	"github.com/spf13/cobra"
)

// 定期清理间隔
const (
	janitorInterval      = time.Hour
	janitorSubmitTimeout = 30 * time.Second
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start API server",
	Run: func(cmd *cobra.Command, args []string) {
		RunServer()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func RunServer() {
	config.InitConfig()
	cfg := config.Get()

	if cfg.UploadTempDir != "" {
		if err := os.MkdirAll(cfg.UploadTempDir, os.ModePerm); err != nil {
			log.Fatalf("Failed to create temp directory: %v", err)
		}
	}

	container := app.NewContainer(cfg)
	if err := container.Init(); err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	stopJanitor := startJanitor(container)

	server, cleanup := core.StartServer(container)
	go func() {
		log.Printf("Server started on %s", cfg.Addr())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// 处理退出signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	stopJanitor()
	if cleanup != nil {
		cleanup()
		log.Println("Cleanup tasks finished.")
	}

	if err := container.Close(); err != nil {
		log.Printf("Error closing container: %v", err)
	}

	log.Println("Server exited successfully")
}

// startJanitor 启动时及之后每小时提交一次清理任务到协程池
func startJanitor(container *app.Container) func() {
	ctx, cancel := context.WithCancel(context.Background())

	// 定时任务只清理过期会话与临时文件，孤儿记录由 clean 命令处理
	opts := container.JanitorOptions(false)
	opts.SkipOrphans = true

	submit := func() {
		ok := container.Pool.SubmitWait(func() {
			if _, err := container.Janitor.Run(ctx, opts); err != nil && !utils.IsContextCanceled(err) {
				log.Printf("[Janitor] Scheduled run failed: %v", err)
			}
		}, janitorSubmitTimeout)
		if !ok {
			log.Println("[Janitor] Worker queue full, skipping scheduled run")
		}
	}

	utils.SafeGo(func() {
		ticker := time.NewTicker(janitorInterval)
		defer ticker.Stop()

		submit()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				submit()
			}
		}
	})

	return cancel
}
