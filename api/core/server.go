package core

import (
	"net/http"

	"github.com/anoixa/fish-bed/internal/app"
)

// StartServer 创建 http.Server
func StartServer(container *app.Container) (*http.Server, func()) {
	cfg := container.GetConfig()
	router, cleanup := NewRouter(container)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	return srv, cleanup
}
