package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"ItemList/internal/config"
	"ItemList/internal/handler"
	"ItemList/internal/storage"

	"github.com/pkg/errors"
)

// @title                       ItemList API
// @version                     1.0
// @description                 Timestamped item list with a live websocket view.
// @BasePath                    /
// @securityDefinitions.apikey  AccessKey
// @in                          header
// @name                        X-Access-Key
func main() {
	conf, err := config.Parse()
	if err != nil {
		log.Fatalf("main(): Failed to parse config: %+v", err)
	}

	loc, err := conf.Display.Location()
	if err != nil {
		log.Fatalf("main(): %+v", err)
	}

	store, err := storage.Open(conf.Storage.DSN)
	if err != nil {
		log.Fatalf("main(): Failed to open store: %+v", err)
	}
	defer store.Close()

	h := handler.New(store, loc)
	router := handler.NewRouter(h, handler.RouterOptions{
		AllowAllOrigins: conf.HTTP.AllowAllOrigins(),
		AllowedOrigins:  conf.HTTP.AllowedOrigins,
		AccessKey:       conf.HTTP.AccessKey,
		RateLimit:       conf.HTTP.RateLimit,
		RateBurst:       conf.HTTP.RateBurst,
	})

	server := &http.Server{
		Addr:    conf.HTTP.Address,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("main(): listening on %s", conf.HTTP.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main(): server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("main(): shutting down")

	// 웹소켓 세션은 Shutdown이 기다리지 않으므로 먼저 종료
	h.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), conf.HTTP.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("main(): graceful shutdown failed: %v", err)
	}
}
