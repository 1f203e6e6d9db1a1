package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/bchaput/rest-shop/internal/catalog"
	"github.com/bchaput/rest-shop/internal/config"
	"github.com/bchaput/rest-shop/internal/events"
	"github.com/bchaput/rest-shop/internal/handlers"
	"github.com/bchaput/rest-shop/internal/httpserver"
	"github.com/bchaput/rest-shop/internal/logging"
	"github.com/bchaput/rest-shop/internal/search"
	"github.com/bchaput/rest-shop/internal/store"
	"github.com/bchaput/rest-shop/internal/store/gormstore"
	"github.com/bchaput/rest-shop/internal/store/mongostore"
	"github.com/bchaput/rest-shop/internal/validation"
	"github.com/bchaput/rest-shop/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LOG_LEVEL).With("service", "rest-shop")
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	st, err := openStore(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("store: %v", err)
	}

	hub := ws.NewHub(logger)
	sinks := []events.Sink{hub}

	var kafkaSink *events.KafkaSink
	if cfg.KAFKA_ADDRESS != "" {
		kafkaSink = events.NewKafkaSink(cfg.KAFKA_ADDRESS, cfg.KAFKA_TOPIC)
		sinks = append(sinks, kafkaSink)
	}

	var searchHandler *handlers.SearchHandler
	if cfg.ES_URL != "" {
		esClient, err := search.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch: %v", err)
		}
		sinks = append(sinks, &search.Indexer{ES: esClient, Index: cfg.ES_INDEX})
		searchHandler = &handlers.SearchHandler{ES: esClient, Index: cfg.ES_INDEX}
	}

	broadcaster := events.NewBroadcaster(logger, sinks...)

	e := echo.New()
	e.HideBanner = true
	e.Validator = validation.New()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.CORS())
	e.Use(logging.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		Products:   &handlers.ProductHandler{Store: st, Events: broadcaster},
		Users:      &handlers.UserHandler{Store: st},
		Orders:     &handlers.OrderHandler{Store: st},
		Categories: &handlers.CategoryHandler{Store: st},
		Catalog:    &handlers.CatalogHandler{Client: catalog.NewClient(cfg.CATALOG_API_URL)},
		Search:     searchHandler,
		Hub:        hub,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.PORT,
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		log.Printf("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)

	broadcaster.Close()
	if kafkaSink != nil {
		_ = kafkaSink.Close()
	}
	hub.Close()
	_ = st.Close(shutdownCtx)

	log.Println("server stopped")
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.STORE_BACKEND {
	case config.BackendMongo:
		return mongostore.Open(ctx, cfg.MONGO_URL, cfg.MONGO_DB)
	default:
		return gormstore.Open(cfg.PostgresDSN())
	}
}
