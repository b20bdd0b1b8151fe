package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"go.etcd.io/bbolt"

	cartapp "github.com/dgquintero/carrito/internal/cart/app"
	cartdomain "github.com/dgquintero/carrito/internal/cart/domain"
	cartbolt "github.com/dgquintero/carrito/internal/cart/infra/bolt"
	cartredis "github.com/dgquintero/carrito/internal/cart/infra/redis"
	catalogapp "github.com/dgquintero/carrito/internal/catalog/app"
	"github.com/dgquintero/carrito/internal/catalog/infra/memory"
	checkoutapp "github.com/dgquintero/carrito/internal/checkout/app"
	"github.com/dgquintero/carrito/internal/checkout/infra/adapter"
	orderbolt "github.com/dgquintero/carrito/internal/checkout/infra/bolt"
	"github.com/dgquintero/carrito/internal/web"
	"github.com/dgquintero/carrito/pkg/config"
	"github.com/dgquintero/carrito/pkg/logger"
	"github.com/dgquintero/carrito/pkg/shutdown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Service:   "carrito",
		Env:       cfg.AppEnv,
		Level:     cfg.LogLevel,
		AddSource: true,
	})

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	db, err := bbolt.Open(cfg.StorePath, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		log.Error("open store db", slog.Any("err", err), slog.String("path", cfg.StorePath))
		os.Exit(1)
	}
	defer db.Close()

	cartStore, err := openCartStore(cfg, db)
	if err != nil {
		log.Error("open cart store", slog.Any("err", err))
		os.Exit(1)
	}

	cartSvc, err := cartapp.NewService(ctx, cartStore)
	if err != nil {
		log.Error("load cart", slog.Any("err", err))
		os.Exit(1)
	}
	cartSvc.Subscribe(func(s cartdomain.Summary) {
		log.Debug("cart updated", slog.Int("count", s.Count), slog.Float64("total", s.Total))
	})

	catalogRepo := memory.NewProductRepo()
	catalogSvc := catalogapp.NewService(catalogRepo)
	seedCatalog(ctx, log, catalogSvc)

	orderRepo, err := orderbolt.NewOrderRepo(db)
	if err != nil {
		log.Error("open order repo", slog.Any("err", err))
		os.Exit(1)
	}

	checkoutSvc := checkoutapp.NewService(
		adapter.NewCartServiceAccess(cartSvc),
		adapter.NewCatalogServiceReader(catalogSvc),
		orderRepo,
		10,
		cfg.CheckoutDelay,
	)

	handler := web.NewHandler(cartSvc, catalogSvc, checkoutSvc, log)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	server := &http.Server{
		Addr:              addr,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("http server starting", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", slog.Any("err", err))
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown error", slog.Any("err", err))
	}

	wg.Wait()
	log.Info("bye")
}

func openCartStore(cfg config.Config, db *bbolt.DB) (cartapp.Store, error) {
	switch cfg.StoreBackend {
	case "redis":
		client := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
		return cartredis.NewStore(client), nil
	case "bolt":
		return cartbolt.NewStore(db)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

func seedCatalog(ctx context.Context, log *slog.Logger, svc *catalogapp.Service) {
	seed := []struct {
		name, desc string
		amount     int64
	}{
		{"Camiseta Azul", "Camiseta de algodón, talla única", 35000},
		{"Pantalón Negro", "Corte clásico", 89900},
		{"Zapatos de Cuero", "Hechos a mano", 249990},
		{"Gorra Roja", "Ajustable", 25000},
	}

	for _, p := range seed {
		if _, err := svc.CreateProduct(ctx, p.name, p.desc, "COP", p.amount); err != nil {
			log.Warn("seed product", slog.String("name", p.name), slog.Any("err", err))
		}
	}
}
