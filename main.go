package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"storefront/auth"
	"storefront/checkout"
	"storefront/config"
	"storefront/handlers"
	"storefront/pricing"
	"storefront/store"
)

func main() {
	seed := flag.Bool("seed", false, "load the sample catalog into an empty database")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("could not read .env: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := store.Open(ctx, cfg.DBConnStr)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	log.Println("connected to database")

	if err := store.Migrate(ctx, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	st := store.New(db)
	if *seed {
		loaded, err := store.Seed(ctx, st)
		if err != nil {
			log.Fatalf("seed: %v", err)
		}
		if loaded {
			log.Println("sample catalog loaded")
		} else {
			log.Println("catalog not empty, seed skipped")
		}
	}

	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	router := handlers.NewRouter(handlers.Deps{
		Products:   st.Products,
		Categories: st.Categories,
		Carts:      st.Carts,
		Orders:     checkout.New(st, st.Orders, pricing.NewCalculator(cfg.ShippingFlat, cfg.TaxRate)),
		Accounts:   auth.NewAccounts(st.Users, issuer),
		Gate:       auth.NewGate(issuer, st.Users),
		DB:         st,
	}, handlers.RouterOptions{CORSOrigins: cfg.CORSOrigins})

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("listening on :%s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
