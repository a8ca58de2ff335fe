package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	intconfig "busbooking/internal/config"
	intdb "busbooking/internal/db"
	"busbooking/internal/events"
	router "busbooking/internal/http"
	h "busbooking/internal/http/handlers"
	"busbooking/internal/memstore"
	"busbooking/internal/repositories"

	"github.com/gin-gonic/gin"
)

func main() {
	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	api := &h.API{
		Hub:       events.NewHub(),
		JWTSecret: []byte(env.JWTSecret),
		TokenTTL:  env.TokenTTL,
	}

	switch env.StoreDriver {
	case "memory":
		store := memstore.New()
		api.Periods = store.Periods()
		api.Buses = store.Buses()
		api.Passengers = store.Passengers()
		api.Operators = store.Operators()
		log.Println("STORE_DRIVER=memory: data hilang saat server berhenti")
	case "mysql":
		db := intconfig.ConnectDB(env)
		defer intconfig.CloseDB()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := intdb.EnsureSchema(ctx, db); err != nil {
			log.Fatalf("Gagal menyiapkan skema: %v", err)
		}
		cancel()
		log.Printf("Skema siap: %s", strings.Join(intdb.Tables(), ", "))

		api.Periods = repositories.PeriodRepository{DB: db}
		api.Buses = repositories.BusRepository{DB: db}
		api.Passengers = repositories.PassengerRepository{DB: db}
		api.Operators = repositories.OperatorRepository{DB: db}
		api.Ping = func(ctx context.Context) error {
			if err := intconfig.EnsureDB(ctx); err != nil {
				return err
			}
			return intdb.CheckSchema(ctx, db)
		}
	default:
		log.Fatalf("STORE_DRIVER tidak dikenal: %q (pakai mysql atau memory)", env.StoreDriver)
	}

	if env.SeedOperator() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := api.AuthService("startup").EnsureOperator(ctx, env.SeedOperatorUsername, env.SeedOperatorName, env.SeedOperatorPassword)
		cancel()
		if err != nil {
			log.Fatalf("Gagal membuat operator awal: %v", err)
		}
	}

	// Router (Gin engine)
	r := router.NewRouter(env, api)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Server berjalan di http://localhost%s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Gagal menjalankan server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Mematikan server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Shutdown server gagal: %v", err)
	}

	log.Println("Server berhenti dengan aman.")
}
