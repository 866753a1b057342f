package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/shababeek/pos/internal/access"
	"github.com/shababeek/pos/internal/auth"
	"github.com/shababeek/pos/internal/config"
	"github.com/shababeek/pos/internal/database"
	"github.com/shababeek/pos/internal/entities/admin"
	"github.com/shababeek/pos/internal/entities/category"
	"github.com/shababeek/pos/internal/entities/order"
	"github.com/shababeek/pos/internal/entities/product"
	"github.com/shababeek/pos/internal/entities/table"
	"github.com/shababeek/pos/internal/query"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	setupLogging(cfg)

	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()
	log.Info().Msg("database connected")

	ctx := context.Background()
	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure schema")
	}

	adminRepo := admin.NewRepository(db)
	tableRepo := table.NewRepository(db)
	categoryRepo := category.NewRepository(db)
	productRepo := product.NewRepository(db)
	orderRepo := order.NewRepository(db)

	if cfg.IsDevelopment() {
		if err := seedAdmins(ctx, adminRepo); err != nil {
			log.Fatal().Err(err).Msg("failed to seed admins")
		}
	}

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	guard := auth.NewGuard(tokens, admin.NewResolver(adminRepo))

	adminH := admin.NewHandler(admin.NewService(adminRepo, tokens))
	tableH := table.NewHandler(table.NewService(tableRepo))
	categoryH := category.NewHandler(category.NewService(categoryRepo))
	productH := product.NewHandler(product.NewService(productRepo))
	orderH := order.NewHandler(order.NewService(orderRepo))

	resources := http.NewServeMux()
	adminH.RegisterRoutes(resources, guard)
	tableH.RegisterRoutes(resources, guard)
	categoryH.RegisterRoutes(resources, guard)
	productH.RegisterRoutes(resources, guard)
	orderH.RegisterRoutes(resources, guard)

	router := http.NewServeMux()
	router.HandleFunc("GET /api/v1/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	router.Handle("/api/v1/", http.StripPrefix("/api/v1", resources))

	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      requestLogger(router),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", cfg.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-shutdownCtx.Done()
	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

// seedAdmins creates one account per role when the store is empty, so a fresh
// dev database is immediately usable. All seeded accounts share the password
// "shababeek".
func seedAdmins(ctx context.Context, repo admin.Repository) error {
	existing, err := repo.List(ctx, query.ListParams{Limit: 1})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	seeds := []struct {
		first, last, email string
		role               access.Role
	}{
		{"Sherif", "Shababeek", "superadmin@shababeek.com", access.RoleSuperAdmin},
		{"Adel", "Shababeek", "admin@shababeek.com", access.RoleAdmin},
		{"Kamal", "Shababeek", "cashier@shababeek.com", access.RoleCashier},
	}

	for _, s := range seeds {
		a := &admin.Admin{
			FirstName: s.first,
			LastName:  s.last,
			Email:     s.email,
			Role:      s.role,
		}
		if err := a.SetPassword("shababeek"); err != nil {
			return err
		}
		if err := repo.Create(ctx, a); err != nil {
			return err
		}
		log.Info().Str("email", s.email).Str("role", string(s.role)).Msg("seeded admin")
	}

	return nil
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}
