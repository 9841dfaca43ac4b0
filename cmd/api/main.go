package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"foodorder/internal/config"
	"foodorder/internal/handler"
	"foodorder/internal/infra/db"
	"foodorder/internal/infra/ratelimit"
	infraRepo "foodorder/internal/infra/repository"
	"foodorder/internal/infra/storage"
	"foodorder/internal/logger"
	"foodorder/internal/server"
	"foodorder/internal/telemetry"
	"foodorder/internal/usecase"
	auth "foodorder/internal/usecase/auth_usecase"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

func main() {
	// .envは無くてもよい（本番は環境変数）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Config{}).Error("invalid config", "error", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Component: "api"})

	shutdownTracing, err := telemetry.Setup(cfg.TracingEnabled, "foodorder-api", os.Stdout)
	if err != nil {
		log.Error("tracing setup failed", "error", err)
		os.Exit(1)
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Error("db connect failed", "error", err)
		os.Exit(1)
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Error("db migrate failed", "error", err)
		os.Exit(1)
	}

	images, err := storage.NewLocalStorage(cfg.UploadDir, cfg.UploadMaxBytes)
	if err != nil {
		log.Error("upload dir", "error", err)
		os.Exit(1)
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	rtRepo := infraRepo.NewRefreshTokenRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	toppingRepo := infraRepo.NewToppingGormRepository(gormDB)
	sideRepo := infraRepo.NewSideOptionGormRepository(gormDB)
	favoriteRepo := infraRepo.NewFavoriteGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	//usecaseに渡す部品
	idGen := &uuidGenerator{}
	clock := usecase.SystemClock{}

	//bcrypt（会員登録：Hash / ログイン：Verify）
	hasher := auth.NewBcryptPasswordHasher(12)
	verifier := auth.NewBcryptPasswordVerifier()
	issuer := auth.NewJWTIssuer(cfg.JWTSecret, cfg.AccessTTL)

	//Usecase生成
	registerUC := auth.NewRegisterUserUsecase(userRepo, hasher, clock)
	loginUC := auth.NewLoginUsecase(userRepo, rtRepo, verifier, issuer, idGen, clock, cfg.RefreshTTL)
	refreshUC := auth.NewRefreshUsecase(userRepo, rtRepo, issuer, idGen, clock, cfg.RefreshTTL)
	logoutUC := auth.NewLogoutUsecase(rtRepo, clock)
	profileUC := auth.NewProfileUsecase(userRepo, hasher, clock)
	adminUserUC := auth.NewAdminUserUsecase(userRepo, rtRepo, auditRepo, clock)

	catalogUC := usecase.NewCatalogUsecase(categoryRepo, toppingRepo, sideRepo, auditRepo, images, clock)
	productUC := usecase.NewProductUsecase(productRepo, categoryRepo, auditRepo, images, clock)
	favoriteUC := usecase.NewFavoriteUsecase(favoriteRepo, productRepo)
	cartUC := usecase.NewCartUsecase(txm)
	orderUC := usecase.NewOrderUsecase(txm, usecase.NewOrderNumberAllocator(), clock)
	historyUC := usecase.NewOrderHistoryUsecase(txm)
	adminOrderUC := usecase.NewAdminOrderUsecase(txm, clock)
	auditLogUC := usecase.NewAuditLogUsecase(auditRepo)

	//レート制限（Redisが無ければメモリ）
	var rateStore echomw.RateLimiterStore
	if cfg.RedisURL != "" {
		client, err := newRedisClient(cfg.RedisURL)
		if err != nil {
			log.Warn("redis unavailable, using in-memory rate limit", "error", err)
		} else {
			defer client.Close()
			rateStore = ratelimit.NewRedisStore(client, cfg.RateLimitBurst, cfg.RateLimitWin, log.WithComponent("ratelimit"))
		}
	}

	//Handler生成
	srv := server.New(cfg, log, rateStore, server.Deps{
		UserRepo:     userRepo,
		Auth:         handler.NewAuthHandler(registerUC, loginUC, refreshUC, logoutUC, profileUC, cfg),
		AdminUsers:   handler.NewAdminUserHandler(adminUserUC),
		Catalog:      handler.NewCatalogHandler(catalogUC, cfg.UploadMaxBytes),
		Products:     handler.NewProductHandler(productUC),
		AdminProduct: handler.NewAdminProductHandler(productUC, cfg.UploadMaxBytes),
		Favorites:    handler.NewFavoriteHandler(favoriteUC),
		Cart:         handler.NewCartHandler(cartUC),
		Orders:       handler.NewOrderHandler(orderUC, historyUC),
		AdminOrders:  handler.NewAdminOrderHandler(adminOrderUC),
		AuditLogs:    handler.NewAdminAuditLogHandler(auditLogUC),
	})

	//Server起動
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("server stopped", "error", err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error("shutdown failed", "error", err)
		}
	}

	if err := shutdownTracing(context.Background()); err != nil {
		log.Error("tracing shutdown failed", "error", err)
	}
}

func newRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
