package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"os"
	"runtime"
	"strconv"
	"time"

	"fitclub/internal/auth"
	"fitclub/internal/changefeed"
	"fitclub/internal/db"
	"fitclub/internal/domain/storage"
	"fitclub/internal/domain/venues"
	"fitclub/internal/mailer"
	"fitclub/internal/notifications"
	"fitclub/internal/notifycenter"
	"fitclub/internal/ratelimiter"
	"fitclub/internal/reviews"
	"fitclub/internal/toasts"
	"fitclub/internal/watcher"

	"github.com/9ssi7/exponent"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoadRateLimiterConfig retrieves rate limiter settings from environment variables
func LoadRateLimiterConfig() ratelimiter.Config {
	defaultRequests := 200
	defaultEnabled := false

	requestsPerTimeFrame := defaultRequests
	if val, exists := os.LookupEnv("RATELIMITER_REQUESTS_COUNT"); exists {
		if parsedVal, err := strconv.Atoi(val); err == nil {
			requestsPerTimeFrame = parsedVal
		} else {
			fmt.Println("Invalid RATELIMITER_REQUESTS_COUNT, defaulting to", defaultRequests)
		}
	}

	enabled := defaultEnabled
	if val, exists := os.LookupEnv("RATE_LIMITER_ENABLED"); exists {
		if parsedVal, err := strconv.ParseBool(val); err == nil {
			enabled = parsedVal
		} else {
			fmt.Println("Invalid RATE_LIMITER_ENABLED, defaulting to", defaultEnabled)
		}
	}

	return ratelimiter.Config{
		RequestsPerTimeFrame: requestsPerTimeFrame,
		TimeFrame:            5 * time.Second,
		Enabled:              enabled,
	}
}

// NewLogger creates a new zap logger with color.
func NewLogger() (*zap.SugaredLogger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	consoleEncoder := zapcore.NewConsoleEncoder(encoderCfg)

	level := zapcore.InfoLevel

	core := zapcore.NewCore(consoleEncoder, zapcore.NewMultiWriteSyncer(zapcore.AddSync(os.Stdout)), level)

	logger := zap.New(core)

	return logger.Sugar(), nil
}

var version = "0.3.0"

//	@title			FitClub API
//	@description	API for FitClub, a fitness-club aggregator.

//	@BasePath					/v1
//	@securityDefinitions.apikey	ApiKeyAuth
//	@in							header
//	@name						Authorization
//	@description

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Fatalf("Error loading .env file: %v", err)
	}

	maxConnsStr := os.Getenv("DB_MAX_CONNS")
	maxConns, err := strconv.Atoi(maxConnsStr)
	if err != nil {
		log.Fatalf("Invalid value for DB_MAX_CONNS: %v", err)
	}

	smtpPort, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		log.Fatalf("Invalid value for SMTP_PORT: %v", err)
	}

	cfg := config{
		addr:        os.Getenv("ADDR"),
		env:         os.Getenv("ENV"),
		frontendURL: os.Getenv("FRONTEND_URL"),
		apiURL:      os.Getenv("EXTERNAL_URL"),
		db: dbConfig{
			addr:        os.Getenv("DB_ADDR"),
			maxConns:    maxConns,
			maxIdleTime: os.Getenv("DB_MAX_IDLE_TIME"),
		},
		mail: mailConfig{
			fromEmail: os.Getenv("SMTP_FROM_EMAIL"),
			smtp: smtpConfig{
				host:     os.Getenv("SMTP_HOST"),
				port:     smtpPort,
				username: os.Getenv("SMTP_USERNAME"),
				password: os.Getenv("SMTP_PASSWORD"),
			},
		},
		auth: authConfig{
			basic: basicConfig{
				user: os.Getenv("AUTH_BASIC_USER"),
				pass: os.Getenv("AUTH_BASIC_PASS"),
			},
			token: tokenConfig{
				secret: os.Getenv("AUTH_TOKEN_SECRET"),
				exp:    time.Hour * 24 * 3, // 3 days
				iss:    "FitClub",
			},
		},
		feed: feedConfig{
			channel: "row_changes",
		},
		rateLimiter: LoadRateLimiterConfig(),
		venueSalt:   os.Getenv("VENUE_CODE_SALT"),
	}

	// Logger
	logger, err := NewLogger()
	if err != nil {
		fmt.Println("Error creating logger:", err)
		return
	}
	defer logger.Sync()

	// Database
	pool, err := db.New(
		cfg.db.addr,
		int32(cfg.db.maxConns),
		cfg.db.maxIdleTime,
	)
	if err != nil {
		logger.Fatal(err)
	}
	defer pool.Close()
	logger.Info("database connection pool established")

	// Storage
	codes, err := venues.NewCodeGenerator(cfg.venueSalt)
	if err != nil {
		logger.Fatal(err)
	}
	store := storage.NewContainer(pool, codes)

	// Mailer
	smtp, err := mailer.NewSMTPClient(
		cfg.mail.smtp.host,
		cfg.mail.smtp.port,
		cfg.mail.smtp.username,
		cfg.mail.smtp.password,
		cfg.mail.fromEmail,
	)
	if err != nil {
		logger.Fatal(err)
	}

	// Push
	expo := exponent.NewClient()
	push := notifications.NewExpoAdapter(expo)

	// Tokens whose devices stopped checking in get cleaned up daily.
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if err := store.PushTokens.PruneStaleTokens(context.Background(), 90*24*time.Hour); err != nil {
				logger.Warnw("pruning stale push tokens failed", "error", err)
			}
		}
	}()

	// Rate limiter
	rateLimiter := ratelimiter.NewFixedWindowLimiter(
		cfg.rateLimiter.RequestsPerTimeFrame,
		cfg.rateLimiter.TimeFrame,
	)

	// Authenticator
	jwtAuthenticator := auth.NewJWTAuthenticator(
		cfg.auth.token.secret,
		cfg.auth.token.iss,
		cfg.auth.token.iss,
		cfg.auth.token.exp,
	)

	// Toast hub + notification center
	hub := toasts.NewHub(logger)
	center := notifycenter.NewCenter()

	// Review stores
	reviewStores := reviews.NewManager(store.VenuesReviews, hub, logger)

	// Change feed + watchers
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feed := changefeed.NewListener(pool, cfg.feed.channel, logger)
	go feed.Run(ctx)
	defer feed.Close()

	accountNotifier := notifications.NewAccountNotifier(smtp, push, store.PushTokens, logger)

	roleWatcher := watcher.NewRoleWatcher(feed, hub, accountNotifier, func(t watcher.Transition) {
		center.Add(notifycenter.CategoryRoleChange, t.Subject, t.Description)
	}, logger)
	blockWatcher := watcher.NewBlockWatcher(feed, hub, accountNotifier, func(t watcher.Transition) {
		category := notifycenter.CategoryUserBlocked
		if t.Kind == watcher.KindUserUnblocked {
			category = notifycenter.CategoryUserUnblocked
		}
		center.Add(category, t.Subject, t.Description)
	}, logger)

	if err := roleWatcher.Start(ctx); err != nil {
		logger.Fatal(err)
	}
	if err := blockWatcher.Start(ctx); err != nil {
		logger.Fatal(err)
	}

	app := &application{
		config:        cfg,
		logger:        logger,
		store:         store,
		mailer:        smtp,
		authenticator: jwtAuthenticator,
		rateLimiter:   rateLimiter,
		reviewStores:  reviewStores,
		center:        center,
		toasts:        hub,
		watchers:      []*watcher.Watcher{roleWatcher, blockWatcher},
	}

	// Metrics collected at /v1/debug/vars
	expvar.NewString("version").Set(version)
	expvar.Publish("database", expvar.Func(func() any {
		s := pool.Stat()
		return map[string]any{
			"total_conns":    s.TotalConns(),
			"idle_conns":     s.IdleConns(),
			"acquired_conns": s.AcquiredConns(),
		}
	}))
	expvar.Publish("sse_clients", expvar.Func(func() any {
		return hub.ClientCount()
	}))
	expvar.Publish("review_stores", expvar.Func(func() any {
		return reviewStores.StoreCount()
	}))
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.mount()

	logger.Fatal(app.run(mux))
}
