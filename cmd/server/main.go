package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/domuslabs/domus/modules/attachment"
	"github.com/domuslabs/domus/modules/booking"
	"github.com/domuslabs/domus/modules/community"
	"github.com/domuslabs/domus/modules/iam"
	"github.com/domuslabs/domus/modules/notification"
	"github.com/domuslabs/domus/pkg/config"
	"github.com/domuslabs/domus/pkg/email"
	"github.com/domuslabs/domus/pkg/environment"
	"github.com/domuslabs/domus/pkg/file"
	"github.com/domuslabs/domus/pkg/httpserver"
	"github.com/domuslabs/domus/pkg/jwt"
	"github.com/domuslabs/domus/pkg/logger"
	"github.com/domuslabs/domus/pkg/permission"
	"github.com/domuslabs/domus/pkg/pg"
	"github.com/domuslabs/domus/pkg/redis"
	"github.com/domuslabs/domus/pkg/requestid"
	"github.com/domuslabs/domus/pkg/tenant"
)

type appConfig struct {
	Env        string `env:"APP_ENV" envDefault:"development"`
	SigningKey string `env:"JWT_SIGNING_KEY,required"`

	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"local"` // local or s3
	StorageDir    string `env:"STORAGE_DIR" envDefault:"./uploads"`
	StorageURL    string `env:"STORAGE_BASE_URL" envDefault:"http://localhost:8080/uploads"`

	S3Bucket      string `env:"S3_BUCKET"`
	S3Region      string `env:"S3_REGION"`
	S3AccessKeyID string `env:"S3_ACCESS_KEY_ID"`
	S3SecretKey   string `env:"S3_SECRET_KEY"`
	S3Endpoint    string `env:"S3_ENDPOINT"`

	DirectoryCacheSize int           `env:"TENANT_DIRECTORY_CACHE_SIZE" envDefault:"128"`
	DirectoryCacheTTL  time.Duration `env:"TENANT_DIRECTORY_CACHE_TTL" envDefault:"0"`

	EmailEnabled bool `env:"EMAIL_ENABLED" envDefault:"false"`
}

// bootstrapPaths resolve the tenant from the X-TenantId header instead of
// the token claim, and skip JWT parsing entirely.
var bootstrapPaths = []string{"/iam/login"}

// skipPaths bypass tenant resolution altogether.
var skipPaths = []string{"/health", "/uploads"}

func main() {
	var (
		appCfg   appConfig
		pgCfg    pg.Config
		redisCfg redis.Config
		httpCfg  httpserver.Config
		emailCfg email.Config
	)
	config.MustLoad(&appCfg)
	config.MustLoad(&pgCfg)
	config.MustLoad(&redisCfg)
	config.MustLoad(&httpCfg)
	if appCfg.EmailEnabled {
		config.MustLoad(&emailCfg)
	}

	log := logger.New(
		logger.WithEnvironment(appCfg.Env, "domus"),
		logger.WithContextExtractors(
			requestid.LoggerExtractor(),
			tenant.LoggerExtractor(),
			environment.LoggerExtractor(),
		),
	)
	logger.SetAsDefault(log)

	ctx := context.Background()

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		log.Error("failed to connect to directory database", logger.Error(err))
		os.Exit(1)
	}
	defer pool.Close()
	if err := pg.Migrate(ctx, pool, pgCfg, log); err != nil {
		log.Error("failed to migrate directory database", logger.Error(err))
		os.Exit(1)
	}

	tokens, err := jwt.NewFromString(appCfg.SigningKey)
	if err != nil {
		log.Error("failed to initialize token service", logger.Error(err))
		os.Exit(1)
	}

	readiness := []func(context.Context) error{pg.Healthcheck(pool)}

	// Permission cache: Redis when configured, in-process otherwise.
	permCache := permission.NewMemoryCache(permission.DefaultWindow)
	if redisCfg.ConnectionURL != "" {
		redisClient, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			log.Error("failed to connect to redis", logger.Error(err))
			os.Exit(1)
		}
		defer redisClient.Close()
		permCache = permission.NewRedisCache(redisClient, permission.DefaultWindow)
		readiness = append(readiness, redis.Healthcheck(redisClient))
	}

	storage, err := newStorage(ctx, appCfg)
	if err != nil {
		log.Error("failed to initialize file storage", logger.Error(err))
		os.Exit(1)
	}

	var sender email.EmailSender
	switch {
	case appCfg.EmailEnabled:
		sender = email.MustNewPostmarkClient(emailCfg)
	case !environment.Parse(appCfg.Env).IsProduction():
		// Local runs get a filesystem outbox instead of real delivery.
		sender = email.NewDevSender(filepath.Join(appCfg.StorageDir, "outbox"))
	}

	var directory tenant.Directory = tenant.NewPostgresDirectory(pool)
	if appCfg.DirectoryCacheTTL > 0 {
		directory = tenant.NewCachedDirectory(directory, appCfg.DirectoryCacheSize, appCfg.DirectoryCacheTTL)
	}

	iamRepo := iam.NewRepository()
	authSvc := iam.NewAuthService(iamRepo, tokens, iam.DefaultTokenTTL)
	communityRepo := community.NewRepository()
	bookingRepo := booking.NewRepository()
	attachmentRepo := attachment.NewRepository()
	attachmentSvc := attachment.NewService(attachmentRepo, storage, log)
	notificationRepo := notification.NewRepository()
	notificationSvc := notification.NewService(notificationRepo, sender, log)

	registry := permission.NewRegistry()
	iam.RegisterEndpoints(registry)
	community.RegisterEndpoints(registry)
	booking.RegisterEndpoints(registry)
	attachment.RegisterEndpoints(registry)
	notification.RegisterEndpoints(registry)

	permResolver := permission.NewResolver(
		iam.NewPermissionSource(iamRepo),
		permission.WithCache(permCache),
		permission.WithResolverLogger(log),
	)
	defer permResolver.Close()

	guard := permission.NewGuard(permResolver, registry, jwt.UserIDFromContext)

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(environment.Middleware(environment.Parse(appCfg.Env)))
	r.Use(jwt.Middleware(tokens, jwt.SkipPaths(append(bootstrapPaths, skipPaths...)...)))
	r.Use(tenant.Middleware(directory, tenant.NewPgxConnector(),
		tenant.WithResolver(tenant.NewClaimResolver(jwt.TenantIDFromContext)),
		tenant.WithBootstrapResolver(tenant.NewHeaderResolver(tenant.HeaderName)),
		tenant.WithBootstrapPaths(bootstrapPaths...),
		tenant.WithSkipPaths(skipPaths...),
		tenant.WithLogger(log),
	))

	r.Get("/health", httpserver.HealthCheckHandler(ctx, log, readiness...))
	r.Mount("/iam", iam.Router(authSvc, iamRepo, guard))
	r.Mount("/communities", community.Router(communityRepo, guard))
	r.Mount("/bookings", booking.Router(bookingRepo, guard))
	r.Mount("/attachments", attachment.Router(attachmentSvc, guard))
	r.Mount("/notifications", notification.Router(notificationSvc, notificationRepo, guard))
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(appCfg.StorageDir))))

	srv := httpserver.NewFromConfig(httpCfg,
		httpserver.WithLogger(log),
		httpserver.WithStartHook(func(l *slog.Logger) {
			l.Info("server started", slog.String("addr", httpCfg.Addr))
		}),
		httpserver.WithStopHook(func(l *slog.Logger) {
			l.Info("server stopped")
		}),
	)
	if err := srv.Run(ctx, r); err != nil {
		log.Error("server exited with error", logger.Error(err))
		os.Exit(1)
	}
}

func newStorage(ctx context.Context, cfg appConfig) (file.Storage, error) {
	if cfg.StorageDriver == "s3" {
		return file.NewS3Storage(ctx, file.S3Config{
			Bucket:      cfg.S3Bucket,
			Region:      cfg.S3Region,
			AccessKeyID: cfg.S3AccessKeyID,
			SecretKey:   cfg.S3SecretKey,
			Endpoint:    cfg.S3Endpoint,
			BaseURL:     cfg.StorageURL,
		})
	}
	return file.NewLocalStorage(cfg.StorageDir, cfg.StorageURL)
}
