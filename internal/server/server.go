package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"backend-yatra/internal/assistant"
	"backend-yatra/internal/auth"
	"backend-yatra/internal/config"
	"backend-yatra/internal/documents"
	"backend-yatra/internal/facility"
	"backend-yatra/internal/geocode"
	"backend-yatra/internal/jobs"
	"backend-yatra/internal/kv"
	"backend-yatra/internal/location"
	"backend-yatra/internal/logging"
	"backend-yatra/internal/mapbridge"
	"backend-yatra/internal/sos"
	"backend-yatra/internal/stream"
	"backend-yatra/internal/tracking"
	"backend-yatra/internal/trip"
	"backend-yatra/internal/weather"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const upstreamTimeout = 15 * time.Second

type Server struct {
	App      *fiber.App
	Cfg      config.Config
	DB       *pgxpool.Pool
	Redis    *redis.Client
	Stream   *stream.Hub
	KV       kv.Store
	Feeds    *location.Registry
	Tracking *tracking.Service
	Jobs     *jobs.Registry
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New())
	app.Use(logging.RequestLogger(slog.Default()))

	s := &Server{
		App:    app,
		Cfg:    cfg,
		DB:     db,
		Redis:  redisClient,
		Stream: stream.NewHub(redisClient),
		KV:     newStore(cfg, db, redisClient),
		Feeds:  location.NewRegistry(),
		Jobs:   jobs.Default(),
	}

	registerRoutes(s)
	return s
}

// Close stops tracking sessions and the stream hub. The caller owns the
// database and redis connections.
func (s *Server) Close() {
	s.Tracking.Close()
	s.Stream.Close()
}

func newStore(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) kv.Store {
	if cfg.KVBackend == "postgres" {
		return kv.NewPostgresStore(db)
	}
	return kv.NewRedisStore(redisClient, "")
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)
	hc := &http.Client{Timeout: upstreamTimeout}

	geocoder := geocode.NewClient(s.Cfg.GeocodeURL, s.Cfg.GeocodeUserAgent, hc)
	facilities := facility.NewService(facility.NewOverpassClient(s.Cfg.OverpassURL, facility.DefaultRadiusM, hc))
	bridges := mapbridge.NewManager(s.Stream)
	docs := documents.NewService(s.DB, s.Cfg.DocumentsBaseURL)

	s.Tracking = tracking.NewService(s.KV, s.Feeds, facilities, bridges)
	if !s.Tracking.RegisterJobs(s.Jobs) {
		slog.Debug("background location task already registered", "job", tracking.BackgroundJob)
	}

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, s.DB))
	location.RegisterRoutes(s.App.Group("/location"), s.Feeds, jwtMiddleware)
	tracking.RegisterRoutes(s.App.Group("/tracking"), s.Tracking, s.Jobs, jwtMiddleware)
	facility.RegisterRoutes(s.App.Group("/facilities"), facilities, geocodeFunc(geocoder), jwtMiddleware)
	geocode.RegisterRoutes(s.App.Group("/geocode"), geocoder)
	weather.RegisterRoutes(s.App.Group("/weather"), weather.NewClient(s.Cfg.WeatherURL, hc), geocoder)
	trip.RegisterRoutes(s.App.Group("/trips"), trip.NewService(s.KV, docs), jwtMiddleware)
	documents.RegisterRoutes(s.App.Group("/documents"), docs, jwtMiddleware)
	sos.RegisterRoutes(s.App.Group("/sos"), sos.NewService(s.DB), jwtMiddleware)
	assistant.RegisterRoutes(s.App.Group("/assistant"))
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream, bridges)
}

func geocodeFunc(c *geocode.Client) facility.GeocodeFunc {
	return func(ctx context.Context, address string) (facility.Point, error) {
		lat, lng, err := c.Forward(ctx, address)
		if err != nil {
			return facility.Point{}, err
		}
		return facility.Point{Lat: lat, Lng: lng}, nil
	}
}
