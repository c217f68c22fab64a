package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"routing/cmd"
	httpadapter "routing/internal/adapters/in/http"
	"routing/internal/adapters/out/postgres/delivererrepo"
	"routing/internal/adapters/out/postgres/orderrepo"
	"routing/internal/adapters/out/postgres/routerepo"
	"routing/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	gormDB := setupDatabase(configs)

	app, err := cmd.NewCompositionRoot(configs, gormDB, logger)
	if err != nil {
		log.Fatalf("Failed to build composition root: %v", err)
	}

	jobManager := jobs.NewJobManager(
		app.CreateGetActiveRoutesQueryHandler(),
		configs.StaleRouteAfter,
		logger,
	)
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Warnf("No .env file loaded: %v", err)
	}

	return cmd.Config{
		HTTPPort:   envOr("HTTP_PORT", "8080"),
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSslMode:  envOr("DB_SSLMODE", "disable"),

		DepotLatitude:    envFloat("DEPOT_LATITUDE"),
		DepotLongitude:   envFloat("DEPOT_LONGITUDE"),
		DeliveryRadiusKm: envFloat("DELIVERY_RADIUS_KM"),

		ExclusionZones:       os.Getenv("EXCLUSION_ZONES"),
		RouteSideAxisBearing: envFloat("ROUTE_SIDE_AXIS_BEARING"),

		MatrixBaseURL: os.Getenv("MATRIX_BASE_URL"),
		MatrixAPIKey:  os.Getenv("MATRIX_API_KEY"),
		MatrixTimeout: envDuration("MATRIX_TIMEOUT"),

		MissingCoordinatesPolicy: os.Getenv("MISSING_COORDINATES_POLICY"),
		OutOfRadiusPolicy:        os.Getenv("OUT_OF_RADIUS_POLICY"),
		ExclusionZonePolicy:      os.Getenv("EXCLUSION_ZONE_POLICY"),

		StaleRouteAfter: envDuration("STALE_ROUTE_AFTER"),
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envFloat(key string) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return 0
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Fatalf("Invalid %s: %v", key, err)
	}
	return value
}

func envDuration(key string) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return 0
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		log.Fatalf("Invalid %s: %v", key, err)
	}
	return value
}

func setupDatabase(configs cmd.Config) *gorm.DB {
	db, err := gorm.Open(gorm_postgres.Open(configs.DBConnectionString()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	err = db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&delivererrepo.DelivererDTO{},
		&routerepo.RouteDTO{},
		&routerepo.StopDTO{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	return db
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	server := httpadapter.NewServer(
		app.CreateCreateRouteCommandHandler(),
		app.CreateStartRouteCommandHandler(),
		app.CreateMarkStopDeliveredCommandHandler(),
		app.CreateMarkStopFailedCommandHandler(),
		app.CreateMarkStopSkippedCommandHandler(),
		app.CreateGetRouteQueryHandler(),
		app.CreateGetActiveRoutesQueryHandler(),
	)

	e := echo.New()
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
