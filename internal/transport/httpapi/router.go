// Package httpapi — JSON API сервиса поверх gin.
package httpapi

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/wms/internal/domain"
)

// HouseService — операции над домами, нужные API.
type HouseService interface {
	Create(ctx context.Context, house domain.House) (domain.House, error)
	FindAll(ctx context.Context) ([]domain.House, error)
	FindByID(ctx context.Context, id string) (domain.House, error)
	Update(ctx context.Context, id string, patch domain.HousePatch) (domain.House, error)
	Delete(ctx context.Context, id string) error
	FindByOwnerName(ctx context.Context, ownerName string) ([]domain.House, error)
}

// MeterService — операции над счётчиками.
type MeterService interface {
	RegisterMeter(ctx context.Context, meter domain.WaterMeter) (domain.WaterMeter, error)
	GetMeterByID(ctx context.Context, id string) (domain.WaterMeter, error)
	GetMeterByNumber(ctx context.Context, meterNumber string) (domain.WaterMeter, error)
	UpdateMeter(ctx context.Context, id string, patch domain.MeterPatch) (domain.WaterMeter, error)
	DeleteMeter(ctx context.Context, id string) error
	GetAllMeters(ctx context.Context) ([]domain.WaterMeter, error)
	GetMetersByHouse(ctx context.Context, houseID string) ([]domain.WaterMeter, error)
	UpdateMeterStatus(ctx context.Context, id string, status domain.MeterStatus) (domain.WaterMeter, error)
	UpdateMeterThreshold(ctx context.Context, id string, threshold float64) (domain.WaterMeter, error)
}

// UsageService — операции над записями потребления.
type UsageService interface {
	Create(ctx context.Context, usage domain.WaterUsage) (domain.WaterUsage, error)
	FindAll(ctx context.Context) ([]domain.WaterUsage, error)
	FindByID(ctx context.Context, id string) (domain.WaterUsage, error)
	Update(ctx context.Context, id string, patch domain.UsagePatch) (domain.WaterUsage, error)
	Delete(ctx context.Context, id string) error
	FindByMeterID(ctx context.Context, meterID string) ([]domain.WaterUsage, error)
	FindByDateRange(ctx context.Context, start, end time.Time) ([]domain.WaterUsage, error)
	FindByHouseID(ctx context.Context, houseID string) ([]domain.WaterUsage, error)
}

// ReadingService — приём и выборка показаний.
type ReadingService interface {
	Record(ctx context.Context, reading domain.WaterReading) (domain.WaterReading, error)
	FindByID(ctx context.Context, id string) (domain.WaterReading, error)
	FindAll(ctx context.Context) ([]domain.WaterReading, error)
	FindByMeterID(ctx context.Context, meterID string) ([]domain.WaterReading, error)
	FindByTimeRange(ctx context.Context, start, end time.Time) ([]domain.WaterReading, error)
	Delete(ctx context.Context, id string) error
}

// RequestObserver учитывает обработанные запросы (метрики).
type RequestObserver interface {
	ObserveRequest(method, route string, status int, duration time.Duration)
}

// Services — зависимости роутера.
type Services struct {
	Houses   HouseService
	Meters   MeterService
	Usages   UsageService
	Readings ReadingService
}

// Options настраивает роутер.
type Options struct {
	Logger   *log.Entry
	Observer RequestObserver
}

// NewRouter собирает gin.Engine со всеми маршрутами /api.
func NewRouter(services Services, opts Options) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	logger = logger.WithField("component", "http-api")

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(
		requestIDMiddleware(),
		recoveryMiddleware(logger),
		loggerMiddleware(logger),
		metricsMiddleware(opts.Observer),
		corsMiddleware(),
	)
	router.NoRoute(func(c *gin.Context) {
		writeError(c, logger, domain.ErrNotFound)
	})

	api := router.Group("/api")
	registerHouseRoutes(api, &houseHandler{service: services.Houses, logger: logger})
	registerMeterRoutes(api, &meterHandler{service: services.Meters, logger: logger})
	registerUsageRoutes(api, &usageHandler{service: services.Usages, logger: logger})
	registerReadingRoutes(api, &readingHandler{service: services.Readings, logger: logger})

	return router
}

func registerHouseRoutes(api *gin.RouterGroup, h *houseHandler) {
	houses := api.Group("/houses")
	{
		houses.POST("", h.create)
		houses.GET("", h.list)
		houses.GET("/owner/:ownerName", h.byOwner)
		houses.GET("/:id", h.get)
		houses.PUT("/:id", h.update)
		houses.DELETE("/:id", h.delete)
	}
}

func registerMeterRoutes(api *gin.RouterGroup, h *meterHandler) {
	meters := api.Group("/water-meters")
	{
		meters.POST("", h.register)
		meters.GET("", h.list)
		meters.GET("/number/:meterNumber", h.byNumber)
		meters.GET("/house/:houseId", h.byHouse)
		meters.GET("/:id", h.get)
		meters.PUT("/:id", h.update)
		meters.DELETE("/:id", h.delete)
		meters.PATCH("/:id/status", h.updateStatus)
		meters.PATCH("/:id/threshold", h.updateThreshold)
	}
}

func registerUsageRoutes(api *gin.RouterGroup, h *usageHandler) {
	usage := api.Group("/water-usage")
	{
		usage.POST("", h.create)
		usage.GET("", h.list)
		usage.GET("/date-range", h.byDateRange)
		usage.GET("/meter/:meterId", h.byMeter)
		usage.GET("/house/:houseId", h.byHouse)
		usage.GET("/:id", h.get)
		usage.PUT("/:id", h.update)
		usage.DELETE("/:id", h.delete)
	}
}

func registerReadingRoutes(api *gin.RouterGroup, h *readingHandler) {
	readings := api.Group("/water-readings")
	{
		readings.POST("", h.record)
		readings.GET("", h.list)
		readings.GET("/time-range", h.byTimeRange)
		readings.GET("/meter/:meterId", h.byMeter)
		readings.GET("/:id", h.get)
		readings.DELETE("/:id", h.delete)
	}
}
