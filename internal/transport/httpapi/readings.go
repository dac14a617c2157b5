package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/wms/internal/domain"
)

type readingHandler struct {
	service ReadingService
	logger  *log.Entry
}

func (h *readingHandler) record(c *gin.Context) {
	var reading domain.WaterReading
	if err := bindJSON(c, &reading); err != nil {
		writeError(c, h.logger, err)
		return
	}
	created, err := h.service.Record(c.Request.Context(), reading)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *readingHandler) list(c *gin.Context) {
	readings, err := h.service.FindAll(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, readings)
}

func (h *readingHandler) get(c *gin.Context) {
	reading, err := h.service.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, reading)
}

func (h *readingHandler) byMeter(c *gin.Context) {
	readings, err := h.service.FindByMeterID(c.Request.Context(), c.Param("meterId"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, readings)
}

func (h *readingHandler) byTimeRange(c *gin.Context) {
	start, end, err := queryRange(c, "start", "end")
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	readings, err := h.service.FindByTimeRange(c.Request.Context(), start, end)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, readings)
}

func (h *readingHandler) delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
