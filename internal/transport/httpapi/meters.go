package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/wms/internal/domain"
)

type meterHandler struct {
	service MeterService
	logger  *log.Entry
}

type statusRequest struct {
	Status *domain.MeterStatus `json:"status"`
}

type thresholdRequest struct {
	Threshold *float64 `json:"threshold"`
}

func (h *meterHandler) register(c *gin.Context) {
	var meter domain.WaterMeter
	if err := bindJSON(c, &meter); err != nil {
		writeError(c, h.logger, err)
		return
	}
	created, err := h.service.RegisterMeter(c.Request.Context(), meter)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *meterHandler) list(c *gin.Context) {
	meters, err := h.service.GetAllMeters(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, meters)
}

func (h *meterHandler) get(c *gin.Context) {
	meter, err := h.service.GetMeterByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, meter)
}

func (h *meterHandler) byNumber(c *gin.Context) {
	meter, err := h.service.GetMeterByNumber(c.Request.Context(), c.Param("meterNumber"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, meter)
}

func (h *meterHandler) byHouse(c *gin.Context) {
	meters, err := h.service.GetMetersByHouse(c.Request.Context(), c.Param("houseId"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, meters)
}

func (h *meterHandler) update(c *gin.Context) {
	var patch domain.MeterPatch
	if err := bindJSON(c, &patch); err != nil {
		writeError(c, h.logger, err)
		return
	}
	meter, err := h.service.UpdateMeter(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, meter)
}

func (h *meterHandler) delete(c *gin.Context) {
	if err := h.service.DeleteMeter(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *meterHandler) updateStatus(c *gin.Context) {
	var req statusRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, h.logger, err)
		return
	}
	if req.Status == nil {
		writeError(c, h.logger, domain.ErrInvalidStatus)
		return
	}
	meter, err := h.service.UpdateMeterStatus(c.Request.Context(), c.Param("id"), *req.Status)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, meter)
}

func (h *meterHandler) updateThreshold(c *gin.Context) {
	var req thresholdRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, h.logger, err)
		return
	}
	if req.Threshold == nil {
		writeError(c, h.logger, domain.ErrInvalidThreshold)
		return
	}
	meter, err := h.service.UpdateMeterThreshold(c.Request.Context(), c.Param("id"), *req.Threshold)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, meter)
}
