package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/wms/internal/domain"
)

type usageHandler struct {
	service UsageService
	logger  *log.Entry
}

func (h *usageHandler) create(c *gin.Context) {
	var usage domain.WaterUsage
	if err := bindJSON(c, &usage); err != nil {
		writeError(c, h.logger, err)
		return
	}
	created, err := h.service.Create(c.Request.Context(), usage)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *usageHandler) list(c *gin.Context) {
	usages, err := h.service.FindAll(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, usages)
}

func (h *usageHandler) get(c *gin.Context) {
	usage, err := h.service.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, usage)
}

func (h *usageHandler) update(c *gin.Context) {
	var patch domain.UsagePatch
	if err := bindJSON(c, &patch); err != nil {
		writeError(c, h.logger, err)
		return
	}
	usage, err := h.service.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, usage)
}

func (h *usageHandler) delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *usageHandler) byMeter(c *gin.Context) {
	usages, err := h.service.FindByMeterID(c.Request.Context(), c.Param("meterId"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, usages)
}

func (h *usageHandler) byHouse(c *gin.Context) {
	usages, err := h.service.FindByHouseID(c.Request.Context(), c.Param("houseId"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, usages)
}

func (h *usageHandler) byDateRange(c *gin.Context) {
	start, end, err := queryRange(c, "startDate", "endDate")
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	usages, err := h.service.FindByDateRange(c.Request.Context(), start, end)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, usages)
}
