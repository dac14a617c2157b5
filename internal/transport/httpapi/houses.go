package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/wms/internal/domain"
)

type houseHandler struct {
	service HouseService
	logger  *log.Entry
}

func (h *houseHandler) create(c *gin.Context) {
	var house domain.House
	if err := bindJSON(c, &house); err != nil {
		writeError(c, h.logger, err)
		return
	}
	created, err := h.service.Create(c.Request.Context(), house)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *houseHandler) list(c *gin.Context) {
	houses, err := h.service.FindAll(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, houses)
}

func (h *houseHandler) get(c *gin.Context) {
	house, err := h.service.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, house)
}

func (h *houseHandler) update(c *gin.Context) {
	var patch domain.HousePatch
	if err := bindJSON(c, &patch); err != nil {
		writeError(c, h.logger, err)
		return
	}
	house, err := h.service.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, house)
}

func (h *houseHandler) delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *houseHandler) byOwner(c *gin.Context) {
	houses, err := h.service.FindByOwnerName(c.Request.Context(), c.Param("ownerName"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, houses)
}
