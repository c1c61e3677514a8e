package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nurpe/market-leases/internal/service"
)

func (h *Handler) listZones(c *gin.Context) {
	zones, err := h.svc.Zones.List(c.Request.Context(), h.page(c))
	if err != nil {
		h.pageError(c, err, "/")
		return
	}
	h.render(c, http.StatusOK, "zones_index", gin.H{
		"Title": "Zonas",
		"Zones": zones,
		"Pager": pagerOf(c, zones),
	})
}

func (h *Handler) newZone(c *gin.Context) {
	h.zoneForm(c, service.ZoneInput{}, nil, 0)
}

func (h *Handler) createZone(c *gin.Context) {
	var input service.ZoneInput
	if !h.bindForm(c, &input, "/zones") {
		return
	}

	zone, err := h.svc.Zones.Create(c.Request.Context(), input)
	if err != nil {
		errs, err := formErrors(err)
		if err != nil {
			h.pageError(c, err, "/zones")
			return
		}
		h.zoneForm(c, input, errs, 0)
		return
	}
	setFlash(c, flashSuccess, fmt.Sprintf("Zona %s registrada correctamente.", zone.Name))
	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/zones/%d", zone.ID))
}

// showZone lists the sectors and stalls of a zone with the forms to add more.
func (h *Handler) showZone(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.pageError(c, err, "/zones")
		return
	}
	detail, err := h.svc.Zones.Detail(c.Request.Context(), id)
	if err != nil {
		h.pageError(c, err, "/zones")
		return
	}
	h.render(c, http.StatusOK, "zones_view", gin.H{
		"Title":  "Zona " + detail.Zone.Name,
		"Detail": detail,
	})
}

func (h *Handler) editZone(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.pageError(c, err, "/zones")
		return
	}
	zone, err := h.svc.Zones.Get(c.Request.Context(), id)
	if err != nil {
		h.pageError(c, err, "/zones")
		return
	}
	h.zoneForm(c, service.ZoneInput{Name: zone.Name, Description: zone.Description}, nil, id)
}

func (h *Handler) updateZone(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.pageError(c, err, "/zones")
		return
	}
	var input service.ZoneInput
	if !h.bindForm(c, &input, "/zones") {
		return
	}

	if _, err := h.svc.Zones.Update(c.Request.Context(), id, input); err != nil {
		errs, err := formErrors(err)
		if err != nil {
			h.pageError(c, err, "/zones")
			return
		}
		h.zoneForm(c, input, errs, id)
		return
	}
	setFlash(c, flashSuccess, "Zona actualizada correctamente.")
	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/zones/%d", id))
}

func (h *Handler) deleteZone(c *gin.Context) {
	id, err := pathID(c, "id")
	if err == nil {
		err = h.svc.Zones.Delete(c.Request.Context(), id)
	}
	h.deleted(c, err, "Zona eliminada correctamente.")
}

func (h *Handler) createSector(c *gin.Context) {
	zoneID, err := pathID(c, "id")
	if err != nil {
		h.pageError(c, err, "/zones")
		return
	}
	back := fmt.Sprintf("/zones/%d", zoneID)
	var input service.SectorInput
	if !h.bindForm(c, &input, back) {
		return
	}

	sector, err := h.svc.Zones.CreateSector(c.Request.Context(), zoneID, input)
	if err != nil {
		h.inlineFormError(c, err, back)
		return
	}
	setFlash(c, flashSuccess, fmt.Sprintf("Sector %s agregado.", sector.Name))
	c.Redirect(http.StatusSeeOther, back)
}

func (h *Handler) createStall(c *gin.Context) {
	zoneID, err := pathID(c, "id")
	if err != nil {
		h.pageError(c, err, "/zones")
		return
	}
	back := fmt.Sprintf("/zones/%d", zoneID)
	var input service.StallInput
	if !h.bindForm(c, &input, back) {
		return
	}

	stall, err := h.svc.Zones.CreateStall(c.Request.Context(), zoneID, input)
	if err != nil {
		h.inlineFormError(c, err, back)
		return
	}
	setFlash(c, flashSuccess, fmt.Sprintf("Local %s agregado.", stall.Code))
	c.Redirect(http.StatusSeeOther, back)
}

func (h *Handler) deleteSector(c *gin.Context) {
	id, err := pathID(c, "id")
	if err == nil {
		_, err = h.svc.Zones.DeleteSector(c.Request.Context(), id)
	}
	h.deleted(c, err, "Sector eliminado correctamente.")
}

func (h *Handler) deleteStall(c *gin.Context) {
	id, err := pathID(c, "id")
	if err == nil {
		_, err = h.svc.Zones.DeleteStall(c.Request.Context(), id)
	}
	h.deleted(c, err, "Local eliminado correctamente.")
}

// inlineFormError reports validation messages of the small forms embedded in the zone page.
func (h *Handler) inlineFormError(c *gin.Context, err error, back string) {
	if ve, ok := service.AsValidation(err); ok {
		setFlash(c, flashWarning, strings.Join(ve.Messages(), " "))
		c.Redirect(http.StatusSeeOther, back)
		return
	}
	h.pageError(c, err, back)
}

func (h *Handler) zoneForm(c *gin.Context, input service.ZoneInput, errs map[string][]string, id int64) {
	data := gin.H{
		"Title":  "Nueva zona",
		"Input":  input,
		"Action": "/zones",
	}
	if errs != nil {
		data["Errors"] = errs
	}
	if id > 0 {
		data["Title"] = "Editar zona"
		data["Action"] = fmt.Sprintf("/zones/%d", id)
	}
	h.render(c, http.StatusOK, "zones_form", data)
}
