package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nurpe/market-leases/internal/model"
	"github.com/nurpe/market-leases/internal/service"
)

func (h *Handler) listAwardees(c *gin.Context) {
	search := strings.TrimSpace(c.Query("search"))
	awardees, err := h.svc.Awardees.List(c.Request.Context(), search, h.page(c))
	if err != nil {
		h.pageError(c, err, "/")
		return
	}
	h.render(c, http.StatusOK, "awardees_index", gin.H{
		"Title":    "Adjudicatarios",
		"Awardees": awardees,
		"Search":   search,
		"Pager":    pagerOf(c, awardees),
	})
}

func (h *Handler) newAwardee(c *gin.Context) {
	h.awardeeForm(c, http.StatusOK, service.AwardeeInput{}, nil, 0)
}

func (h *Handler) createAwardee(c *gin.Context) {
	var input service.AwardeeInput
	if !h.bindForm(c, &input, "/awardees") {
		return
	}

	awardee, err := h.svc.Awardees.Create(c.Request.Context(), input)
	if err != nil {
		errs, err := formErrors(err)
		if err != nil {
			h.pageError(c, err, "/awardees")
			return
		}
		h.awardeeForm(c, http.StatusOK, input, errs, 0)
		return
	}
	setFlash(c, flashSuccess, fmt.Sprintf("Adjudicatario %s registrado correctamente.", awardee.FullName()))
	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/awardees/%d", awardee.ID))
}

func (h *Handler) showAwardee(c *gin.Context) {
	awardee, ok := h.loadAwardee(c)
	if !ok {
		return
	}
	contracts, err := h.svc.Contracts.List(c.Request.Context(), model.ContractFilter{AwardeeID: awardee.ID}, model.NewPage(1, model.MaxPageSize))
	if err != nil {
		h.pageError(c, err, "/awardees")
		return
	}
	h.render(c, http.StatusOK, "awardees_view", gin.H{
		"Title":     awardee.FullName(),
		"Awardee":   awardee,
		"Contracts": contracts,
	})
}

func (h *Handler) editAwardee(c *gin.Context) {
	awardee, ok := h.loadAwardee(c)
	if !ok {
		return
	}
	h.awardeeForm(c, http.StatusOK, service.AwardeeInputFrom(awardee), nil, awardee.ID)
}

func (h *Handler) updateAwardee(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.pageError(c, err, "/awardees")
		return
	}
	var input service.AwardeeInput
	if !h.bindForm(c, &input, "/awardees") {
		return
	}

	awardee, err := h.svc.Awardees.Update(c.Request.Context(), id, input)
	if err != nil {
		errs, err := formErrors(err)
		if err != nil {
			h.pageError(c, err, "/awardees")
			return
		}
		h.awardeeForm(c, http.StatusOK, input, errs, id)
		return
	}
	setFlash(c, flashSuccess, "Adjudicatario actualizado correctamente.")
	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/awardees/%d", awardee.ID))
}

func (h *Handler) deleteAwardee(c *gin.Context) {
	id, err := pathID(c, "id")
	if err == nil {
		err = h.svc.Awardees.Delete(c.Request.Context(), id)
	}
	h.deleted(c, err, "Adjudicatario eliminado correctamente.")
}

func (h *Handler) loadAwardee(c *gin.Context) (*model.Awardee, bool) {
	id, err := pathID(c, "id")
	if err == nil {
		var awardee *model.Awardee
		if awardee, err = h.svc.Awardees.Get(c.Request.Context(), id); err == nil {
			return awardee, true
		}
	}
	h.pageError(c, err, "/awardees")
	return nil, false
}

func (h *Handler) awardeeForm(c *gin.Context, status int, input service.AwardeeInput, errs map[string][]string, id int64) {
	data := gin.H{
		"Title":  "Nuevo adjudicatario",
		"Input":  input,
		"Action": "/awardees",
		"Cancel": "/awardees",
	}
	if errs != nil {
		data["Errors"] = errs
	}
	if id > 0 {
		data["Title"] = "Editar adjudicatario"
		data["Action"] = fmt.Sprintf("/awardees/%d", id)
		data["Cancel"] = fmt.Sprintf("/awardees/%d", id)
	}
	h.render(c, status, "awardees_form", data)
}
