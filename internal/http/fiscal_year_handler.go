package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nurpe/market-leases/internal/service"
)

func (h *Handler) listFiscalYears(c *gin.Context) {
	years, err := h.svc.FiscalYears.List(c.Request.Context(), h.page(c))
	if err != nil {
		h.pageError(c, err, "/")
		return
	}
	h.render(c, http.StatusOK, "fiscal_years_index", gin.H{
		"Title": "Años fiscales",
		"Years": years,
		"Pager": pagerOf(c, years),
	})
}

func (h *Handler) newFiscalYear(c *gin.Context) {
	h.fiscalYearForm(c, service.FiscalYearInput{Status: "active"}, nil, 0)
}

func (h *Handler) createFiscalYear(c *gin.Context) {
	var input service.FiscalYearInput
	if !h.bindForm(c, &input, "/fiscal-years") {
		return
	}

	year, err := h.svc.FiscalYears.Create(c.Request.Context(), input)
	if err != nil {
		errs, err := formErrors(err)
		if err != nil {
			h.pageError(c, err, "/fiscal-years")
			return
		}
		h.fiscalYearForm(c, input, errs, 0)
		return
	}
	setFlash(c, flashSuccess, fmt.Sprintf("Año fiscal %d registrado correctamente.", year.Year))
	c.Redirect(http.StatusSeeOther, "/fiscal-years")
}

func (h *Handler) editFiscalYear(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.pageError(c, err, "/fiscal-years")
		return
	}
	year, err := h.svc.FiscalYears.Get(c.Request.Context(), id)
	if err != nil {
		h.pageError(c, err, "/fiscal-years")
		return
	}
	h.fiscalYearForm(c, service.FiscalYearInputFrom(year), nil, id)
}

func (h *Handler) updateFiscalYear(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.pageError(c, err, "/fiscal-years")
		return
	}
	var input service.FiscalYearInput
	if !h.bindForm(c, &input, "/fiscal-years") {
		return
	}

	year, err := h.svc.FiscalYears.Update(c.Request.Context(), id, input)
	if err != nil {
		errs, err := formErrors(err)
		if err != nil {
			h.pageError(c, err, "/fiscal-years")
			return
		}
		h.fiscalYearForm(c, input, errs, id)
		return
	}
	setFlash(c, flashSuccess, fmt.Sprintf("Año fiscal %d actualizado correctamente.", year.Year))
	c.Redirect(http.StatusSeeOther, "/fiscal-years")
}

// deleteFiscalYear answers with the JSON envelope; it fails while contracts reference the year.
func (h *Handler) deleteFiscalYear(c *gin.Context) {
	id, err := pathID(c, "id")
	if err == nil {
		err = h.svc.FiscalYears.Delete(c.Request.Context(), id)
	}
	h.deleted(c, err, "Año fiscal eliminado correctamente.")
}

func (h *Handler) fiscalYearForm(c *gin.Context, input service.FiscalYearInput, errs map[string][]string, id int64) {
	data := gin.H{
		"Title":  "Nuevo año fiscal",
		"Input":  input,
		"Action": "/fiscal-years",
	}
	if errs != nil {
		data["Errors"] = errs
	}
	if id > 0 {
		data["Title"] = "Editar año fiscal"
		data["Action"] = fmt.Sprintf("/fiscal-years/%d", id)
	}
	h.render(c, http.StatusOK, "fiscal_years_form", data)
}
