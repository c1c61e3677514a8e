package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nurpe/market-leases/internal/model"
	"github.com/nurpe/market-leases/internal/service"
)

// showReport renders the period form and, once a period is submitted, the grouped totals.
func (h *Handler) showReport(c *gin.Context) {
	var input service.ReportInput
	if !h.bindQuery(c, &input, "/") {
		return
	}

	data := gin.H{
		"Title":    "Reporte de cobranza",
		"Statuses": model.PaymentStatuses,
	}
	if input.PeriodStart == "" && input.PeriodEnd == "" {
		input.Mode = string(model.ReportByAwardee)
		input.PeriodStart, input.PeriodEnd = service.MonthBounds(time.Now())
		data["Input"] = input
		h.render(c, http.StatusOK, "reports_index", data)
		return
	}
	data["Input"] = input

	report, err := h.svc.Reports.Build(c.Request.Context(), input)
	if err != nil {
		errs, err := formErrors(err)
		if err != nil {
			h.pageError(c, err, "/")
			return
		}
		data["Errors"] = errs
		h.render(c, http.StatusOK, "reports_index", data)
		return
	}
	data["Report"] = report
	data["Export"] = "/reports/payments.xlsx?" + c.Request.URL.RawQuery
	h.render(c, http.StatusOK, "reports_index", data)
}

func (h *Handler) exportReport(c *gin.Context) {
	var input service.ReportInput
	if !h.bindQuery(c, &input, "/reports") {
		return
	}

	result, err := h.svc.Reports.Generate(c.Request.Context(), input)
	if err != nil {
		if _, ok := service.AsValidation(err); ok {
			setFlash(c, flashWarning, "Indique un período válido para exportar el reporte.")
			c.Redirect(http.StatusSeeOther, "/reports")
			return
		}
		h.pageError(c, err, "/reports")
		return
	}
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, xlsxContentType, result.Content)
}
