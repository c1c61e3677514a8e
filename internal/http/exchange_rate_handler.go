package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nurpe/market-leases/internal/service"
)

func (h *Handler) listExchangeRates(c *gin.Context) {
	h.exchangeRatesPage(c, service.ExchangeRateInput{}, nil)
}

// saveExchangeRate creates the rate of a day or overwrites it.
func (h *Handler) saveExchangeRate(c *gin.Context) {
	var input service.ExchangeRateInput
	if !h.bindForm(c, &input, "/exchange-rates") {
		return
	}

	rate, err := h.svc.ExchangeRates.Save(c.Request.Context(), input)
	if err != nil {
		errs, err := formErrors(err)
		if err != nil {
			h.pageError(c, err, "/exchange-rates")
			return
		}
		h.exchangeRatesPage(c, input, errs)
		return
	}
	setFlash(c, flashSuccess, "Tasa del "+rate.RateDate.Format("02/01/2006")+" guardada: "+h.money.Rate(rate.EuroRate)+".")
	c.Redirect(http.StatusSeeOther, "/exchange-rates")
}

func (h *Handler) deleteExchangeRate(c *gin.Context) {
	id, err := pathID(c, "id")
	if err == nil {
		err = h.svc.ExchangeRates.Delete(c.Request.Context(), id)
	}
	h.deleted(c, err, "Tasa eliminada correctamente.")
}

func (h *Handler) exchangeRatesPage(c *gin.Context, input service.ExchangeRateInput, errs map[string][]string) {
	rates, err := h.svc.ExchangeRates.List(c.Request.Context(), h.page(c))
	if err != nil {
		h.pageError(c, err, "/")
		return
	}
	data := gin.H{
		"Title": "Tasas de cambio (EUR)",
		"Rates": rates,
		"Input": input,
		"Pager": pagerOf(c, rates),
	}
	if errs != nil {
		data["Errors"] = errs
	}
	h.render(c, http.StatusOK, "exchange_rates_index", data)
}
