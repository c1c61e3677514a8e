package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nurpe/market-leases/internal/model"
	"github.com/nurpe/market-leases/internal/service"
)

func (h *Handler) listCashRegisters(c *gin.Context) {
	registers, err := h.svc.CashRegisters.List(c.Request.Context(), h.page(c))
	if err != nil {
		h.pageError(c, err, "/")
		return
	}
	h.render(c, http.StatusOK, "cash_registers_index", gin.H{
		"Title":     "Cajas",
		"Registers": registers,
		"Pager":     pagerOf(c, registers),
	})
}

func (h *Handler) newCashRegister(c *gin.Context) {
	h.cashRegisterForm(c, service.CashRegisterInput{Status: string(model.CashRegisterActive)}, nil, 0)
}

func (h *Handler) createCashRegister(c *gin.Context) {
	var input service.CashRegisterInput
	if !h.bindForm(c, &input, "/cash-registers") {
		return
	}

	register, err := h.svc.CashRegisters.Create(c.Request.Context(), input)
	if err != nil {
		errs, err := formErrors(err)
		if err != nil {
			h.pageError(c, err, "/cash-registers")
			return
		}
		h.cashRegisterForm(c, input, errs, 0)
		return
	}
	setFlash(c, flashSuccess, fmt.Sprintf("Caja %s registrada correctamente.", register.Name))
	c.Redirect(http.StatusSeeOther, "/cash-registers")
}

func (h *Handler) editCashRegister(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.pageError(c, err, "/cash-registers")
		return
	}
	register, err := h.svc.CashRegisters.Get(c.Request.Context(), id)
	if err != nil {
		h.pageError(c, err, "/cash-registers")
		return
	}
	h.cashRegisterForm(c, service.CashRegisterInputFrom(register), nil, id)
}

func (h *Handler) updateCashRegister(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.pageError(c, err, "/cash-registers")
		return
	}
	var input service.CashRegisterInput
	if !h.bindForm(c, &input, "/cash-registers") {
		return
	}

	if _, err := h.svc.CashRegisters.Update(c.Request.Context(), id, input); err != nil {
		errs, err := formErrors(err)
		if err != nil {
			h.pageError(c, err, "/cash-registers")
			return
		}
		h.cashRegisterForm(c, input, errs, id)
		return
	}
	setFlash(c, flashSuccess, "Caja actualizada correctamente.")
	c.Redirect(http.StatusSeeOther, "/cash-registers")
}

func (h *Handler) deleteCashRegister(c *gin.Context) {
	id, err := pathID(c, "id")
	if err == nil {
		err = h.svc.CashRegisters.Delete(c.Request.Context(), id)
	}
	h.deleted(c, err, "Caja eliminada correctamente.")
}

func (h *Handler) cashRegisterForm(c *gin.Context, input service.CashRegisterInput, errs map[string][]string, id int64) {
	users, err := h.svc.CashRegisters.Users(c.Request.Context())
	if err != nil {
		h.pageError(c, err, "/cash-registers")
		return
	}
	data := gin.H{
		"Title":    "Nueva caja",
		"Input":    input,
		"Users":    users,
		"Statuses": []model.CashRegisterStatus{model.CashRegisterActive, model.CashRegisterInactive, model.CashRegisterMaintenance},
		"Action":   "/cash-registers",
	}
	if errs != nil {
		data["Errors"] = errs
	}
	if id > 0 {
		data["Title"] = "Editar caja"
		data["Action"] = fmt.Sprintf("/cash-registers/%d", id)
	}
	h.render(c, http.StatusOK, "cash_registers_form", data)
}
