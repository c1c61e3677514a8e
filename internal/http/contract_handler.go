package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nurpe/market-leases/internal/http/middleware"
	"github.com/nurpe/market-leases/internal/model"
	"github.com/nurpe/market-leases/internal/service"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	pdfContentType  = "application/pdf"
)

func (h *Handler) listContracts(c *gin.Context) {
	ctx := c.Request.Context()
	filter := model.ContractFilter{Search: strings.TrimSpace(c.Query("search"))}
	if id, err := strconv.ParseInt(c.Query("awardee_id"), 10, 64); err == nil && id > 0 {
		filter.AwardeeID = id
	}

	contracts, err := h.svc.Contracts.List(ctx, filter, h.page(c))
	if err != nil {
		h.pageError(c, err, "/")
		return
	}
	awardees, err := h.svc.Awardees.ListAll(ctx)
	if err != nil {
		h.pageError(c, err, "/")
		return
	}
	h.render(c, http.StatusOK, "contracts_index", gin.H{
		"Title":     "Contratos",
		"Contracts": contracts,
		"Awardees":  awardees,
		"Filter":    filter,
		"Pager":     pagerOf(c, contracts),
	})
}

func (h *Handler) newContract(c *gin.Context) {
	input := service.ContractInput{
		AwardeeID:          c.Query("awardee_id"),
		Type:               string(model.ContractAdvance),
		Mode:               string(model.ContractMonthly),
		BusinessCategories: "[]",
		Locations:          "[]",
	}
	h.contractForm(c, input, nil, 0)
}

func (h *Handler) createContract(c *gin.Context) {
	var input service.ContractInput
	if !h.bindForm(c, &input, "/contracts") {
		return
	}

	contract, err := h.svc.Contracts.Create(c.Request.Context(), input)
	if err != nil {
		errs, err := formErrors(err)
		if err != nil {
			h.pageError(c, err, "/contracts")
			return
		}
		h.contractForm(c, input, errs, 0)
		return
	}
	h.log.Info().Int64("contract_id", contract.ID).Int64("awardee_id", contract.AwardeeID).Msg("contract created")
	setFlash(c, flashSuccess, fmt.Sprintf("Contrato CT%06d registrado correctamente.", contract.ID))
	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/contracts/%d", contract.ID))
}

func (h *Handler) showContract(c *gin.Context) {
	detail, ok := h.loadContractDetail(c)
	if !ok {
		return
	}
	h.render(c, http.StatusOK, "contracts_view", gin.H{
		"Title":  fmt.Sprintf("Contrato CT%06d", detail.Contract.ID),
		"Detail": detail,
	})
}

func (h *Handler) editContract(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.pageError(c, err, "/contracts")
		return
	}
	contract, err := h.svc.Contracts.Get(c.Request.Context(), id)
	if err != nil {
		h.pageError(c, err, "/contracts")
		return
	}
	h.contractForm(c, service.ContractInputFrom(contract), nil, id)
}

func (h *Handler) updateContract(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.pageError(c, err, "/contracts")
		return
	}
	var input service.ContractInput
	if !h.bindForm(c, &input, "/contracts") {
		return
	}

	if _, err := h.svc.Contracts.Update(c.Request.Context(), id, input); err != nil {
		errs, err := formErrors(err)
		if err != nil {
			h.pageError(c, err, "/contracts")
			return
		}
		h.contractForm(c, input, errs, id)
		return
	}
	h.log.Info().Int64("contract_id", id).Msg("contract updated")
	setFlash(c, flashSuccess, "Contrato actualizado correctamente.")
	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/contracts/%d", id))
}

func (h *Handler) deleteContract(c *gin.Context) {
	id, err := pathID(c, "id")
	if err == nil {
		err = h.svc.Contracts.Delete(c.Request.Context(), id)
	}
	if err == nil {
		h.log.Info().Int64("contract_id", id).Msg("contract deleted")
	}
	h.deleted(c, err, "Contrato eliminado correctamente.")
}

func (h *Handler) updatePaymentStatus(c *gin.Context) {
	contractID, err := pathID(c, "id")
	if err != nil {
		h.handleError(c, err)
		return
	}
	paymentID, err := pathID(c, "paymentID")
	if err != nil {
		h.handleError(c, err)
		return
	}

	payment, err := h.svc.Contracts.UpdatePaymentStatus(c.Request.Context(), contractID, paymentID, c.PostForm("status"))
	back := fmt.Sprintf("/contracts/%d", contractID)
	if middleware.WantsJSON(c) {
		if err != nil {
			h.handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "payment": payment})
		return
	}
	if err != nil {
		h.pageError(c, err, back)
		return
	}
	setFlash(c, flashSuccess, fmt.Sprintf("Pago %s marcado como %s.", payment.PaymentReference, strings.ToLower(payment.Status.Label())))
	c.Redirect(http.StatusSeeOther, back)
}

func (h *Handler) exportPayments(c *gin.Context) {
	detail, ok := h.loadContractDetail(c)
	if !ok {
		return
	}
	content, err := h.excel.Generate(*detail)
	if err != nil {
		h.pageError(c, err, fmt.Sprintf("/contracts/%d", detail.Contract.ID))
		return
	}
	fileName := fmt.Sprintf("contrato-CT%06d-pagos.xlsx", detail.Contract.ID)
	c.Header("Content-Disposition", "attachment; filename=\""+fileName+"\"")
	c.Data(http.StatusOK, xlsxContentType, content)
}

func (h *Handler) exportContractPDF(c *gin.Context) {
	detail, ok := h.loadContractDetail(c)
	if !ok {
		return
	}
	content, err := h.pdf.Generate(*detail)
	if err != nil {
		h.pageError(c, err, fmt.Sprintf("/contracts/%d", detail.Contract.ID))
		return
	}
	fileName := fmt.Sprintf("contrato-CT%06d.pdf", detail.Contract.ID)
	c.Header("Content-Disposition", "attachment; filename=\""+fileName+"\"")
	c.Data(http.StatusOK, pdfContentType, content)
}

func (h *Handler) loadContractDetail(c *gin.Context) (*service.ContractDetail, bool) {
	id, err := pathID(c, "id")
	if err == nil {
		var detail *service.ContractDetail
		if detail, err = h.svc.Contracts.Detail(c.Request.Context(), id); err == nil {
			return detail, true
		}
	}
	h.pageError(c, err, "/contracts")
	return nil, false
}

func (h *Handler) contractForm(c *gin.Context, input service.ContractInput, errs map[string][]string, id int64) {
	options, err := h.svc.Contracts.FormOptions(c.Request.Context(), input)
	if err != nil {
		h.pageError(c, err, "/contracts")
		return
	}
	data := gin.H{
		"Title":   "Nuevo contrato",
		"Input":   input,
		"Options": options,
		"Action":  "/contracts",
		"Cancel":  "/contracts",
	}
	if errs != nil {
		data["Errors"] = errs
	}
	if id > 0 {
		data["Title"] = fmt.Sprintf("Editar contrato CT%06d", id)
		data["Action"] = fmt.Sprintf("/contracts/%d", id)
		data["Cancel"] = fmt.Sprintf("/contracts/%d", id)
	}
	h.render(c, http.StatusOK, "contracts_form", data)
}
