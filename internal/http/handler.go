package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nurpe/market-leases/internal/auth"
	"github.com/nurpe/market-leases/internal/config"
	"github.com/nurpe/market-leases/internal/excel"
	"github.com/nurpe/market-leases/internal/http/middleware"
	"github.com/nurpe/market-leases/internal/model"
	"github.com/nurpe/market-leases/internal/money"
	"github.com/nurpe/market-leases/internal/pdf"
	"github.com/nurpe/market-leases/internal/service"
)

const msgInternal = "Ocurrió un error interno. Intente nuevamente."

// Services groups the domain services behind the handlers. Tests may leave unused ones nil.
type Services struct {
	Auth          *service.AuthService
	Awardees      *service.AwardeeService
	FiscalYears   *service.FiscalYearService
	CashRegisters *service.CashRegisterService
	Categories    *service.CategoryService
	Zones         *service.ZoneService
	Contracts     *service.ContractService
	ExchangeRates *service.ExchangeRateService
	Reports       *service.ReportService
}

type Options struct {
	Tokens   *auth.TokenManager
	Session  config.SessionConfig
	Money    *money.Formatter
	Excel    *excel.Generator
	PDF      *pdf.Generator
	PageSize int
}

type Handler struct {
	svc      Services
	tokens   *auth.TokenManager
	session  config.SessionConfig
	money    *money.Formatter
	excel    *excel.Generator
	pdf      *pdf.Generator
	pageSize int
	log      zerolog.Logger
}

func NewHandler(svc Services, opts Options, log zerolog.Logger) *Handler {
	if opts.Money == nil {
		opts.Money = money.NewFormatter("es-VE")
	}
	if opts.PageSize <= 0 {
		opts.PageSize = model.DefaultPageSize
	}
	return &Handler{
		svc:      svc,
		tokens:   opts.Tokens,
		session:  opts.Session,
		money:    opts.Money,
		excel:    opts.Excel,
		pdf:      opts.PDF,
		pageSize: opts.PageSize,
		log:      log,
	}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	router.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	router.GET("/login", h.loginForm)
	router.POST("/login", h.login)

	protected := router.Group("/")
	protected.Use(authMiddleware)
	admin := middleware.RequireAdmin(h.forbidden)

	protected.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/contracts") })
	protected.POST("/logout", h.logout)

	protected.GET("/awardees", h.listAwardees)
	protected.GET("/awardees/new", h.newAwardee)
	protected.POST("/awardees", h.createAwardee)
	protected.GET("/awardees/:id", h.showAwardee)
	protected.GET("/awardees/:id/edit", h.editAwardee)
	protected.POST("/awardees/:id", h.updateAwardee)
	protected.POST("/awardees/:id/delete", admin, h.deleteAwardee)

	protected.GET("/fiscal-years", h.listFiscalYears)
	protected.GET("/fiscal-years/new", h.newFiscalYear)
	protected.POST("/fiscal-years", h.createFiscalYear)
	protected.GET("/fiscal-years/:id/edit", h.editFiscalYear)
	protected.POST("/fiscal-years/:id", h.updateFiscalYear)
	protected.POST("/fiscal-years/:id/delete", admin, h.deleteFiscalYear)

	protected.GET("/cash-registers", h.listCashRegisters)
	protected.GET("/cash-registers/new", h.newCashRegister)
	protected.POST("/cash-registers", h.createCashRegister)
	protected.GET("/cash-registers/:id/edit", h.editCashRegister)
	protected.POST("/cash-registers/:id", h.updateCashRegister)
	protected.POST("/cash-registers/:id/delete", admin, h.deleteCashRegister)

	for _, kind := range []model.CategoryKind{model.CategoryInternal, model.CategoryExternal} {
		items := &categoryRoutes{h: h, kind: kind}
		base := itemsPath(kind)
		protected.GET(base, items.list)
		protected.GET(base+"/new", items.newForm)
		protected.POST(base, items.create)
		protected.GET(base+"/:id/edit", items.editForm)
		protected.POST(base+"/:id", items.update)
		protected.POST(base+"/:id/delete", admin, items.delete)
	}

	protected.GET("/zones", h.listZones)
	protected.GET("/zones/new", h.newZone)
	protected.POST("/zones", h.createZone)
	protected.GET("/zones/:id", h.showZone)
	protected.GET("/zones/:id/edit", h.editZone)
	protected.POST("/zones/:id", h.updateZone)
	protected.POST("/zones/:id/delete", admin, h.deleteZone)
	protected.POST("/zones/:id/sectors", h.createSector)
	protected.POST("/zones/:id/stalls", h.createStall)
	protected.POST("/sectors/:id/delete", admin, h.deleteSector)
	protected.POST("/stalls/:id/delete", admin, h.deleteStall)

	protected.GET("/contracts", h.listContracts)
	protected.GET("/contracts/new", h.newContract)
	protected.POST("/contracts", h.createContract)
	protected.GET("/contracts/:id", h.showContract)
	protected.GET("/contracts/:id/edit", h.editContract)
	protected.POST("/contracts/:id", h.updateContract)
	protected.POST("/contracts/:id/delete", admin, h.deleteContract)
	protected.POST("/contracts/:id/payments/:paymentID/status", admin, h.updatePaymentStatus)
	protected.GET("/contracts/:id/payments.xlsx", h.exportPayments)
	protected.GET("/contracts/:id/pdf", h.exportContractPDF)

	protected.GET("/exchange-rates", h.listExchangeRates)
	protected.POST("/exchange-rates", h.saveExchangeRate)
	protected.POST("/exchange-rates/:id/delete", admin, h.deleteExchangeRate)

	protected.GET("/reports", h.showReport)
	protected.GET("/reports/payments.xlsx", h.exportReport)

	ajax := protected.Group("/ajax")
	ajax.POST("/fiscal-year", h.ajaxFiscalYear)
	ajax.POST("/sectors", h.ajaxSectors)
	ajax.POST("/stalls", h.ajaxStalls)
	// registered inside the group so the session check answers before the 405
	for _, path := range []string{"/fiscal-year", "/sectors", "/stalls"} {
		ajax.Match(ajaxRejectedMethods, path, methodNotAllowed)
	}
}

var ajaxRejectedMethods = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
}

// handleError answers script callers with the JSON envelope.
func (h *Handler) handleError(c *gin.Context, err error) {
	var conflict *service.ConflictError
	switch {
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": conflict.Message})
	case errors.Is(err, service.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Sesión no iniciada"})
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": middleware.MsgForbidden})
	case errors.Is(err, service.ErrInvalidInput):
		body := gin.H{"success": false, "message": "Datos inválidos."}
		if ve, ok := service.AsValidation(err); ok {
			body["message"] = strings.Join(ve.Messages(), " ")
			body["errors"] = ve.ByField()
		}
		c.JSON(http.StatusBadRequest, body)
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Registro no encontrado."})
	default:
		h.log.Error().Err(err).Str("request_id", middleware.RequestIDFrom(c)).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": msgInternal})
	}
}

// pageError reports failures of page requests through a flash message and a redirect.
func (h *Handler) pageError(c *gin.Context, err error, back string) {
	var conflict *service.ConflictError
	switch {
	case errors.As(err, &conflict):
		setFlash(c, flashDanger, conflict.Message)
	case errors.Is(err, service.ErrNotFound):
		setFlash(c, flashDanger, "El registro solicitado no existe.")
	case errors.Is(err, service.ErrInvalidInput):
		setFlash(c, flashDanger, "La solicitud no es válida.")
	default:
		h.log.Error().Err(err).Str("request_id", middleware.RequestIDFrom(c)).Str("path", c.Request.URL.Path).Msg("request failed")
		setFlash(c, flashDanger, msgInternal)
	}
	c.Redirect(http.StatusSeeOther, back)
}

// bindForm decodes the submitted form into input. A malformed body is answered with a
// flash and a redirect to back, and false is returned.
func (h *Handler) bindForm(c *gin.Context, input any, back string) bool {
	return h.bound(c, c.ShouldBind(input), back)
}

func (h *Handler) bindQuery(c *gin.Context, input any, back string) bool {
	return h.bound(c, c.ShouldBindQuery(input), back)
}

func (h *Handler) bound(c *gin.Context, err error, back string) bool {
	if err == nil {
		return true
	}
	h.log.Warn().Err(err).Str("request_id", middleware.RequestIDFrom(c)).Str("path", c.Request.URL.Path).Msg("malformed request")
	h.pageError(c, fmt.Errorf("%w: %v", service.ErrInvalidInput, err), back)
	return false
}

// deleted answers a delete call from the index pages.
func (h *Handler) deleted(c *gin.Context, err error, message string) {
	if err != nil {
		h.handleError(c, err)
		return
	}
	if middleware.WantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
		return
	}
	setFlash(c, flashSuccess, message)
	c.Redirect(http.StatusSeeOther, backTo(c, "/"))
}

// forbidden sends an operator back to the page they came from.
func (h *Handler) forbidden(c *gin.Context) {
	setFlash(c, flashDanger, middleware.MsgForbidden)
	c.Redirect(http.StatusSeeOther, backTo(c, "/"))
}

func (h *Handler) page(c *gin.Context) model.Page {
	number, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("page_size"))
	if size <= 0 {
		size = h.pageSize
	}
	return model.NewPage(number, size)
}

// pathID reads a positive id route parameter.
func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, service.ErrNotFound
	}
	return id, nil
}

// backTo keeps only the path of the referer so redirects stay on this host.
func backTo(c *gin.Context, fallback string) string {
	if ref, err := url.Parse(c.Request.Referer()); err == nil && ref.Path != "" {
		return ref.RequestURI()
	}
	return fallback
}

func itemsPath(kind model.CategoryKind) string {
	return "/" + string(kind) + "-items"
}
