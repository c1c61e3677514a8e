package http

import (
	"embed"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/nurpe/market-leases/internal/http/middleware"
	"github.com/nurpe/market-leases/internal/model"
	"github.com/nurpe/market-leases/internal/service"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Templates parses the embedded page templates with the view helpers.
func (h *Handler) Templates() (*template.Template, error) {
	funcs := template.FuncMap{
		"money": h.money.Amount,
		"amount": func(line service.PaymentLine) string {
			return h.money.Line(line.Amount, line.HasRate)
		},
		"rate": func(d decimal.Decimal) string {
			return h.money.Rate(d)
		},
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("02/01/2006")
		},
		"isoDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("2006-01-02")
		},
		"fieldErrors": func(errs map[string][]string, field string) string {
			return strings.Join(errs[field], " ")
		},
		"invalid": func(errs map[string][]string, field string) string {
			if len(errs[field]) > 0 {
				return "is-invalid"
			}
			return ""
		},
		"kindLabel":   service.KindLabel,
		"itemsPath":   itemsPath,
		"statusClass": statusClass,
		"statuses":    func() []model.PaymentStatus { return model.PaymentStatuses },
		"contractNo": func(id int64) string {
			return fmt.Sprintf("CT%06d", id)
		},
		"selected": func(current, value interface{}) template.HTMLAttr {
			if toString(current) == toString(value) {
				return "selected"
			}
			return ""
		},
		"add": func(a, b int) int { return a + b },
	}
	return template.New("pages").Funcs(funcs).ParseFS(templatesFS, "templates/*.html")
}

// render fills in the layout data shared by every page.
func (h *Handler) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if principal, ok := middleware.MustPrincipal(c); ok {
		data["Principal"] = principal
	}
	data["Flash"] = popFlash(c)
	data["Path"] = c.Request.URL.Path
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = map[string][]string{}
	}
	c.HTML(status, name, data)
}

// formErrors turns a validation failure into the per-field map the forms read.
// Any other error is returned unchanged.
func formErrors(err error) (map[string][]string, error) {
	if ve, ok := service.AsValidation(err); ok {
		return ve.ByField(), nil
	}
	return nil, err
}

// pageBase is the current URL without its page parameter, ready for "page=N" to be appended.
func pageBase(c *gin.Context) string {
	query := c.Request.URL.Query()
	query.Del("page")
	base := c.Request.URL.Path + "?"
	if encoded := query.Encode(); encoded != "" {
		base += encoded + "&"
	}
	return base
}

func statusClass(status model.PaymentStatus) string {
	switch status {
	case model.PaymentPaid:
		return "success"
	case model.PaymentCancelled:
		return "secondary"
	case model.PaymentRefunded:
		return "info"
	}
	return "warning"
}

func toString(v interface{}) string {
	switch value := v.(type) {
	case nil:
		return ""
	case *int64:
		if value == nil {
			return ""
		}
		return strconv.FormatInt(*value, 10)
	}
	return fmt.Sprint(v)
}

// Pager is the non-generic view of a Paged result used by the pagination partial.
type Pager struct {
	Page       int
	TotalPages int
	Total      int64
	HasPrev    bool
	HasNext    bool
	Prev       int
	Next       int
	Pages      []int
	Base       string
}

func pagerOf[T any](c *gin.Context, paged model.Paged[T]) Pager {
	return Pager{
		Page:       paged.Page,
		TotalPages: paged.TotalPages,
		Total:      paged.Total,
		HasPrev:    paged.HasPrev(),
		HasNext:    paged.HasNext(),
		Prev:       paged.PrevPage(),
		Next:       paged.NextPage(),
		Pages:      paged.Window(7),
		Base:       pageBase(c),
	}
}
