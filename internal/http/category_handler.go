package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nurpe/market-leases/internal/model"
	"github.com/nurpe/market-leases/internal/service"
)

// categoryRoutes serves one of the two catalogs; both share templates.
type categoryRoutes struct {
	h    *Handler
	kind model.CategoryKind
}

func (r *categoryRoutes) title() string {
	if r.kind == model.CategoryExternal {
		return "Rubros externos"
	}
	return "Rubros internos"
}

func (r *categoryRoutes) list(c *gin.Context) {
	search := strings.TrimSpace(c.Query("search"))
	items, err := r.h.svc.Categories.List(c.Request.Context(), r.kind, search, r.h.page(c))
	if err != nil {
		r.h.pageError(c, err, "/")
		return
	}
	r.h.render(c, http.StatusOK, "items_index", gin.H{
		"Title":  r.title(),
		"Kind":   r.kind,
		"Items":  items,
		"Search": search,
		"Pager":  pagerOf(c, items),
	})
}

func (r *categoryRoutes) newForm(c *gin.Context) {
	r.form(c, service.CategoryInput{PaymentCount: "1"}, nil, 0)
}

func (r *categoryRoutes) create(c *gin.Context) {
	var input service.CategoryInput
	if !r.h.bindForm(c, &input, itemsPath(r.kind)) {
		return
	}

	item, err := r.h.svc.Categories.Create(c.Request.Context(), r.kind, input)
	if err != nil {
		errs, err := formErrors(err)
		if err != nil {
			r.h.pageError(c, err, itemsPath(r.kind))
			return
		}
		r.form(c, input, errs, 0)
		return
	}
	setFlash(c, flashSuccess, fmt.Sprintf("Rubro %s registrado correctamente.", item.Name))
	c.Redirect(http.StatusSeeOther, itemsPath(r.kind))
}

func (r *categoryRoutes) editForm(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		r.h.pageError(c, err, itemsPath(r.kind))
		return
	}
	item, err := r.h.svc.Categories.Get(c.Request.Context(), r.kind, id)
	if err != nil {
		r.h.pageError(c, err, itemsPath(r.kind))
		return
	}
	r.form(c, service.CategoryInputFrom(item), nil, id)
}

func (r *categoryRoutes) update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		r.h.pageError(c, err, itemsPath(r.kind))
		return
	}
	var input service.CategoryInput
	if !r.h.bindForm(c, &input, itemsPath(r.kind)) {
		return
	}

	if _, err := r.h.svc.Categories.Update(c.Request.Context(), r.kind, id, input); err != nil {
		errs, err := formErrors(err)
		if err != nil {
			r.h.pageError(c, err, itemsPath(r.kind))
			return
		}
		r.form(c, input, errs, id)
		return
	}
	setFlash(c, flashSuccess, "Rubro actualizado correctamente.")
	c.Redirect(http.StatusSeeOther, itemsPath(r.kind))
}

func (r *categoryRoutes) delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err == nil {
		err = r.h.svc.Categories.Delete(c.Request.Context(), r.kind, id)
	}
	r.h.deleted(c, err, "Rubro eliminado correctamente.")
}

func (r *categoryRoutes) form(c *gin.Context, input service.CategoryInput, errs map[string][]string, id int64) {
	data := gin.H{
		"Title":  "Nuevo rubro " + service.KindLabel(r.kind),
		"Kind":   r.kind,
		"Input":  input,
		"Action": itemsPath(r.kind),
	}
	if errs != nil {
		data["Errors"] = errs
	}
	if id > 0 {
		data["Title"] = "Editar rubro " + service.KindLabel(r.kind)
		data["Action"] = fmt.Sprintf("%s/%d", itemsPath(r.kind), id)
	}
	r.h.render(c, http.StatusOK, "items_form", data)
}
