package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nurpe/market-leases/internal/http/middleware"
	"github.com/nurpe/market-leases/internal/service"
)

type loginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
	Next     string `form:"next"`
}

func (h *Handler) loginForm(c *gin.Context) {
	h.render(c, http.StatusOK, "login", gin.H{"Title": "Iniciar sesión", "Next": safeNext(c.Query("next"))})
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.render(c, http.StatusOK, "login", gin.H{
			"Title":    "Iniciar sesión",
			"Next":     safeNext(req.Next),
			"Username": req.Username,
			"Error":    "Ingrese usuario y contraseña.",
		})
		return
	}

	principal, err := h.svc.Auth.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		message := "Usuario o contraseña incorrectos."
		if !errors.Is(err, service.ErrUnauthenticated) {
			h.log.Error().Err(err).Msg("authenticate failed")
			message = msgInternal
		}
		h.render(c, http.StatusOK, "login", gin.H{
			"Title":    "Iniciar sesión",
			"Next":     safeNext(req.Next),
			"Username": req.Username,
			"Error":    message,
		})
		return
	}

	token, err := h.tokens.Issue(principal.UserID)
	if err != nil {
		h.log.Error().Err(err).Msg("issue session token failed")
		h.render(c, http.StatusOK, "login", gin.H{"Title": "Iniciar sesión", "Error": msgInternal})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.CookieName, token, int(h.tokens.TTL().Seconds()), "/", "", h.session.SecureCookie, true)
	h.log.Info().Int64("user_id", principal.UserID).Str("username", principal.Username).Msg("user logged in")

	target := safeNext(req.Next)
	if target == "" {
		target = "/contracts"
	}
	c.Redirect(http.StatusSeeOther, target)
}

func (h *Handler) logout(c *gin.Context) {
	if principal, ok := middleware.MustPrincipal(c); ok {
		h.svc.Auth.Logout(c.Request.Context(), principal.UserID)
	}
	middleware.ClearSession(c)
	c.Redirect(http.StatusSeeOther, "/login")
}

// safeNext only allows local paths as the post-login target.
func safeNext(next string) string {
	next = strings.TrimSpace(next)
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	return next
}
