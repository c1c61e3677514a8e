package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nurpe/market-leases/internal/model"
	"github.com/nurpe/market-leases/internal/service"
)

const (
	CookieName   = "auth_token"
	MsgForbidden = "No tiene permisos para realizar esta acción."
	principalKey = "principal"
)

type TokenParser interface {
	Parse(raw string) (int64, error)
}

type PrincipalLoader interface {
	LoadPrincipal(ctx context.Context, userID int64) (*model.Principal, error)
}

// Auth resolves the session token from the auth cookie or a bearer header and
// attaches the principal. Browsers are sent to the login page, everything else gets 401 JSON.
func Auth(tokens TokenParser, principals PrincipalLoader, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := tokenFromRequest(c)
		if raw == "" {
			reject(c, "Sesión no iniciada")
			return
		}

		userID, err := tokens.Parse(raw)
		if err != nil {
			ClearSession(c)
			reject(c, "Sesión inválida o expirada")
			return
		}

		principal, err := principals.LoadPrincipal(c.Request.Context(), userID)
		if err != nil {
			if !errors.Is(err, service.ErrUnauthenticated) {
				log.Error().Err(err).Int64("user_id", userID).Msg("load principal failed")
			}
			ClearSession(c)
			reject(c, "Sesión inválida o expirada")
			return
		}

		SetPrincipal(c, *principal)
		c.Next()
	}
}

// RequireAdmin blocks destructive operations for operators. Page requests are handed
// to denied, which is expected to answer and abort; a nil denied answers a bare 403.
func RequireAdmin(denied gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := MustPrincipal(c)
		if ok && principal.IsAdmin() {
			c.Next()
			return
		}
		if WantsJSON(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": MsgForbidden,
			})
			return
		}
		if denied == nil {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		denied(c)
		c.Abort()
	}
}

func SetPrincipal(c *gin.Context, principal model.Principal) {
	c.Set(principalKey, principal)
}

func MustPrincipal(c *gin.Context) (model.Principal, bool) {
	value, exists := c.Get(principalKey)
	if !exists {
		return model.Principal{}, false
	}
	principal, ok := value.(model.Principal)
	return principal, ok
}

// WantsJSON reports whether the caller is a script rather than a page navigation.
func WantsJSON(c *gin.Context) bool {
	if strings.HasPrefix(c.Request.URL.Path, "/ajax/") {
		return true
	}
	if strings.EqualFold(c.GetHeader("X-Requested-With"), "XMLHttpRequest") {
		return true
	}
	accept := c.GetHeader("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}

func ClearSession(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", false, true)
}

func tokenFromRequest(c *gin.Context) string {
	if token, err := c.Cookie(CookieName); err == nil && token != "" {
		return token
	}
	header := c.GetHeader("Authorization")
	parts := strings.Fields(header)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return ""
}

func reject(c *gin.Context, message string) {
	if WantsJSON(c) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": message})
		return
	}
	target := "/login"
	if c.Request.Method == http.MethodGet {
		target += "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
	}
	c.Redirect(http.StatusFound, target)
	c.Abort()
}
