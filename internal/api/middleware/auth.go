package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/verlic/zapcentral/internal/storage"
)

const SessionCookieName = "session_token"

// AuthOption configura o middleware de autenticação do console.
type AuthOption struct {
	JWTSecret   string
	SessionRepo storage.SessionRepository
}

// Auth aceita o token JWT vindo do cookie de sessão ou do header
// Authorization. Além da assinatura, a sessão precisa existir no banco
// e não estar expirada (logout revoga a sessão server-side).
func Auth(opts AuthOption) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractBearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			if cookie, err := c.Cookie(SessionCookieName); err == nil {
				tokenString = cookie
			}
		}
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token ausente"})
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(opts.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token inválido"})
			return
		}

		if opts.SessionRepo != nil {
			session, err := opts.SessionRepo.GetByToken(c.Request.Context(), tokenString)
			if err != nil || time.Now().After(session.ExpiresAt) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "sessão expirada"})
				return
			}
		}

		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			if sub, ok := claims["sub"].(string); ok {
				c.Set("userID", sub)
			}
			if email, ok := claims["email"].(string); ok {
				c.Set("userEmail", email)
			}
			if role, ok := claims["role"].(string); ok {
				c.Set("userRole", role)
			}
		}

		c.Next()
	}
}

// SetSessionCookie grava o cookie httpOnly usado pelo console web.
func SetSessionCookie(c *gin.Context, token string, maxAge time.Duration) {
	c.SetCookie(SessionCookieName, token, int(maxAge.Seconds()), "/", "", false, true)
}

func ClearSessionCookie(c *gin.Context) {
	c.SetCookie(SessionCookieName, "", -1, "/", "", false, true)
}
