package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"campuslearn/models"
	"campuslearn/pkg/config"
	tokenstore "campuslearn/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

const (
	ContextUserIDKey = "current_user_id"
	ContextJTIKey    = "current_jti"
)

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "missing authorization header"})
			return
		}
		parts := strings.Fields(auth)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "invalid authorization header"})
			return
		}

		userIDStr, jti, err := ParseToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": err.Error()})
			return
		}

		c.Set(ContextUserIDKey, userIDStr)
		c.Set(ContextJTIKey, jti)
		c.Next()
	}
}

// ParseToken validates a bearer JWT and returns the subject user id and jti.
// The websocket handler authenticates via ?token= with the same rules, so the
// validation lives here rather than inside the middleware closure.
func ParseToken(tokenStr string) (userID string, jti string, err error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		// only accept HMAC signing
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return []byte(config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return "", "", errInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", errInvalidToken
	}

	jtiVal, _ := claims["jti"].(string)
	if tokenstore.IsRevoked(jtiVal) {
		return "", "", errRevokedToken
	}

	var userIDStr string
	if sub, ok := claims["sub"].(string); ok {
		userIDStr = sub
	} else if subf, ok := claims["sub"].(float64); ok {
		// jwt lib may parse numeric as float64
		userIDStr = strconv.Itoa(int(subf))
	}
	if userIDStr == "" {
		return "", "", errInvalidSubject
	}
	return userIDStr, jtiVal, nil
}

var (
	errInvalidToken   = jwtError("invalid token")
	errRevokedToken   = jwtError("Token has been revoked (logout)")
	errInvalidSubject = jwtError("invalid subject in token")
)

type jwtError string

func (e jwtError) Error() string { return string(e) }

// CurrentUserID returns the authenticated user id set by AuthMiddleware.
func CurrentUserID(c *gin.Context) uint {
	raw, _ := c.Get(ContextUserIDKey)
	s, _ := raw.(string)
	id, _ := strconv.Atoi(s)
	return uint(id)
}

// RequireRole loads the caller and aborts unless their role matches. Used for
// tutor-only and admin-only surfaces.
func RequireRole(db *gorm.DB, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := CurrentUserID(c)

		var user models.User
		if err := db.First(&user, uid).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "user not found"})
			return
		}
		if user.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"msg": "Access denied. " + role + " only."})
			return
		}
		c.Next()
	}
}
