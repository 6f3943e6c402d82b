package http

import (
	"net/http"
	"time"

	"github.com/brianragasi/Highland-sub003/configs"
	"github.com/brianragasi/Highland-sub003/internal/security"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type LoginHandler struct {
	cfg configs.Config
}

func NewLoginHandler(cfg configs.Config) *LoginHandler {
	return &LoginHandler{cfg: cfg}
}

type loginRequest struct {
	CashierID string `json:"cashier_id" binding:"required"`
	Secret    string `json:"secret" binding:"required"`
}

// POST /v1/login
// A terminal authenticates with its cashier's id + secret and receives
// a bearer token carrying that cashier's permissions.
func (h *LoginHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
		return
	}

	cl, ok := security.Cashiers[req.CashierID]
	if !ok || !cl.Enabled || req.Secret != cl.Secret {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
		return
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"iss":         h.cfg.Security.Issuer,
		"aud":         h.cfg.Security.Audience,
		"iat":         now.Unix(),
		"nbf":         now.Unix(),
		"exp":         now.Add(h.cfg.Security.TTL).Unix(),
		"cashierID":   cl.ID,
		"cashierName": cl.Name,
		"perms":       cl.Perms,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.cfg.Security.JWTSecret))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": signed,
		"token_type":   "Bearer",
		"expires_in":   int(h.cfg.Security.TTL.Seconds()),
	})
}
