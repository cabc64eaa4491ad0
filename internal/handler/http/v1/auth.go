package v1

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/sos_alert_system/internal/config"
	"github.com/sirupsen/logrus"
)

// ctxKeyID - ключ gin-контекста с отпечатком API-ключа клиента
const ctxKeyID = "api_key_id"

// apiKeyFromRequest достает ключ из X-API-Key или Authorization: Bearer
func apiKeyFromRequest(c *gin.Context) string {
	if key := c.GetHeader("X-API-Key"); key != "" {
		return key
	}
	if key, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(key)
	}
	return ""
}

// keyID - короткий отпечаток ключа для логов, сам ключ не логируется
func keyID(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:4])
}

func matchKey(keys []string, candidate string) bool {
	found := 0
	for _, k := range keys {
		found |= subtle.ConstantTimeCompare([]byte(k), []byte(candidate))
	}
	return found == 1
}

// APIKeyAuthMiddleware пропускает запросы устройств и операторов с известным API-ключом
func APIKeyAuthMiddleware(cfg *config.Config, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		entry := log.WithFields(logrus.Fields{"service": "auth", "path": c.FullPath()})

		apiKey := apiKeyFromRequest(c)
		if apiKey == "" {
			entry.Warn("API key missing from request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "API key required"})
			return
		}

		id := keyID(apiKey)
		if !matchKey(cfg.APIKeys, apiKey) {
			entry.WithField(ctxKeyID, id).Warn("Invalid API key provided")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
			return
		}

		c.Set(ctxKeyID, id)
		c.Next()
	}
}

// requestLogger добавляет к записи отпечаток ключа, если запрос прошел аутентификацию
func requestLogger(c *gin.Context, log *logrus.Logger, method string) *logrus.Entry {
	entry := log.WithField("method", method)
	if id := c.GetString(ctxKeyID); id != "" {
		entry = entry.WithField(ctxKeyID, id)
	}
	return entry
}
