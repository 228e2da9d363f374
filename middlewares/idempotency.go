package middlewares

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"clinica-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Idempotency processes Idempotency-Key for mutating HTTP methods. The first
// completed response for a key is stored and replayed on retries, so a client
// resubmitting a visit completion after a network hiccup cannot double-post
// revenue or double-decrement stock.
func Idempotency(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		method := strings.ToUpper(c.Method())
		if method != fiber.MethodPost && method != fiber.MethodPut && method != fiber.MethodPatch && method != fiber.MethodDelete {
			return c.Next()
		}

		key := strings.TrimSpace(c.Get("Idempotency-Key"))
		if key == "" {
			return c.Next()
		}
		if len(key) > 128 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"erro": "Idempotency-Key muito longa."})
		}

		userID, _ := c.Locals("userID").(string)
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"erro": "Contexto de autenticação ausente."})
		}

		path := c.OriginalURL() // includes query string
		body := c.Body()

		// Build deterministic request hash: method|path|body|user
		h := sha256.New()
		h.Write([]byte(method))
		h.Write([]byte{'\n'})
		h.Write([]byte(path))
		h.Write([]byte{'\n'})
		h.Write(body)
		h.Write([]byte{'\n'})
		h.Write([]byte(userID))
		reqHash := hex.EncodeToString(h.Sum(nil))

		// ---- Phase 1: read/create "pending" under a short TX
		var existing models.IdempotencyKey
		replay := false
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("key = ?", key).First(&existing).Error; err != nil {
				if err != gorm.ErrRecordNotFound {
					return fiber.NewError(fiber.StatusInternalServerError, "idempotency lookup failed")
				}
				// Not found -> create "pending"
				rec := models.IdempotencyKey{
					Key:            key,
					RequestHash:    reqHash,
					Method:         method,
					Path:           path,
					UserID:         userID,
					ResponseStatus: 0,
				}
				if e2 := tx.Create(&rec).Error; e2 != nil {
					// Could be unique race: read again
					if e3 := tx.Where("key = ?", key).First(&existing).Error; e3 != nil {
						return fiber.NewError(fiber.StatusInternalServerError, "idempotency create failed")
					}
					// fall-through to existing handling below
				} else {
					existing = rec
				}
			}

			if existing.RequestHash != reqHash {
				return fiber.NewError(fiber.StatusConflict, "Idempotency-Key reutilizada com outra requisição.")
			}
			if existing.ResponseStatus != 0 && existing.ResponseBody != nil {
				// Completed response stored; flag it so the handler never runs
				replay = true
			}

			// Pending/in-progress: let the request run
			return nil
		})
		if err != nil {
			return err
		}
		if replay {
			c.Status(existing.ResponseStatus)
			return c.Send(existing.ResponseBody)
		}

		// If we reached here, we need to run the handler once.
		if err := c.Next(); err != nil {
			return err
		}

		// ---- Phase 2: store the response under another short TX (best-effort).
		// Only successful responses are stored; a transient failure must not be
		// replayed to every retry of the same key.
		status := c.Response().StatusCode()
		if status >= 200 && status < 300 {
			_ = db.Transaction(func(tx *gorm.DB) error {
				now := time.Now().UTC()
				resp := c.Response().Body()
				blob := make([]byte, len(resp))
				copy(blob, resp)

				return tx.Model(&models.IdempotencyKey{}).
					Where("key = ?", key).
					Updates(map[string]any{
						"response_status": status,
						"response_body":   blob,
						"completed_at":    &now,
					}).Error
			})
		}

		return nil
	}
}
