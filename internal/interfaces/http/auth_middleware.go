package http

import (
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/partes-api/internal/application/dto"
	"github.com/tu-usuario/partes-api/internal/domain/entity"
	"github.com/tu-usuario/partes-api/internal/domain/repository"
	"github.com/tu-usuario/partes-api/pkg/jwt"
)

// Locals key para UserID en Fiber.
const LocalUserID = "user_id"

// AuthMiddleware valida el Bearer Token JWT y extrae el UserID a c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			// SSE no puede adjuntar cabeceras desde EventSource: acepta ?token=
			authHeader = "Bearer " + c.Query("token")
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		userID, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserID, userID)
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	v := c.Locals(LocalUserID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// UserCache resuelve usuarios por ID con una caché de TTL corto. Los
// permisos no viajan en el token: revocar un permiso surte efecto en cuanto
// expira la entrada, sin esperar a que caduque el JWT.
type UserCache struct {
	users repository.UserRepository
	ttl   time.Duration

	mu      sync.Mutex
	entries map[string]userCacheEntry
}

type userCacheEntry struct {
	user      *entity.User
	fetchedAt time.Time
}

// NewUserCache construye la caché. ttl <= 0 desactiva el cacheo.
func NewUserCache(users repository.UserRepository, ttl time.Duration) *UserCache {
	return &UserCache{
		users:   users,
		ttl:     ttl,
		entries: make(map[string]userCacheEntry),
	}
}

// Get resuelve el usuario, desde caché si la entrada sigue vigente.
// Nil si no existe.
func (uc *UserCache) Get(userID string) (*entity.User, error) {
	uc.mu.Lock()
	if e, ok := uc.entries[userID]; ok && uc.ttl > 0 && time.Since(e.fetchedAt) < uc.ttl {
		uc.mu.Unlock()
		return e.user, nil
	}
	uc.mu.Unlock()

	user, err := uc.users.GetByID(userID)
	if err != nil {
		return nil, err
	}

	// con el cacheo desactivado no se acumulan entradas que nadie leerá
	if uc.ttl > 0 {
		uc.mu.Lock()
		uc.entries[userID] = userCacheEntry{user: user, fetchedAt: time.Now()}
		uc.mu.Unlock()
	}
	return user, nil
}

// RequirePermission devuelve un middleware que verifica que el usuario del
// token posee la capacidad indicada. Debe usarse DESPUÉS de AuthMiddleware.
//
//   - 401 → no hay user_id en el contexto o el usuario ya no existe.
//   - 403 → usuario sin la capacidad.
//   - 503 → fallo de infraestructura al resolver el usuario.
func RequirePermission(permission string, cache *UserCache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := GetUserID(c)
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "user_id no encontrado en el token"})
		}
		user, err := cache.Get(userID)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "PERMISSION_CHECK_FAILED", Message: "no se pudieron verificar los permisos, intente más tarde"})
		}
		if user == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "el usuario del token ya no existe"})
		}
		if !user.HasPermission(permission) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "falta la capacidad '" + permission + "'"})
		}
		return c.Next()
	}
}
