package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"
	"github.com/tu-usuario/partes-api/internal/application/dto"
	"github.com/tu-usuario/partes-api/internal/domain"
	"github.com/tu-usuario/partes-api/internal/domain/repository"
	pkgjwt "github.com/tu-usuario/partes-api/pkg/jwt"
)

// JWTConfig parámetros de emisión de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase autentica usuarios y emite JWTs. La autorización fina
// (permisos por capacidad) la resuelve el middleware con el repositorio.
type AuthUseCase struct {
	users repository.UserRepository
	cfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso.
func NewAuthUseCase(users repository.UserRepository, cfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{users: users, cfg: cfg}
}

// Login valida credenciales (bcrypt) y devuelve un token firmado HS256.
// Credenciales inválidas y usuario inexistente responden igual para no
// filtrar qué emails existen.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.TokenResponse, error) {
	if in.Email == "" || in.Password == "" {
		return nil, domain.ErrValidation
	}
	user, err := uc.users.GetByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}

	token, err := pkgjwt.Generate(uc.cfg.Secret, user.ID, user.Name, uc.cfg.Issuer, uc.cfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		UserID:      user.ID,
		Name:        user.Name,
		Permissions: user.Permissions,
	}, nil
}
