package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/estoque-wms/internal/application/dto"
	"github.com/jhoicas/estoque-wms/internal/domain"
	"github.com/jhoicas/estoque-wms/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// Operator credenciales del operador habilitado (hash bcrypt).
type Operator struct {
	Username     string
	PasswordHash string
}

// AuthUseCase login del operador configurado.
type AuthUseCase struct {
	operator Operator
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(operator Operator, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{operator: operator, jwtCfg: jwtCfg}
}

// Login verifica usuario/password contra el operador configurado y emite un JWT.
// Sin hash configurado nadie puede iniciar sesión.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	if uc.operator.PasswordHash == "" {
		return nil, domain.ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(in.Username), []byte(uc.operator.Username)) != 1 {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(uc.operator.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, exp, err := jwt.Generate(uc.jwtCfg.Secret, uc.operator.Username, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, ExpiresAt: exp}, nil
}

// HashPassword genera el hash bcrypt para AUTH_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
