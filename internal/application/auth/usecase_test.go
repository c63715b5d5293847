package auth_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-wms/internal/application/auth"
	"github.com/jhoicas/estoque-wms/internal/application/dto"
	"github.com/jhoicas/estoque-wms/internal/domain"
	"github.com/jhoicas/estoque-wms/pkg/jwt"
)

func newUseCase(t *testing.T) *auth.AuthUseCase {
	t.Helper()
	hash, err := auth.HashPassword("s3nha")
	require.NoError(t, err)
	return auth.NewAuthUseCase(
		auth.Operator{Username: "operador", PasswordHash: hash},
		auth.JWTConfig{Secret: "secreto", ExpMinutes: 5, Issuer: "estoque-wms"},
	)
}

func TestLogin_CredencialesValidas(t *testing.T) {
	uc := newUseCase(t)

	resp, err := uc.Login(dto.LoginRequest{Username: "operador", Password: "s3nha"})
	require.NoError(t, err)

	op, err := jwt.Parse("secreto", resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "operador", op)
}

func TestLogin_PasswordIncorrecto(t *testing.T) {
	uc := newUseCase(t)

	_, err := uc.Login(dto.LoginRequest{Username: "operador", Password: "errada"})
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestLogin_UsuarioDesconocido(t *testing.T) {
	uc := newUseCase(t)

	_, err := uc.Login(dto.LoginRequest{Username: "outro", Password: "s3nha"})
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestLogin_SinHashConfigurado(t *testing.T) {
	uc := auth.NewAuthUseCase(auth.Operator{Username: "operador"}, auth.JWTConfig{Secret: "secreto"})

	_, err := uc.Login(dto.LoginRequest{Username: "operador", Password: ""})
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}
