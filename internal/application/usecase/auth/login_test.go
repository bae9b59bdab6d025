package auth

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/folio/internal/domain/user"
	"github.com/khoahotran/folio/pkg/apperror"
	"github.com/khoahotran/folio/pkg/auth"
	"github.com/khoahotran/folio/pkg/logger"
)

type fakeProvider struct {
	principal user.Principal
	err       error
}

func (f fakeProvider) AuthCodeURL(state string) string {
	return "https://provider/authorize?state=" + url.QueryEscape(state)
}

func (f fakeProvider) Exchange(context.Context, string) (user.Principal, error) {
	return f.principal, f.err
}

func TestLogin_IssuesToken(t *testing.T) {
	jwtSvc := auth.NewJWTService("secret", time.Hour)
	p := user.Principal{ID: "github:42", DisplayName: "Dev One"}
	uc := NewLoginUseCase(fakeProvider{principal: p}, jwtSvc, logger.NewNop())

	begin := uc.Begin()
	assert.NotEmpty(t, begin.State)
	assert.Contains(t, begin.RedirectURL, begin.State)

	out, err := uc.Execute(context.Background(), LoginInput{Code: "c", State: begin.State, ExpectedState: begin.State})
	require.NoError(t, err)
	assert.Equal(t, p, out.Principal)

	claims, err := jwtSvc.ValidateToken(out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "github:42", claims.OwnerID)
}

func TestLogin_Rejections(t *testing.T) {
	jwtSvc := auth.NewJWTService("secret", time.Hour)
	ctx := context.Background()

	uc := NewLoginUseCase(fakeProvider{principal: user.Principal{ID: "x"}}, jwtSvc, logger.NewNop())
	_, err := uc.Execute(ctx, LoginInput{Code: "c", State: "a", ExpectedState: "b"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	_, err = uc.Execute(ctx, LoginInput{State: "a", ExpectedState: "a"})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	failing := NewLoginUseCase(fakeProvider{err: errors.New("denied")}, jwtSvc, logger.NewNop())
	_, err = failing.Execute(ctx, LoginInput{Code: "c", State: "a", ExpectedState: "a"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}
