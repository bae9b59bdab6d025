package auth

import (
	"context"
	"crypto/subtle"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/folio/internal/domain/user"
	"github.com/khoahotran/folio/pkg/apperror"
	"github.com/khoahotran/folio/pkg/auth"
	"github.com/khoahotran/folio/pkg/logger"
)

// IdentityProvider is the external OAuth provider.
type IdentityProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (user.Principal, error)
}

type LoginUseCase struct {
	provider IdentityProvider
	jwtSvc   *auth.JWTService
	logger   logger.Logger
}

func NewLoginUseCase(provider IdentityProvider, jwtSvc *auth.JWTService, log logger.Logger) *LoginUseCase {
	return &LoginUseCase{
		provider: provider,
		jwtSvc:   jwtSvc,
		logger:   log,
	}
}

type BeginOutput struct {
	State       string
	RedirectURL string
}

// Begin starts a login. The caller keeps State (in a cookie) and passes it
// back to Execute.
func (uc *LoginUseCase) Begin() BeginOutput {
	state := uuid.NewString()
	return BeginOutput{State: state, RedirectURL: uc.provider.AuthCodeURL(state)}
}

type LoginInput struct {
	Code          string
	State         string
	ExpectedState string
}

type LoginOutput struct {
	AccessToken string
	Principal   user.Principal
}

var tracer = otel.Tracer("auth_usecase")

func (uc *LoginUseCase) Execute(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	ctx, span := tracer.Start(ctx, "Execute")
	defer span.End()

	if input.State == "" || subtle.ConstantTimeCompare([]byte(input.State), []byte(input.ExpectedState)) != 1 {
		err := apperror.NewUnauthorized("oauth state mismatch", nil)
		span.RecordError(err)
		return nil, err
	}
	if input.Code == "" {
		err := apperror.NewInvalidInput("missing authorization code", nil)
		span.RecordError(err)
		return nil, err
	}

	p, err := uc.provider.Exchange(ctx, input.Code)
	if err != nil {
		uc.logger.Warn("OAuth exchange failed", zap.Error(err))
		err = apperror.NewUnauthorized("oauth exchange failed", err)
		span.RecordError(err)
		return nil, err
	}

	token, err := uc.jwtSvc.GenerateToken(p)
	if err != nil {
		uc.logger.Error("Failed to generate token", err, zap.String("user_id", p.ID))
		err = apperror.NewInternal("failed to generate token", err)
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("user_id", p.ID))
	return &LoginOutput{AccessToken: token, Principal: p}, nil
}
