package profile

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/khoahotran/folio/internal/application/service"
	"github.com/khoahotran/folio/internal/docstore"
	"github.com/khoahotran/folio/internal/domain/media"
	"github.com/khoahotran/folio/internal/domain/profile"
	"github.com/khoahotran/folio/internal/domain/tag"
	"github.com/khoahotran/folio/internal/domain/user"
	"github.com/khoahotran/folio/pkg/apperror"
	"github.com/khoahotran/folio/pkg/logger"
)

// IdentityCache is the part of the resolver a profile save must invalidate.
type IdentityCache interface {
	Forget(ctx context.Context, usernames ...string)
}

type ProfileUseCase struct {
	profileRepo profile.Repository
	identity    IdentityCache
	publisher   service.EventPublisher
	publicURL   string
	logger      logger.Logger
}

func NewProfileUseCase(repo profile.Repository, identity IdentityCache, publisher service.EventPublisher, publicURL string, log logger.Logger) *ProfileUseCase {
	return &ProfileUseCase{
		profileRepo: repo,
		identity:    identity,
		publisher:   publisher,
		publicURL:   strings.TrimRight(publicURL, "/"),
		logger:      log,
	}
}

type GetProfileInput struct {
	OwnerID string
}

type ProfileOutput struct {
	Profile   *profile.Profile
	PublicURL string
}

func (uc *ProfileUseCase) ExecuteGetProfile(ctx context.Context, input GetProfileInput) (*ProfileOutput, error) {
	p, err := uc.profileRepo.Get(ctx, input.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("get profile failed: %w", err)
	}
	return &ProfileOutput{Profile: p, PublicURL: uc.PublicURL(p.Username)}, nil
}

type SaveProfileInput struct {
	Principal user.Principal
	Update    profile.Update
}

// ExecuteSaveProfile merges the update into the principal's profile. The
// first save fills username, name, email and photo from the principal when
// the update leaves them out.
func (uc *ProfileUseCase) ExecuteSaveProfile(ctx context.Context, input SaveProfileInput) (*ProfileOutput, error) {
	ownerID := input.Principal.ID
	if ownerID == "" {
		return nil, apperror.NewUnauthorized("no authenticated principal", nil)
	}
	u := input.Update

	current, err := uc.profileRepo.Get(ctx, ownerID)
	if err != nil && !apperror.IsNotFound(err) {
		return nil, fmt.Errorf("load profile failed: %w", err)
	}
	if current == nil {
		uc.fillDefaults(ctx, input.Principal, &u)
	}

	if u.Skills != nil {
		skills := tag.Normalize(*u.Skills)
		u.Skills = &skills
	}
	if u.PhotoURL != nil {
		if err := media.Validate(*u.PhotoURL); err != nil {
			return nil, apperror.NewInvalidInput("photoURL", err)
		}
	}
	if u.Username != nil {
		name := strings.TrimSpace(*u.Username)
		u.Username = &name
		if err := uc.checkUsername(ctx, ownerID, name); err != nil {
			return nil, err
		}
	}

	if err := uc.profileRepo.Save(ctx, ownerID, u); err != nil {
		return nil, fmt.Errorf("save profile failed: %w", err)
	}

	action := service.ActionUpdated
	if current == nil {
		action = service.ActionCreated
	}
	if current != nil && uc.identity != nil {
		uc.identity.Forget(ctx, current.Username)
	}
	service.Notify(ctx, uc.publisher, service.ContentEvent{
		Collection: docstore.CollectionUsers,
		Action:     action,
		OwnerID:    ownerID,
		RecordID:   ownerID,
	}, uc.logger)

	saved, err := uc.profileRepo.Get(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("reload profile failed: %w", err)
	}
	return &ProfileOutput{Profile: saved, PublicURL: uc.PublicURL(saved.Username)}, nil
}

func (uc *ProfileUseCase) PublicURL(username string) string {
	if username == "" {
		return ""
	}
	return uc.publicURL + "/" + username
}

// checkUsername rejects malformed usernames and ones held by another owner.
func (uc *ProfileUseCase) checkUsername(ctx context.Context, ownerID, username string) error {
	if username == "" {
		return nil
	}
	if err := profile.ValidateUsername(username); err != nil {
		return apperror.NewInvalidInput("username", err)
	}
	taken, err := uc.usernameTaken(ctx, ownerID, username)
	if err != nil {
		return err
	}
	if taken {
		return apperror.NewConflict("profile", "username", username)
	}
	return nil
}

func (uc *ProfileUseCase) usernameTaken(ctx context.Context, ownerID, username string) (bool, error) {
	matches, err := uc.profileRepo.FindByUsername(ctx, username)
	if err != nil {
		return false, fmt.Errorf("check username failed: %w", err)
	}
	for _, m := range matches {
		if m.OwnerID != ownerID {
			return true, nil
		}
	}
	return false, nil
}

func (uc *ProfileUseCase) fillDefaults(ctx context.Context, p user.Principal, u *profile.Update) {
	if u.Username == nil || strings.TrimSpace(*u.Username) == "" {
		suggested := p.SuggestedUsername()
		if profile.ValidateUsername(suggested) == nil {
			taken, err := uc.usernameTaken(ctx, p.ID, suggested)
			switch {
			case err != nil:
				uc.logger.Warn("Skipping default username", zap.String("owner_id", p.ID), zap.Error(err))
			case !taken:
				u.Username = &suggested
			}
		}
	}
	if u.Name == nil && p.DisplayName != "" {
		u.Name = &p.DisplayName
	}
	if u.Email == nil && p.Email != "" {
		u.Email = &p.Email
	}
	if u.PhotoURL == nil && p.PhotoURL != "" {
		u.PhotoURL = &p.PhotoURL
	}
}
