package profile

import (
	"context"
	"errors"
	"regexp"
	"time"
)

// Profile is stored in the users collection under the owner id.
type Profile struct {
	OwnerID   string    `json:"id"`
	Name      string    `json:"name"`
	Bio       string    `json:"bio"`
	Tagline   string    `json:"tagline"`
	Username  string    `json:"username"`
	Skills    []string  `json:"skills"`
	PhotoURL  string    `json:"photoURL"`
	LinkedIn  string    `json:"linkedin,omitempty"`
	GitHub    string    `json:"github,omitempty"`
	Facebook  string    `json:"facebook,omitempty"`
	Email     string    `json:"email"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// Update carries the fields of a save. Nil fields are left untouched.
type Update struct {
	Name     *string   `json:"name,omitempty"`
	Bio      *string   `json:"bio,omitempty"`
	Tagline  *string   `json:"tagline,omitempty"`
	Username *string   `json:"username,omitempty"`
	Skills   *[]string `json:"skills,omitempty"`
	PhotoURL *string   `json:"photoURL,omitempty"`
	LinkedIn *string   `json:"linkedin,omitempty"`
	GitHub   *string   `json:"github,omitempty"`
	Facebook *string   `json:"facebook,omitempty"`
	Email    *string   `json:"email,omitempty"`
}

var (
	ErrInvalidUsername  = errors.New("username may only contain letters, digits, '.', '_' and '-' (max 40)")
	ErrReservedUsername = errors.New("username is reserved")
	usernameRegex       = regexp.MustCompile(`^[A-Za-z0-9._-]{1,40}$`)

	// public routes that a username would shadow
	reserved = map[string]struct{}{
		"blog": {}, "projects": {}, "experience": {}, "login": {}, "dashboard": {}, "api": {},
	}
)

func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return ErrInvalidUsername
	}
	if _, ok := reserved[username]; ok {
		return ErrReservedUsername
	}
	return nil
}

func (u Update) Fields() map[string]any {
	f := make(map[string]any)
	set := func(key string, v *string) {
		if v != nil {
			f[key] = *v
		}
	}
	set("name", u.Name)
	set("bio", u.Bio)
	set("tagline", u.Tagline)
	set("username", u.Username)
	set("photoURL", u.PhotoURL)
	set("linkedin", u.LinkedIn)
	set("github", u.GitHub)
	set("facebook", u.Facebook)
	set("email", u.Email)
	if u.Skills != nil {
		f["skills"] = append([]string{}, (*u.Skills)...)
	}
	return f
}

func (u Update) IsEmpty() bool {
	return len(u.Fields()) == 0
}

func (u Update) Apply(p *Profile) {
	apply := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	apply(&p.Name, u.Name)
	apply(&p.Bio, u.Bio)
	apply(&p.Tagline, u.Tagline)
	apply(&p.Username, u.Username)
	apply(&p.PhotoURL, u.PhotoURL)
	apply(&p.LinkedIn, u.LinkedIn)
	apply(&p.GitHub, u.GitHub)
	apply(&p.Facebook, u.Facebook)
	apply(&p.Email, u.Email)
	if u.Skills != nil {
		p.Skills = append([]string{}, (*u.Skills)...)
	}
}

type Repository interface {
	// Get returns apperror.ErrNotFound when the owner has no profile yet.
	Get(ctx context.Context, ownerID string) (*Profile, error)
	// FindByUsername returns every exact, case-sensitive match in store order.
	FindByUsername(ctx context.Context, username string) ([]*Profile, error)
	// Save merges u into the owner's profile, creating it when missing.
	Save(ctx context.Context, ownerID string, u Update) error
}
