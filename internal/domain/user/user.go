package user

import "strings"

// Principal is the authenticated identity handed to us by the session provider.
type Principal struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName,omitempty"`
	PhotoURL    string `json:"photoURL,omitempty"`
	Email       string `json:"email,omitempty"`
}

func (p Principal) IsZero() bool {
	return p.ID == ""
}

// SuggestedUsername derives a username from the email local part.
func (p Principal) SuggestedUsername() string {
	local, _, _ := strings.Cut(p.Email, "@")
	return strings.ToLower(strings.TrimSpace(local))
}
