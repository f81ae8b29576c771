package entity

import "time"

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Name      string    `json:"name"`
	Verified  bool      `json:"verified"`
	MaxAds    int       `json:"max_ads"`
	CreatedAt time.Time `json:"created_at"`
}

// Role is the token role for the user.
func (u *User) Role() string {
	if u.Verified {
		return "verified"
	}
	return "unverified"
}

type RegisterInput struct {
	Name  string `json:"name" validate:"required,max=100"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"omitempty,max=20"`
}

type UserPatch struct {
	Name  *string `json:"name,omitempty" validate:"omitnil,min=1,max=100"`
	Email *string `json:"email,omitempty" validate:"omitnil,email"`
	Phone *string `json:"phone,omitempty" validate:"omitnil,max=20"`
}

func (p UserPatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
}

// SessionState is the read model of a session's identity.
type SessionState struct {
	User             *User  `json:"user"`
	Loading          bool   `json:"loading"`
	Error            string `json:"error,omitempty"`
	VerificationStep int    `json:"verification_step"`
	IsAuthenticated  bool   `json:"is_authenticated"`
	IsVerified       bool   `json:"is_verified"`
}
