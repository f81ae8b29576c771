package model

// UserModel is the stored shape of the signed-in user under sooq_auth_user.
type UserModel struct {
	ID        string `json:"id"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Name      string `json:"name"`
	Verified  bool   `json:"verified"`
	MaxAds    int    `json:"maxAds"`
	CreatedAt string `json:"createdAt"`
}
