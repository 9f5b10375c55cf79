package model

// User roles.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is an account, and in mock mode also the single local session owner.
type User struct {
	ID                   string `json:"id,omitempty"`
	FullName             string `json:"full_name"`
	Email                string `json:"email"`
	Language             string `json:"language,omitempty"`
	Theme                string `json:"theme,omitempty"`
	Role                 string `json:"role,omitempty"`
	TotalPoints          int    `json:"total_points"`
	Rank                 string `json:"rank,omitempty"`
	JobRole              string `json:"job_role,omitempty"`
	AvatarURL            string `json:"avatar_url,omitempty"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
	SoundEnabled         bool   `json:"sound_enabled"`
}

// ApplyDefaults fills locale, theme and role on a new user.
func (u *User) ApplyDefaults() {
	if u.Language == "" {
		u.Language = "fa"
	}
	if u.Theme == "" {
		u.Theme = "light"
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
}
