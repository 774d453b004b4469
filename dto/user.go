package dto

import "time"

type UserProfileResponse struct {
	ID           string                `json:"id"`
	Username     string                `json:"username"`
	Email        string                `json:"email"`
	Role         string                `json:"role"`
	XP           int                   `json:"xp"`
	Level        int                   `json:"level"`
	XPToNext     int                   `json:"xp_to_next_level"`
	CreatedAt    time.Time             `json:"created_at"`
	LastLoginAt  *time.Time            `json:"last_login_at"`
	IsActive     bool                  `json:"is_active"`
	Achievements []AchievementResponse `json:"achievements"`
}

type UpdateProfileRequest struct {
	Username string `json:"username" validate:"omitempty,min=3,max=30,alphanum"`
	Email    string `json:"email" validate:"omitempty,email"`
}

func (r UpdateProfileRequest) Validate() error {
	return GetValidator().Struct(r)
}

type LeaderboardUserResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	XP       int    `json:"xp"`
	Level    int    `json:"level"`
	Rank     int    `json:"rank"`
}

type LeaderboardResponse struct {
	CurrentUser LeaderboardUserResponse   `json:"current_user"`
	TopUsers    []LeaderboardUserResponse `json:"top_users"`
}

// ==================== ADMIN USER MANAGEMENT ====================

type AdminUserInfo struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	XP          int        `json:"xp"`
	Level       int        `json:"level"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at"`
}

type AdminUserListResponse struct {
	Users []AdminUserInfo `json:"users"`
	Total int             `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

type AdminUpdateUserRequest struct {
	Role     *string `json:"role" validate:"omitempty,oneof=user admin"`
	IsActive *bool   `json:"is_active"`
}

func (r AdminUpdateUserRequest) Validate() error {
	return GetValidator().Struct(r)
}
