package services

import (
	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/rebooto/rebooto_api/dto"
	"github.com/rebooto/rebooto_api/model"
	"github.com/rebooto/rebooto_api/shared"
)

type UserService struct {
	context.DefaultService

	postgresSvc *PostgresService
	progressSvc *ProgressService
}

const USER_SVC = "user_svc"

func (svc UserService) Id() string {
	return USER_SVC
}

func (svc *UserService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *UserService) Start() error {
	svc.postgresSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.progressSvc = svc.Service(PROGRESS_SVC).(*ProgressService)
	return nil
}

// ==================== PROFILE ====================

func (svc *UserService) GetUserProfile(userID string) (*dto.UserProfileResponse, error) {
	user, err := svc.postgresSvc.GetUser(userID)
	if err != nil {
		return nil, err
	}

	achievements, err := svc.progressSvc.GetUserAchievements(userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("Failed to load achievements for profile")
		achievements = nil
	}

	return &dto.UserProfileResponse{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		Role:         user.Role,
		XP:           user.XP,
		Level:        user.Level,
		XPToNext:     XPToNextLevel(user.XP),
		CreatedAt:    user.CreatedAt,
		LastLoginAt:  user.LastLoginAt,
		IsActive:     user.IsActive,
		Achievements: achievements,
	}, nil
}

func (svc *UserService) UpdateUserProfile(userID string, req dto.UpdateProfileRequest) (*dto.UserProfileResponse, error) {
	user, err := svc.postgresSvc.GetUser(userID)
	if err != nil {
		return nil, err
	}

	if req.Username != "" {
		user.Username = req.Username
	}
	if req.Email != "" {
		user.Email = req.Email
	}

	if err := svc.postgresSvc.UpdateUser(user); err != nil {
		if shared.IsConflict(err) {
			return nil, shared.NewConflictError(nil, "Email or username already taken")
		}
		return nil, err
	}

	return svc.GetUserProfile(userID)
}

// ==================== LEADERBOARD ====================

func (svc *UserService) GetLeaderboard(limit int, userID string) (*dto.LeaderboardResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	users, err := svc.postgresSvc.GetLeaderboard(limit)
	if err != nil {
		return nil, err
	}

	topUsers := make([]dto.LeaderboardUserResponse, 0, len(users))
	for i, user := range users {
		topUsers = append(topUsers, dto.LeaderboardUserResponse{
			UserID:   user.ID,
			Username: user.Username,
			XP:       user.XP,
			Level:    user.Level,
			Rank:     i + 1,
		})
	}

	resp := &dto.LeaderboardResponse{TopUsers: topUsers}

	if userID != "" {
		user, err := svc.postgresSvc.GetUser(userID)
		if err != nil {
			return nil, err
		}
		rank, err := svc.postgresSvc.GetUserRank(userID)
		if err != nil {
			return nil, err
		}
		resp.CurrentUser = dto.LeaderboardUserResponse{
			UserID:   user.ID,
			Username: user.Username,
			XP:       user.XP,
			Level:    user.Level,
			Rank:     rank,
		}
	}

	return resp, nil
}

// ==================== ADMIN USER MANAGEMENT ====================

func (svc *UserService) AdminGetUsers(page, limit int, search string) (*dto.AdminUserListResponse, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	users, total, err := svc.postgresSvc.AdminGetUsers(page, limit, search)
	if err != nil {
		return nil, err
	}

	infos := make([]dto.AdminUserInfo, 0, len(users))
	for _, user := range users {
		infos = append(infos, svc.mapUserToAdminInfo(&user))
	}

	return &dto.AdminUserListResponse{
		Users: infos,
		Total: int(total),
		Page:  page,
		Limit: limit,
	}, nil
}

func (svc *UserService) AdminUpdateUser(userID string, req dto.AdminUpdateUserRequest) (*dto.AdminUserInfo, error) {
	user, err := svc.postgresSvc.GetUser(userID)
	if err != nil {
		return nil, err
	}

	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := svc.postgresSvc.UpdateUser(user); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"role":    user.Role,
		"active":  user.IsActive,
	}).Info("Admin updated user")

	info := svc.mapUserToAdminInfo(user)
	return &info, nil
}

func (svc *UserService) AdminDeleteUser(userID string) error {
	if _, err := svc.postgresSvc.GetUser(userID); err != nil {
		return err
	}
	return svc.postgresSvc.AdminDeleteUser(userID)
}

// ==================== HELPERS ====================

func (svc *UserService) mapUserToAdminInfo(user *model.User) dto.AdminUserInfo {
	return dto.AdminUserInfo{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		Role:        user.Role,
		XP:          user.XP,
		Level:       user.Level,
		IsActive:    user.IsActive,
		CreatedAt:   user.CreatedAt,
		LastLoginAt: user.LastLoginAt,
	}
}
