package service

import (
	"context"
	"errors"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"strings"

	"gorm.io/gorm"
)

type ProfileService struct {
	ProfileRepo *repository.ProfileRepository
	UserRepo    *repository.UserRepository
}

func NewProfileService(profileRepo *repository.ProfileRepository, userRepo *repository.UserRepository) *ProfileService {
	return &ProfileService{ProfileRepo: profileRepo, UserRepo: userRepo}
}

// ProfileInput 未出现的字段保持原值
type ProfileInput struct {
	FullName             *string `json:"fullName"`
	Interests            *string `json:"interests"`
	Theme                *string `json:"theme"`
	NotificationsEnabled *bool   `json:"notifications_enabled"`
	Language             *string `json:"language"`
}

type ProfileView struct {
	FullName             string `json:"fullName"`
	Email                string `json:"email"`
	Interests            string `json:"interests"`
	Theme                string `json:"theme"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
	Language             string `json:"language"`
}

func newProfileView(user *model.User, settings *model.ProfileSettings) *ProfileView {
	return &ProfileView{
		FullName:             user.Username,
		Email:                user.Email,
		Interests:            user.Bio,
		Theme:                settings.Theme,
		NotificationsEnabled: settings.NotificationsEnabled,
		Language:             settings.Language,
	}
}

func (s *ProfileService) Get(ctx context.Context, userID uint) (*ProfileView, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	settings, err := s.ProfileRepo.FindByUserID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrProfileNotFound
	} else if err != nil {
		return nil, err
	}
	return newProfileView(user, settings), nil
}

func (s *ProfileService) Create(ctx context.Context, userID uint, in ProfileInput) (*ProfileView, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ProfileRepo.FindByUserID(ctx, userID); err == nil {
		return nil, util.ErrProfileExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	settings := &model.ProfileSettings{
		UserID:               userID,
		NotificationsEnabled: true,
		Theme:                model.DefaultTheme,
		Language:             model.DefaultLanguage,
	}
	return s.apply(ctx, user, settings, in)
}

// Update 设置不存在时一并创建
func (s *ProfileService) Update(ctx context.Context, userID uint, in ProfileInput) (*ProfileView, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	settings, err := s.ProfileRepo.FindByUserID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = &model.ProfileSettings{
			UserID:               userID,
			NotificationsEnabled: true,
			Theme:                model.DefaultTheme,
			Language:             model.DefaultLanguage,
		}
	} else if err != nil {
		return nil, err
	}
	return s.apply(ctx, user, settings, in)
}

func (s *ProfileService) apply(ctx context.Context, user *model.User, settings *model.ProfileSettings, in ProfileInput) (*ProfileView, error) {
	if in.FullName != nil {
		name := strings.TrimSpace(*in.FullName)
		if name != "" && name != user.Username {
			taken, err := s.UserRepo.UsernameExists(ctx, name)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, util.ErrUsernameTaken
			}
			user.Username = name
		}
	}
	if in.Interests != nil {
		user.Bio = strings.TrimSpace(*in.Interests)
	}
	if in.Theme != nil && *in.Theme != "" {
		settings.Theme = *in.Theme
	}
	if in.Language != nil && *in.Language != "" {
		settings.Language = *in.Language
	}
	if in.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *in.NotificationsEnabled
	}

	if err := s.ProfileRepo.SaveWithUser(ctx, user, settings); err != nil {
		return nil, err
	}
	return newProfileView(user, settings), nil
}

func (s *ProfileService) findUser(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	} else if err != nil {
		return nil, err
	}
	return user, nil
}
