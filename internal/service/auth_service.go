package service

import (
	"context"
	"errors"
	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	UserRepo  *repository.UserRepository
	Blacklist TokenBlacklist
	Cfg       *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, blacklist TokenBlacklist, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo:  userRepo,
		Blacklist: blacklist,
		Cfg:       cfg,
	}
}

type RegisterInput struct {
	Username       string `json:"username" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required"`
	Bio            string `json:"bio"`
	Qualifications string `json:"qualifications"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordInput struct {
	Email           string `json:"email" binding:"required"`
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// AuthResult 登录或注册成功后返回给客户端
type AuthResult struct {
	AccessToken string         `json:"access_token"`
	UserID      uint           `json:"user_id"`
	Role        model.UserRole `json:"role"`
}

type UserDetail struct {
	ID             uint           `json:"id"`
	Username       string         `json:"username"`
	Email          string         `json:"email"`
	Role           model.UserRole `json:"role"`
	Bio            string         `json:"bio"`
	Qualifications string         `json:"qualifications"`
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput, role model.UserRole) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	username := strings.TrimSpace(in.Username)

	exists, err := s.UserRepo.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, util.ErrEmailRegistered
	}
	exists, err = s.UserRepo.UsernameExists(ctx, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, util.ErrUsernameTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username: username,
		Email:    email,
		Password: string(hashedPassword),
		Role:     role,
	}
	if role == model.Teacher {
		user.Bio = in.Bio
		user.Qualifications = in.Qualifications
	}
	if err := s.UserRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	user, err := s.UserRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrInvalidCredentials
	} else if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, util.ErrInvalidCredentials
	}
	return s.issue(user)
}

// TeacherLogin 邮箱不属于教师账号时返回 ErrTeacherNotFound
func (s *AuthService) TeacherLogin(ctx context.Context, in LoginInput) (*AuthResult, error) {
	user, err := s.UserRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !user.IsTeacher()) {
		return nil, util.ErrTeacherNotFound
	} else if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, util.ErrInvalidCredentials
	}
	return s.issue(user)
}

// Logout 令牌加入黑名单直到过期
func (s *AuthService) Logout(ctx context.Context, claims *util.Claims) error {
	if claims == nil || claims.ID == "" {
		return nil
	}
	return s.Blacklist.Revoke(ctx, claims.ID, claims.TTL())
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uint, in ChangePasswordInput) error {
	user, err := s.UserRepo.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrUserNotFound
	} else if err != nil {
		return err
	}

	if !strings.EqualFold(strings.TrimSpace(in.Email), user.Email) {
		return util.ErrEmailMismatch
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.CurrentPassword)); err != nil {
		return util.ErrWrongPassword
	}
	if len(in.NewPassword) < util.MinPasswordLength {
		return util.ErrPasswordTooShort
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.UserRepo.UpdatePassword(ctx, user.ID, string(hashedPassword))
}

func (s *AuthService) GetUser(ctx context.Context, id uint) (*UserDetail, error) {
	user, err := s.UserRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	} else if err != nil {
		return nil, err
	}
	return &UserDetail{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		Role:           user.Role,
		Bio:            user.Bio,
		Qualifications: user.Qualifications,
	}, nil
}

func (s *AuthService) issue(user *model.User) (*AuthResult, error) {
	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}
	return &AuthResult{AccessToken: token, UserID: user.ID, Role: user.Role}, nil
}
