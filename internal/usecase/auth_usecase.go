package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/repository"
	"storefront/internal/validator"

	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type UserDTO struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

type JwtAccessTokenDTO struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type AuthRegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type AuthRegisterResponse struct {
	User UserDTO `json:"user"`
}

type AuthLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthLoginResponse struct {
	User  UserDTO           `json:"user"`
	Token JwtAccessTokenDTO `json:"token"`
}

type AuthUsecase struct {
	cfg   config.Config
	users repository.UserRepository
	log   logrus.FieldLogger
	now   func() time.Time
}

func NewAuthUsecase(
	cfg config.Config,
	users repository.UserRepository,
	log logrus.FieldLogger,
) *AuthUsecase {
	return &AuthUsecase{
		cfg:   cfg,
		users: users,
		log:   log,
		now:   time.Now,
	}
}

// 会員登録。入力エラーは全部まとめて返す
func (u *AuthUsecase) Register(ctx context.Context, req AuthRegisterRequest) (*AuthRegisterResponse, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)

	v := validator.ValidateRegister(validator.RegisterInput{
		Username:        username,
		Email:           email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})

	//重複チェック（DBが必要）
	if username != "" {
		taken, err := u.exists(u.users.FindByUsername(ctx, username))
		if err != nil {
			return nil, storageError(u.log, "find user by username", err)
		}
		if taken {
			v.Add(validator.MsgUsernameTaken)
		}
	}
	if email != "" {
		taken, err := u.exists(u.users.FindByEmail(ctx, email))
		if err != nil {
			return nil, storageError(u.log, "find user by email", err)
		}
		if taken {
			v.Add(validator.MsgEmailTaken)
		}
	}

	if !v.OK() {
		return nil, NewValidationError(v)
	}

	user, err := u.createUser(ctx, username, email, req.Password, model.RoleUser)
	if err != nil {
		return nil, err
	}

	return &AuthRegisterResponse{User: toUserDTO(user)}, nil
}

// ログイン（ユーザー名 + パスワード）
func (u *AuthUsecase) Login(ctx context.Context, req AuthLoginRequest) (*AuthLoginResponse, error) {
	if v := validator.ValidateLogin(req.Username, req.Password); !v.OK() {
		return nil, NewValidationError(v)
	}

	//ユーザー取得
	user, err := u.users.FindByUsername(ctx, strings.TrimSpace(req.Username))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NewHTTPError(http.StatusUnauthorized, "invalid username or password")
	}
	if err != nil {
		return nil, storageError(u.log, "find user by username", err)
	}

	//パスワード照合（bcrypt）
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, NewHTTPError(http.StatusUnauthorized, "invalid username or password")
	}

	//停止ユーザーはログイン不可
	if !user.IsActive {
		return nil, NewHTTPError(http.StatusForbidden, "forbidden")
	}

	//last_login更新（失敗してもログインは通す）
	now := u.now()
	user.LastLoginAt = &now
	if err := u.users.Update(ctx, user); err != nil {
		u.log.WithError(err).WithField("user_id", user.ID).Warn("update last login")
	}

	token, expiresIn, err := u.issueAccessToken(user)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return &AuthLoginResponse{
		User: toUserDTO(user),
		Token: JwtAccessTokenDTO{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   expiresIn,
		},
	}, nil
}

// 起動時に管理者を用意する（既にいれば何もしない）
func (u *AuthUsecase) EnsureAdmin(ctx context.Context, username string, email string, password string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return false, nil
	}

	_, err := u.users.FindByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, storageError(u.log, "find admin", err)
	}

	if len(password) < validator.PasswordMinLength {
		return false, NewValidationError(validator.Violations{validator.MsgPasswordTooShort})
	}

	if _, err := u.createUser(ctx, username, strings.TrimSpace(email), password, model.RoleAdmin); err != nil {
		return false, err
	}
	u.log.WithField("username", username).Info("admin user created")
	return true, nil
}

func (u *AuthUsecase) createUser(ctx context.Context, username string, email string, password string, role model.Role) (*model.User, error) {
	//パスワードは必ずハッシュ化して保存（平文保存しない）
	pwHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(pwHash),
		Role:         role,
		IsActive:     true,
	}

	//同時登録で unique 違反になったら409
	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, NewHTTPError(http.StatusConflict, "conflict")
		}
		return nil, storageError(u.log, "create user", err)
	}
	return user, nil
}

func (u *AuthUsecase) exists(_ *model.User, err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	return false, err
}

// jwt発行
func (u *AuthUsecase) issueAccessToken(user *model.User) (string, int, error) {
	now := u.now()
	exp := now.Add(u.cfg.AccessTokenTTL)

	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := t.SignedString([]byte(u.cfg.JWTSecret))
	if err != nil {
		return "", 0, err
	}

	return signed, int(u.cfg.AccessTokenTTL.Seconds()), nil
}

// model.UserをAPI返却用DTOに変換。
func toUserDTO(u *model.User) UserDTO {
	return UserDTO{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     string(u.Role),
		IsActive: u.IsActive,
	}
}
