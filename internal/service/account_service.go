package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"energy-trading-api/internal/domain"
	"energy-trading-api/pkg/utils"
)

// RegisterInput 已经过 transport 层 binding 校验（邮箱语法等）
type RegisterInput struct {
	Name       string
	Email      string
	Password   string
	Street     string
	City       string
	PostalCode string
	Country    string
}

type AccountService struct {
	users domain.UserRepository
	log   *zap.Logger
}

func NewAccountService(users domain.UserRepository, log *zap.Logger) *AccountService {
	return &AccountService{users: users, log: log}
}

// Register 注册流程：查重（快路径）→ 哈希 → 地址+用户同事务落库。
// 并发下查重可能漏判，最终以 email 唯一索引为准（冲突翻译成 ErrEmailTaken）
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (domain.UserView, error) {
	email := strings.TrimSpace(in.Email)

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return domain.UserView{}, err
	}
	if existing != nil {
		return domain.UserView{}, domain.ErrEmailTaken
	}

	addr := &domain.Address{
		Street:     strings.TrimSpace(in.Street),
		City:       strings.TrimSpace(in.City),
		PostalCode: strings.TrimSpace(in.PostalCode),
		Country:    strings.TrimSpace(in.Country),
	}
	// bcrypt 对超过 72 字节的明文报错，绝不能把空串当哈希落库
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return domain.UserView{}, domain.ErrPasswordTooLong
	}
	user := &domain.User{
		Name:          strings.TrimSpace(in.Name),
		Email:         email,
		Password:      hash,
		WalletBalance: decimal.Zero,
	}
	if err := s.users.CreateWithAddress(ctx, addr, user); err != nil {
		return domain.UserView{}, err
	}

	s.log.Info("user registered", zap.String("user_id", user.ID.String()))
	return domain.NewUserView(user), nil
}

// Authenticate 登录校验。内部区分 ErrUserNotFound / ErrInvalidCredentials，
// 对外如何合并由 transport 层决定
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if !utils.CheckPassword(password, user.Password) {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// CurrentUser 按 id 取脱敏视图
func (s *AccountService) CurrentUser(ctx context.Context, id string) (domain.UserView, error) {
	uid, err := utils.ParseID(id)
	if err != nil {
		return domain.UserView{}, domain.ErrUserNotFound
	}
	user, err := s.users.FindByID(ctx, uid)
	if err != nil {
		return domain.UserView{}, err
	}
	if user == nil {
		return domain.UserView{}, domain.ErrUserNotFound
	}
	return domain.NewUserView(user), nil
}
