package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"energy-trading-api/internal/core/auth"
	"energy-trading-api/internal/domain"
	"energy-trading-api/internal/service"
	httpez "energy-trading-api/internal/transport/http/ez"
)

type addressIn struct {
	Street     string `json:"street"     binding:"required,max=191"`
	City       string `json:"city"       binding:"required,max=64"`
	PostalCode string `json:"postalCode" binding:"required,max=16"`
	Country    string `json:"country"    binding:"omitempty,max=64"` // 缺省 France
}

type registerIn struct {
	Name     string    `json:"name"     binding:"required,max=64"`
	Email    string    `json:"email"    binding:"required,email"`
	Password string    `json:"password" binding:"required,min=8,max=72"` // max 按字符数算，字节数超限由 service 兜底
	Address  addressIn `json:"address"  binding:"required"`
}

type loginIn struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginOut struct {
	Token string          `json:"token"`
	User  domain.UserView `json:"user"`
}

func mountAccountActions(
	api, authUser *gin.RouterGroup,
	db *gorm.DB,
	jwter *auth.JWTer,
	accounts *service.AccountService,
	ledger *service.LedgerService,
	l *zap.Logger,
) {
	ezPublic := httpez.New(api)

	httpez.RegisterAction[registerIn, domain.UserView](ezPublic, db, httpez.Action[registerIn, domain.UserView]{
		Method: http.MethodPost,
		Path:   "/auth/register",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, _ *gorm.DB, in *registerIn) (domain.UserView, error) {
			view, err := accounts.Register(c.Request.Context(), service.RegisterInput{
				Name:       in.Name,
				Email:      in.Email,
				Password:   in.Password,
				Street:     in.Address.Street,
				City:       in.Address.City,
				PostalCode: in.Address.PostalCode,
				Country:    in.Address.Country,
			})
			if err != nil {
				if errors.Is(err, domain.ErrEmailTaken) {
					return domain.UserView{}, httpez.BadRequest("email already in use")
				}
				if errors.Is(err, domain.ErrPasswordTooLong) {
					return domain.UserView{}, httpez.BadRequest("password too long")
				}
				return domain.UserView{}, httpez.Internal("registration failed", err)
			}
			return view, nil
		},
	})

	// 登录失败统一回 401 "invalid credentials"，
	// 未注册/密码错的区分只进日志，避免账号枚举
	httpez.RegisterAction[loginIn, loginOut](ezPublic, db, httpez.Action[loginIn, loginOut]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, _ *gorm.DB, in *loginIn) (loginOut, error) {
			user, err := accounts.Authenticate(c.Request.Context(), in.Email, in.Password)
			if err != nil {
				switch {
				case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrInvalidCredentials):
					l.Info("login rejected",
						zap.String("rid", c.GetString("X-Request-ID")),
						zap.Bool("unknown_email", errors.Is(err, domain.ErrUserNotFound)),
					)
					return loginOut{}, httpez.Unauthorized("invalid credentials")
				default:
					return loginOut{}, httpez.Internal("login failed", err)
				}
			}
			tok, err := jwter.Issue(user.ID.String(), "user")
			if err != nil || tok == "" {
				return loginOut{}, httpez.Internal("issue token failed", err)
			}
			return loginOut{Token: tok, User: domain.NewUserView(user)}, nil
		},
	})

	ezAuth := httpez.New(authUser)

	httpez.RegisterAction[struct{}, domain.UserView](ezAuth, db, httpez.Action[struct{}, domain.UserView]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (domain.UserView, error) {
			view, err := accounts.CurrentUser(c.Request.Context(), c.GetString("userId"))
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					return domain.UserView{}, httpez.NotFound("user not found")
				}
				return domain.UserView{}, httpez.Internal("db error", err)
			}
			return view, nil
		},
	})

	httpez.RegisterAction[struct{}, gin.H](ezAuth, db, httpez.Action[struct{}, gin.H]{
		Method: http.MethodGet,
		Path:   "/me/balance",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (gin.H, error) {
			bal, err := ledger.Balance(c.Request.Context(), c.GetString("userId"))
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					return nil, httpez.NotFound("user not found")
				}
				return nil, httpez.Internal("db error", err)
			}
			return gin.H{"balance": bal}, nil
		},
	})

	type listQ struct {
		Limit int `form:"limit,default=10"`
	}

	httpez.RegisterAction[listQ, []domain.Invoice](ezAuth, db, httpez.Action[listQ, []domain.Invoice]{
		Method: http.MethodGet,
		Path:   "/invoices",
		Binder: httpez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, in *listQ) ([]domain.Invoice, error) {
			out, err := ledger.Invoices(c.Request.Context(), c.GetString("userId"), in.Limit)
			if err != nil {
				return nil, httpez.Internal("list invoices failed", err)
			}
			if out == nil {
				out = []domain.Invoice{}
			}
			return out, nil
		},
	})

	httpez.RegisterAction[listQ, []domain.EnergyTransaction](ezAuth, db, httpez.Action[listQ, []domain.EnergyTransaction]{
		Method: http.MethodGet,
		Path:   "/transactions",
		Binder: httpez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, in *listQ) ([]domain.EnergyTransaction, error) {
			out, err := ledger.Transactions(c.Request.Context(), c.GetString("userId"), in.Limit)
			if err != nil {
				return nil, httpez.Internal("list transactions failed", err)
			}
			if out == nil {
				out = []domain.EnergyTransaction{}
			}
			return out, nil
		},
	})
}
