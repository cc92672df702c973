package router

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"energy-trading-api/internal/domain"
	"energy-trading-api/internal/repo"
	httpez "energy-trading-api/internal/transport/http/ez"
)

func MountAdminActions(admin *gin.RouterGroup, db *gorm.DB) {
	users := repo.NewUserRepo(db)
	ledger := repo.NewLedgerRepo(db)

	ezAdmin := httpez.New(admin)

	// --- 用户列表 ---
	type listQ struct {
		Offset      int    `form:"offset,default=0"`
		Limit       int    `form:"limit,default=20"`
		Q           string `form:"q"`            // 按 email/name 模糊搜
		WithDeleted bool   `form:"with_deleted"` // 是否包含已封禁
	}
	type row struct {
		ID            uuid.UUID       `json:"id"`
		Email         string          `json:"email"`
		Name          string          `json:"name"`
		WalletBalance decimal.Decimal `json:"walletBalance"`
		CreatedAt     time.Time       `json:"createdAt"`
	}
	type listOut struct {
		Total int64 `json:"total"`
		Items []row `json:"items"`
	}

	httpez.RegisterAction[listQ, listOut](ezAdmin, db, httpez.Action[listQ, listOut]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: httpez.BindQuery,
		Auth:   true,
		Roles:  []string{"admin"},
		Handler: func(c *gin.Context, _ *gorm.DB, in *listQ) (listOut, error) {
			if in.Limit <= 0 || in.Limit > 100 {
				in.Limit = 20
			}
			us, total, err := users.List(c.Request.Context(), in.Q, in.Offset, in.Limit, in.WithDeleted)
			if err != nil {
				return listOut{}, httpez.Internal("list users failed", err)
			}
			out := listOut{Total: total, Items: make([]row, 0, len(us))}
			for _, u := range us {
				out.Items = append(out.Items, row{
					ID: u.ID, Email: u.Email, Name: u.Name,
					WalletBalance: u.WalletBalance, CreatedAt: u.CreatedAt,
				})
			}
			return out, nil
		},
	})

	// --- 封禁（软删） ---
	httpez.RegisterAction[struct{}, gin.H](ezAdmin, db, httpez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/users/:id/ban",
		Binder: httpez.BindNone,
		Auth:   true,
		Roles:  []string{"admin"},
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (gin.H, error) {
			id, err := uuid.Parse(c.Param("id"))
			if err != nil {
				return nil, httpez.BadRequest("invalid id")
			}
			if err := users.SoftDelete(c.Request.Context(), id); err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					return nil, httpez.NotFound("user not found")
				}
				return nil, httpez.Internal("ban user failed", err)
			}
			return gin.H{"id": id}, nil
		},
	})

	// --- 指定用户的发票（排障用） ---
	httpez.RegisterAction[listQ, []domain.Invoice](ezAdmin, db, httpez.Action[listQ, []domain.Invoice]{
		Method: http.MethodGet,
		Path:   "/users/:id/invoices",
		Binder: httpez.BindQuery,
		Auth:   true,
		Roles:  []string{"admin"},
		Handler: func(c *gin.Context, _ *gorm.DB, in *listQ) ([]domain.Invoice, error) {
			id, err := uuid.Parse(c.Param("id"))
			if err != nil {
				return nil, httpez.BadRequest("invalid id")
			}
			out, err := ledger.InvoicesByUser(c.Request.Context(), id, in.Limit)
			if err != nil {
				return nil, httpez.Internal("list invoices failed", err)
			}
			if out == nil {
				out = []domain.Invoice{}
			}
			return out, nil
		},
	})
}
