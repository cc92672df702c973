package offer

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"energy-trading-api/internal/domain"
	"energy-trading-api/internal/transport/http/ez"
)

// Module 售电挂单：纯记录型 CRUD，无撮合
type Module struct{ db *gorm.DB }

func NewModule(db *gorm.DB) *Module { return &Module{db: db} }

func (m *Module) MountAPI(g *gin.RouterGroup) {
	ez.Crud[domain.Offer](ez.CrudConfig[domain.Offer]{
		DB:         m.db,
		Group:      g,
		Path:       "/offers",
		New:        func() *domain.Offer { return &domain.Offer{} },
		OwnerField: "SellerID",
		Hooks: ez.CrudHooks[domain.Offer]{
			BeforeCreate: func(c *gin.Context, o *domain.Offer) error {
				if !o.QuantityKWh.IsPositive() {
					return errors.New("quantityKwh must be positive")
				}
				if !o.PricePerKWh.IsPositive() {
					return errors.New("pricePerKwh must be positive")
				}
				return nil
			},
		},
	})
}
