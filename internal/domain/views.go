package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddressView 注册/登录返回的地址字段
type AddressView struct {
	ID         uuid.UUID `json:"id"`
	Street     string    `json:"street"`
	City       string    `json:"city"`
	PostalCode string    `json:"postalCode"`
	Country    string    `json:"country"`
}

// UserView 对外统一的脱敏视图：注册和登录返回同一形状，永不包含密码
type UserView struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	WalletBalance decimal.Decimal `json:"walletBalance"`
	Address       *AddressView    `json:"address"`
}

func NewAddressView(a *Address) *AddressView {
	if a == nil {
		return nil
	}
	return &AddressView{
		ID:         a.ID,
		Street:     a.Street,
		City:       a.City,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

func NewUserView(u *User) UserView {
	return UserView{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		WalletBalance: u.WalletBalance,
		Address:       NewAddressView(u.Address),
	}
}
