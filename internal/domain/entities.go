package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// User 账户实体。Password 只存 bcrypt 哈希，绝不存明文
type User struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string          `gorm:"size:64;not null" json:"name"`
	Email         string          `gorm:"uniqueIndex;size:191;not null" json:"email"`
	Password      string          `gorm:"size:100;not null" json:"-"`
	WalletBalance decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"walletBalance"`
	AddressID     *uuid.UUID      `gorm:"type:uuid" json:"-"`
	Address       *Address        `gorm:"foreignKey:AddressID" json:"address,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Address 邮政地址，注册时与 User 同一事务内创建
type Address struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Street     string    `gorm:"size:191;not null" json:"street"`
	City       string    `gorm:"size:64;not null" json:"city"`
	PostalCode string    `gorm:"size:16;not null" json:"postalCode"`
	Country    string    `gorm:"size:64;not null;default:France" json:"country"`
}

func (Address) TableName() string { return "addresses" }

func (a *Address) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Country == "" {
		a.Country = "France"
	}
	return nil
}

// Offer 售电挂单记录（无撮合逻辑，仅作为 EnergyTransaction 的外键目标）
type Offer struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	SellerID    uuid.UUID       `gorm:"type:uuid;index;not null" json:"sellerId"`
	QuantityKWh decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"quantityKwh"`
	PricePerKWh decimal.Decimal `gorm:"type:decimal(12,4);not null" json:"pricePerKwh"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"createdAt"`
}

func (Offer) TableName() string { return "offers" }

func (o *Offer) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// EnergyTransaction 买卖双方对同一 User 表的两条独立外键
type EnergyTransaction struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BuyerID  uuid.UUID `gorm:"type:uuid;index;not null" json:"buyerId"`
	SellerID uuid.UUID `gorm:"type:uuid;index;not null" json:"sellerId"`
	OfferID  uuid.UUID `gorm:"type:uuid;not null" json:"offerId"`
	Buyer    *User     `gorm:"foreignKey:BuyerID" json:"-"`
	Seller   *User     `gorm:"foreignKey:SellerID" json:"-"`
	Offer    *Offer    `gorm:"foreignKey:OfferID" json:"-"`

	QuantityKWh     decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"quantityKwh"`
	TotalPrice      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"totalPrice"`
	TransactionDate time.Time       `gorm:"autoCreateTime" json:"transactionDate"`
}

func (EnergyTransaction) TableName() string { return "energy_transactions" }

func (t *EnergyTransaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	// 自买自卖直接拒绝
	if t.BuyerID == t.SellerID {
		return errors.New("buyer and seller must differ")
	}
	return nil
}

// Invoice 一笔交易至多一张发票；PDFLink 指向外部存储
type Invoice struct {
	ID            uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	TransactionID uuid.UUID          `gorm:"type:uuid;uniqueIndex;not null" json:"transactionId"`
	UserID        uuid.UUID          `gorm:"type:uuid;index;not null" json:"userId"`
	Transaction   *EnergyTransaction `gorm:"foreignKey:TransactionID" json:"transaction,omitempty"`
	User          *User              `gorm:"foreignKey:UserID" json:"-"`

	Amount   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	IssuedAt time.Time       `gorm:"autoCreateTime" json:"issuedAt"`
	PDFLink  string          `gorm:"size:255" json:"pdfLink"`
}

func (Invoice) TableName() string { return "invoices" }

func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// AllModels AutoMigrate 用
func AllModels() []any {
	return []any{&User{}, &Address{}, &Offer{}, &EnergyTransaction{}, &Invoice{}}
}
