package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/luxemart/storefront/pkg/types"
)

// User is a registered shopper or an administrator.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"not null"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	IsAdmin      bool      `gorm:"not null;default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Product is a catalog entry.
type Product struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey"`
	Name        string      `gorm:"not null"`
	Price       types.Money `gorm:"type:decimal(12,2);not null"`
	Category    string      `gorm:"index;not null"`
	Description string
	Images      []string `gorm:"serializer:json"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Order is a placed order with snapshotted line items.
type Order struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID   `gorm:"type:uuid;index;not null"`
	User      User        `gorm:"foreignKey:UserID"`
	Total     types.Money `gorm:"type:decimal(12,2);not null"`
	Status    string      `gorm:"not null;default:pending"`
	Items     []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// OrderItem snapshots a product at purchase time. Name, category and price
// are copied so later catalog edits do not rewrite history.
type OrderItem struct {
	ID              uuid.UUID   `gorm:"type:uuid;primaryKey"`
	OrderID         uuid.UUID   `gorm:"type:uuid;index;not null"`
	ProductID       string      `gorm:"not null"`
	Name            string      `gorm:"not null"`
	Category        string
	PriceAtPurchase types.Money `gorm:"type:decimal(12,2);not null"`
	Quantity        int         `gorm:"not null"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// All lists every model for auto migration.
func All() []any {
	return []any{&User{}, &Product{}, &Order{}, &OrderItem{}}
}
