package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Money columns are numeric(12,2): two decimal places, below 10^10.
var maxMoney = decimal.New(1, 10)

func ValidMoney(d decimal.Decimal) bool {
	return !d.IsNegative() && d.Equal(d.Round(2)) && d.LessThan(maxMoney)
}

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPreparing OrderStatus = "preparing"
	StatusCompleted OrderStatus = "completed"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPreparing, StatusCompleted:
		return true
	}
	return false
}

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	Email     string    `gorm:"uniqueIndex;not null"     json:"email"`
	Name      string    `gorm:"not null"                 json:"name"`
	Picture   *string   `json:"picture,omitempty"`
	CreatedAt time.Time `gorm:"not null"                 json:"created_at"`
}

type Session struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	TokenHash string    `gorm:"uniqueIndex;not null"     json:"-"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	ExpiresAt time.Time `gorm:"not null"                 json:"expires_at"`
	CreatedAt time.Time `gorm:"not null"                 json:"created_at"`
}

func (s *Session) Valid(now time.Time) bool {
	return s.ExpiresAt.After(now)
}

type MenuItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"          json:"id"`
	Name      string          `gorm:"not null"                      json:"name"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null"   json:"price"`
	ImageURL  *string         `json:"image_url"`
	Available bool            `gorm:"not null"                      json:"available"`
	CreatedAt time.Time       `gorm:"not null"                      json:"created_at"`
}

type Table struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	Number     int       `gorm:"uniqueIndex;not null"     json:"table_number"`
	QRCodeData string    `gorm:"not null"                 json:"qr_code_data"`
	CreatedAt  time.Time `gorm:"not null"                 json:"created_at"`
}

// OrderLine is stored inside its Order; it has no table of its own.
type OrderLine struct {
	MenuItemID   string          `json:"menu_item_id"`
	MenuItemName string          `json:"menu_item_name"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
}

type Order struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"              json:"id"`
	TableID     uuid.UUID       `gorm:"type:uuid;index;not null"          json:"table_id"`
	TableNumber int             `gorm:"not null"                          json:"table_number"`
	Items       []OrderLine     `gorm:"serializer:json;type:text;not null" json:"items"`
	Status      OrderStatus     `gorm:"index;not null"                    json:"status"`
	Total       decimal.Decimal `gorm:"type:numeric(12,2);not null"       json:"total"`
	CreatedAt   time.Time       `gorm:"index;not null"                    json:"created_at"`
	CompletedAt *time.Time      `json:"completed_at"`
}

func newID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (u *User) BeforeCreate(tx *gorm.DB) error     { newID(&u.ID); return nil }
func (s *Session) BeforeCreate(tx *gorm.DB) error  { newID(&s.ID); return nil }
func (m *MenuItem) BeforeCreate(tx *gorm.DB) error { newID(&m.ID); return nil }
func (t *Table) BeforeCreate(tx *gorm.DB) error    { newID(&t.ID); return nil }
func (o *Order) BeforeCreate(tx *gorm.DB) error    { newID(&o.ID); return nil }

func (Table) TableName() string {
	return "restaurant_tables"
}
