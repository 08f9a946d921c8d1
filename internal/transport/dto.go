package transport

import (
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/qr_menu/internal/models"
)

type CreateMenuItemRequest struct {
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  *string         `json:"image_url"`
	Available *bool           `json:"available"`
}

type PatchMenuItemRequest struct {
	Name      *string          `json:"name"`
	Price     *decimal.Decimal `json:"price"`
	ImageURL  *string          `json:"image_url"`
	Available *bool            `json:"available"`
}

func (r PatchMenuItemRequest) Empty() bool {
	return r.Name == nil && r.Price == nil && r.ImageURL == nil && r.Available == nil
}

type CreateTableRequest struct {
	TableNumber int `json:"table_number"`
}

type OrderItem struct {
	MenuItemID   string          `json:"menu_item_id"`
	MenuItemName string          `json:"menu_item_name"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
}

type CreateOrderRequest struct {
	TableID string      `json:"table_id"`
	Items   []OrderItem `json:"items"`
}

func (r CreateOrderRequest) Lines() []models.OrderLine {
	lines := make([]models.OrderLine, 0, len(r.Items))
	for _, it := range r.Items {
		lines = append(lines, models.OrderLine{
			MenuItemID:   it.MenuItemID,
			MenuItemName: it.MenuItemName,
			Quantity:     it.Quantity,
			Price:        it.Price,
		})
	}
	return lines
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type SessionResponse struct {
	User         *models.User `json:"user"`
	SessionToken string       `json:"session_token"`
}
