/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY:
  Amounts are pos.Money: decimal on the wire, accepted as a JSON number or a
  numeric string, emitted with at least two fraction digits.

VALIDATION:
  Request shape is checked with validator struct tags. Business rules
  (quantities, prices, cash coverage) are enforced by the domain.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/warp/pos-engine/auth"
	"github.com/warp/pos-engine/pos"
)

// =============================================================================
// AUTH
// =============================================================================

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UserDTO struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Name     string   `json:"name"`
	Role     pos.Role `json:"role"`
}

type TokenResponse struct {
	AccessToken string  `json:"access_token"`
	TokenType   string  `json:"token_type"`
	User        UserDTO `json:"user"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Name     string `json:"name" validate:"required,max=100"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=admin kasir"`
}

// =============================================================================
// MENU
// =============================================================================

type CreateMenuItemRequest struct {
	Name        string    `json:"name" validate:"required,max=100"`
	Description string    `json:"description" validate:"max=500"`
	Price       pos.Money `json:"price"`
	Category    string    `json:"category" validate:"required,max=50"`
	ImageURL    string    `json:"image_url" validate:"omitempty,url"`
	Available   *bool     `json:"available"`
}

// =============================================================================
// ORDERS
// =============================================================================

type CartItemDTO struct {
	MenuItemID string    `json:"menu_item_id"`
	Name       string    `json:"name" validate:"required"`
	Price      pos.Money `json:"price"`
	Quantity   int       `json:"quantity"`
}

// CreateOrderRequest is a cashier's submitted cart. total_amount is optional
// and checked against the line items when present. Any cashier fields in the
// body are ignored; the operator is the authenticated caller.
type CreateOrderRequest struct {
	Items        []CartItemDTO `json:"items" validate:"dive"`
	TotalAmount  *pos.Money    `json:"total_amount"`
	CashReceived pos.Money     `json:"cash_received"`
}

type OrderDTO struct {
	ID            string        `json:"id"`
	Items         []CartItemDTO `json:"items"`
	TotalAmount   pos.Money     `json:"total_amount"`
	PaymentMethod string        `json:"payment_method"`
	CashReceived  pos.Money     `json:"cash_received"`
	ChangeAmount  pos.Money     `json:"change_amount"`
	CashierID     string        `json:"cashier_id"`
	CashierName   string        `json:"cashier_name"`
	OrderDate     time.Time     `json:"order_date"`
	Status        string        `json:"status"`
}

type PopularItemDTO struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type DailySalesDTO struct {
	Date         string           `json:"date"`
	TotalOrders  int              `json:"total_orders"`
	TotalRevenue pos.Money        `json:"total_revenue"`
	PopularItems []PopularItemDTO `json:"popular_items"`
}

// =============================================================================
// DASHBOARD
// =============================================================================

type StatsDTO struct {
	Orders  int       `json:"orders"`
	Revenue pos.Money `json:"revenue"`
}

type AllTimeStatsDTO struct {
	Orders    int       `json:"orders"`
	Revenue   pos.Money `json:"revenue"`
	MenuItems int       `json:"menu_items"`
}

type DashboardDTO struct {
	Today   StatsDTO        `json:"today"`
	AllTime AllTimeStatsDTO `json:"all_time"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toUserDTO(id pos.Identity) UserDTO {
	return UserDTO{ID: id.ID, Username: id.Username, Name: id.Name, Role: id.Role}
}

func userDTOFromAccount(u auth.User) UserDTO {
	return toUserDTO(u.Identity())
}

func (r CreateOrderRequest) toCandidate() pos.Candidate {
	items := make([]pos.LineItem, len(r.Items))
	for i, it := range r.Items {
		items[i] = pos.LineItem{
			MenuItemID: it.MenuItemID,
			Name:       it.Name,
			Price:      it.Price,
			Quantity:   it.Quantity,
		}
	}
	return pos.Candidate{Items: items, Total: r.TotalAmount, CashReceived: r.CashReceived}
}

func toOrderDTO(tx pos.Transaction) OrderDTO {
	items := make([]CartItemDTO, len(tx.Items))
	for i, li := range tx.Items {
		items[i] = CartItemDTO{MenuItemID: li.MenuItemID, Name: li.Name, Price: li.Price, Quantity: li.Quantity}
	}
	return OrderDTO{
		ID:            string(tx.ID),
		Items:         items,
		TotalAmount:   tx.Total,
		PaymentMethod: string(tx.PaymentMethod),
		CashReceived:  tx.CashReceived,
		ChangeAmount:  tx.Change,
		CashierID:     tx.OperatorID,
		CashierName:   tx.OperatorName,
		OrderDate:     tx.CreatedAt,
		Status:        string(tx.Status),
	}
}

func toDailySalesDTO(s pos.Summary) DailySalesDTO {
	items := make([]PopularItemDTO, len(s.PopularItems))
	for i, r := range s.PopularItems {
		items[i] = PopularItemDTO{Name: r.Name, Quantity: r.Quantity}
	}
	return DailySalesDTO{
		Date:         s.Label,
		TotalOrders:  s.Orders,
		TotalRevenue: s.Revenue,
		PopularItems: items,
	}
}

func toDashboardDTO(d pos.Dashboard) DashboardDTO {
	return DashboardDTO{
		Today: StatsDTO{Orders: d.Today.Orders, Revenue: d.Today.Revenue},
		AllTime: AllTimeStatsDTO{
			Orders:    d.AllTime.Orders,
			Revenue:   d.AllTime.Revenue,
			MenuItems: d.MenuItems,
		},
	}
}
