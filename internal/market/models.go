package market

import (
	"time"

	"github.com/shopspring/decimal"
)

type Member struct {
	ID            string
	Username      string
	Email         string
	Phone         string
	CurrentPoints int
	Status        string // active | inactive | banned
	CreatedAt     time.Time
}

type Stall struct {
	ID             string
	OwnerMemberID  string
	Name           string
	Description    string
	ContactPhone   string
	ApprovalStatus string // pending | approved | rejected
	IsActive       bool
	CreatedAt      time.Time
}

type Product struct {
	ID            string
	StallID       string
	Name          string
	Description   string
	Unit          string
	Price         decimal.Decimal
	StockQuantity int
	Status        ProductStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type ProductStatus string

const (
	ProductOnShelf  ProductStatus = "on_shelf"
	ProductOffShelf ProductStatus = "off_shelf"
	ProductDraft    ProductStatus = "draft"
)

// CartItem holds a pending intent to buy. One row per (member, product); a repeat
// add merges quantities instead of inserting a second row.
type CartItem struct {
	ID        string
	MemberID  string
	ProductID string
	Quantity  int
	AddedAt   time.Time
}

// CartLine is a cart item joined with the catalog fields the UI and the checkout
// preview need. Price here is informational; checkout re-reads it under lock.
type CartLine struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	StallID     string          `json:"stall_id"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
}

type ParentOrder struct {
	ID              string
	MemberID        string
	OrderDate       time.Time
	FinalPaidAmount decimal.Decimal
	PaymentMethod   string // CASH | LINE_PAY | ALL_PAY
	Status          ParentStatus
	SubOrders       []SubOrder
}

type SubOrder struct {
	ID            string
	ParentOrderID string
	StallID       string
	StallName     string
	DeliveryType  string // PICKUP | DELIVERY
	Status        SubStatus
	Items         []OrderItem
}

// OrderItem freezes the unit price at purchase time. UnitPriceSnapshot is never
// re-read from the product row after creation.
type OrderItem struct {
	ID                string
	SubOrderID        string
	ProductID         string
	ProductName       string
	UnitPriceSnapshot decimal.Decimal
	Quantity          int
}

type PointTransaction struct {
	ID            string
	MemberID      string
	ParentOrderID string
	Kind          string // EARN | SPEND | EXPIRE
	Points        int
	CreatedAt     time.Time
}

const (
	PointKindEarn  = "EARN"
	PointKindSpend = "SPEND"
)
