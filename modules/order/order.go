// Package order handles order intake and the status lifecycle.
package order

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ordivo/shopkit/pkg/mailer"
	"github.com/ordivo/shopkit/pkg/orderstatus"
)

// Order is a persisted customer order.
type Order struct {
	ID            uuid.UUID          `json:"id"`
	Number        string             `json:"number"`
	CustomerName  string             `json:"customer_name"`
	CustomerEmail string             `json:"customer_email"`
	Status        orderstatus.Status `json:"status"`
	Total         string             `json:"total"`
	Items         []Item             `json:"items"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// Item is a single order line.
type Item struct {
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Price       string `json:"price"`
}

// CreateOrderRequest is the inbound payload for a new order.
type CreateOrderRequest struct {
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	Total         string `json:"total"`
	Items         []Item `json:"items"`
}

// UpdateStatusRequest carries the requested status change.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// Storage is the opaque store the service persists orders into.
type Storage interface {
	Save(ctx context.Context, o *Order) error
	FindByNumber(ctx context.Context, number string) (*Order, error)
	FindAll(ctx context.Context) ([]Order, error)
	UpdateStatus(ctx context.Context, number string, status orderstatus.Status, updatedAt time.Time) error
}

// Mailer is the slice of the email dispatch service this module needs.
type Mailer interface {
	SendOrderNotificationToAdmin(ctx context.Context, details mailer.OrderDetails) error
	SendOrderConfirmationToCustomer(ctx context.Context, details mailer.OrderDetails) error
}

// mailDetails converts an order into the shape the email templates render.
func (o *Order) mailDetails() mailer.OrderDetails {
	items := make([]mailer.OrderLine, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, mailer.OrderLine{
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			Price:       it.Price,
		})
	}
	return mailer.OrderDetails{
		Number:        o.Number,
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		Total:         o.Total,
		Items:         items,
	}
}
