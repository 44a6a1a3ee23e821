package order

import (
	"github.com/shopspring/decimal"

	"github.com/swadseva/ordering/internal/service/models/orderitem"
)

var (
	// TaxRate is applied once to the subtotal when an order is placed.
	TaxRate = decimal.RequireFromString("0.05")
	// DeliveryFee is charged on every delivery record.
	DeliveryFee = decimal.NewFromInt(40)
)

// Subtotal sums price at order time times quantity over the items.
func Subtotal(items []orderitem.OrderItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.PriceAtOrderTime.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	return sum
}

// TotalWithTax adds tax to a subtotal and rounds to paise.
func TotalWithTax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(decimal.NewFromInt(1).Add(TaxRate)).Round(2)
}
