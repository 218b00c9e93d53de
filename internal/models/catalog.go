/**
 * @description
 * Retail catalog models consumed by the auction services.
 * Maps to the existing 'products' and 'customers' tables; the auction
 * workflow only reads them.
 *
 * @dependencies
 * - gorm.io/gorm
 * - github.com/shopspring/decimal
 */

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable catalog entry
type Product struct {
	ProductID        int             `gorm:"column:product_id;primaryKey" json:"product_id"`
	Name             string          `gorm:"column:name;type:varchar(100);not null" json:"name"`
	ListPrice        decimal.Decimal `gorm:"column:list_price;type:decimal(19,4);not null" json:"list_price"`
	MakeFlag         bool            `gorm:"column:make_flag;not null" json:"make_flag"` // true = manufactured in-house
	SellStartDate    time.Time       `gorm:"column:sell_start_date;not null" json:"sell_start_date"`
	SellEndDate      *time.Time      `gorm:"column:sell_end_date" json:"sell_end_date,omitempty"`
	DiscontinuedDate *time.Time      `gorm:"column:discontinued_date" json:"discontinued_date,omitempty"`
}

// TableName overrides the table name used by Product to `products`
func (Product) TableName() string {
	return "products"
}

// Commercialized reports whether the product is still on sale
func (p Product) Commercialized() bool {
	return p.SellEndDate == nil && p.DiscontinuedDate == nil
}

// Customer is only referenced by bids
type Customer struct {
	CustomerID int    `gorm:"column:customer_id;primaryKey" json:"customer_id"`
	FirstName  string `gorm:"column:first_name;type:varchar(50)" json:"first_name"`
	LastName   string `gorm:"column:last_name;type:varchar(50)" json:"last_name"`
	Email      string `gorm:"column:email;type:varchar(255)" json:"email"`
}

// TableName overrides the table name used by Customer to `customers`
func (Customer) TableName() string {
	return "customers"
}
