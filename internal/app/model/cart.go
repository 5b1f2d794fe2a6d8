package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Cart is the single per-user cart document. Version is bumped on every
// successful save and guards against lost updates.
type Cart struct {
	ID        string     `gorm:"primaryKey;type:varchar(36)" bson:"_id" json:"_id"`
	UserID    string     `gorm:"type:varchar(36);uniqueIndex;not null" bson:"user_id" json:"user"`
	Items     []CartLine `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" bson:"items" json:"items"`
	Version   int64      `gorm:"not null;default:1" bson:"version" json:"-"`
	CreatedAt time.Time  `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updatedAt"`
}

func (Cart) TableName() string {
	return "carts"
}

func (c *Cart) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// CartLine holds a product reference plus the name/price/image captured at
// add time. Quantity is always >= 1.
type CartLine struct {
	ID        string  `gorm:"primaryKey;type:varchar(36)" bson:"_id" json:"_id"`
	CartID    string  `gorm:"type:varchar(36);index;not null" bson:"-" json:"-"`
	ProductID string  `gorm:"type:varchar(36);not null" bson:"product" json:"product"`
	Name      string  `bson:"name" json:"name"`
	Price     float64 `bson:"price" json:"price"`
	Image     string  `bson:"image" json:"image"`
	Quantity  int     `gorm:"not null" bson:"quantity" json:"quantity"`
	Position  int     `gorm:"not null" bson:"-" json:"-"`
}

func (CartLine) TableName() string {
	return "cart_lines"
}

// NewCart returns an empty, unsaved cart for the user
func NewCart(userID string) *Cart {
	return &Cart{
		ID:      uuid.NewString(),
		UserID:  userID,
		Items:   []CartLine{},
		Version: 1,
	}
}

// LineForProduct returns the index of the line referencing productID, or -1
func (c *Cart) LineForProduct(productID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Line returns the index of the line with the given id, or -1
func (c *Cart) Line(lineID string) int {
	for i := range c.Items {
		if c.Items[i].ID == lineID {
			return i
		}
	}
	return -1
}

// AddProduct merges quantity into an existing line for the product or
// appends a new line snapshotting the product.
func (c *Cart) AddProduct(p *Product, quantity int) *CartLine {
	if i := c.LineForProduct(p.ID); i >= 0 {
		c.Items[i].Quantity += quantity
		return &c.Items[i]
	}
	c.Items = append(c.Items, CartLine{
		ID:        uuid.NewString(),
		CartID:    c.ID,
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Image:     p.Image,
		Quantity:  quantity,
	})
	return &c.Items[len(c.Items)-1]
}

// RemoveLine drops the line with the given id. Missing ids are a no-op.
func (c *Cart) RemoveLine(lineID string) bool {
	i := c.Line(lineID)
	if i < 0 {
		return false
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	return true
}

func (c *Cart) Clear() {
	c.Items = []CartLine{}
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// TotalPrice sums price*quantity in decimal and rounds to cents
func (c *Cart) TotalPrice() float64 {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	f, _ := total.Round(2).Float64()
	return f
}

func (c *Cart) TotalItems() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// CartView is what clients see: the lines plus totals derived on every call
type CartView struct {
	Items      []CartLine `json:"items"`
	TotalPrice float64    `json:"totalPrice"`
	TotalItems int        `json:"totalItems"`
}

func (c *Cart) View() CartView {
	items := make([]CartLine, len(c.Items))
	copy(items, c.Items)
	return CartView{
		Items:      items,
		TotalPrice: c.TotalPrice(),
		TotalItems: c.TotalItems(),
	}
}

// OrderSummary is returned by checkout. No order record backs it.
type OrderSummary struct {
	TotalAmount float64 `json:"totalAmount"`
	ItemCount   int     `json:"itemCount"`
}
