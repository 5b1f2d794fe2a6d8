package db

import "github.com/electromart/electromart-backend/internal/app/model"

// SampleProducts is the catalog used when the store starts empty
func SampleProducts() []model.Product {
	return []model.Product{
		{
			Name:        "LED Bulb 60W",
			Description: "Bright and energy-efficient LED bulb. Lasts up to 25,000 hours.",
			Price:       12.99,
			InStock:     true,
		},
		{
			Name:        "Circuit Breaker 20A",
			Description: "Double pole circuit breaker for household electrical systems.",
			Price:       25.50,
			InStock:     true,
		},
		{
			Name:        "Electrical Wire 10m",
			Description: "Copper electrical wire, 2.5mm thickness, 10 meters roll.",
			Price:       18.75,
			InStock:     true,
		},
		{
			Name:        "Power Outlet",
			Description: "Standard dual socket outlet with safety features.",
			Price:       8.99,
			InStock:     true,
		},
		{
			Name:        "Solar Panel 100W",
			Description: "Monocrystalline solar panel for residential use.",
			Price:       199.99,
			InStock:     false,
		},
		{
			Name:        "Battery Backup UPS 1000VA",
			Description: "Uninterruptible power supply for critical equipment.",
			Price:       89.50,
			InStock:     true,
		},
	}
}
