package service

import "math"

const (
	taxRate           = 0.10
	freeShippingAbove = 100.0
	flatShippingPrice = 10.0
)

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ComputeTotals derives the order price breakdown: 10% tax, free shipping
// strictly above 100, totals rounded to cents.
func ComputeTotals(itemsPrice float64) (taxPrice, shippingPrice, totalPrice float64) {
	taxPrice = round2(itemsPrice * taxRate)
	shippingPrice = flatShippingPrice
	if itemsPrice > freeShippingAbove {
		shippingPrice = 0
	}
	totalPrice = round2(itemsPrice + taxPrice + shippingPrice)
	return taxPrice, shippingPrice, totalPrice
}
