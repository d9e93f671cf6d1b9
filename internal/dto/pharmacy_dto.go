package dto

import "github.com/ahmetcoskunkizilkaya/healthdesk/internal/session"

type Medicine struct {
	Name   string `json:"name"`
	Dosage string `json:"dosage"`
	Price  int    `json:"price"`
}

type AddToCartRequest struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type CartResponse struct {
	Items []session.CartItem `json:"items"`
	Total int                `json:"total"`
}

type CheckoutResponse struct {
	Message string        `json:"message"`
	Order   session.Order `json:"order"`
}
