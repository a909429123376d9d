package dto

import "github.com/agrisense/agrisense-be/internal/models"

type ProductRequest struct {
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Description  string  `json:"description"`
	Image        string  `json:"image"`
	Category     string  `json:"category"`
	CountInStock int     `json:"countInStock"`
}

type ReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type CreateOrderRequest struct {
	Items         []models.OrderItem     `json:"orderItems"`
	Shipping      models.ShippingAddress `json:"shippingAddress"`
	PaymentMethod string                 `json:"paymentMethod"`
}

type QueryRequest struct {
	QueryDetails struct {
		QuerySubject string `json:"querySubject"`
		Query        string `json:"query"`
	} `json:"queryDetails"`
}

type FeedbackRequest struct {
	FeedbackDetails struct {
		Feedback string `json:"feedback"`
	} `json:"feedbackDetails"`
}
