package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/agrisense/agrisense-be/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// UserStore captures the account directory operations the auth core needs.
// The unique index on email is the source of truth for duplicate detection;
// CreateUser reports ErrAlreadyExists on conflict.
type UserStore interface {
	CreateUser(ctx context.Context, email, passwordHash string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (models.User, error)
	UpdatePassword(ctx context.Context, email, passwordHash string) (models.User, error)
}

// ProductStore captures catalog persistence operations.
type ProductStore interface {
	CreateProduct(ctx context.Context, product models.Product) (models.Product, error)
	ListProducts(ctx context.Context, keyword, category string) ([]models.Product, error)
	TopProducts(ctx context.Context, limit int) ([]models.Product, error)
	FindProduct(ctx context.Context, id uuid.UUID) (models.Product, error)
	UpdateProduct(ctx context.Context, product models.Product) (models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	// AddReview stores a review and refreshes the product's rating and
	// review count. Returns ErrAlreadyExists if the user already reviewed
	// the product, ErrNotFound if the product is gone.
	AddReview(ctx context.Context, review models.Review) error
}

// OrderStore captures order persistence operations.
type OrderStore interface {
	CreateOrder(ctx context.Context, order models.Order) (models.Order, error)
	FindOrder(ctx context.Context, id uuid.UUID) (models.Order, error)
	OrdersByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	MarkOrderPaid(ctx context.Context, id uuid.UUID) (models.Order, error)
	MarkOrderDelivered(ctx context.Context, id uuid.UUID) (models.Order, error)
}

// EngagementStore persists contact queries and feedback.
type EngagementStore interface {
	CreateQuery(ctx context.Context, query models.Query) (models.Query, error)
	SaveFeedback(ctx context.Context, feedback models.Feedback) (models.Feedback, error)
}

// Store is the full persistence surface the server wires together.
type Store interface {
	UserStore
	ProductStore
	OrderStore
	EngagementStore
}
