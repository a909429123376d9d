package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/agrisense/agrisense-be/internal/auth"
	"github.com/agrisense/agrisense-be/internal/middleware"
	"github.com/agrisense/agrisense-be/internal/models"
	"github.com/agrisense/agrisense-be/internal/storage"
)

// envelope mirrors the respond package wrapper for decoding in tests.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]models.User)}
}

func (f *fakeUserStore) CreateUser(_ context.Context, email, passwordHash string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[email]; ok {
		return models.User{}, storage.ErrAlreadyExists
	}
	now := time.Now()
	user := models.User{ID: uuid.New(), Email: email, PasswordHash: passwordHash, CreatedAt: now, UpdatedAt: now}
	f.users[email] = user
	return user, nil
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[email]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserStore) FindByID(_ context.Context, id uuid.UUID) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

func (f *fakeUserStore) UpdatePassword(_ context.Context, email, passwordHash string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[email]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	user.PasswordHash = passwordHash
	user.UpdatedAt = time.Now()
	f.users[email] = user
	return user, nil
}

// promote flips the stored admin flag for an email.
func (f *fakeUserStore) promote(email string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user := f.users[email]
	user.IsAdmin = true
	f.users[email] = user
}

type fakeProductStore struct {
	mu       sync.Mutex
	products map[uuid.UUID]models.Product
	reviews  map[uuid.UUID]map[uuid.UUID]models.Review
}

func newFakeProductStore() *fakeProductStore {
	return &fakeProductStore{
		products: make(map[uuid.UUID]models.Product),
		reviews:  make(map[uuid.UUID]map[uuid.UUID]models.Review),
	}
}

func (f *fakeProductStore) CreateProduct(_ context.Context, product models.Product) (models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	product.ID = uuid.New()
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt
	f.products[product.ID] = product
	return product, nil
}

func (f *fakeProductStore) ListProducts(_ context.Context, _, _ string) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Product{}
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProductStore) TopProducts(_ context.Context, _ int) ([]models.Product, error) {
	return f.ListProducts(context.Background(), "", "")
}

func (f *fakeProductStore) FindProduct(_ context.Context, id uuid.UUID) (models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	product, ok := f.products[id]
	if !ok {
		return models.Product{}, storage.ErrNotFound
	}
	return product, nil
}

func (f *fakeProductStore) UpdateProduct(_ context.Context, product models.Product) (models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[product.ID]; !ok {
		return models.Product{}, storage.ErrNotFound
	}
	product.UpdatedAt = time.Now()
	f.products[product.ID] = product
	return product, nil
}

func (f *fakeProductStore) DeleteProduct(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[id]; !ok {
		return storage.ErrNotFound
	}
	delete(f.products, id)
	return nil
}

func (f *fakeProductStore) AddReview(_ context.Context, review models.Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[review.ProductID]; !ok {
		return storage.ErrNotFound
	}
	byUser := f.reviews[review.ProductID]
	if byUser == nil {
		byUser = make(map[uuid.UUID]models.Review)
		f.reviews[review.ProductID] = byUser
	}
	if _, ok := byUser[review.UserID]; ok {
		return storage.ErrAlreadyExists
	}
	byUser[review.UserID] = review
	return nil
}

type fakeOrderStore struct {
	mu     sync.Mutex
	orders map[uuid.UUID]models.Order
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: make(map[uuid.UUID]models.Order)}
}

func (f *fakeOrderStore) CreateOrder(_ context.Context, order models.Order) (models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order.ID = uuid.New()
	order.CreatedAt = time.Now()
	f.orders[order.ID] = order
	return order, nil
}

func (f *fakeOrderStore) FindOrder(_ context.Context, id uuid.UUID) (models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[id]
	if !ok {
		return models.Order{}, storage.ErrNotFound
	}
	return order, nil
}

func (f *fakeOrderStore) OrdersByUser(_ context.Context, userID uuid.UUID) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Order{}
	for _, order := range f.orders {
		if order.UserID == userID {
			out = append(out, order)
		}
	}
	return out, nil
}

func (f *fakeOrderStore) ListOrders(_ context.Context) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Order{}
	for _, order := range f.orders {
		out = append(out, order)
	}
	return out, nil
}

func (f *fakeOrderStore) MarkOrderPaid(_ context.Context, id uuid.UUID) (models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[id]
	if !ok {
		return models.Order{}, storage.ErrNotFound
	}
	now := time.Now()
	order.IsPaid = true
	order.PaidAt = &now
	f.orders[id] = order
	return order, nil
}

func (f *fakeOrderStore) MarkOrderDelivered(_ context.Context, id uuid.UUID) (models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[id]
	if !ok {
		return models.Order{}, storage.ErrNotFound
	}
	now := time.Now()
	order.IsDelivered = true
	order.DeliveredAt = &now
	f.orders[id] = order
	return order, nil
}

type fakeEngagementStore struct {
	mu       sync.Mutex
	queries  []models.Query
	feedback map[uuid.UUID]models.Feedback
}

func newFakeEngagementStore() *fakeEngagementStore {
	return &fakeEngagementStore{feedback: make(map[uuid.UUID]models.Feedback)}
}

func (f *fakeEngagementStore) CreateQuery(_ context.Context, query models.Query) (models.Query, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	query.ID = uuid.New()
	query.Status = "pending"
	f.queries = append(f.queries, query)
	return query, nil
}

func (f *fakeEngagementStore) SaveFeedback(_ context.Context, feedback models.Feedback) (models.Feedback, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.feedback[feedback.UserID]; ok {
		feedback.ID = existing.ID
	} else {
		feedback.ID = uuid.New()
	}
	f.feedback[feedback.UserID] = feedback
	return feedback, nil
}

// testEnv bundles the pieces most handler tests need.
type testEnv struct {
	mux    *http.ServeMux
	users  *fakeUserStore
	tokens *auth.TokenManager
	authed Middleware
	admin  Middleware
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	users := newFakeUserStore()
	tokens := auth.NewTokenManager("handler-test-secret", "agrisense-test", time.Hour)
	authed := middleware.RequireAuth(tokens)
	requireAdmin := middleware.RequireAdmin(users)
	admin := func(next http.Handler) http.Handler { return authed(requireAdmin(next)) }
	return &testEnv{
		mux:    http.NewServeMux(),
		users:  users,
		tokens: tokens,
		authed: authed,
		admin:  admin,
	}
}

// tokenFor registers a user directly in the fake store and issues a token.
func (e *testEnv) tokenFor(t *testing.T, email string, isAdmin bool) string {
	t.Helper()
	user, err := e.users.CreateUser(context.Background(), email, "$2a$04$fakefakefakefakefakefake")
	require.NoError(t, err)
	if isAdmin {
		e.users.promote(email)
	}
	token, err := e.tokens.Generate(user.ID, user.Email)
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, handler http.Handler, method, path, token string, body any) (*http.Response, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	resp := rec.Result()
	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func newRecorderFor(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}
