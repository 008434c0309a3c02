package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/tradeyard/marketplace-api/internal/core/domain"
	"github.com/tradeyard/marketplace-api/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory stub repositories shared by the service tests
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users map[string]*domain.User
	seq   int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	clone := cloneUser(user)
	if clone.ID == "" {
		r.seq++
		clone.ID = fmt.Sprintf("user_%d", r.seq)
	}
	r.users[clone.ID] = cloneUser(clone)
	return clone, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindAll(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) FindByRoleAndStatus(_ context.Context, role domain.Role, status domain.AccountStatus) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.users {
		if u.Role == role && u.AccountStatus == status {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) seed(u *domain.User) *domain.User {
	r.users[u.ID] = cloneUser(u)
	return u
}

type stubOrderRepo struct {
	orders    map[string]*domain.Order
	seq       int
	createErr error
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[string]*domain.Order)}
}

func cloneOrder(o *domain.Order) *domain.Order {
	clone := *o
	clone.Lines = append([]domain.OrderLine(nil), o.Lines...)
	return &clone
}

func (r *stubOrderRepo) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	clone := cloneOrder(order)
	r.seq++
	clone.ID = fmt.Sprintf("order_%d", r.seq)
	r.orders[clone.ID] = cloneOrder(clone)
	return clone, nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id string) (*domain.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return cloneOrder(o), nil
}

func (r *stubOrderRepo) FindByCustomer(_ context.Context, customerID string) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, o := range r.orders {
		if o.CustomerID == customerID {
			out = append(out, cloneOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubOrderRepo) FindAll(_ context.Context) ([]*domain.Order, error) {
	out := make([]*domain.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, cloneOrder(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubOrderRepo) UpdateStatus(_ context.Context, id string, status domain.OrderStatus) error {
	o, ok := r.orders[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.Status = status
	return nil
}

func (r *stubOrderRepo) CancelPlaced(_ context.Context, id string) (*domain.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if o.Status != domain.StatusPlaced {
		return nil, domain.ErrInvalidState
	}
	o.Status = domain.StatusCancelled
	return cloneOrder(o), nil
}

type stubProductRepo struct {
	products map[string]*domain.Product
	seq      int
	// adjustErrs injects a failure for a specific product's AdjustStock call.
	adjustErrs map[string]error
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{
		products:   make(map[string]*domain.Product),
		adjustErrs: make(map[string]error),
	}
}

func (r *stubProductRepo) Create(_ context.Context, product *domain.Product) (*domain.Product, error) {
	clone := *product
	if clone.ID == "" {
		r.seq++
		clone.ID = fmt.Sprintf("product_%d", r.seq)
	}
	stored := clone
	r.products[clone.ID] = &stored
	return &clone, nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubProductRepo) FindBySeller(_ context.Context, sellerID string) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, p := range r.products {
		if p.SellerID == sellerID {
			clone := *p
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubProductRepo) CountBySeller(_ context.Context, sellerID string) (int64, error) {
	var n int64
	for _, p := range r.products {
		if p.SellerID == sellerID {
			n++
		}
	}
	return n, nil
}

// AdjustStock mirrors the real Mongo repo: the decrement is guarded so the
// counter never goes below zero.
func (r *stubProductRepo) AdjustStock(_ context.Context, productID string, delta int) (int, error) {
	if err, ok := r.adjustErrs[productID]; ok {
		return 0, err
	}
	p, ok := r.products[productID]
	if !ok {
		return 0, domain.ErrProductNotFound
	}
	if p.StockQuantity+delta < 0 {
		return 0, domain.ErrInsufficientStock
	}
	p.StockQuantity += delta
	return p.StockQuantity, nil
}

func (r *stubProductRepo) stock(id string) int {
	return r.products[id].StockQuantity
}

type stubCartStore struct {
	carts    map[string][]ports.CartLine
	clearErr error
	cleared  []string
}

func newStubCartStore() *stubCartStore {
	return &stubCartStore{carts: make(map[string][]ports.CartLine)}
}

func (c *stubCartStore) GetSnapshot(_ context.Context, buyerID string) ([]ports.CartLine, error) {
	return append([]ports.CartLine(nil), c.carts[buyerID]...), nil
}

func (c *stubCartStore) Clear(_ context.Context, buyerID string) error {
	if c.clearErr != nil {
		return c.clearErr
	}
	delete(c.carts, buyerID)
	c.cleared = append(c.cleared, buyerID)
	return nil
}

type stubNotifier struct {
	sent []ports.Notification
}

func (n *stubNotifier) Notify(notification ports.Notification) {
	n.sent = append(n.sent, notification)
}
