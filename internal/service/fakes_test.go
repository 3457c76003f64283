package service

import (
	"context"
	"sort"
	"sync"

	"go-gin-ecommerce/internal/cache"
	"go-gin-ecommerce/internal/model"
	"go-gin-ecommerce/internal/queue"
	apperrors "go-gin-ecommerce/pkg/app_errors"

	"github.com/google/uuid"
)

type fakeProductRepository struct {
	mu       sync.Mutex
	products  map[string]*model.Product
	finds     int
	lastQuery model.ProductQuery
}

func newFakeProductRepository(products ...*model.Product) *fakeProductRepository {
	r := &fakeProductRepository{products: map[string]*model.Product{}}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepository) EnsureIndexes(ctx context.Context) error { return nil }

func (r *fakeProductRepository) Create(ctx context.Context, product *model.Product) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.Code == product.Code {
			return nil, apperrors.ErrDuplicateProductCode
		}
	}
	product.ID = uuid.NewString()
	product.Status = product.IsAvailable()
	cp := *product
	r.products[product.ID] = &cp
	return product, nil
}

func (r *fakeProductRepository) List(ctx context.Context) ([]*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeProductRepository) Paginate(ctx context.Context, query model.ProductQuery) ([]*model.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*model.Product
	for _, p := range r.products {
		if query.Category != "" && p.Category != query.Category {
			continue
		}
		if query.Availability != nil && p.IsAvailable() != *query.Availability {
			continue
		}
		matched = append(matched, p)
	}
	sort.Slice(matched, func(i, j int) bool {
		if query.Sort == model.ProductSortDesc {
			return matched[i].Price > matched[j].Price
		}
		return matched[i].Price < matched[j].Price
	})
	r.lastQuery = query
	if query.Page-1 > len(matched)/query.Limit {
		return []*model.Product{}, int64(len(matched)), nil
	}
	start := (query.Page - 1) * query.Limit
	end := start + query.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], int64(len(matched)), nil
}

func (r *fakeProductRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finds++
	p, ok := r.products[id]
	if !ok {
		return nil, apperrors.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepository) FindByCode(ctx context.Context, code string) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.Code == code {
			cp := *p
			return &cp, nil
		}
	}
	return nil, apperrors.ErrProductNotFound
}

func (r *fakeProductRepository) Update(ctx context.Context, id string, params model.UpdateProductParams) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, apperrors.ErrProductNotFound
	}
	if params.Title != nil {
		p.Title = *params.Title
	}
	if params.Description != nil {
		p.Description = *params.Description
	}
	if params.Price != nil {
		p.Price = *params.Price
	}
	if params.Thumbnail != nil {
		p.Thumbnail = *params.Thumbnail
	}
	if params.Code != nil {
		p.Code = *params.Code
	}
	if params.Category != nil {
		p.Category = *params.Category
	}
	if params.Stock != nil {
		p.Stock = *params.Stock
		p.Status = p.IsAvailable()
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return apperrors.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepository) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.products)
}

type fakeCartRepository struct {
	mu     sync.Mutex
	carts  map[string]*model.Cart
	writes int
}

func newFakeCartRepository(carts ...*model.Cart) *fakeCartRepository {
	r := &fakeCartRepository{carts: map[string]*model.Cart{}}
	for _, c := range carts {
		r.carts[c.ID] = c.Clone()
	}
	return r
}

func (r *fakeCartRepository) Create(ctx context.Context, cart *model.Cart) (*model.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cart.ID = uuid.NewString()
	r.carts[cart.ID] = cart.Clone()
	return cart, nil
}

func (r *fakeCartRepository) List(ctx context.Context) ([]*model.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.Cart, 0, len(r.carts))
	for _, c := range r.carts {
		out = append(out, c.Clone())
	}
	return out, nil
}

func (r *fakeCartRepository) FindByID(ctx context.Context, id string) (*model.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carts[id]
	if !ok {
		return nil, apperrors.ErrCartNotFound
	}
	return c.Clone(), nil
}

func (r *fakeCartRepository) ReplaceProducts(ctx context.Context, id string, products []model.LineItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carts[id]
	if !ok {
		return apperrors.ErrCartNotFound
	}
	r.writes++
	c.Products = append([]model.LineItem{}, products...)
	return nil
}

func (r *fakeCartRepository) PullProduct(ctx context.Context, id string, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carts[id]
	if !ok {
		return apperrors.ErrCartNotFound
	}
	r.writes++
	c.Remove(productID)
	return nil
}

func (r *fakeCartRepository) stored(id string) *model.Cart {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.carts[id].Clone()
}

type fakeUserRepository struct {
	users map[string]*model.User
}

func newFakeUserRepository(users ...*model.User) *fakeUserRepository {
	r := &fakeUserRepository{users: map[string]*model.User{}}
	for _, u := range users {
		r.users[u.Email] = u
	}
	return r
}

func (r *fakeUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return u, nil
}

type fakeTicketRepository struct {
	mu      sync.Mutex
	tickets []*model.Ticket
	// failures 依序回傳的錯誤，用完後正常寫入
	failures []error
}

func (r *fakeTicketRepository) Create(ctx context.Context, ticket *model.Ticket) (*model.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.failures) > 0 {
		err := r.failures[0]
		r.failures = r.failures[1:]
		return nil, err
	}
	for _, t := range r.tickets {
		if t.Code == ticket.Code {
			return nil, apperrors.ErrDuplicateTicketCode
		}
	}
	ticket.ID = len(r.tickets) + 1
	cp := *ticket
	r.tickets = append(r.tickets, &cp)
	return ticket, nil
}

func (r *fakeTicketRepository) FindByCode(ctx context.Context, code string) (*model.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tickets {
		if t.Code == code {
			cp := *t
			return &cp, nil
		}
	}
	return nil, apperrors.ErrTicketNotFound
}

func (r *fakeTicketRepository) ListByPurchaser(ctx context.Context, purchaser string) ([]*model.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.Ticket, 0)
	for i := len(r.tickets) - 1; i >= 0; i-- {
		if r.tickets[i].Purchaser == purchaser {
			out = append(out, r.tickets[i])
		}
	}
	return out, nil
}

type fakeProductCache struct {
	mu      sync.Mutex
	entries map[string]*model.Product
	getErr  error
}

func newFakeProductCache() *fakeProductCache {
	return &fakeProductCache{entries: map[string]*model.Product{}}
}

func (c *fakeProductCache) Get(ctx context.Context, id string) (*model.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	p, ok := c.entries[id]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	cp := *p
	return &cp, nil
}

func (c *fakeProductCache) Set(ctx context.Context, product *model.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *product
	c.entries[product.ID] = &cp
	return nil
}

func (c *fakeProductCache) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
	return nil
}

func (c *fakeProductCache) has(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[id]
	return ok
}

type recordingQueue struct {
	mu        sync.Mutex
	published []*model.Notification
	err       error
}

func (q *recordingQueue) PublishNotification(ctx context.Context, n *model.Notification) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.published = append(q.published, n)
	return nil
}

func (q *recordingQueue) SubscribeNotifications(ctx context.Context) (<-chan queue.Delivery, error) {
	ch := make(chan queue.Delivery)
	close(ch)
	return ch, nil
}

func (q *recordingQueue) all() []*model.Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]*model.Notification{}, q.published...)
}

var (
	buyer   = &model.Identity{ID: "u1", Email: "buyer@example.com", Role: model.RoleUser, CartID: "cart-1"}
	seller  = &model.Identity{ID: "u2", Email: "seller@example.com", Role: model.RolePremium}
	admin   = &model.Identity{ID: "u3", Email: "admin@example.com", Role: model.RoleAdmin}
	super   = &model.Identity{ID: "u4", Email: "root@example.com", Role: model.RoleSuperAdmin}
)

func product(id string, price float64, owner string) *model.Product {
	return &model.Product{
		ID:       id,
		Title:    "Product " + id,
		Price:    price,
		Code:     "CODE-" + id,
		Stock:    10,
		Status:   true,
		Category: "books",
		Owner:    owner,
	}
}
