package service

import (
	"strings"
	"sync"
	"time"

	"go-bevdistro/internal/model"
	"go-bevdistro/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// fakeEvents records broadcast actions so tests can assert on them.
type fakeEvents struct {
	mu      sync.Mutex
	actions []string
}

func (e *fakeEvents) BroadcastEvent(eventType, action string, payload map[string]interface{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.actions = append(e.actions, action)
}

func (e *fakeEvents) has(action string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, a := range e.actions {
		if a == action {
			return true
		}
	}
	return false
}

// fakeLedgerRepo is an in-memory LedgerRepository. WithProductLock honors the
// same contract as the real one: writers for the same product serialize on a
// per-product mutex, so the concurrency tests exercise the real invariant
// logic.
type fakeLedgerRepo struct {
	mu       sync.Mutex
	locks    map[uuid.UUID]*sync.Mutex
	products map[uuid.UUID]model.Product
	receipts map[uuid.UUID]model.StockReceipt
	dists    map[uuid.UUID]model.Distribution
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{
		locks:    make(map[uuid.UUID]*sync.Mutex),
		products: make(map[uuid.UUID]model.Product),
		receipts: make(map[uuid.UUID]model.StockReceipt),
		dists:    make(map[uuid.UUID]model.Distribution),
	}
}

func (f *fakeLedgerRepo) addProduct(p model.Product) uuid.UUID {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products[p.ID] = p
	f.locks[p.ID] = &sync.Mutex{}
	return p.ID
}

func (f *fakeLedgerRepo) WithProductLock(productID uuid.UUID, fn func(tx repository.LedgerTx, product *model.Product) error) error {
	f.mu.Lock()
	lk, ok := f.locks[productID]
	product, found := f.products[productID]
	f.mu.Unlock()
	if !ok || !found {
		return gorm.ErrRecordNotFound
	}

	lk.Lock()
	defer lk.Unlock()
	return fn(&fakeLedgerTx{repo: f}, &product)
}

func (f *fakeLedgerRepo) AvailableStock(productID uuid.UUID) (int64, error) {
	tx := &fakeLedgerTx{repo: f}
	received, err := tx.TotalReceived(productID)
	if err != nil {
		return 0, err
	}
	distributed, err := tx.TotalDistributed(productID)
	if err != nil {
		return 0, err
	}
	return received - distributed, nil
}

func (f *fakeLedgerRepo) FindReceiptByID(id uuid.UUID) (*model.StockReceipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.receipts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &r, nil
}

func (f *fakeLedgerRepo) FindAllReceipts(limit, offset int) ([]model.StockReceipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.StockReceipt, 0, len(f.receipts))
	for _, r := range f.receipts {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeLedgerRepo) FindReceiptsByProduct(productID uuid.UUID, limit int) ([]model.StockReceipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.StockReceipt
	for _, r := range f.receipts {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeLedgerRepo) RecentReceipts(days, limit int) ([]model.StockReceipt, error) {
	return f.FindAllReceipts(limit, 0)
}

func (f *fakeLedgerRepo) FindDistributionByID(id uuid.UUID) (*model.Distribution, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.dists[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &d, nil
}

func (f *fakeLedgerRepo) FindAllDistributions(limit, offset int) ([]model.Distribution, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Distribution, 0, len(f.dists))
	for _, d := range f.dists {
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeLedgerRepo) FindDistributionsByMess(messID uuid.UUID, limit int) ([]model.Distribution, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Distribution
	for _, d := range f.dists {
		if d.MessID == messID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeLedgerRepo) FindDistributionsByProduct(productID uuid.UUID, limit int) ([]model.Distribution, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Distribution
	for _, d := range f.dists {
		if d.ProductID == productID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeLedgerRepo) RecentDistributions(days, limit int) ([]model.Distribution, error) {
	return f.FindAllDistributions(limit, 0)
}

type fakeLedgerTx struct {
	repo *fakeLedgerRepo
}

func (t *fakeLedgerTx) TotalReceived(productID uuid.UUID) (int64, error) {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	var total int64
	for _, r := range t.repo.receipts {
		if r.ProductID == productID {
			total += r.Quantity
		}
	}
	return total, nil
}

func (t *fakeLedgerTx) TotalDistributed(productID uuid.UUID) (int64, error) {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	var total int64
	for _, d := range t.repo.dists {
		if d.ProductID == productID {
			total += d.Quantity
		}
	}
	return total, nil
}

func (t *fakeLedgerTx) GetReceipt(id uuid.UUID) (*model.StockReceipt, error) {
	return t.repo.FindReceiptByID(id)
}

func (t *fakeLedgerTx) GetDistribution(id uuid.UUID) (*model.Distribution, error) {
	return t.repo.FindDistributionByID(id)
}

func (t *fakeLedgerTx) CreateReceipt(receipt *model.StockReceipt) error {
	if receipt.ID == uuid.Nil {
		receipt.ID = uuid.New()
	}
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	t.repo.receipts[receipt.ID] = *receipt
	return nil
}

func (t *fakeLedgerTx) CreateDistribution(dist *model.Distribution) error {
	if dist.ID == uuid.Nil {
		dist.ID = uuid.New()
	}
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	t.repo.dists[dist.ID] = *dist
	return nil
}

func (t *fakeLedgerTx) SaveReceipt(receipt *model.StockReceipt) error {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	t.repo.receipts[receipt.ID] = *receipt
	return nil
}

func (t *fakeLedgerTx) SaveDistribution(dist *model.Distribution) error {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	t.repo.dists[dist.ID] = *dist
	return nil
}

func (t *fakeLedgerTx) DeleteReceipt(id uuid.UUID) error {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	delete(t.repo.receipts, id)
	return nil
}

func (t *fakeLedgerTx) DeleteDistribution(id uuid.UUID) error {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	delete(t.repo.dists, id)
	return nil
}

type fakeMessRepo struct {
	mu        sync.Mutex
	messes    map[uuid.UUID]model.Mess
	createErr error
}

func newFakeMessRepo() *fakeMessRepo {
	return &fakeMessRepo{messes: make(map[uuid.UUID]model.Mess)}
}

func (f *fakeMessRepo) add(m model.Mess) uuid.UUID {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messes[m.ID] = m
	return m.ID
}

func (f *fakeMessRepo) Create(mess *model.Mess) error {
	if f.createErr != nil {
		return f.createErr
	}
	if mess.ID == uuid.Nil {
		mess.ID = uuid.New()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messes[mess.ID] = *mess
	return nil
}

func (f *fakeMessRepo) FindAll(activeOnly bool) ([]model.Mess, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Mess
	for _, m := range f.messes {
		if activeOnly && !m.IsActive {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeMessRepo) FindByID(id uuid.UUID) (*model.Mess, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.messes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &m, nil
}

func (f *fakeMessRepo) FindByName(name string) (*model.Mess, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.messes {
		if strings.EqualFold(m.Name, name) {
			found := m
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeMessRepo) Update(mess *model.Mess) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messes[mess.ID] = *mess
	return nil
}

type fakeProductRepo struct {
	mu        sync.Mutex
	products  map[uuid.UUID]model.Product
	createErr error
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]model.Product)}
}

func (f *fakeProductRepo) add(p model.Product) uuid.UUID {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products[p.ID] = p
	return p.ID
}

func (f *fakeProductRepo) Create(product *model.Product) error {
	if f.createErr != nil {
		return f.createErr
	}
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products[product.ID] = *product
	return nil
}

func (f *fakeProductRepo) FindAll(activeOnly bool) ([]model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Product
	for _, p := range f.products {
		if activeOnly && !p.IsActive {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProductRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (f *fakeProductRepo) FindByName(name string) (*model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if strings.EqualFold(p.Name, name) {
			found := p
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProductRepo) Update(product *model.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products[product.ID] = *product
	return nil
}

func (f *fakeProductRepo) FindAllWithStock() ([]model.ProductWithStock, error) {
	products, _ := f.FindAll(true)
	out := make([]model.ProductWithStock, 0, len(products))
	for _, p := range products {
		out = append(out, model.ProductWithStock{Product: p})
	}
	return out, nil
}

func (f *fakeProductRepo) FindByIDWithStock(id uuid.UUID) (*model.ProductWithStock, error) {
	p, err := f.FindByID(id)
	if err != nil {
		return nil, err
	}
	return &model.ProductWithStock{Product: *p}, nil
}

type fakeAttendantRepo struct {
	mu         sync.Mutex
	attendants map[uuid.UUID]model.Attendant
}

func newFakeAttendantRepo() *fakeAttendantRepo {
	return &fakeAttendantRepo{attendants: make(map[uuid.UUID]model.Attendant)}
}

func (f *fakeAttendantRepo) Create(attendant *model.Attendant) error {
	if attendant.ID == uuid.Nil {
		attendant.ID = uuid.New()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attendants[attendant.ID] = *attendant
	return nil
}

func (f *fakeAttendantRepo) FindAll() ([]model.Attendant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Attendant
	for _, a := range f.attendants {
		if a.IsActive {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAttendantRepo) FindByID(id uuid.UUID) (*model.Attendant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.attendants[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &a, nil
}

func (f *fakeAttendantRepo) FindByMess(messID uuid.UUID) ([]model.Attendant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Attendant
	for _, a := range f.attendants {
		if a.MessID == messID && a.IsActive {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAttendantRepo) Update(attendant *model.Attendant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attendants[attendant.ID] = *attendant
	return nil
}

type fakePaymentRepo struct {
	mu        sync.Mutex
	payments  map[uuid.UUID]model.Payment
	summaries map[uuid.UUID]repository.MessFinancialSummary
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{
		payments:  make(map[uuid.UUID]model.Payment),
		summaries: make(map[uuid.UUID]repository.MessFinancialSummary),
	}
}

func (f *fakePaymentRepo) Create(payment *model.Payment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payments[payment.ID] = *payment
	return nil
}

func (f *fakePaymentRepo) FindAll(limit, offset int) ([]model.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Payment, 0, len(f.payments))
	for _, p := range f.payments {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakePaymentRepo) FindByID(id uuid.UUID) (*model.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (f *fakePaymentRepo) FindByMess(messID uuid.UUID, limit int) ([]model.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Payment
	for _, p := range f.payments {
		if p.MessID == messID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) Update(payment *model.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payments[payment.ID] = *payment
	return nil
}

func (f *fakePaymentRepo) Delete(id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.payments, id)
	return nil
}

func (f *fakePaymentRepo) TotalPaidByMess(messID uuid.UUID) (decimal.Decimal, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := decimal.Zero
	var count int64
	for _, p := range f.payments {
		if p.MessID == messID {
			total = total.Add(p.AmountPaid)
			count++
		}
	}
	return total, count, nil
}

func (f *fakePaymentRepo) FinancialSummary(messID uuid.UUID) (*repository.MessFinancialSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.summaries[messID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &s, nil
}

func (f *fakePaymentRepo) AllFinancialSummaries() ([]repository.MessFinancialSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]repository.MessFinancialSummary, 0, len(f.summaries))
	for _, s := range f.summaries {
		out = append(out, s)
	}
	return out, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]model.User)}
}

func (f *fakeUserRepo) add(u model.User) uuid.UUID {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.ID] = u
	return u.ID
}

func (f *fakeUserRepo) Create(user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) FindAll() ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUserRepo) FindByID(id uuid.UUID) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (f *fakeUserRepo) FindByUsername(username string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			found := u
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindByEmail(email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) Update(user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.ID] = *user
	return nil
}

type fakeReportRepo struct {
	stock     []repository.CurrentStockRow
	costs     []repository.ProductCostRow
	revenue   []repository.ProductRevenue
	messes    []repository.MessRevenue
	alerts    []repository.LowStockAlert
	summary   repository.StockSummary
	distTotal repository.DistributionSummary
}

func (f *fakeReportRepo) CurrentStock() ([]repository.CurrentStockRow, error) {
	return f.stock, nil
}

func (f *fakeReportRepo) StockSummary() (*repository.StockSummary, error) {
	s := f.summary
	return &s, nil
}

func (f *fakeReportRepo) DistributionSummary() (*repository.DistributionSummary, error) {
	s := f.distTotal
	return &s, nil
}

func (f *fakeReportRepo) DistributionSummaryByDateRange(start, end time.Time) (*repository.DistributionSummary, error) {
	s := f.distTotal
	return &s, nil
}

func (f *fakeReportRepo) LowStockAlerts() ([]repository.LowStockAlert, error) {
	return f.alerts, nil
}

func (f *fakeReportRepo) TopProductsByRevenue(limit int) ([]repository.ProductRevenue, error) {
	if limit < len(f.revenue) {
		return f.revenue[:limit], nil
	}
	return f.revenue, nil
}

func (f *fakeReportRepo) RevenueByProduct() ([]repository.ProductRevenue, error) {
	return f.revenue, nil
}

func (f *fakeReportRepo) RevenueByMess() ([]repository.MessRevenue, error) {
	return f.messes, nil
}

func (f *fakeReportRepo) RevenueByDateRange(start, end time.Time) ([]repository.DailyRevenue, error) {
	return nil, nil
}

func (f *fakeReportRepo) ProductCosts() ([]repository.ProductCostRow, error) {
	return f.costs, nil
}

func (f *fakeReportRepo) ActivityTimeline(days, limit int) ([]repository.ActivityItem, error) {
	return nil, nil
}
