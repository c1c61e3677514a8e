package service

import (
	"context"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/nurpe/market-leases/internal/model"
)

// The fakes embed the store interfaces; calling a method a test did not expect panics.

type fakeAwardees struct {
	AwardeeStore
	items     map[int64]*model.Awardee
	contracts map[int64]int64
	nextID    int64
}

func newFakeAwardees() *fakeAwardees {
	return &fakeAwardees{items: map[int64]*model.Awardee{}, contracts: map[int64]int64{}}
}

func (f *fakeAwardees) Get(_ context.Context, id int64) (*model.Awardee, error) {
	a, ok := f.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAwardees) ListAll(context.Context) ([]model.Awardee, error) {
	result := make([]model.Awardee, 0, len(f.items))
	for _, a := range f.items {
		result = append(result, *a)
	}
	return result, nil
}

func (f *fakeAwardees) IDNumberExists(_ context.Context, idNumber string, excludeID int64) (bool, error) {
	for id, a := range f.items {
		if id != excludeID && strings.EqualFold(a.IDNumber, idNumber) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAwardees) Create(_ context.Context, a *model.Awardee) error {
	f.nextID++
	a.ID = f.nextID
	cp := *a
	f.items[a.ID] = &cp
	return nil
}

func (f *fakeAwardees) Update(_ context.Context, a *model.Awardee) error {
	cp := *a
	f.items[a.ID] = &cp
	return nil
}

func (f *fakeAwardees) Delete(_ context.Context, id int64) error {
	if _, ok := f.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeAwardees) CountContracts(_ context.Context, id int64) (int64, error) {
	return f.contracts[id], nil
}

type fakeFiscalYears struct {
	FiscalYearStore
	items     map[int64]*model.FiscalYear
	contracts map[int64]int64
	nextID    int64
}

func newFakeFiscalYears() *fakeFiscalYears {
	return &fakeFiscalYears{items: map[int64]*model.FiscalYear{}, contracts: map[int64]int64{}}
}

func (f *fakeFiscalYears) Get(_ context.Context, id int64) (*model.FiscalYear, error) {
	y, ok := f.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *y
	return &cp, nil
}

func (f *fakeFiscalYears) ListAll(context.Context) ([]model.FiscalYear, error) {
	result := make([]model.FiscalYear, 0, len(f.items))
	for _, y := range f.items {
		result = append(result, *y)
	}
	return result, nil
}

func (f *fakeFiscalYears) YearExists(_ context.Context, year int, excludeID int64) (bool, error) {
	for id, y := range f.items {
		if id != excludeID && y.Year == year {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeFiscalYears) Create(_ context.Context, y *model.FiscalYear) error {
	f.nextID++
	y.ID = f.nextID
	cp := *y
	f.items[y.ID] = &cp
	return nil
}

func (f *fakeFiscalYears) Update(_ context.Context, y *model.FiscalYear) error {
	cp := *y
	f.items[y.ID] = &cp
	return nil
}

func (f *fakeFiscalYears) Delete(_ context.Context, id int64) error {
	if _, ok := f.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeFiscalYears) CountContracts(_ context.Context, id int64) (int64, error) {
	return f.contracts[id], nil
}

type fakeCategories struct {
	CategoryStore
	items  map[model.CategoryKind]map[int64]model.CategoryItem
	refs   map[int64]int64
	nextID int64
}

func newFakeCategories(items ...model.CategoryItem) *fakeCategories {
	f := &fakeCategories{items: map[model.CategoryKind]map[int64]model.CategoryItem{
		model.CategoryInternal: {},
		model.CategoryExternal: {},
	}, refs: map[int64]int64{}}
	for _, item := range items {
		f.items[item.Kind][item.ID] = item
		if item.ID > f.nextID {
			f.nextID = item.ID
		}
	}
	return f
}

func (f *fakeCategories) Get(_ context.Context, kind model.CategoryKind, id int64) (*model.CategoryItem, error) {
	item, ok := f.items[kind][id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &item, nil
}

func (f *fakeCategories) NameExists(_ context.Context, kind model.CategoryKind, name string, excludeID int64) (bool, error) {
	for id, item := range f.items[kind] {
		if id != excludeID && strings.EqualFold(item.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCategories) Create(_ context.Context, item *model.CategoryItem) error {
	f.nextID++
	item.ID = f.nextID
	f.items[item.Kind][item.ID] = *item
	return nil
}

func (f *fakeCategories) Update(_ context.Context, item *model.CategoryItem) error {
	f.items[item.Kind][item.ID] = *item
	return nil
}

func (f *fakeCategories) Delete(_ context.Context, kind model.CategoryKind, id int64) error {
	if _, ok := f.items[kind][id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.items[kind], id)
	return nil
}

func (f *fakeCategories) CountContractReferences(_ context.Context, _ model.CategoryKind, id int64) (int64, error) {
	return f.refs[id], nil
}

func (f *fakeCategories) ListAll(_ context.Context, kind model.CategoryKind) ([]model.CategoryItem, error) {
	result := make([]model.CategoryItem, 0)
	for _, item := range f.items[kind] {
		result = append(result, item)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeCategories) GetMany(_ context.Context, kind model.CategoryKind, ids []int64) (map[int64]model.CategoryItem, error) {
	result := map[int64]model.CategoryItem{}
	for _, id := range ids {
		if item, ok := f.items[kind][id]; ok {
			result[id] = item
		}
	}
	return result, nil
}

type fakeLocations struct {
	LocationStore
	zones     map[int64]model.Zone
	sectors   map[int64]model.Sector
	stalls    map[int64]model.Stall
	contracts map[int64]int64
	nextID    int64
}

func newFakeLocations() *fakeLocations {
	return &fakeLocations{
		zones:     map[int64]model.Zone{},
		sectors:   map[int64]model.Sector{},
		stalls:    map[int64]model.Stall{},
		contracts: map[int64]int64{},
		nextID:    100,
	}
}

func (f *fakeLocations) addStall(stall model.Stall) {
	sector := f.sectors[stall.SectorID]
	stall.SectorName = sector.Name
	stall.ZoneID = sector.ZoneID
	stall.ZoneName = f.zones[sector.ZoneID].Name
	f.stalls[stall.ID] = stall
}

func (f *fakeLocations) GetZone(_ context.Context, id int64) (*model.Zone, error) {
	z, ok := f.zones[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &z, nil
}

func (f *fakeLocations) ListAllZones(context.Context) ([]model.Zone, error) {
	result := make([]model.Zone, 0, len(f.zones))
	for _, z := range f.zones {
		result = append(result, z)
	}
	return result, nil
}

func (f *fakeLocations) ListStalls(_ context.Context, zoneID int64, sectorID *int64) ([]model.Stall, error) {
	var result []model.Stall
	for _, stall := range f.stalls {
		if stall.ZoneID != zoneID {
			continue
		}
		if sectorID != nil && stall.SectorID != *sectorID {
			continue
		}
		result = append(result, stall)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeLocations) GetStalls(_ context.Context, ids []int64) ([]model.Stall, error) {
	result := make([]model.Stall, 0, len(ids))
	for _, id := range ids {
		if stall, ok := f.stalls[id]; ok {
			result = append(result, stall)
		}
	}
	return result, nil
}

func (f *fakeLocations) ZoneNameExists(_ context.Context, name string, excludeID int64) (bool, error) {
	for id, z := range f.zones {
		if id != excludeID && strings.EqualFold(z.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLocations) CreateZone(_ context.Context, z *model.Zone) error {
	f.nextID++
	z.ID = f.nextID
	f.zones[z.ID] = *z
	return nil
}

func (f *fakeLocations) DeleteZone(_ context.Context, id int64) error {
	if _, ok := f.zones[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.zones, id)
	return nil
}

func (f *fakeLocations) CountSectors(_ context.Context, zoneID int64) (int64, error) {
	var n int64
	for _, sector := range f.sectors {
		if sector.ZoneID == zoneID {
			n++
		}
	}
	return n, nil
}

func (f *fakeLocations) GetSector(_ context.Context, id int64) (*model.Sector, error) {
	sector, ok := f.sectors[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &sector, nil
}

func (f *fakeLocations) SectorNameExists(_ context.Context, zoneID int64, name string) (bool, error) {
	for _, sector := range f.sectors {
		if sector.ZoneID == zoneID && strings.EqualFold(sector.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLocations) CreateSector(_ context.Context, sector *model.Sector) error {
	f.nextID++
	sector.ID = f.nextID
	f.sectors[sector.ID] = *sector
	return nil
}

func (f *fakeLocations) DeleteSector(_ context.Context, id int64) error {
	delete(f.sectors, id)
	return nil
}

func (f *fakeLocations) CountStalls(_ context.Context, sectorID int64) (int64, error) {
	var n int64
	for _, stall := range f.stalls {
		if stall.SectorID == sectorID {
			n++
		}
	}
	return n, nil
}

func (f *fakeLocations) GetStall(_ context.Context, id int64) (*model.Stall, error) {
	stall, ok := f.stalls[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &stall, nil
}

func (f *fakeLocations) StallCodeExists(_ context.Context, sectorID int64, code string) (bool, error) {
	for _, stall := range f.stalls {
		if stall.SectorID == sectorID && strings.EqualFold(stall.Code, code) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLocations) CreateStall(_ context.Context, stall *model.Stall) error {
	f.nextID++
	stall.ID = f.nextID
	f.addStall(*stall)
	return nil
}

func (f *fakeLocations) DeleteStall(_ context.Context, id int64) error {
	delete(f.stalls, id)
	return nil
}

func (f *fakeLocations) CountStallContracts(_ context.Context, stallID int64) (int64, error) {
	return f.contracts[stallID], nil
}

type fakeContracts struct {
	ContractStore
	items    map[int64]*model.Contract
	payments map[int64][]model.ContractPayment
	nextID   int64
	nextPay  int64
}

func (f *fakeContracts) number(payments []model.ContractPayment) []model.ContractPayment {
	for i := range payments {
		f.nextPay++
		payments[i].ID = f.nextPay
	}
	return payments
}

func newFakeContracts() *fakeContracts {
	return &fakeContracts{items: map[int64]*model.Contract{}, payments: map[int64][]model.ContractPayment{}}
}

func (f *fakeContracts) Get(_ context.Context, id int64) (*model.Contract, error) {
	c, ok := f.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeContracts) Create(_ context.Context, c *model.Contract, build func(int64) []model.ContractPayment) error {
	f.nextID++
	c.ID = f.nextID
	payments := build(c.ID)
	cp := *c
	f.items[c.ID] = &cp
	f.payments[c.ID] = f.number(payments)
	return nil
}

func (f *fakeContracts) Update(_ context.Context, c *model.Contract, payments []model.ContractPayment) error {
	if _, ok := f.items[c.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *c
	f.items[c.ID] = &cp
	kept := make([]model.ContractPayment, 0)
	for _, payment := range f.payments[c.ID] {
		if payment.Status != model.PaymentPending {
			kept = append(kept, payment)
		}
	}
	f.payments[c.ID] = append(kept, f.number(payments)...)
	return nil
}

func (f *fakeContracts) ListByContract(_ context.Context, contractID int64) ([]model.ContractPayment, error) {
	return append([]model.ContractPayment(nil), f.payments[contractID]...), nil
}

type fakePayments struct {
	PaymentStore
	contracts *fakeContracts
}

func (f fakePayments) ListByContract(ctx context.Context, contractID int64) ([]model.ContractPayment, error) {
	return f.contracts.ListByContract(ctx, contractID)
}

func (f fakePayments) Get(_ context.Context, id int64) (*model.ContractPayment, error) {
	for _, payments := range f.contracts.payments {
		for _, payment := range payments {
			if payment.ID == id {
				cp := payment
				return &cp, nil
			}
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f fakePayments) UpdateStatus(_ context.Context, id int64, status model.PaymentStatus) error {
	for contractID, payments := range f.contracts.payments {
		for i := range payments {
			if payments[i].ID == id {
				f.contracts.payments[contractID][i].Status = status
				return nil
			}
		}
	}
	return gorm.ErrRecordNotFound
}

type fakeUsers struct {
	UserStore
	items  map[int64]*model.User
	nextID int64
}

func (f *fakeUsers) Get(_ context.Context, id int64) (*model.User, error) {
	u, ok := f.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range f.items {
		if u.Username == strings.ToLower(username) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUsers) Create(_ context.Context, u *model.User) error {
	f.nextID++
	u.ID = f.nextID
	cp := *u
	f.items[u.ID] = &cp
	return nil
}

type fakeCashRegisters struct {
	CashRegisterStore
	items  map[int64]*model.CashRegister
	nextID int64
}

func newFakeCashRegisters() *fakeCashRegisters {
	return &fakeCashRegisters{items: map[int64]*model.CashRegister{}}
}

func (f *fakeCashRegisters) Get(_ context.Context, id int64) (*model.CashRegister, error) {
	r, ok := f.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeCashRegisters) Create(_ context.Context, r *model.CashRegister) error {
	f.nextID++
	r.ID = f.nextID
	cp := *r
	f.items[r.ID] = &cp
	return nil
}

func (f *fakeCashRegisters) Update(_ context.Context, r *model.CashRegister) error {
	cp := *r
	f.items[r.ID] = &cp
	return nil
}

func (f *fakeCashRegisters) Delete(_ context.Context, id int64) error {
	if _, ok := f.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.items, id)
	return nil
}

// plainHasher keeps tests independent of bcrypt cost.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "plain:" + password, nil }

func (plainHasher) Compare(hash, password string) bool { return hash == "plain:"+password }

type memoryCache struct {
	items map[int64]model.Principal
	hits  int
}

func (c *memoryCache) Get(_ context.Context, userID int64) (*model.Principal, bool) {
	p, ok := c.items[userID]
	if ok {
		c.hits++
	}
	return &p, ok
}

func (c *memoryCache) Set(_ context.Context, p model.Principal) { c.items[p.UserID] = p }

func (c *memoryCache) Invalidate(_ context.Context, userID int64) { delete(c.items, userID) }
