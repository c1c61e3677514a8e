package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nurpe/market-leases/internal/model"
)

// The store interfaces mirror the repository package so services can be exercised with in-memory fakes.

type AwardeeStore interface {
	List(ctx context.Context, search string, page model.Page) ([]model.Awardee, int64, error)
	ListAll(ctx context.Context) ([]model.Awardee, error)
	Get(ctx context.Context, id int64) (*model.Awardee, error)
	IDNumberExists(ctx context.Context, idNumber string, excludeID int64) (bool, error)
	Create(ctx context.Context, awardee *model.Awardee) error
	Update(ctx context.Context, awardee *model.Awardee) error
	Delete(ctx context.Context, id int64) error
	CountContracts(ctx context.Context, id int64) (int64, error)
}

type FiscalYearStore interface {
	List(ctx context.Context, page model.Page) ([]model.FiscalYear, int64, error)
	ListAll(ctx context.Context) ([]model.FiscalYear, error)
	Get(ctx context.Context, id int64) (*model.FiscalYear, error)
	YearExists(ctx context.Context, year int, excludeID int64) (bool, error)
	Create(ctx context.Context, year *model.FiscalYear) error
	Update(ctx context.Context, year *model.FiscalYear) error
	Delete(ctx context.Context, id int64) error
	CountContracts(ctx context.Context, id int64) (int64, error)
}

type CashRegisterStore interface {
	List(ctx context.Context, page model.Page) ([]model.CashRegister, int64, error)
	Get(ctx context.Context, id int64) (*model.CashRegister, error)
	Create(ctx context.Context, register *model.CashRegister) error
	Update(ctx context.Context, register *model.CashRegister) error
	Delete(ctx context.Context, id int64) error
}

type UserStore interface {
	Get(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	ListActive(ctx context.Context) ([]model.User, error)
	Create(ctx context.Context, user *model.User) error
}

type CategoryStore interface {
	List(ctx context.Context, kind model.CategoryKind, search string, page model.Page) ([]model.CategoryItem, int64, error)
	ListAll(ctx context.Context, kind model.CategoryKind) ([]model.CategoryItem, error)
	Get(ctx context.Context, kind model.CategoryKind, id int64) (*model.CategoryItem, error)
	GetMany(ctx context.Context, kind model.CategoryKind, ids []int64) (map[int64]model.CategoryItem, error)
	NameExists(ctx context.Context, kind model.CategoryKind, name string, excludeID int64) (bool, error)
	Create(ctx context.Context, item *model.CategoryItem) error
	Update(ctx context.Context, item *model.CategoryItem) error
	Delete(ctx context.Context, kind model.CategoryKind, id int64) error
	CountContractReferences(ctx context.Context, kind model.CategoryKind, id int64) (int64, error)
}

type LocationStore interface {
	ListZones(ctx context.Context, page model.Page) ([]model.Zone, int64, error)
	ListAllZones(ctx context.Context) ([]model.Zone, error)
	GetZone(ctx context.Context, id int64) (*model.Zone, error)
	ZoneNameExists(ctx context.Context, name string, excludeID int64) (bool, error)
	CreateZone(ctx context.Context, zone *model.Zone) error
	UpdateZone(ctx context.Context, zone *model.Zone) error
	DeleteZone(ctx context.Context, id int64) error
	CountSectors(ctx context.Context, zoneID int64) (int64, error)

	ListSectors(ctx context.Context, zoneID int64) ([]model.Sector, error)
	GetSector(ctx context.Context, id int64) (*model.Sector, error)
	SectorNameExists(ctx context.Context, zoneID int64, name string) (bool, error)
	CreateSector(ctx context.Context, sector *model.Sector) error
	DeleteSector(ctx context.Context, id int64) error
	CountStalls(ctx context.Context, sectorID int64) (int64, error)

	ListStalls(ctx context.Context, zoneID int64, sectorID *int64) ([]model.Stall, error)
	GetStalls(ctx context.Context, ids []int64) ([]model.Stall, error)
	GetStall(ctx context.Context, id int64) (*model.Stall, error)
	StallCodeExists(ctx context.Context, sectorID int64, code string) (bool, error)
	CreateStall(ctx context.Context, stall *model.Stall) error
	DeleteStall(ctx context.Context, id int64) error
	CountStallContracts(ctx context.Context, stallID int64) (int64, error)
}

type ContractStore interface {
	List(ctx context.Context, filter model.ContractFilter, page model.Page) ([]model.Contract, int64, error)
	Get(ctx context.Context, id int64) (*model.Contract, error)
	Create(ctx context.Context, contract *model.Contract, build func(contractID int64) []model.ContractPayment) error
	Update(ctx context.Context, contract *model.Contract, payments []model.ContractPayment) error
	Delete(ctx context.Context, id int64) error
}

type PaymentStore interface {
	ListByContract(ctx context.Context, contractID int64) ([]model.ContractPayment, error)
	Get(ctx context.Context, id int64) (*model.ContractPayment, error)
	UpdateStatus(ctx context.Context, id int64, status model.PaymentStatus) error
}

type ExchangeRateStore interface {
	List(ctx context.Context, page model.Page) ([]model.ExchangeRate, int64, error)
	Upsert(ctx context.Context, day time.Time, rate decimal.Decimal) (*model.ExchangeRate, error)
	Delete(ctx context.Context, id int64) error
}

type ReportStore interface {
	ListPayments(ctx context.Context, from, to time.Time, statuses []model.PaymentStatus) ([]model.ReportPayment, error)
}
