package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/market-leases/internal/model"
	"github.com/nurpe/market-leases/internal/money"
	"github.com/nurpe/market-leases/internal/service"
)

func TestGenerator_Generate(t *testing.T) {
	detail := service.ContractDetail{
		Contract: model.Contract{
			ID: 12, StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), EndDate: time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
			Type: model.ContractSimultaneous, Mode: model.ContractMonthly,
			Categories: []model.ContractCategory{{Name: "Artesanía", CategoryType: model.CategoryExternal, PaymentCount: 1, InstallationType: "fija"}},
			Locations:  []model.ContractLocation{{StallCode: "B-07", ZoneName: "Zona Sur", SectorName: "Pasillo Ñ"}},
		},
		Awardee:    model.Awardee{FirstName: "José", LastName: "Núñez", IDNumber: "V7654321"},
		FiscalYear: model.FiscalYear{Year: 2025},
		Payments: service.Summarize([]model.ContractPayment{
			{PaymentReference: "CT000012-001", PaymentDate: time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
				MultiplierFactor: decimal.NewFromInt(1), Status: model.PaymentPending,
				EuroRate: decimal.NewNullDecimal(decimal.RequireFromString("41.1"))},
			{PaymentReference: "CT000012-002", PaymentDate: time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
				MultiplierFactor: decimal.NewFromInt(1), Status: model.PaymentPending},
		}),
	}

	data, err := NewGenerator(money.NewFormatter("es-VE")).Generate(detail)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}
