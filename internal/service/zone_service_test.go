package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/market-leases/internal/model"
)

func newZoneFixture() (*ZoneService, *fakeLocations) {
	locations := newFakeLocations()
	locations.zones[2] = model.Zone{ID: 2, Name: "Zona Norte"}
	locations.zones[5] = model.Zone{ID: 5, Name: "Zona Sur"}
	locations.sectors[3] = model.Sector{ID: 3, ZoneID: 2, Name: "Sector A"}
	locations.sectors[4] = model.Sector{ID: 4, ZoneID: 2, Name: "Sector B"}
	locations.sectors[6] = model.Sector{ID: 6, ZoneID: 5, Name: "Sector C"}
	locations.addStall(model.Stall{ID: 10, SectorID: 3, Code: "A-01"})
	locations.addStall(model.Stall{ID: 11, SectorID: 3, Code: "A-02"})
	return NewZoneService(locations), locations
}

func TestZoneService_CreateZoneUniqueName(t *testing.T) {
	ctx := context.Background()
	svc, _ := newZoneFixture()

	_, err := svc.Create(ctx, ZoneInput{Name: "zona norte"})
	require.ErrorIs(t, err, ErrInvalidInput)
	ve, ok := AsValidation(err)
	require.True(t, ok)
	assert.True(t, ve.Has("name"))

	zone, err := svc.Create(ctx, ZoneInput{Name: " Zona Este ", Description: "Galpón 3"})
	require.NoError(t, err)
	assert.Equal(t, "Zona Este", zone.Name)
}

func TestZoneService_DeleteZoneBlockedBySectors(t *testing.T) {
	ctx := context.Background()
	svc, locations := newZoneFixture()

	err := svc.Delete(ctx, 2)
	require.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "2 sector(es)")

	delete(locations.sectors, 6)
	require.NoError(t, svc.Delete(ctx, 5))
	assert.ErrorIs(t, svc.Delete(ctx, 5), ErrNotFound)
}

func TestZoneService_DeleteSectorBlockedByStalls(t *testing.T) {
	ctx := context.Background()
	svc, locations := newZoneFixture()

	_, err := svc.DeleteSector(ctx, 3)
	require.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "2 local(es)")

	sector, err := svc.DeleteSector(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, "Sector B", sector.Name)
	assert.NotContains(t, locations.sectors, int64(4))

	_, err = svc.DeleteSector(ctx, 4)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestZoneService_DeleteStallBlockedByContracts(t *testing.T) {
	ctx := context.Background()
	svc, locations := newZoneFixture()
	locations.contracts[10] = 1

	_, err := svc.DeleteStall(ctx, 10)
	require.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "1 contrato(s)")

	stall, err := svc.DeleteStall(ctx, 11)
	require.NoError(t, err)
	assert.Equal(t, "A-02", stall.Code)

	_, err = svc.DeleteStall(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestZoneService_CreateSector(t *testing.T) {
	ctx := context.Background()
	svc, _ := newZoneFixture()

	_, err := svc.CreateSector(ctx, 2, SectorInput{Name: "sector a"})
	require.ErrorIs(t, err, ErrInvalidInput)

	// names only collide inside the same zone
	sector, err := svc.CreateSector(ctx, 5, SectorInput{Name: "Sector A"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), sector.ZoneID)

	_, err = svc.CreateSector(ctx, 99, SectorInput{Name: "Sector X"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestZoneService_CreateStall(t *testing.T) {
	ctx := context.Background()
	svc, _ := newZoneFixture()

	tests := []struct {
		name  string
		input StallInput
		field string
	}{
		{name: "sector missing", input: StallInput{Code: "A-09"}, field: "sector_id"},
		{name: "sector of another zone", input: StallInput{SectorID: "6", Code: "C-01"}, field: "sector_id"},
		{name: "duplicate code", input: StallInput{SectorID: "3", Code: "a-01"}, field: "code"},
		{name: "code missing", input: StallInput{SectorID: "3"}, field: "code"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateStall(ctx, 2, tt.input)
			require.ErrorIs(t, err, ErrInvalidInput)
			ve, ok := AsValidation(err)
			require.True(t, ok)
			assert.True(t, ve.Has(tt.field))
		})
	}

	stall, err := svc.CreateStall(ctx, 2, StallInput{SectorID: "4", Code: "A-01"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), stall.SectorID)
}
