package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/nurpe/market-leases/internal/model"
)

// LocationRepository covers the zone → sector → stall hierarchy.
type LocationRepository struct {
	db *gorm.DB
}

func NewLocationRepository(db *gorm.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

const zoneSelect = `
	SELECT
		z.id,
		z.name,
		z.description,
		z.created_at,
		z.updated_at,
		(SELECT COUNT(*) FROM sectors s WHERE s.zone_id = z.id) AS sector_count,
		(SELECT COUNT(*) FROM stalls st JOIN sectors s ON s.id = st.sector_id WHERE s.zone_id = z.id) AS stall_count
	FROM zones z
`

func (r *LocationRepository) ListZones(ctx context.Context, page model.Page) ([]model.Zone, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Zone{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var zones []model.Zone
	err := r.db.WithContext(ctx).Raw(zoneSelect+" ORDER BY z.name ASC LIMIT ? OFFSET ?", page.Size, page.Offset()).
		Scan(&zones).Error
	if err != nil {
		return nil, 0, err
	}
	return zones, total, nil
}

func (r *LocationRepository) ListAllZones(ctx context.Context) ([]model.Zone, error) {
	var zones []model.Zone
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&zones).Error; err != nil {
		return nil, err
	}
	return zones, nil
}

func (r *LocationRepository) GetZone(ctx context.Context, id int64) (*model.Zone, error) {
	var zone model.Zone
	if err := r.db.WithContext(ctx).Raw(zoneSelect+" WHERE z.id = ? LIMIT 1", id).Scan(&zone).Error; err != nil {
		return nil, err
	}
	if zone.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &zone, nil
}

func (r *LocationRepository) ZoneNameExists(ctx context.Context, name string, excludeID int64) (bool, error) {
	count, err := countWhere(ctx, r.db, "zones", "LOWER(name) = ? AND id <> ?", strings.ToLower(strings.TrimSpace(name)), excludeID)
	return count > 0, err
}

func (r *LocationRepository) CreateZone(ctx context.Context, zone *model.Zone) error {
	return r.db.WithContext(ctx).Create(zone).Error
}

func (r *LocationRepository) UpdateZone(ctx context.Context, zone *model.Zone) error {
	return r.db.WithContext(ctx).Model(&model.Zone{ID: zone.ID}).Updates(map[string]interface{}{
		"name":        zone.Name,
		"description": zone.Description,
		"updated_at":  gorm.Expr("NOW()"),
	}).Error
}

func (r *LocationRepository) DeleteZone(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "zones", id)
}

func (r *LocationRepository) CountSectors(ctx context.Context, zoneID int64) (int64, error) {
	return countWhere(ctx, r.db, "sectors", "zone_id = ?", zoneID)
}

func (r *LocationRepository) ListSectors(ctx context.Context, zoneID int64) ([]model.Sector, error) {
	var sectors []model.Sector
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			s.id,
			s.zone_id,
			s.name,
			s.created_at,
			(SELECT COUNT(*) FROM stalls st WHERE st.sector_id = s.id) AS stall_count
		FROM sectors s
		WHERE s.zone_id = ?
		ORDER BY s.name ASC
	`, zoneID).Scan(&sectors).Error
	if err != nil {
		return nil, err
	}
	return sectors, nil
}

func (r *LocationRepository) GetSector(ctx context.Context, id int64) (*model.Sector, error) {
	var sector model.Sector
	if err := r.db.WithContext(ctx).First(&sector, id).Error; err != nil {
		return nil, err
	}
	return &sector, nil
}

func (r *LocationRepository) SectorNameExists(ctx context.Context, zoneID int64, name string) (bool, error) {
	count, err := countWhere(ctx, r.db, "sectors", "zone_id = ? AND LOWER(name) = ?", zoneID, strings.ToLower(strings.TrimSpace(name)))
	return count > 0, err
}

func (r *LocationRepository) CreateSector(ctx context.Context, sector *model.Sector) error {
	return r.db.WithContext(ctx).Create(sector).Error
}

func (r *LocationRepository) DeleteSector(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "sectors", id)
}

func (r *LocationRepository) CountStalls(ctx context.Context, sectorID int64) (int64, error) {
	return countWhere(ctx, r.db, "stalls", "sector_id = ?", sectorID)
}

const stallSelect = `
	SELECT
		st.id,
		st.sector_id,
		st.code,
		st.description,
		st.created_at,
		s.name AS sector_name,
		s.zone_id,
		z.name AS zone_name
	FROM stalls st
	JOIN sectors s ON s.id = st.sector_id
	JOIN zones z ON z.id = s.zone_id
`

// ListStalls returns every stall of the zone, or only the given sector's stalls when sectorID is set.
func (r *LocationRepository) ListStalls(ctx context.Context, zoneID int64, sectorID *int64) ([]model.Stall, error) {
	query := stallSelect + " WHERE s.zone_id = ?"
	args := []interface{}{zoneID}
	if sectorID != nil {
		query += " AND st.sector_id = ?"
		args = append(args, *sectorID)
	}
	query += " ORDER BY s.name ASC, st.code ASC"

	var stalls []model.Stall
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&stalls).Error; err != nil {
		return nil, err
	}
	return stalls, nil
}

func (r *LocationRepository) GetStalls(ctx context.Context, ids []int64) ([]model.Stall, error) {
	if len(ids) == 0 {
		return []model.Stall{}, nil
	}
	var stalls []model.Stall
	if err := r.db.WithContext(ctx).Raw(stallSelect+" WHERE st.id IN ? ORDER BY st.id", ids).Scan(&stalls).Error; err != nil {
		return nil, err
	}
	return stalls, nil
}

func (r *LocationRepository) StallCodeExists(ctx context.Context, sectorID int64, code string) (bool, error) {
	count, err := countWhere(ctx, r.db, "stalls", "sector_id = ? AND LOWER(code) = ?", sectorID, strings.ToLower(strings.TrimSpace(code)))
	return count > 0, err
}

func (r *LocationRepository) CreateStall(ctx context.Context, stall *model.Stall) error {
	return r.db.WithContext(ctx).Create(stall).Error
}

func (r *LocationRepository) GetStall(ctx context.Context, id int64) (*model.Stall, error) {
	stalls, err := r.GetStalls(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	if len(stalls) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &stalls[0], nil
}

func (r *LocationRepository) DeleteStall(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "stalls", id)
}

func (r *LocationRepository) CountStallContracts(ctx context.Context, stallID int64) (int64, error) {
	return countWhere(ctx, r.db, "contract_locations", "stall_id = ?", stallID)
}
