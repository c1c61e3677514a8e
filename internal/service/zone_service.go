package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/nurpe/market-leases/internal/model"
)

// ZoneService manages zones together with their sectors and stalls.
type ZoneService struct {
	repo LocationStore
}

func NewZoneService(repo LocationStore) *ZoneService {
	return &ZoneService{repo: repo}
}

type ZoneInput struct {
	Name        string `form:"name" json:"name"`
	Description string `form:"description" json:"description"`
}

type SectorInput struct {
	Name string `form:"name" json:"name"`
}

type StallInput struct {
	SectorID    string `form:"sector_id" json:"sector_id"`
	Code        string `form:"code" json:"code"`
	Description string `form:"description" json:"description"`
}

// ZoneDetail is a zone with its sectors and every stall under them.
type ZoneDetail struct {
	Zone    model.Zone
	Sectors []model.Sector
	Stalls  []model.Stall
}

func (s *ZoneService) List(ctx context.Context, page model.Page) (model.Paged[model.Zone], error) {
	zones, total, err := s.repo.ListZones(ctx, page)
	if err != nil {
		return model.Paged[model.Zone]{}, err
	}
	return model.NewPaged(zones, total, page), nil
}

func (s *ZoneService) ListAll(ctx context.Context) ([]model.Zone, error) {
	return s.repo.ListAllZones(ctx)
}

func (s *ZoneService) Get(ctx context.Context, id int64) (*model.Zone, error) {
	zone, err := s.repo.GetZone(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return zone, nil
}

func (s *ZoneService) Detail(ctx context.Context, id int64) (*ZoneDetail, error) {
	zone, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	sectors, err := s.repo.ListSectors(ctx, id)
	if err != nil {
		return nil, err
	}
	stalls, err := s.repo.ListStalls(ctx, id, nil)
	if err != nil {
		return nil, err
	}
	return &ZoneDetail{Zone: *zone, Sectors: sectors, Stalls: stalls}, nil
}

func (s *ZoneService) Create(ctx context.Context, input ZoneInput) (*model.Zone, error) {
	zone, err := s.validateZone(ctx, input, 0)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateZone(ctx, zone); err != nil {
		return nil, err
	}
	return zone, nil
}

func (s *ZoneService) Update(ctx context.Context, id int64, input ZoneInput) (*model.Zone, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	zone, err := s.validateZone(ctx, input, id)
	if err != nil {
		return nil, err
	}
	zone.ID = id
	if err := s.repo.UpdateZone(ctx, zone); err != nil {
		return nil, err
	}
	return zone, nil
}

func (s *ZoneService) Delete(ctx context.Context, id int64) error {
	zone, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	count, err := s.repo.CountSectors(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return conflict(fmt.Sprintf("No se puede eliminar la zona %q porque tiene %d sector(es).", zone.Name, count))
	}
	return notFound(s.repo.DeleteZone(ctx, id))
}

func (s *ZoneService) Sectors(ctx context.Context, zoneID int64) ([]model.Sector, error) {
	if _, err := s.Get(ctx, zoneID); err != nil {
		return nil, err
	}
	return s.repo.ListSectors(ctx, zoneID)
}

func (s *ZoneService) CreateSector(ctx context.Context, zoneID int64, input SectorInput) (*model.Sector, error) {
	if _, err := s.Get(ctx, zoneID); err != nil {
		return nil, err
	}
	v := &ValidationError{}
	name := strings.TrimSpace(input.Name)
	switch n := utf8.RuneCountInString(name); {
	case n == 0:
		v.Add("name", "El nombre del sector es requerido.")
	case n > 100:
		v.Add("name", "El nombre del sector no puede exceder 100 caracteres.")
	default:
		exists, err := s.repo.SectorNameExists(ctx, zoneID, name)
		if err != nil {
			return nil, err
		}
		if exists {
			v.Add("name", fmt.Sprintf("Ya existe un sector %q en esta zona.", name))
		}
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	sector := &model.Sector{ZoneID: zoneID, Name: name}
	if err := s.repo.CreateSector(ctx, sector); err != nil {
		return nil, err
	}
	return sector, nil
}

func (s *ZoneService) DeleteSector(ctx context.Context, id int64) (*model.Sector, error) {
	sector, err := s.repo.GetSector(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	count, err := s.repo.CountStalls(ctx, id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, conflict(fmt.Sprintf("No se puede eliminar el sector %q porque tiene %d local(es).", sector.Name, count))
	}
	if err := s.repo.DeleteSector(ctx, id); err != nil {
		return nil, notFound(err)
	}
	return sector, nil
}

func (s *ZoneService) CreateStall(ctx context.Context, zoneID int64, input StallInput) (*model.Stall, error) {
	v := &ValidationError{}
	stall := &model.Stall{
		Code:        strings.TrimSpace(input.Code),
		Description: strings.TrimSpace(input.Description),
	}

	sectorID, ok := parseID(input.SectorID)
	if !ok {
		v.Add("sector_id", "Debe seleccionar un sector.")
	} else {
		sector, err := s.repo.GetSector(ctx, sectorID)
		switch {
		case err != nil && notFound(err) != ErrNotFound:
			return nil, err
		case err != nil || sector.ZoneID != zoneID:
			v.Add("sector_id", "El sector seleccionado no pertenece a esta zona.")
		default:
			stall.SectorID = sectorID
		}
	}

	switch n := utf8.RuneCountInString(stall.Code); {
	case n == 0:
		v.Add("code", "El código del local es requerido.")
	case n > 30:
		v.Add("code", "El código del local no puede exceder 30 caracteres.")
	case stall.SectorID != 0:
		exists, err := s.repo.StallCodeExists(ctx, stall.SectorID, stall.Code)
		if err != nil {
			return nil, err
		}
		if exists {
			v.Add("code", fmt.Sprintf("Ya existe un local con el código %q en este sector.", stall.Code))
		}
	}
	if utf8.RuneCountInString(stall.Description) > 255 {
		v.Add("description", "La descripción no puede exceder 255 caracteres.")
	}

	if err := v.Err(); err != nil {
		return nil, err
	}
	if err := s.repo.CreateStall(ctx, stall); err != nil {
		return nil, err
	}
	return stall, nil
}

func (s *ZoneService) DeleteStall(ctx context.Context, id int64) (*model.Stall, error) {
	stall, err := s.repo.GetStall(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	count, err := s.repo.CountStallContracts(ctx, id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, conflict(fmt.Sprintf("No se puede eliminar el local %q porque está asignado a %d contrato(s).", stall.Code, count))
	}
	if err := s.repo.DeleteStall(ctx, id); err != nil {
		return nil, notFound(err)
	}
	return stall, nil
}

// Stalls lists the zone's stalls across all its sectors, or only one sector's when sectorID is set.
func (s *ZoneService) Stalls(ctx context.Context, zoneID int64, sectorID *int64) ([]model.Stall, error) {
	if zoneID <= 0 {
		return nil, fmt.Errorf("%w: zone_id is required", ErrInvalidInput)
	}
	if sectorID != nil && *sectorID <= 0 {
		return nil, fmt.Errorf("%w: sector_id must be positive", ErrInvalidInput)
	}
	stalls, err := s.repo.ListStalls(ctx, zoneID, sectorID)
	if err != nil {
		return nil, err
	}
	if stalls == nil {
		stalls = []model.Stall{}
	}
	return stalls, nil
}

func (s *ZoneService) validateZone(ctx context.Context, input ZoneInput, excludeID int64) (*model.Zone, error) {
	v := &ValidationError{}
	zone := &model.Zone{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
	}
	switch n := utf8.RuneCountInString(zone.Name); {
	case n == 0:
		v.Add("name", "El nombre de la zona es requerido.")
	case n > 100:
		v.Add("name", "El nombre de la zona no puede exceder 100 caracteres.")
	default:
		exists, err := s.repo.ZoneNameExists(ctx, zone.Name, excludeID)
		if err != nil {
			return nil, err
		}
		if exists {
			v.Add("name", fmt.Sprintf("Ya existe una zona con el nombre %q.", zone.Name))
		}
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	return zone, nil
}
