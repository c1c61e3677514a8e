package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/nurpe/market-leases/internal/model"
)

const msgEmptyContract = "Debe agregar al menos una categoría de negocio o un local."

type ContractService struct {
	contracts   ContractStore
	payments    PaymentStore
	awardees    AwardeeStore
	fiscalYears FiscalYearStore
	categories  CategoryStore
	locations   LocationStore
}

func NewContractService(
	contracts ContractStore,
	payments PaymentStore,
	awardees AwardeeStore,
	fiscalYears FiscalYearStore,
	categories CategoryStore,
	locations LocationStore,
) *ContractService {
	return &ContractService{
		contracts:   contracts,
		payments:    payments,
		awardees:    awardees,
		fiscalYears: fiscalYears,
		categories:  categories,
		locations:   locations,
	}
}

// ContractInput is the submitted contract form. BusinessCategories and Locations
// carry the JSON payloads of the hidden fields built by the form script.
type ContractInput struct {
	AwardeeID          string `form:"awardee_id" json:"awardee_id"`
	FiscalYearID       string `form:"fiscal_year_id" json:"fiscal_year_id"`
	StartDate          string `form:"start_date" json:"start_date"`
	EndDate            string `form:"end_date" json:"end_date"`
	Type               string `form:"type" json:"type"`
	Mode               string `form:"contract_mode" json:"contract_mode"`
	BusinessCategories string `form:"business_categories" json:"business_categories"`
	Locations          string `form:"locations" json:"locations"`
}

// CategoryRef identifies a catalog item in the business_categories payload.
type CategoryRef struct {
	Type model.CategoryKind `json:"type"`
	ID   int64              `json:"id"`
}

type categoryPayload struct {
	Type       model.CategoryKind `json:"type"`
	ID         json.Number        `json:"id"`
	CategoryID json.Number        `json:"category_id"`
}

type locationPayload struct {
	StallID json.Number `json:"stall_id"`
	ID      json.Number `json:"id"`
}

func ContractInputFrom(contract *model.Contract) ContractInput {
	refs := make([]CategoryRef, 0, len(contract.Categories))
	for _, category := range contract.Categories {
		refs = append(refs, CategoryRef{Type: category.CategoryType, ID: category.CategoryID})
	}
	stalls := make([]map[string]int64, 0, len(contract.Locations))
	for _, location := range contract.Locations {
		stalls = append(stalls, map[string]int64{"stall_id": location.StallID})
	}
	categoriesJSON, _ := json.Marshal(refs)
	locationsJSON, _ := json.Marshal(stalls)

	return ContractInput{
		AwardeeID:          strconv.FormatInt(contract.AwardeeID, 10),
		FiscalYearID:       strconv.FormatInt(contract.FiscalYearID, 10),
		StartDate:          contract.StartDate.Format(dateLayout),
		EndDate:            contract.EndDate.Format(dateLayout),
		Type:               string(contract.Type),
		Mode:               string(contract.Mode),
		BusinessCategories: string(categoriesJSON),
		Locations:          string(locationsJSON),
	}
}

// DecodeCategories parses the business_categories payload; duplicates are collapsed.
func DecodeCategories(raw string) ([]CategoryRef, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return nil, nil
	}
	var items []categoryPayload
	decoder := json.NewDecoder(bytes.NewReader([]byte(raw)))
	decoder.UseNumber()
	if err := decoder.Decode(&items); err != nil {
		return nil, err
	}

	seen := make(map[CategoryRef]struct{}, len(items))
	refs := make([]CategoryRef, 0, len(items))
	for _, item := range items {
		number := item.ID
		if number == "" {
			number = item.CategoryID
		}
		id, err := number.Int64()
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid category id %q", number)
		}
		if !item.Type.Valid() {
			return nil, fmt.Errorf("invalid category type %q", item.Type)
		}
		ref := CategoryRef{Type: item.Type, ID: id}
		if _, dup := seen[ref]; dup {
			continue
		}
		seen[ref] = struct{}{}
		refs = append(refs, ref)
	}
	return refs, nil
}

// DecodeLocations accepts either a list of stall ids or a list of {"stall_id": n} objects.
func DecodeLocations(raw string) ([]int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return nil, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, err
	}

	seen := make(map[int64]struct{}, len(items))
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		id, err := decodeStallID(item)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

func decodeStallID(item json.RawMessage) (int64, error) {
	decoder := json.NewDecoder(bytes.NewReader(item))
	decoder.UseNumber()

	var number json.Number
	if err := decoder.Decode(&number); err == nil {
		return positive(number)
	}

	var payload locationPayload
	decoder = json.NewDecoder(bytes.NewReader(item))
	decoder.UseNumber()
	if err := decoder.Decode(&payload); err != nil {
		return 0, err
	}
	if payload.StallID != "" {
		return positive(payload.StallID)
	}
	return positive(payload.ID)
}

func positive(number json.Number) (int64, error) {
	id, err := number.Int64()
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid stall id %q", number)
	}
	return id, nil
}

// ContractDetail is everything the contract page shows.
type ContractDetail struct {
	Contract   model.Contract
	Awardee    model.Awardee
	FiscalYear model.FiscalYear
	Payments   PaymentSummary
}

// ContractFormOptions feeds the select boxes of the contract form.
type ContractFormOptions struct {
	Awardees         []model.Awardee
	FiscalYears      []model.FiscalYear
	InternalItems    []model.CategoryItem
	ExternalItems    []model.CategoryItem
	Zones            []model.Zone
	SelectedStalls   []model.Stall
	SelectedCategory []model.CategoryItem
}

func (s *ContractService) List(ctx context.Context, filter model.ContractFilter, page model.Page) (model.Paged[model.Contract], error) {
	contracts, total, err := s.contracts.List(ctx, filter, page)
	if err != nil {
		return model.Paged[model.Contract]{}, err
	}
	return model.NewPaged(contracts, total, page), nil
}

func (s *ContractService) Get(ctx context.Context, id int64) (*model.Contract, error) {
	contract, err := s.contracts.Get(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return contract, nil
}

func (s *ContractService) Detail(ctx context.Context, id int64) (*ContractDetail, error) {
	contract, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	awardee, err := s.awardees.Get(ctx, contract.AwardeeID)
	if err != nil {
		return nil, notFound(err)
	}
	fiscalYear, err := s.fiscalYears.Get(ctx, contract.FiscalYearID)
	if err != nil {
		return nil, notFound(err)
	}
	payments, err := s.payments.ListByContract(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ContractDetail{
		Contract:   *contract,
		Awardee:    *awardee,
		FiscalYear: *fiscalYear,
		Payments:   Summarize(payments),
	}, nil
}

// FormOptions loads the catalogs for the contract form. input is the submitted (or stored)
// form so the already chosen categories and stalls can be rendered back.
func (s *ContractService) FormOptions(ctx context.Context, input ContractInput) (*ContractFormOptions, error) {
	opts := &ContractFormOptions{}
	var err error
	if opts.Awardees, err = s.awardees.ListAll(ctx); err != nil {
		return nil, err
	}
	if opts.FiscalYears, err = s.fiscalYears.ListAll(ctx); err != nil {
		return nil, err
	}
	if opts.InternalItems, err = s.categories.ListAll(ctx, model.CategoryInternal); err != nil {
		return nil, err
	}
	if opts.ExternalItems, err = s.categories.ListAll(ctx, model.CategoryExternal); err != nil {
		return nil, err
	}
	if opts.Zones, err = s.locations.ListAllZones(ctx); err != nil {
		return nil, err
	}

	if refs, decodeErr := DecodeCategories(input.BusinessCategories); decodeErr == nil {
		known := map[CategoryRef]model.CategoryItem{}
		for _, item := range append(append([]model.CategoryItem{}, opts.InternalItems...), opts.ExternalItems...) {
			known[CategoryRef{Type: item.Kind, ID: item.ID}] = item
		}
		for _, ref := range refs {
			if item, ok := known[ref]; ok {
				opts.SelectedCategory = append(opts.SelectedCategory, item)
			}
		}
	}
	if ids, decodeErr := DecodeLocations(input.Locations); decodeErr == nil && len(ids) > 0 {
		if opts.SelectedStalls, err = s.locations.GetStalls(ctx, ids); err != nil {
			return nil, err
		}
	}
	return opts, nil
}

func (s *ContractService) Create(ctx context.Context, input ContractInput) (*model.Contract, error) {
	contract, err := s.validate(ctx, input)
	if err != nil {
		return nil, err
	}
	err = s.contracts.Create(ctx, contract, func(contractID int64) []model.ContractPayment {
		contract.ID = contractID
		return BuildSchedule(contract, nil)
	})
	if err != nil {
		return nil, err
	}
	return contract, nil
}

// Update replaces the contract data and both association sets, then regenerates
// the pending part of the payment schedule.
func (s *ContractService) Update(ctx context.Context, id int64, input ContractInput) (*model.Contract, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	contract, err := s.validate(ctx, input)
	if err != nil {
		return nil, err
	}
	contract.ID = existing.ID
	contract.CreatedAt = existing.CreatedAt

	current, err := s.payments.ListByContract(ctx, id)
	if err != nil {
		return nil, err
	}
	keep := make([]model.ContractPayment, 0, len(current))
	for _, payment := range current {
		if payment.Status != model.PaymentPending {
			keep = append(keep, payment)
		}
	}

	if err := s.contracts.Update(ctx, contract, BuildSchedule(contract, keep)); err != nil {
		return nil, notFound(err)
	}
	return contract, nil
}

func (s *ContractService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return notFound(s.contracts.Delete(ctx, id))
}

// UpdatePaymentStatus sets any known status; there are no transition rules.
func (s *ContractService) UpdatePaymentStatus(ctx context.Context, contractID, paymentID int64, raw string) (*model.ContractPayment, error) {
	status := model.PaymentStatus(strings.TrimSpace(raw))
	if !status.Valid() {
		return nil, fmt.Errorf("%w: estado de pago inválido", ErrInvalidInput)
	}
	payment, err := s.payments.Get(ctx, paymentID)
	if err != nil {
		return nil, notFound(err)
	}
	if payment.ContractID != contractID {
		return nil, ErrNotFound
	}
	if err := s.payments.UpdateStatus(ctx, paymentID, status); err != nil {
		return nil, notFound(err)
	}
	payment.Status = status
	return payment, nil
}

func (s *ContractService) validate(ctx context.Context, input ContractInput) (*model.Contract, error) {
	v := &ValidationError{}
	contract := &model.Contract{}

	if strings.TrimSpace(input.AwardeeID) == "" {
		v.Add("awardee_id", "Debe seleccionar un adjudicatario.")
	} else if awardeeID, ok := parseID(input.AwardeeID); !ok {
		v.Add("awardee_id", "El adjudicatario seleccionado no es válido.")
	} else if _, err := s.awardees.Get(ctx, awardeeID); err != nil {
		if notFound(err) != ErrNotFound {
			return nil, err
		}
		v.Add("awardee_id", "El adjudicatario seleccionado no existe.")
	} else {
		contract.AwardeeID = awardeeID
	}

	var fiscalYear *model.FiscalYear
	if strings.TrimSpace(input.FiscalYearID) == "" {
		v.Add("fiscal_year_id", "Debe seleccionar un año fiscal.")
	} else if fiscalYearID, ok := parseID(input.FiscalYearID); !ok {
		v.Add("fiscal_year_id", "El año fiscal seleccionado no es válido.")
	} else if fy, err := s.fiscalYears.Get(ctx, fiscalYearID); err != nil {
		if notFound(err) != ErrNotFound {
			return nil, err
		}
		v.Add("fiscal_year_id", "El año fiscal seleccionado no existe.")
	} else {
		fiscalYear = fy
		contract.FiscalYearID = fiscalYearID
	}

	start, startOK := parseDate(input.StartDate)
	if !startOK {
		v.Add("start_date", "La fecha de inicio no es válida.")
	}
	end, endOK := parseDate(input.EndDate)
	if !endOK {
		v.Add("end_date", "La fecha de fin no es válida.")
	}
	if startOK && endOK {
		switch {
		case !start.Before(end):
			v.Add("end_date", "La fecha de inicio debe ser anterior a la fecha de fin.")
		case fiscalYear != nil && (!fiscalYear.Contains(start) || !fiscalYear.Contains(end)):
			v.Add("end_date", fmt.Sprintf("Las fechas del contrato deben estar dentro del año fiscal %d (%s a %s).",
				fiscalYear.Year, fiscalYear.StartDate.Format(dateLayout), fiscalYear.EndDate.Format(dateLayout)))
		}
	}
	contract.StartDate = start
	contract.EndDate = end

	contract.Type = model.ContractType(strings.TrimSpace(input.Type))
	if contract.Type != model.ContractSimultaneous && contract.Type != model.ContractAdvance {
		v.Add("type", "El tipo de contrato debe ser simultáneo o anticipado.")
	}
	contract.Mode = model.ContractMode(strings.TrimSpace(input.Mode))
	if contract.Mode != model.ContractMonthly && contract.Mode != model.ContractWeekly {
		v.Add("contract_mode", "La modalidad del contrato debe ser mensual o semanal.")
	}

	refs, err := DecodeCategories(input.BusinessCategories)
	if err != nil {
		v.Add("business_categories", "Las categorías de negocio enviadas no son válidas.")
	}
	stallIDs, err := DecodeLocations(input.Locations)
	if err != nil {
		v.Add("locations", "Los locales enviados no son válidos.")
	}
	if !v.Has("business_categories") && !v.Has("locations") && len(refs) == 0 && len(stallIDs) == 0 {
		v.Add("business_categories", msgEmptyContract)
	}

	categories, err := s.resolveCategories(ctx, v, refs)
	if err != nil {
		return nil, err
	}
	contract.Categories = categories

	locations, err := s.resolveLocations(ctx, v, stallIDs)
	if err != nil {
		return nil, err
	}
	contract.Locations = locations

	if err := v.Err(); err != nil {
		return nil, err
	}
	return contract, nil
}

func (s *ContractService) resolveCategories(ctx context.Context, v *ValidationError, refs []CategoryRef) ([]model.ContractCategory, error) {
	byKind := map[model.CategoryKind][]int64{}
	for _, ref := range refs {
		byKind[ref.Type] = append(byKind[ref.Type], ref.ID)
	}
	found := map[model.CategoryKind]map[int64]model.CategoryItem{}
	for kind, ids := range byKind {
		items, err := s.categories.GetMany(ctx, kind, ids)
		if err != nil {
			return nil, err
		}
		found[kind] = items
	}

	categories := make([]model.ContractCategory, 0, len(refs))
	for _, ref := range refs {
		item, ok := found[ref.Type][ref.ID]
		if !ok {
			v.Add("business_categories", fmt.Sprintf("La categoría %s #%d no existe.", KindLabel(ref.Type), ref.ID))
			continue
		}
		categories = append(categories, model.ContractCategory{
			CategoryType:     ref.Type,
			CategoryID:       item.ID,
			Name:             item.Name,
			PaymentCount:     item.PaymentCount,
			InstallationType: item.InstallationType,
		})
	}
	return categories, nil
}

func (s *ContractService) resolveLocations(ctx context.Context, v *ValidationError, ids []int64) ([]model.ContractLocation, error) {
	if len(ids) == 0 {
		return []model.ContractLocation{}, nil
	}
	stalls, err := s.locations.GetStalls(ctx, ids)
	if err != nil {
		return nil, err
	}
	known := make(map[int64]model.Stall, len(stalls))
	for _, stall := range stalls {
		known[stall.ID] = stall
	}

	missing := make([]int64, 0)
	locations := make([]model.ContractLocation, 0, len(ids))
	for _, id := range ids {
		stall, ok := known[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		locations = append(locations, model.ContractLocation{
			StallID:    id,
			StallCode:  stall.Code,
			SectorID:   stall.SectorID,
			SectorName: stall.SectorName,
			ZoneID:     stall.ZoneID,
			ZoneName:   stall.ZoneName,
		})
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	for _, id := range missing {
		v.Add("locations", fmt.Sprintf("El local #%d no existe.", id))
	}
	return locations, nil
}
