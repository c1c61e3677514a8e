package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nurpe/market-leases/internal/model"
)

type fiscalYearDTO struct {
	ID        int64  `json:"id"`
	Year      int    `json:"year"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Status    string `json:"status"`
}

type sectorDTO struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	ZoneID     int64  `json:"zone_id"`
	StallCount int64  `json:"stall_count"`
}

type stallDTO struct {
	ID          int64  `json:"id"`
	Code        string `json:"code"`
	Description string `json:"description"`
	SectorID    int64  `json:"sector_id"`
	SectorName  string `json:"sector_name"`
	ZoneID      int64  `json:"zone_id"`
}

// ajaxFiscalYear returns the dates of a fiscal year so the contract form can fill the end date.
func (h *Handler) ajaxFiscalYear(c *gin.Context) {
	params, ok := h.ajaxParams(c)
	if !ok {
		return
	}
	id, err := requiredID(params["id"])
	if err != nil {
		badRequest(c, "ID de año fiscal inválido.")
		return
	}

	year, err := h.svc.FiscalYears.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"fiscal_year": fiscalYearDTO{
			ID:        year.ID,
			Year:      year.Year,
			StartDate: year.StartDate.Format("2006-01-02"),
			EndDate:   year.EndDate.Format("2006-01-02"),
			Status:    string(year.Status),
		},
	})
}

func (h *Handler) ajaxSectors(c *gin.Context) {
	params, ok := h.ajaxParams(c)
	if !ok {
		return
	}
	zoneID, err := requiredID(params["zone_id"])
	if err != nil {
		badRequest(c, "ID de zona inválido.")
		return
	}

	sectors, err := h.svc.Zones.Sectors(c.Request.Context(), zoneID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	data := make([]sectorDTO, 0, len(sectors))
	for _, sector := range sectors {
		data = append(data, sectorDTO{ID: sector.ID, Name: sector.Name, ZoneID: sector.ZoneID, StallCount: sector.StallCount})
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// ajaxStalls lists every stall of a zone, or of one sector when sector_id is given.
func (h *Handler) ajaxStalls(c *gin.Context) {
	params, ok := h.ajaxParams(c)
	if !ok {
		return
	}
	zoneID, err := requiredID(params["zone_id"])
	if err != nil {
		badRequest(c, "ID de zona inválido.")
		return
	}
	sectorID, err := optionalID(params["sector_id"])
	if err != nil {
		badRequest(c, "ID de sector inválido.")
		return
	}

	ctx := c.Request.Context()
	if _, err := h.svc.Zones.Get(ctx, zoneID); err != nil {
		h.handleError(c, err)
		return
	}
	stalls, err := h.svc.Zones.Stalls(ctx, zoneID, sectorID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": stallDTOs(stalls)})
}

func stallDTOs(stalls []model.Stall) []stallDTO {
	data := make([]stallDTO, 0, len(stalls))
	for _, stall := range stalls {
		data = append(data, stallDTO{
			ID:          stall.ID,
			Code:        stall.Code,
			Description: stall.Description,
			SectorID:    stall.SectorID,
			SectorName:  stall.SectorName,
			ZoneID:      stall.ZoneID,
		})
	}
	return data
}

// ajaxParams reads a JSON or form encoded body into flat string values.
func (h *Handler) ajaxParams(c *gin.Context) (map[string]string, bool) {
	params := map[string]string{}

	if strings.HasPrefix(c.ContentType(), gin.MIMEJSON) {
		var body map[string]interface{}
		decoder := json.NewDecoder(c.Request.Body)
		decoder.UseNumber()
		if err := decoder.Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			badRequest(c, "El cuerpo de la solicitud no es JSON válido.")
			return nil, false
		}
		for key, value := range body {
			switch v := value.(type) {
			case nil:
			case string:
				params[key] = strings.TrimSpace(v)
			case json.Number:
				params[key] = v.String()
			default:
				params[key] = fmt.Sprint(v)
			}
		}
		return params, true
	}

	if err := c.Request.ParseForm(); err != nil {
		badRequest(c, "La solicitud no es válida.")
		return nil, false
	}
	for key := range c.Request.PostForm {
		params[key] = strings.TrimSpace(c.Request.PostForm.Get(key))
	}
	return params, true
}

func requiredID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

// optionalID treats an empty or "null" value as absent.
func optionalID(raw string) (*int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "null") {
		return nil, nil
	}
	id, err := requiredID(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": message})
}
