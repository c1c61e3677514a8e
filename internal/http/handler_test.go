package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nurpe/market-leases/internal/auth"
	"github.com/nurpe/market-leases/internal/config"
	"github.com/nurpe/market-leases/internal/excel"
	"github.com/nurpe/market-leases/internal/http/middleware"
	"github.com/nurpe/market-leases/internal/model"
	"github.com/nurpe/market-leases/internal/service"
)

type fiscalYearStore struct {
	service.FiscalYearStore
	years     map[int64]model.FiscalYear
	contracts map[int64]int64
	deleted   []int64
}

func (s *fiscalYearStore) List(context.Context, model.Page) ([]model.FiscalYear, int64, error) {
	result := make([]model.FiscalYear, 0, len(s.years))
	for _, year := range s.years {
		result = append(result, year)
	}
	return result, int64(len(result)), nil
}

func (s *fiscalYearStore) Get(_ context.Context, id int64) (*model.FiscalYear, error) {
	year, ok := s.years[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &year, nil
}

func (s *fiscalYearStore) CountContracts(_ context.Context, id int64) (int64, error) {
	return s.contracts[id], nil
}

func (s *fiscalYearStore) Delete(_ context.Context, id int64) error {
	delete(s.years, id)
	s.deleted = append(s.deleted, id)
	return nil
}

type locationStore struct {
	service.LocationStore
	zones   map[int64]model.Zone
	sectors []model.Sector
	stalls  []model.Stall
}

func (s *locationStore) GetZone(_ context.Context, id int64) (*model.Zone, error) {
	zone, ok := s.zones[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &zone, nil
}

func (s *locationStore) ListSectors(_ context.Context, zoneID int64) ([]model.Sector, error) {
	var result []model.Sector
	for _, sector := range s.sectors {
		if sector.ZoneID == zoneID {
			result = append(result, sector)
		}
	}
	return result, nil
}

func (s *locationStore) ListStalls(_ context.Context, zoneID int64, sectorID *int64) ([]model.Stall, error) {
	var result []model.Stall
	for _, stall := range s.stalls {
		if stall.ZoneID != zoneID || (sectorID != nil && stall.SectorID != *sectorID) {
			continue
		}
		result = append(result, stall)
	}
	return result, nil
}

type reportStore struct {
	payments []model.ReportPayment
}

func (s reportStore) ListPayments(context.Context, time.Time, time.Time, []model.PaymentStatus) ([]model.ReportPayment, error) {
	return s.payments, nil
}

type principals map[int64]model.Principal

func (p principals) LoadPrincipal(_ context.Context, userID int64) (*model.Principal, error) {
	principal, ok := p[userID]
	if !ok {
		return nil, service.ErrUnauthenticated
	}
	return &principal, nil
}

type testServer struct {
	router *gin.Engine
	tokens *auth.TokenManager
	years  *fiscalYearStore
}

func day(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	years := &fiscalYearStore{
		years: map[int64]model.FiscalYear{
			5: {ID: 5, Year: 2025, StartDate: day("2025-01-01"), EndDate: day("2025-12-31"), Status: model.FiscalYearActive},
			6: {ID: 6, Year: 2026, StartDate: day("2026-01-01"), EndDate: day("2026-12-31"), Status: model.FiscalYearActive},
		},
		contracts: map[int64]int64{5: 2},
	}
	locations := &locationStore{
		zones: map[int64]model.Zone{2: {ID: 2, Name: "Norte"}},
		sectors: []model.Sector{
			{ID: 3, ZoneID: 2, Name: "A", StallCount: 2},
			{ID: 4, ZoneID: 2, Name: "B", StallCount: 1},
		},
		stalls: []model.Stall{
			{ID: 10, SectorID: 3, Code: "A-01", SectorName: "A", ZoneID: 2},
			{ID: 11, SectorID: 3, Code: "A-02", SectorName: "A", ZoneID: 2},
			{ID: 12, SectorID: 4, Code: "B-01", SectorName: "B", ZoneID: 2},
		},
	}

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	handler := NewHandler(Services{
		FiscalYears: service.NewFiscalYearService(years),
		Zones:       service.NewZoneService(locations),
		Reports: service.NewReportService(reportStore{payments: []model.ReportPayment{
			{ID: 1, PaymentReference: "CT000001-001", PaymentDate: day("2025-03-01"), MultiplierFactor: decimal.NewFromInt(2),
				Status: model.PaymentPaid, EuroRate: decimal.NewNullDecimal(decimal.NewFromInt(40)),
				AwardeeID: 7, AwardeeName: "Ana Rojas", AwardeeIDNumber: "V1", FiscalYearID: 5, FiscalYear: 2025},
		}}, excel.NewGenerator()),
	}, Options{Tokens: tokens}, zerolog.Nop())

	loader := principals{
		1: {UserID: 1, Username: "admin", FullName: "Ana Admin", Role: model.RoleAdmin},
		2: {UserID: 2, Username: "caja", Role: model.RoleOperator},
	}
	router, err := NewRouter(handler, middleware.Auth(tokens, loader, zerolog.Nop()), config.HTTPConfig{}, "test", zerolog.Nop())
	require.NoError(t, err)
	return &testServer{router: router, tokens: tokens, years: years}
}

func (s *testServer) do(t *testing.T, userID int64, method, target, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	for key, value := range header {
		req.Header.Set(key, value)
	}
	if userID > 0 {
		token, err := s.tokens.Issue(userID)
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: middleware.CookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

var jsonBody = map[string]string{"Content-Type": "application/json", "Accept": "application/json"}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestAjax_RequiresSession(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, 0, http.MethodPost, "/ajax/fiscal-year", `{"id":5}`, jsonBody)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, false, decode(t, rec)["success"])
}

func TestAjax_MethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/ajax/fiscal-year", "/ajax/sectors", "/ajax/stalls"} {
		for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
			rec := s.do(t, 1, method, path, "", nil)
			assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, method+" "+path)
		}
	}
}

func TestAjax_WrongMethodWithoutSessionIsUnauthorized(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/ajax/fiscal-year", "/ajax/sectors", "/ajax/stalls"} {
		rec := s.do(t, 0, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		assert.Equal(t, false, decode(t, rec)["success"])
	}
}

func TestAjax_FiscalYear(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, 2, http.MethodPost, "/ajax/fiscal-year", `{"id":5}`, jsonBody)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"fiscal_year":{"id":5,"year":2025,"start_date":"2025-01-01","end_date":"2025-12-31","status":"active"}}`, rec.Body.String())

	rec = s.do(t, 2, http.MethodPost, "/ajax/fiscal-year", "id=5", map[string]string{"Content-Type": "application/x-www-form-urlencoded"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"end_date":"2025-12-31"`)

	rec = s.do(t, 2, http.MethodPost, "/ajax/fiscal-year", `{}`, jsonBody)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, 2, http.MethodPost, "/ajax/fiscal-year", `{"id":"abc"}`, jsonBody)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, 2, http.MethodPost, "/ajax/fiscal-year", `{"id":99}`, jsonBody)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, decode(t, rec)["success"])
}

func TestAjax_Sectors(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, 2, http.MethodPost, "/ajax/sectors", `{"zone_id":2}`, jsonBody)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":[
		{"id":3,"name":"A","zone_id":2,"stall_count":2},
		{"id":4,"name":"B","zone_id":2,"stall_count":1}]}`, rec.Body.String())

	rec = s.do(t, 2, http.MethodPost, "/ajax/sectors", `{"zone_id":99}`, jsonBody)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAjax_Stalls(t *testing.T) {
	s := newTestServer(t)

	codes := func(rec *httptest.ResponseRecorder) []string {
		var body struct {
			Success bool       `json:"success"`
			Data    []stallDTO `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.True(t, body.Success)
		result := make([]string, 0, len(body.Data))
		for _, stall := range body.Data {
			result = append(result, stall.Code)
		}
		return result
	}

	rec := s.do(t, 2, http.MethodPost, "/ajax/stalls", `{"zone_id":2,"sector_id":null}`, jsonBody)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"A-01", "A-02", "B-01"}, codes(rec))

	rec = s.do(t, 2, http.MethodPost, "/ajax/stalls", `{"zone_id":2,"sector_id":3}`, jsonBody)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"A-01", "A-02"}, codes(rec))

	rec = s.do(t, 2, http.MethodPost, "/ajax/stalls", `{"zone_id":2,"sector_id":4}`, jsonBody)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"B-01"}, codes(rec))

	rec = s.do(t, 2, http.MethodPost, "/ajax/stalls", `{"zone_id":2,"sector_id":"x"}`, jsonBody)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, 2, http.MethodPost, "/ajax/stalls", `{"sector_id":3}`, jsonBody)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, 2, http.MethodPost, "/ajax/stalls", `{"zone_id":99}`, jsonBody)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteFiscalYear(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, 1, http.MethodPost, "/fiscal-years/5/delete", "", jsonBody)
	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["message"], "2 contrato(s)")
	assert.Empty(t, s.years.deleted)

	rec = s.do(t, 1, http.MethodPost, "/fiscal-years/6/delete", "", jsonBody)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"message":"Año fiscal eliminado correctamente."}`, rec.Body.String())
	assert.Equal(t, []int64{6}, s.years.deleted)

	rec = s.do(t, 1, http.MethodPost, "/fiscal-years/6/delete", "", jsonBody)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteFiscalYear_OperatorForbidden(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, 2, http.MethodPost, "/fiscal-years/6/delete", "", jsonBody)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, s.years.deleted)
}

func TestDeleteFiscalYear_OperatorPageRequestFlashesAndRedirects(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, 2, http.MethodPost, "/fiscal-years/6/delete", "", map[string]string{
		"Accept":  "text/html",
		"Referer": "http://localhost/fiscal-years?page=2",
	})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/fiscal-years?page=2", rec.Header().Get("Location"))
	assert.Empty(t, s.years.deleted)

	next, _ := gin.CreateTestContext(httptest.NewRecorder())
	next.Request = httptest.NewRequest(http.MethodGet, "/fiscal-years", nil)
	for _, cookie := range rec.Result().Cookies() {
		next.Request.AddCookie(cookie)
	}
	flash := popFlash(next)
	require.NotNil(t, flash)
	assert.Equal(t, Flash{Type: flashDanger, Message: middleware.MsgForbidden}, *flash)
}

func TestCreateFiscalYear_MalformedBody(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, 2, http.MethodPost, "/fiscal-years", `{"year":`, map[string]string{
		"Content-Type": "application/json",
		"Accept":       "text/html",
	})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/fiscal-years", rec.Header().Get("Location"))
	assert.Len(t, s.years.years, 2)

	next, _ := gin.CreateTestContext(httptest.NewRecorder())
	next.Request = httptest.NewRequest(http.MethodGet, "/fiscal-years", nil)
	for _, cookie := range rec.Result().Cookies() {
		next.Request.AddCookie(cookie)
	}
	flash := popFlash(next)
	require.NotNil(t, flash)
	assert.Equal(t, flashDanger, flash.Type)
}

func TestPages_RedirectToLogin(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, 0, http.MethodGet, "/fiscal-years", "", map[string]string{"Accept": "text/html"})

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login?next="+url.QueryEscape("/fiscal-years"), rec.Header().Get("Location"))
}

func TestPages_Render(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, 0, http.MethodGet, "/login", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="password"`)

	rec = s.do(t, 1, http.MethodGet, "/fiscal-years", "", map[string]string{"Accept": "text/html"})
	require.Equal(t, http.StatusOK, rec.Code)
	page := rec.Body.String()
	assert.Contains(t, page, "Ana Admin")
	assert.Contains(t, page, "31/12/2025")
	assert.Contains(t, page, `data-delete-url="/fiscal-years/5/delete"`)

	rec = s.do(t, 2, http.MethodGet, "/fiscal-years", "", map[string]string{"Accept": "text/html"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "data-delete-url")

	rec = s.do(t, 1, http.MethodGet, "/no-such-page", "", map[string]string{"Accept": "text/html"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Página no encontrada")
}

func TestPages_MissingRecordFlashesAndRedirects(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, 1, http.MethodGet, "/fiscal-years/99/edit", "", map[string]string{"Accept": "text/html"})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/fiscal-years", rec.Header().Get("Location"))
	var flash *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == flashCookie {
			flash = cookie
		}
	}
	require.NotNil(t, flash)
	assert.NotEmpty(t, flash.Value)
}

func TestReports(t *testing.T) {
	s := newTestServer(t)
	html := map[string]string{"Accept": "text/html"}

	rec := s.do(t, 2, http.MethodGet, "/reports", "", html)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="period_start"`)

	rec = s.do(t, 2, http.MethodGet, "/reports?mode=AWARDEE&period_start=2025-03-01&period_end=2025-03-31", "", html)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ana Rojas (V1)")
	assert.Contains(t, rec.Body.String(), "/reports/payments.xlsx?")

	rec = s.do(t, 2, http.MethodGet, "/reports?period_start=2025-03-31&period_end=2025-03-01", "", html)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "is-invalid")

	rec = s.do(t, 2, http.MethodGet, "/reports/payments.xlsx?period_start=2025-03-01&period_end=2025-03-31", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "cobranza-awardee-20250301-20250331.xlsx")
}

func TestSafeNext(t *testing.T) {
	assert.Equal(t, "/contracts?page=2", safeNext("/contracts?page=2"))
	assert.Equal(t, "", safeNext("https://evil.example/"))
	assert.Equal(t, "", safeNext("//evil.example/"))
	assert.Equal(t, "", safeNext(""))
}

func TestPageBase(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/contracts?page=3&search=ana", nil)
	assert.Equal(t, "/contracts?search=ana&", pageBase(c))

	c.Request = httptest.NewRequest(http.MethodGet, "/zones?page=2", nil)
	assert.Equal(t, "/zones?", pageBase(c))
}

func TestFlash_RoundTrip(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	setFlash(c, flashSuccess, "Contrato eliminado.")

	next, _ := gin.CreateTestContext(httptest.NewRecorder())
	next.Request = httptest.NewRequest(http.MethodGet, "/contracts", nil)
	for _, cookie := range rec.Result().Cookies() {
		next.Request.AddCookie(cookie)
	}

	flash := popFlash(next)
	require.NotNil(t, flash)
	assert.Equal(t, Flash{Type: flashSuccess, Message: "Contrato eliminado."}, *flash)
}
