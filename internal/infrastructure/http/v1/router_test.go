package v1

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"stockcard/internal/core/apperror"
	"stockcard/internal/core/entity"
	"stockcard/internal/core/fiscal"
	"stockcard/internal/core/id"
	"stockcard/internal/core/types"
	"stockcard/internal/domain/auth"
	"stockcard/internal/domain/catalogs/nomenclature"
	"stockcard/internal/domain/registers/stock"
	"stockcard/internal/domain/reports"
	"stockcard/pkg/logger"
)

type fakeReports struct {
	cardReq reports.StockCardRequest
	sitReq  reports.SituationRequest
	err     error
	panic   bool

	loc     *time.Location
	opening time.Time
}

func (f *fakeReports) StockCard(_ context.Context, req reports.StockCardRequest) (*reports.StockCard, error) {
	if f.panic {
		panic("boom")
	}
	f.cardReq = req
	if f.err != nil {
		return nil, f.err
	}
	opening := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	if !f.opening.IsZero() {
		opening = f.opening
	}
	price := decimal.RequireFromString("1.5")
	return &reports.StockCard{
		Year:    req.Year,
		Article: nomenclature.Article{ID: "A", Label: "Chair", Catalogue: "CH-1"},
		Trace: []stock.BalancePoint{
			{Event: entity.StockMovement{Date: opening, Kind: entity.MovementOpening, Reference: "INV-1"}, RunningBalance: types.NewQuantity(10)},
			{Event: entity.StockMovement{Date: opening.AddDate(0, 1, 0), Kind: entity.MovementEntry, Quantity: types.NewQuantity(5), UnitPrice: &price}, RunningBalance: types.NewQuantity(15)},
		},
		Summary: stock.Summarize(types.NewQuantity(10), types.NewQuantity(5), 0),
		Status:  stock.StatusNormal,
	}, nil
}

func (f *fakeReports) StockSituation(_ context.Context, req reports.SituationRequest) (*reports.Situation, error) {
	f.sitReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &reports.Situation{Year: req.Year}, nil
}

func (f *fakeReports) Location() *time.Location {
	if f.loc != nil {
		return f.loc
	}
	return time.UTC
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func newTestRouter(t *testing.T, svc *fakeReports, cfg RouterConfig) http.Handler {
	t.Helper()
	core, _ := observer.New(zapcore.DebugLevel)
	cfg.Logger = logger.NewFromCore(core)
	cfg.Reports = svc
	if cfg.Source == nil {
		cfg.Source = fakePinger{}
	}
	cfg.Clock = fiscal.FixedClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	return NewRouter(cfg)
}

func get(t *testing.T, h http.Handler, target string, headers ...string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var body map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	}
	return rec, body
}

func TestHealth(t *testing.T) {
	h := newTestRouter(t, &fakeReports{}, RouterConfig{SourceKind: "rest", Version: "test"})

	rec, body := get(t, h, "/health/live")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])

	rec, body = get(t, h, "/health/info")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "rest", body["source"])

	down := newTestRouter(t, &fakeReports{}, RouterConfig{Source: fakePinger{err: errors.New("refused")}})
	rec, body = get(t, down, "/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "error", body["status"])
}

func TestStockCard(t *testing.T) {
	svc := &fakeReports{}
	h := newTestRouter(t, svc, RouterConfig{})

	rec, body := get(t, h, "/api/v1/reports/stock-card?catalogue=CH-1", "X-Request-ID", "req-1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-1", rec.Header().Get("X-Request-ID"))

	assert.Equal(t, fiscal.Year(2024), svc.cardReq.Year, "year defaults to the clock's year")
	assert.Equal(t, "CH-1", svc.cardReq.Catalogue)
	assert.True(t, svc.cardReq.ArticleID.IsNil())

	rows := body["rows"].([]any)
	require.Len(t, rows, 2)
	first := rows[0].(map[string]any)
	assert.Equal(t, "opening_balance", first["kind"])
	assert.Equal(t, "2024-01-02", first["date"])
	assert.InDelta(t, 15.0, rows[1].(map[string]any)["balance"], 1e-9)
	assert.Equal(t, "1.5", rows[1].(map[string]any)["unitPrice"])
	assert.Equal(t, "7.5", rows[1].(map[string]any)["amount"])
	assert.NotContains(t, first, "amount")
}

func TestStockCard_DatesInReportZone(t *testing.T) {
	svc := &fakeReports{
		loc:     time.FixedZone("UTC+3", 3*3600),
		opening: time.Date(2023, 12, 31, 22, 0, 0, 0, time.UTC),
	}
	h := newTestRouter(t, svc, RouterConfig{})

	rec, body := get(t, h, "/api/v1/reports/stock-card?articleId=A")
	require.Equal(t, http.StatusOK, rec.Code)

	rows := body["rows"].([]any)
	require.Len(t, rows, 2)
	assert.Equal(t, "2024-01-01", rows[0].(map[string]any)["date"])
	assert.Equal(t, "2024-02-01", rows[1].(map[string]any)["date"])
}

func TestUnknownRoute(t *testing.T) {
	h := newTestRouter(t, &fakeReports{}, RouterConfig{})

	rec, body := get(t, h, "/api/v1/reports/nothing-here")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, apperror.CodeNotFound, body["code"])
}

func TestStockCard_ExplicitYearAndID(t *testing.T) {
	svc := &fakeReports{}
	h := newTestRouter(t, svc, RouterConfig{})

	rec, _ := get(t, h, "/api/v1/reports/stock-card?articleId=42&year=2023")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, fiscal.Year(2023), svc.cardReq.Year)
	assert.Equal(t, id.ID("42"), svc.cardReq.ArticleID)
}

func TestStockCard_Errors(t *testing.T) {
	t.Run("bad year", func(t *testing.T) {
		h := newTestRouter(t, &fakeReports{}, RouterConfig{})
		rec, body := get(t, h, "/api/v1/reports/stock-card?catalogue=X&year=abc")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, apperror.CodeValidation, body["code"])
	})

	t.Run("unresolved", func(t *testing.T) {
		h := newTestRouter(t, &fakeReports{err: apperror.NewUnresolvedArticle("X")}, RouterConfig{})
		rec, body := get(t, h, "/api/v1/reports/stock-card?catalogue=X")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, apperror.CodeUnresolvedArticle, body["code"])
	})

	t.Run("missing collection", func(t *testing.T) {
		h := newTestRouter(t, &fakeReports{err: apperror.NewMissingCollection("inventory", errors.New("down"))}, RouterConfig{})
		rec, body := get(t, h, "/api/v1/reports/stock-card?catalogue=X")
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Equal(t, apperror.CodeMissingCollection, body["code"])
	})

	t.Run("plain error is hidden", func(t *testing.T) {
		h := newTestRouter(t, &fakeReports{err: errors.New("secret detail")}, RouterConfig{})
		rec, body := get(t, h, "/api/v1/reports/stock-card?catalogue=X")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, apperror.CodeInternal, body["code"])
		assert.NotContains(t, rec.Body.String(), "secret detail")
	})

	t.Run("panic", func(t *testing.T) {
		h := newTestRouter(t, &fakeReports{panic: true}, RouterConfig{})
		rec, body := get(t, h, "/api/v1/reports/stock-card?catalogue=X")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, apperror.CodeInternal, body["code"])
	})
}

func TestStockSituation_Filters(t *testing.T) {
	svc := &fakeReports{}
	h := newTestRouter(t, svc, RouterConfig{})

	rec, body := get(t, h, "/api/v1/reports/stock-situation?warehouseId=W1&catalogue=A,B&catalogue=C")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, fiscal.Year(2024), svc.sitReq.Year)
	require.NotNil(t, svc.sitReq.WarehouseID)
	assert.Equal(t, id.ID("W1"), *svc.sitReq.WarehouseID)
	assert.Nil(t, svc.sitReq.CategoryID)
	assert.Equal(t, []string{"A", "B", "C"}, svc.sitReq.Catalogues)
	assert.Equal(t, []any{}, body["groups"])
}

func TestAuth(t *testing.T) {
	jwtSvc := auth.NewJWTService(auth.DefaultJWTConfig("secret", "stockcard"))
	h := newTestRouter(t, &fakeReports{}, RouterConfig{JWTValidator: jwtSvc})

	rec, body := get(t, h, "/api/v1/reports/stock-situation")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, apperror.CodeUnauthorized, body["code"])

	rec, _ = get(t, h, "/api/v1/reports/stock-situation", "Authorization", "Bearer nope")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, _, err := jwtSvc.GenerateToken("u-1")
	require.NoError(t, err)
	rec, _ = get(t, h, "/api/v1/reports/stock-situation", "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = get(t, h, "/health/live")
	assert.Equal(t, http.StatusOK, rec.Code, "health stays public")
}
