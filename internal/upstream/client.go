package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/gcec-dev/feedesk-api/internal/models"
	"github.com/gcec-dev/feedesk-api/pkg/config"
	appErrors "github.com/gcec-dev/feedesk-api/pkg/errors"
)

// Observer receives timing for every upstream call.
type Observer interface {
	ObserveUpstream(endpoint string, failed bool, duration time.Duration)
}

// Client wraps the legacy school backend endpoints the fee desk depends on.
// It carries no business logic; callers own reconciliation of the returned
// snapshots with local state.
type Client struct {
	baseURL  string
	httpc    *http.Client
	logger   *zap.Logger
	observer Observer
}

// New constructs an upstream client from configuration. observer may be nil.
func New(cfg config.UpstreamConfig, logger *zap.Logger, observer Observer) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:  cfg.BaseURL,
		httpc:    &http.Client{Timeout: cfg.Timeout},
		logger:   logger,
		observer: observer,
	}
}

type gradesResponse struct {
	Grades []models.Grade `json:"grades"`
}

type academicResponse struct {
	Academic models.AcademicRecord `json:"academic"`
}

type academicsResponse struct {
	Academics []models.AcademicYear `json:"academics"`
}

type updateFinanceRequest struct {
	FinanceProperties []models.FinanceYearRecord `json:"financeProperties"`
}

type updateFinanceResponse struct {
	Student struct {
		FinanceProperties []models.FinanceYearRecord `json:"financeProperties"`
	} `json:"student"`
}

type deleteFinanceRequest struct {
	Year  string `json:"year"`
	Month string `json:"month"`
}

// Grades fetches the full grade catalog.
func (c *Client) Grades(ctx context.Context) ([]models.Grade, error) {
	var resp gradesResponse
	if err := c.do(ctx, http.MethodGet, "grade/all", "/grade/all", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Grades, nil
}

// FeeCatalog fetches the list of standard fee amounts.
func (c *Client) FeeCatalog(ctx context.Context) ([]models.FeeCatalogEntry, error) {
	var resp []models.FeeCatalogEntry
	if err := c.do(ctx, http.MethodGet, "fee/all", "/fee/all", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// AcademicYears fetches the academic year catalog.
func (c *Client) AcademicYears(ctx context.Context) ([]models.AcademicYear, error) {
	var resp academicsResponse
	if err := c.do(ctx, http.MethodGet, "academic/all", "/academic/all", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Academics, nil
}

// Academic fetches one academic year record including its per-grade rosters.
func (c *Client) Academic(ctx context.Context, slug string) (*models.AcademicRecord, error) {
	var resp academicResponse
	if err := c.do(ctx, http.MethodGet, "academic/single", "/academic/"+slug, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Academic, nil
}

// UpdateFinance sends a single-entry finance payload for a student. The
// upstream store enforces uniqueness per (year, month), replacing any existing
// entry rather than appending. The returned financeProperties snapshot is the
// authoritative state for that student.
func (c *Client) UpdateFinance(ctx context.Context, studentSlug string, record models.FinanceYearRecord) ([]models.FinanceYearRecord, error) {
	body := updateFinanceRequest{FinanceProperties: []models.FinanceYearRecord{record}}
	var resp updateFinanceResponse
	if err := c.do(ctx, http.MethodPut, "student/updateFinance", "/student/updateFinance/"+studentSlug, body, &resp); err != nil {
		return nil, err
	}
	return resp.Student.FinanceProperties, nil
}

// DeleteFinance removes the fee entry for the given year and month. Only the
// acknowledgement matters; the response body carries nothing the client uses.
func (c *Client) DeleteFinance(ctx context.Context, studentSlug, year, month string) error {
	body := deleteFinanceRequest{Year: year, Month: month}
	return c.do(ctx, http.MethodDelete, "student/deleteFinance", "/student/deleteFinance/"+studentSlug, body, nil)
}

func (c *Client) do(ctx context.Context, method, endpoint, path string, body, dest interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode upstream payload")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build upstream request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if c.observer != nil {
		failed := err != nil
		if !failed && resp.StatusCode > 299 {
			failed = true
		}
		c.observer.ObserveUpstream(endpoint, failed, time.Since(start))
	}
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, fmt.Sprintf("upstream %s %s failed", method, path))
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("upstream returned non-success status",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return appErrors.Clone(appErrors.ErrUpstream, fmt.Sprintf("upstream %s %s returned %d", method, path, resp.StatusCode))
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, fmt.Sprintf("decode upstream %s response", path))
	}
	return nil
}
