package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/chamarodfai/POS/internal/domain"
	"github.com/chamarodfai/POS/internal/service"
	"github.com/chamarodfai/POS/pkg/httputil"
)

// ReportHandler serves the sales reporting endpoint.
type ReportHandler struct {
	reports *service.ReportService
	logger  *slog.Logger
}

// NewReportHandler creates a report handler.
func NewReportHandler(reports *service.ReportService, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{reports: reports, logger: logger}
}

// Sales handles GET /reports/sales?period=daily&date=2026-03-15. The date
// defaults to today; period defaults to daily.
func (h *ReportHandler) Sales(w http.ResponseWriter, r *http.Request) {
	period := domain.ReportPeriod(r.URL.Query().Get("period"))
	if period == "" {
		period = domain.ReportDaily
	}

	ref := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := h.reports.ParseDate(raw)
		if err != nil {
			httputil.WriteError(w, r, err, h.logger)
			return
		}
		ref = parsed
	}

	report, err := h.reports.Sales(r.Context(), period, ref)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, report)
}
