package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"claimsight/internal/claims"
	apierrors "claimsight/internal/errors"
	"claimsight/internal/services"
)

// AnalysisHandler serves the analysis endpoint.
type AnalysisHandler struct {
	service  *services.AnalysisService
	maxBody  int64
	validate *validator.Validate
	logger   *slog.Logger
}

// NewAnalysisHandler creates the handler.
func NewAnalysisHandler(service *services.AnalysisService, maxBody int64, logger *slog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		service:  service,
		maxBody:  maxBody,
		validate: validator.New(),
		logger:   logger,
	}
}

// claimPayload is the wire form of one claim record. Dates arrive as
// RFC 3339 or date-only strings; unparseable optional fields are
// dropped the same way the file loader drops them.
type claimPayload struct {
	ID              string   `json:"claim_id" validate:"required"`
	PatientID       string   `json:"patient_id"`
	ProviderID      string   `json:"provider_id"`
	ClaimType       string   `json:"claim_type"`
	Status          string   `json:"status" validate:"required"`
	Amount          *float64 `json:"amount" validate:"omitempty,gte=0"`
	ClaimDate       string   `json:"claim_date"`
	ProcessingDate  string   `json:"processing_date"`
	RejectionReason string   `json:"rejection_reason"`
}

type analysisRequest struct {
	Claims  []claimPayload `json:"claims" validate:"required,min=1,dive"`
	Options struct {
		Granularity    string  `json:"granularity" validate:"omitempty,oneof=daily weekly monthly quarterly yearly"`
		WindowPeriods  int     `json:"window_periods" validate:"omitempty,gt=0"`
		ProcessingCost float64 `json:"processing_cost" validate:"omitempty,gte=0"`
		AppealCost     float64 `json:"appeal_cost" validate:"omitempty,gte=0"`
		TopN           int     `json:"top_n" validate:"omitempty,gt=0"`
	} `json:"options"`
}

// Bind implements render.Binder.
func (req *analysisRequest) Bind(r *http.Request) error {
	return nil
}

// Analyze handles POST /api/analysis.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)

	req := &analysisRequest{}
	if err := render.Bind(r, req); err != nil {
		render.Render(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		render.Render(w, r, apierrors.ValidationFailedWithError(err))
		return
	}

	records := make([]claims.Record, 0, len(req.Claims))
	for _, p := range req.Claims {
		records = append(records, claims.Record{
			ID:              p.ID,
			PatientID:       p.PatientID,
			ProviderID:      p.ProviderID,
			ClaimType:       p.ClaimType,
			Status:          claims.Status(p.Status),
			Amount:          p.Amount,
			ClaimDate:       parseWireDate(p.ClaimDate),
			ProcessingDate:  parseWireDate(p.ProcessingDate),
			RejectionReason: p.RejectionReason,
		})
	}

	report, err := h.service.Analyze(r.Context(), records, services.RunOverrides{
		Granularity:    req.Options.Granularity,
		WindowPeriods:  req.Options.WindowPeriods,
		ProcessingCost: req.Options.ProcessingCost,
		AppealCost:     req.Options.AppealCost,
		TopN:           req.Options.TopN,
	})
	if err != nil {
		h.logger.ErrorContext(r.Context(), "analysis failed", "error", err)
		render.Render(w, r, apierrors.ErrAnalysisFailed)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, report)
}

func parseWireDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}
