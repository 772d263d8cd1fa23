package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apperrors "dqcli/internal/errors"
	"dqcli/internal/quality"
	"dqcli/pkg/contracts/domain"
)

// InspectionServiceInterface defines the inspection operations the handler
// needs
type InspectionServiceInterface interface {
	InspectTable(ctx context.Context, columns []string, rows [][]domain.Value, cfg *quality.Config) (*domain.Report, error)
}

// InspectionRequest is the body of POST /api/v1/inspections. Cells are JSON
// null (missing), numbers or strings. A nil Config means the server defaults.
type InspectionRequest struct {
	Columns []string         `json:"columns" validate:"required,min=1,dive,required"`
	Rows    [][]domain.Value `json:"rows"`
	Config  *quality.Config  `json:"config,omitempty" validate:"-"`
}

// InspectionResponse wraps a report with the ID of the request that made it
type InspectionResponse struct {
	RequestID string         `json:"request_id"`
	Report    *domain.Report `json:"report"`
}

// InspectionHandler handles inspection requests
type InspectionHandler struct {
	service      InspectionServiceInterface
	errorHandler *apperrors.ErrorHandler
	validate     *validator.Validate
	logger       *slog.Logger
}

// NewInspectionHandler creates a new inspection handler
func NewInspectionHandler(service InspectionServiceInterface, errorHandler *apperrors.ErrorHandler, logger *slog.Logger) *InspectionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &InspectionHandler{
		service:      service,
		errorHandler: errorHandler,
		validate:     v,
		logger:       logger.With(slog.String("handler", "inspection")),
	}
}

// Routes returns the inspection routes
func (h *InspectionHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Create)
	return r
}

// Create handles POST /api/v1/inspections
func (h *InspectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req InspectionRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.payloadTooLarge(w, r, maxErr.Limit)
			return
		}
		h.errorHandler.HandleError(w, r, apperrors.NewParsingError("malformed request body", err))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.errorHandler.HandleError(w, r, validationError(err))
		return
	}

	report, err := h.service.InspectTable(ctx, req.Columns, req.Rows, req.Config)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(ctx, "inspection_served",
		slog.Int("rows", report.Summary.Rows),
		slog.Int("issues", report.Summary.TotalIssues))

	render.Status(r, http.StatusOK)
	render.JSON(w, r, InspectionResponse{
		RequestID: middleware.GetReqID(ctx),
		Report:    report,
	})
}

func (h *InspectionHandler) payloadTooLarge(w http.ResponseWriter, r *http.Request, limit int64) {
	problem := apperrors.NewProblemDetails(
		http.StatusRequestEntityTooLarge,
		apperrors.TypePayloadTooLarge,
		"Payload Too Large",
		fmt.Sprintf("request body exceeds %d bytes", limit),
		r.URL.Path,
	).WithExtension("trace_id", middleware.GetReqID(r.Context()))
	_ = render.Render(w, r, problem)
}

// decodeJSON decodes exactly one JSON document and rejects unknown fields
func decodeJSON(body io.Reader, v any) error {
	if body == nil {
		return errors.New("empty body")
	}
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty body")
		}
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.NewValidationError("invalid inspection request", err)
	}
	appErr := apperrors.NewValidationError("invalid inspection request", nil)
	for _, fe := range verrs {
		appErr.Problems = append(appErr.Problems,
			fmt.Sprintf("%s failed %q validation", strings.TrimPrefix(fe.Namespace(), "InspectionRequest."), fe.Tag()))
	}
	return appErr
}
