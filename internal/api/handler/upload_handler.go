package handler

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/render"

	"delivery-pipeline/internal/metrics"
	"delivery-pipeline/internal/model"
	"delivery-pipeline/internal/pipeline"
	"delivery-pipeline/pkg/utils"
)

// UploadFormField is the multipart field carrying the spreadsheet
const UploadFormField = "file"

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// UploadHandler runs uploaded spreadsheets through the pipeline
type UploadHandler struct {
	runner         *pipeline.Runner
	metrics        *metrics.Metrics
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewUploadHandler wires an upload handler; m may be nil
func NewUploadHandler(runner *pipeline.Runner, m *metrics.Metrics, maxUploadBytes int64, logger *slog.Logger) *UploadHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UploadHandler{runner: runner, metrics: m, maxUploadBytes: maxUploadBytes, logger: logger}
}

// Upload processes a spreadsheet and returns the report
// @Summary Process a delivery spreadsheet
// @Description Upload an .xls, .xlsx or .csv export and get back totals, the top incident postal codes, the hourly series and the driver / postal code / day summary
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Spreadsheet export"
// @Param format query string false "Force the format (xls, xlsx, csv); defaults to the file extension"
// @Param top query int false "How many incident postal codes to return" default(15)
// @Success 200 {object} model.Report "Report"
// @Failure 400 {object} handler.APIError "Missing file or bad parameters"
// @Failure 422 {object} handler.APIError "File is not a readable spreadsheet"
// @Failure 500 {object} handler.APIError "Internal server error"
// @Router /uploads [post]
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	report, _, ok := h.process(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, report)
}

// Export processes a spreadsheet and returns the report as a workbook
// @Summary Process a delivery spreadsheet into a workbook
// @Description Same as the upload endpoint but responds with an .xlsx holding the summary, the records, the top incident postal codes and the hourly series
// @Tags uploads
// @Accept multipart/form-data
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param file formData file true "Spreadsheet export"
// @Param format query string false "Force the format (xls, xlsx, csv)"
// @Param top query int false "How many incident postal codes to include" default(15)
// @Success 200 {file} file "Workbook"
// @Failure 400 {object} handler.APIError "Missing file or bad parameters"
// @Failure 422 {object} handler.APIError "File is not a readable spreadsheet"
// @Failure 500 {object} handler.APIError "Internal server error"
// @Router /uploads/export [post]
func (h *UploadHandler) Export(w http.ResponseWriter, r *http.Request) {
	report, fileName, ok := h.process(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := pipeline.NewExportManager(report).WriteXLSX(&buf); err != nil {
		h.logger.ErrorContext(r.Context(), "workbook export failed", slog.String("error", err.Error()))
		renderError(w, r, ErrInternal())
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", utils.ReportFileName(fileName)))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// process reads the upload and runs the pipeline. When ok is false the
// error response has already been written.
func (h *UploadHandler) process(w http.ResponseWriter, r *http.Request) (report *model.Report, fileName string, ok bool) {
	ctx := r.Context()

	spec, file, err := h.readUpload(w, r)
	if err != nil {
		h.metrics.UploadFinished(metrics.StatusInvalid, nil)
		renderError(w, r, err)
		return nil, "", false
	}
	defer file.Close()

	report, runErr := h.runner.Run(ctx, spec, file)
	if runErr != nil {
		status := metrics.StatusError
		if pipeline.IsLoadError(runErr) {
			status = metrics.StatusInvalid
		}
		h.metrics.UploadFinished(status, nil)
		h.logger.WarnContext(ctx, "upload rejected",
			slog.String("file", spec.FileName),
			slog.String("error", runErr.Error()))
		renderError(w, r, errorForRun(runErr))
		return nil, "", false
	}

	h.metrics.UploadFinished(metrics.StatusOK, report)
	return report, spec.FileName, true
}

func (h *UploadHandler) readUpload(w http.ResponseWriter, r *http.Request) (model.RunSpec, multipart.File, *APIError) {
	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return model.RunSpec{}, nil, newAPIError(http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit))
		}
		return model.RunSpec{}, nil, ErrBadRequest("expected a multipart/form-data upload")
	}

	file, header, err := r.FormFile(UploadFormField)
	if err != nil {
		return model.RunSpec{}, nil, ErrBadRequest(fmt.Sprintf("missing %q file field", UploadFormField))
	}

	spec := model.RunSpec{FileName: header.Filename}
	if f := r.URL.Query().Get("format"); f != "" {
		format, err := pipeline.ParseFormat(f)
		if err != nil {
			file.Close()
			return model.RunSpec{}, nil, ErrBadRequest(err.Error())
		}
		spec.Format = string(format)
	} else {
		spec.Format = string(pipeline.FormatFromFilename(header.Filename))
	}

	if top := r.URL.Query().Get("top"); top != "" {
		n, err := strconv.Atoi(top)
		if err != nil || n <= 0 {
			file.Close()
			return model.RunSpec{}, nil, ErrBadRequest("top must be a positive integer")
		}
		spec.TopN = n
	}
	return spec, file, nil
}
