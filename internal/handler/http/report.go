package http

import (
	"net/http"

	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/report"
	"github.com/Horattiu/RemediumFarm-sub000/internal/handler/http/response"
)

type ReportHandler interface {
	Stats(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{reportService: reportService}
}

// Stats implements ReportHandler.
func (h *reportHandlerImpl) Stats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := report.StatsRequest{
		From:        q.Get("from"),
		To:          q.Get("to"),
		WorkplaceID: getStringQueryParam(r, "workplace_id"),
		View:        report.View(q.Get("view")),
	}

	result, err := h.reportService.StatsByPeriod(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
