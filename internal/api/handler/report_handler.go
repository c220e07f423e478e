package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"timeclock.service/internal/core"
	"timeclock.service/internal/core/model"
	"timeclock.service/internal/ports/messaging"
)

type ReportHandler struct {
	Service *core.ReportService
}

func (h *ReportHandler) Spreadsheet(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Service.Spreadsheet(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeDocument(w, doc)
}

func (h *ReportHandler) TimesheetPDF(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Service.TimesheetPDF(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeDocument(w, doc)
}

// SendEmail queues today's report; the worker sends it.
func (h *ReportHandler) SendEmail(w http.ResponseWriter, r *http.Request) {
	event, err := h.Service.RequestDailyEmail(r.Context(), messaging.TriggerManual)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, ReportQueuedResponse{RequestID: event.RequestID, ReportDate: event.ReportDate})
}

func writeDocument(w http.ResponseWriter, doc model.Document) {
	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.Data)
}
