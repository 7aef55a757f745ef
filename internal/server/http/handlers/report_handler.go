package handlers

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/quickmart/internal/domain/model"
)

const dateLayout = "2006-01-02"

// ReportHandler serves admin CSV exports.
type ReportHandler struct {
	facade ReportFacade
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(facade ReportFacade) *ReportHandler {
	return &ReportHandler{facade: facade}
}

// Export handles GET /api/admin/reports/:kind.
func (h *ReportHandler) Export(c *gin.Context) {
	var filter model.OrderFilter
	if raw := c.Query("status"); raw != "" {
		status, err := model.ParseOrderStatus(raw)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		filter.Status = &status
	}

	var ok bool
	if filter.From, ok = timeParam(c, "from"); !ok {
		return
	}
	if filter.To, ok = timeParam(c, "to"); !ok {
		return
	}

	kind := c.Param("kind")
	var buf bytes.Buffer
	if err := h.facade.ExportReport(c.Request.Context(), kind, filter, &buf); err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+kind+`.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// timeParam accepts RFC 3339 timestamps or plain dates in UTC.
func timeParam(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, true
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		badRequest(c, "invalid "+name)
		return nil, false
	}
	return &t, true
}
