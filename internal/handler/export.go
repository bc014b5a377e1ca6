package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"net/url"

	"github.com/och-dev/shiftkun/internal/utils"
)

// exportMonth 导出接口必须明确指定月份
func (h *Handler) exportMonth(w http.ResponseWriter, r *http.Request) (string, bool) {
	month, err := utils.NormalizeMonth(r.URL.Query().Get("month"))
	if err != nil {
		h.render(w, r, http.StatusBadRequest, "error.html", errorPageData{
			layoutData: h.layout("エラー"),
			Message:    utils.ErrInvalidMonth.Error(),
		})
		return "", false
	}
	return month, true
}

// attachment 文件名含日语时按 RFC 5987 编码
func attachment(filename string) string {
	return fmt.Sprintf("attachment; filename*=UTF-8''%s", url.PathEscape(filename))
}

func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	month, ok := h.exportMonth(w, r)
	if !ok {
		return
	}

	prefs, err := h.repository.GetPreferencesByMonth(month)
	if err != nil {
		h.serverErrorPage(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", attachment(fmt.Sprintf("希望一覧_%s.csv", month)))

	cw := csv.NewWriter(w)
	records := [][]string{{"月", "氏名", "希望"}}
	for _, pref := range prefs {
		records = append(records, []string{pref.Month, pref.Staff, pref.Text})
	}
	if err := cw.WriteAll(records); err != nil {
		h.logInternalServerError(r, err)
	}
}

func (h *Handler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	month, ok := h.exportMonth(w, r)
	if !ok {
		return
	}

	prefs, err := h.repository.GetPreferencesByMonth(month)
	if err != nil {
		h.serverErrorPage(w, r, err)
		return
	}

	travels, err := h.repository.GetTravelByMonth(month)
	if err != nil {
		h.serverErrorPage(w, r, err)
		return
	}

	shared, err := h.loadSharedSchedule(month)
	if err != nil {
		h.serverErrorPage(w, r, err)
		return
	}

	buf, err := utils.BuildWorkbook(prefs, travels, shared.Schedule)
	if err != nil {
		h.serverErrorPage(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", attachment(fmt.Sprintf("勤務表_%s.xlsx", month)))
	_, _ = buf.WriteTo(w)
}
