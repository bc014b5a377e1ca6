package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/och-dev/shiftkun/internal/domain"
	"github.com/och-dev/shiftkun/internal/utils"
)

// sharedSchedule 是共享页面显示的内容，Schedule 为 nil 时显示占位内容
type sharedSchedule struct {
	Month    string             `json:"month"`
	Schedule *domain.Schedule   `json:"schedule"`
	Totals   []utils.StaffTotal `json:"totals"`
}

type viewPageData struct {
	layoutData
	sharedSchedule
}

func (h *Handler) ViewPage(w http.ResponseWriter, r *http.Request) {
	month, err := utils.NormalizeMonth(r.URL.Query().Get("month"))
	if err != nil {
		month = ""
	}

	shared, err := h.loadSharedSchedule(month)
	if err != nil {
		h.serverErrorPage(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "view.html", viewPageData{
		layoutData:     h.layout("勤務表"),
		sharedSchedule: *shared,
	})
}

// loadSharedSchedule 指定月份时优先取确定版，其次是最近保存的草稿；
// 不指定月份时取所有月份中最近的一份
func (h *Handler) loadSharedSchedule(month string) (*sharedSchedule, error) {
	var (
		schedule *domain.Schedule
		err      error
	)

	if month == "" {
		schedule, err = h.repository.GetLatestFinalSchedule()
	} else {
		schedule, err = h.repository.GetSchedule(month, domain.ScheduleStatusFinal)
		if errors.Is(err, sql.ErrNoRows) {
			schedule, err = h.repository.GetLatestSchedule(month)
		}
	}
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return &sharedSchedule{Month: month, Totals: []utils.StaffTotal{}}, nil
	case err != nil:
		return nil, err
	}

	travelDays, err := h.travelDays(schedule.Month)
	if err != nil {
		return nil, err
	}

	return &sharedSchedule{
		Month:    schedule.Month,
		Schedule: schedule,
		Totals:   utils.SharedTotals(schedule.Tally, travelDays),
	}, nil
}

// travelDays 没有出差记录时从希望文本中推算
func (h *Handler) travelDays(month string) (map[string]int, error) {
	travels, err := h.repository.GetTravelByMonth(month)
	if err != nil {
		return nil, err
	}
	if len(travels) > 0 {
		return utils.TravelDays(travels), nil
	}

	prefs, err := h.repository.GetPreferencesByMonth(month)
	if err != nil {
		return nil, err
	}
	return utils.TravelDaysFromPreferences(prefs), nil
}
