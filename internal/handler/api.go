package handler

import (
	"errors"
	"net/http"

	"github.com/och-dev/shiftkun/internal/domain"
	"github.com/och-dev/shiftkun/internal/repository"
	"github.com/och-dev/shiftkun/internal/utils"
)

func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	month := monthFrom(r)

	prefs, err := h.repository.GetPreferencesByMonth(month)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	rs, err := h.repository.GetRuleSet()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	type Response struct {
		Preferences []*domain.Preference `json:"preferences"`
		Missing     []string             `json:"missing"`
	}

	h.successResponse(w, r, "希望一覧を取得しました", Response{
		Preferences: prefs,
		Missing:     utils.MissingStaff(rs.StaffList, prefs),
	})
}

func (h *Handler) CreatePreference(w http.ResponseWriter, r *http.Request) {
	var req preferenceForm
	if err := h.readJSON(r, &req); err != nil {
		h.errorResponse(w, r, "リクエストの形式が不正です")
		return
	}
	req.Month = monthFrom(r)
	trimStrings(&req)

	if err := h.validate.Struct(&req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	pref, err := h.createPreference(r.Context(), &req)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if pref == nil {
		h.errorResponse(w, r, "同じ内容がすでに送信されています")
		return
	}

	h.successResponse(w, r, "希望を登録しました", pref)
}

func (h *Handler) GetPrompt(w http.ResponseWriter, r *http.Request) {
	month := monthFrom(r)

	prefs, err := h.repository.GetPreferencesByMonth(month)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	travels, err := h.repository.GetTravelByMonth(month)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	rs, err := h.repository.GetRuleSet()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	type Response struct {
		Prompt string `json:"prompt"`
	}

	h.successResponse(w, r, "プロンプトを生成しました", Response{
		Prompt: utils.BuildPrompt(month, prefs, travels, rs),
	})
}

func (h *Handler) GetSchedules(w http.ResponseWriter, r *http.Request) {
	month := monthFrom(r)

	draft, err := h.scheduleOrNil(month, domain.ScheduleStatusDraft)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	final, err := h.scheduleOrNil(month, domain.ScheduleStatusFinal)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	type Response struct {
		Draft *domain.Schedule `json:"draft"`
		Final *domain.Schedule `json:"final"`
	}

	h.successResponse(w, r, "勤務表を取得しました", Response{
		Draft: draft,
		Final: final,
	})
}

func (h *Handler) SubmitSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleForm
	if err := h.readJSON(r, &req); err != nil {
		h.errorResponse(w, r, "リクエストの形式が不正です")
		return
	}
	req.Month = monthFrom(r)

	if err := h.validate.Struct(&req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	schedule, err := h.saveSchedule(&req)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrVersionConflict):
			h.errorResponse(w, r, versionConflictMessage)
		case errors.Is(err, errMissingStaff):
			h.errorResponse(w, r, err.Error())
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "勤務表を保存しました", schedule)
}

func (h *Handler) GetSharedSchedule(w http.ResponseWriter, r *http.Request) {
	shared, err := h.loadSharedSchedule(monthFrom(r))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "共有勤務表を取得しました", shared)
}
