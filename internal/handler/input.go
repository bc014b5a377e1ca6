package handler

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/och-dev/shiftkun/internal/domain"
	"github.com/och-dev/shiftkun/internal/utils"
)

type inputPageData struct {
	layoutData
	MonthChoices []string
	StaffList    []string
	Form         preferenceForm
	Preferences  []*domain.Preference
	Travel       *domain.Travel
	Submitted    string
	Error        string
}

// monthChoices 以当前时间为基准返回下拉框中的月份
func monthChoices() []string {
	return utils.MonthChoices(time.Now())
}

// monthOrDefault 不合法或为空时返回下个月
func monthOrDefault(month string) string {
	if normalized, err := utils.NormalizeMonth(month); err == nil {
		return normalized
	}
	return monthChoices()[0]
}

func (h *Handler) InputPage(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	form := preferenceForm{
		Month: monthOrDefault(query.Get("month")),
		Staff: query.Get("staff"),
	}

	h.renderInput(w, r, &form, query.Get("submitted"), "")
}

func (h *Handler) renderInput(w http.ResponseWriter, r *http.Request, form *preferenceForm, submitted string, errMsg string) {
	rs, err := h.repository.GetRuleSet()
	if err != nil {
		h.serverErrorPage(w, r, err)
		return
	}

	data := inputPageData{
		layoutData:   h.layout("希望入力"),
		MonthChoices: monthChoices(),
		StaffList:    rs.StaffList,
		Form:         *form,
		Submitted:    submitted,
		Error:        errMsg,
	}

	// 选中了人和月份时显示本人已经提交的内容
	if form.Staff != "" && utils.IsValidMonth(form.Month) {
		data.Preferences, err = h.repository.GetPreferencesByMonthAndStaff(form.Month, form.Staff)
		if err != nil {
			h.serverErrorPage(w, r, err)
			return
		}

		travel, err := h.repository.GetTravel(form.Month, form.Staff)
		switch {
		case err == nil:
			data.Travel = travel
		case !errors.Is(err, sql.ErrNoRows):
			h.serverErrorPage(w, r, err)
			return
		}
	}

	h.render(w, r, http.StatusOK, "input.html", data)
}

func (h *Handler) SubmitPreference(w http.ResponseWriter, r *http.Request) {
	var form preferenceForm
	if err := h.decodeForm(r, &form); err != nil {
		h.renderInput(w, r, &form, "", "入力内容を読み取れませんでした")
		return
	}

	if err := h.validate.Struct(&form); err != nil {
		h.renderInput(w, r, &form, "", h.validationMessage(err))
		return
	}

	if _, err := h.createPreference(r.Context(), &form); err != nil {
		h.serverErrorPage(w, r, err)
		return
	}

	h.redirect(w, r, "/input", url.Values{
		"month":     {form.Month},
		"staff":     {form.Staff},
		"submitted": {"preference"},
	})
}

// createPreference 遇到重复提交时不写数据库，返回 nil
func (h *Handler) createPreference(ctx context.Context, form *preferenceForm) (*domain.Preference, error) {
	pref := &domain.Preference{
		Month: form.Month,
		Staff: form.Staff,
		Text:  utils.JoinPreferenceNote(form.Text, form.Note),
	}

	if h.isDuplicateSubmission(ctx, pref) {
		slog.Info("忽略重复提交的希望", "month", pref.Month, "staff", pref.Staff)
		return nil, nil
	}

	if err := h.repository.InsertPreference(pref); err != nil {
		return nil, err
	}

	return pref, nil
}

// isDuplicateSubmission 用 redis 的 SETNX 判断同样的内容是否在短时间内已经提交过
func (h *Handler) isDuplicateSubmission(ctx context.Context, pref *domain.Preference) bool {
	if h.redisClient == nil {
		return false
	}

	sum := sha256.Sum256([]byte(pref.Month + "\x00" + pref.Staff + "\x00" + pref.Text))
	key := "preference_submission_" + hex.EncodeToString(sum[:])

	ctx, cancel := context.WithTimeout(ctx, time.Duration(h.config.Redis.OperationExpiration)*time.Second)
	defer cancel()

	ok, err := h.redisClient.SetNX(ctx, key, 1, time.Duration(h.config.Redis.DedupWindow)*time.Second).Result()
	if err != nil {
		// redis 不可用时不影响提交
		slog.Warn("无法检查重复提交", "error", err)
		return false
	}

	return !ok
}

func (h *Handler) SubmitTravel(w http.ResponseWriter, r *http.Request) {
	var form travelForm
	if err := h.decodeForm(r, &form); err != nil {
		h.renderInput(w, r, &preferenceForm{Month: form.Month, Staff: form.Staff}, "", "入力内容を読み取れませんでした")
		return
	}

	if err := h.validate.Struct(&form); err != nil {
		h.renderInput(w, r, &preferenceForm{Month: form.Month, Staff: form.Staff}, "", h.validationMessage(err))
		return
	}

	if err := h.repository.UpsertTravel(travelFromForm(&form)); err != nil {
		h.serverErrorPage(w, r, err)
		return
	}

	h.redirect(w, r, "/input", url.Values{
		"month":     {form.Month},
		"staff":     {form.Staff},
		"submitted": {"travel"},
	})
}

func travelFromForm(form *travelForm) *domain.Travel {
	travel := &domain.Travel{
		Month: form.Month,
		Staff: form.Staff,
	}

	if days, err := strconv.Atoi(form.Days); err == nil && days >= 0 {
		d := int32(days)
		travel.Days = &d
	}
	if form.Dates != "" {
		dates := form.Dates
		travel.Dates = &dates
	}

	return travel
}
