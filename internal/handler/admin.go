package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/och-dev/shiftkun/internal/domain"
	"github.com/och-dev/shiftkun/internal/repository"
	"github.com/och-dev/shiftkun/internal/utils"
)

const (
	ruleSetRevisionLimit = 30

	versionConflictMessage = "他の画面で先に保存されています。再読み込みしてから保存し直してください"
)

// 还有人没提交希望时只能保存草稿
var errMissingStaff = errors.New("未提出のスタッフがいるため確定保存できません")

var savedMessages = map[string]string{
	"draft":  "下書きを保存しました",
	"final":  "確定版を保存しました",
	"config": "設定を保存しました",
}

type adminPageData struct {
	layoutData
	Month        string
	MonthChoices []string
	Preferences  []*domain.Preference
	Missing      []string
	Travel       []*domain.Travel
	Prompt       string
	Draft        *domain.Schedule
	Final        *domain.Schedule
	Editor       scheduleForm
	RuleSetForm  ruleSetForm
	Revisions    []*domain.RuleSetRevision
	Saved        string
	Error        string
	ConfigError  string
}

func (h *Handler) AdminPage(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	month := monthOrDefault(query.Get("month"))

	data, err := h.loadAdminData(month)
	if err != nil {
		h.serverErrorPage(w, r, err)
		return
	}
	data.Saved = savedMessages[query.Get("saved")]

	h.render(w, r, http.StatusOK, "admin.html", data)
}

func (h *Handler) loadAdminData(month string) (*adminPageData, error) {
	prefs, err := h.repository.GetPreferencesByMonth(month)
	if err != nil {
		return nil, err
	}

	travels, err := h.repository.GetTravelByMonth(month)
	if err != nil {
		return nil, err
	}

	rs, err := h.repository.GetRuleSet()
	if err != nil {
		return nil, err
	}

	revisions, err := h.repository.GetRuleSetRevisions(ruleSetRevisionLimit)
	if err != nil {
		return nil, err
	}

	draft, err := h.scheduleOrNil(month, domain.ScheduleStatusDraft)
	if err != nil {
		return nil, err
	}
	final, err := h.scheduleOrNil(month, domain.ScheduleStatusFinal)
	if err != nil {
		return nil, err
	}

	// 编辑框优先显示确定版，其次是草稿
	editor := scheduleForm{Month: month, Status: string(domain.ScheduleStatusFinal)}
	for _, s := range []*domain.Schedule{final, draft} {
		if s != nil {
			editor.Table, editor.Tally, editor.ChangeLog = s.Table, s.Tally, s.ChangeLog
			break
		}
	}

	return &adminPageData{
		layoutData:   h.layout("管理画面"),
		Month:        month,
		MonthChoices: monthChoices(),
		Preferences:  prefs,
		Missing:      utils.MissingStaff(rs.StaffList, prefs),
		Travel:       travels,
		Prompt:       utils.BuildPrompt(month, prefs, travels, rs),
		Draft:        draft,
		Final:        final,
		Editor:       editor,
		RuleSetForm: ruleSetForm{
			Month:           month,
			StaffList:       joinStaff(rs.StaffList),
			BaseRules:       joinLines(rs.BaseRules),
			IndividualRules: joinLines(rs.IndividualRules),
			AdditionalRules: joinLines(rs.AdditionalRules),
		},
		Revisions: revisions,
	}, nil
}

func (h *Handler) scheduleOrNil(month string, status domain.ScheduleStatus) (*domain.Schedule, error) {
	schedule, err := h.repository.GetSchedule(month, status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return schedule, nil
}

func (h *Handler) SaveSchedule(w http.ResponseWriter, r *http.Request) {
	var form scheduleForm
	if err := h.decodeForm(r, &form); err != nil {
		h.renderAdminError(w, r, &form, nil, "入力内容を読み取れませんでした")
		return
	}

	if err := h.validate.Struct(&form); err != nil {
		h.renderAdminError(w, r, &form, nil, h.validationMessage(err))
		return
	}

	if form.Status == string(domain.ScheduleStatusDraft) {
		form.Version = form.DraftVersion
	} else {
		form.Version = form.FinalVersion
	}

	schedule, err := h.saveSchedule(&form)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrVersionConflict):
			h.renderAdminError(w, r, &form, nil, versionConflictMessage)
		case errors.Is(err, errMissingStaff):
			h.renderAdminError(w, r, &form, nil, err.Error())
		default:
			h.serverErrorPage(w, r, err)
		}
		return
	}

	h.redirect(w, r, "/admin", url.Values{
		"month": {schedule.Month},
		"saved": {string(schedule.Status)},
	})
}

// saveSchedule 回数集計为空时从勤务表推算，保存确定版时发送公开通知。
// 有人还没提交希望时拒绝保存确定版。
func (h *Handler) saveSchedule(form *scheduleForm) (*domain.Schedule, error) {
	status := domain.ScheduleStatus(form.Status)
	if status == "" {
		status = domain.ScheduleStatusFinal
	}

	if status == domain.ScheduleStatusFinal {
		missing, err := h.missingStaff(form.Month)
		if err != nil {
			return nil, err
		}
		if len(missing) > 0 {
			return nil, fmt.Errorf("%w（%s）", errMissingStaff, strings.Join(missing, "、"))
		}
	}

	tally := form.Tally
	if tally == "" {
		tally = utils.RenderTally(utils.TallyFromTable(form.Table))
	}

	schedule := &domain.Schedule{
		Month:     form.Month,
		Status:    status,
		Table:     form.Table,
		Tally:     tally,
		ChangeLog: form.ChangeLog,
	}
	if err := h.repository.SaveSchedule(schedule, form.Version); err != nil {
		return nil, err
	}

	if schedule.Status == domain.ScheduleStatusFinal {
		if err := h.publishSchedulePublished(schedule); err != nil {
			// 通知失败不影响保存结果
			slog.Error("无法发送排班公开通知", "month", schedule.Month, "error", err)
		}
	}

	return schedule, nil
}

func (h *Handler) missingStaff(month string) ([]string, error) {
	prefs, err := h.repository.GetPreferencesByMonth(month)
	if err != nil {
		return nil, err
	}

	rs, err := h.repository.GetRuleSet()
	if err != nil {
		return nil, err
	}

	return utils.MissingStaff(rs.StaffList, prefs), nil
}

func (h *Handler) UpdateRuleSet(w http.ResponseWriter, r *http.Request) {
	var form ruleSetForm
	if err := h.decodeForm(r, &form); err != nil {
		h.renderAdminError(w, r, nil, &form, "入力内容を読み取れませんでした")
		return
	}

	if err := h.validate.Struct(&form); err != nil {
		h.renderAdminError(w, r, nil, &form, h.validationMessage(err))
		return
	}

	rs := &domain.RuleSet{
		StaffList:       utils.NormalizeStaffList(form.StaffList),
		BaseRules:       utils.SplitLines(form.BaseRules),
		IndividualRules: utils.SplitLines(form.IndividualRules),
		AdditionalRules: utils.SplitLines(form.AdditionalRules),
	}
	if err := utils.ValidateRuleSet(rs); err != nil {
		h.renderAdminError(w, r, nil, &form, err.Error())
		return
	}

	if err := h.repository.UpdateRuleSet(rs, form.Editor); err != nil {
		h.serverErrorPage(w, r, err)
		return
	}

	h.redirect(w, r, "/admin", url.Values{
		"month": {monthOrDefault(form.Month)},
		"saved": {"config"},
	})
}

// renderAdminError 重新显示管理画面，保留用户刚才输入的内容
func (h *Handler) renderAdminError(w http.ResponseWriter, r *http.Request, schedule *scheduleForm, config *ruleSetForm, errMsg string) {
	month := ""
	switch {
	case schedule != nil:
		month = schedule.Month
	case config != nil:
		month = config.Month
	}

	data, err := h.loadAdminData(monthOrDefault(month))
	if err != nil {
		h.serverErrorPage(w, r, err)
		return
	}

	if schedule != nil {
		data.Editor = *schedule
		data.Error = errMsg
	}
	if config != nil {
		data.RuleSetForm = *config
		data.ConfigError = errMsg
	}

	h.render(w, r, http.StatusOK, "admin.html", data)
}

func joinStaff(staff []string) string {
	return strings.Join(staff, ",")
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
