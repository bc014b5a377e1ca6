package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/och-dev/shiftkun/internal/domain"
	"github.com/och-dev/shiftkun/internal/utils"
)

var restoreMessages = map[string]string{
	"ok":   "復元が完了しました",
	"fail": "復元に失敗しました。バックアップファイルを確認してください",
}

type backupPageData struct {
	layoutData
	Message string
}

func (h *Handler) BackupPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "backup.html", backupPageData{
		layoutData: h.layout("バックアップ"),
		Message:    restoreMessages[r.URL.Query().Get("restore")],
	})
}

func (h *Handler) ExportBackup(w http.ResponseWriter, r *http.Request) {
	backup, err := h.repository.ExportAll()
	if err != nil {
		h.serverErrorPage(w, r, err)
		return
	}

	body, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		h.serverErrorPage(w, r, err)
		return
	}

	filename := fmt.Sprintf("och-shiftkun-backup-%s.json", backup.ExportedAt.Format("20060102-150405"))
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", attachment(filename))
	_, _ = w.Write(body)
}

func (h *Handler) RestoreBackup(w http.ResponseWriter, r *http.Request) {
	data, err := h.readBackupFile(r)
	if err != nil {
		slog.Warn("无法读取备份文件", "error", err, "request_id", requestIDFrom(r))
		h.redirect(w, r, "/backup", url.Values{"restore": {"fail"}})
		return
	}

	if err := h.repository.RestoreAll(data); err != nil {
		h.logInternalServerError(r, err)
		h.redirect(w, r, "/backup", url.Values{"restore": {"fail"}})
		return
	}

	slog.Info("已从备份恢复数据",
		"preferences", len(data.Preferences),
		"schedules", len(data.Schedules),
		"travel", len(data.Travel),
		"restored_at", time.Now(),
	)
	h.redirect(w, r, "/backup", url.Values{"restore": {"ok"}})
}

// readBackupFile 同时接受导出的完整格式和只有 data 部分的格式
func (h *Handler) readBackupFile(r *http.Request) (*domain.BackupData, error) {
	if err := r.ParseMultipartForm(h.config.Server.MaxBodyBytes); err != nil {
		return nil, err
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, err
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, err
	}
	if len(envelope.Data) > 0 {
		raw = envelope.Data
	}

	// 至少要有一个已知的表，避免误传的 JSON 把数据清空
	var tables map[string]json.RawMessage
	if err := json.Unmarshal(raw, &tables); err != nil {
		return nil, err
	}
	known := false
	for _, key := range []string{"preferences", "schedules", "travel", "config", "ruleSetRevisions", "requests", "config_history"} {
		if _, ok := tables[key]; ok {
			known = true
			break
		}
	}
	if !known {
		return nil, errors.New("备份文件中没有可恢复的数据")
	}

	// 旧系统导出的文件用 requests 和 config_history 保存希望和修改历史
	_, hasRequests := tables["requests"]
	_, hasHistory := tables["config_history"]
	if hasRequests || hasHistory {
		legacy := &legacyBackup{}
		if err := json.Unmarshal(raw, legacy); err != nil {
			return nil, err
		}
		return legacy.toBackupData(), nil
	}

	data := &domain.BackupData{}
	if err := json.Unmarshal(raw, data); err != nil {
		return nil, err
	}

	return data, nil
}

// legacyBackup 是旧系统的备份格式，人员字段叫 doctor，时间是本地时间的字符串
type legacyBackup struct {
	Requests []struct {
		Month       string `json:"month"`
		Doctor      string `json:"doctor"`
		RequestText string `json:"request_text"`
		CreatedAt   string `json:"created_at"`
	} `json:"requests"`
	Schedules []struct {
		Month      string `json:"month"`
		Status     string `json:"status"`
		TableText  string `json:"table_text"`
		CountsText string `json:"counts_text"`
		ChangeLog  string `json:"change_log"`
		CreatedAt  string `json:"created_at"`
	} `json:"schedules"`
	Travel []struct {
		Month     string  `json:"month"`
		Doctor    string  `json:"doctor"`
		Days      *int32  `json:"days"`
		DatesText *string `json:"dates_text"`
		CreatedAt string  `json:"created_at"`
	} `json:"travel"`
	Config        []domain.ConfigEntry `json:"config"`
	ConfigHistory []struct {
		CreatedAt       string `json:"created_at"`
		Editor          string `json:"editor"`
		StaffList       string `json:"staff_list"`
		BaseRules       string `json:"base_rules"`
		IndividualRules string `json:"individual_rules"`
		AdditionalRules string `json:"additional_rules"`
	} `json:"config_history"`
}

func (b *legacyBackup) toBackupData() *domain.BackupData {
	data := &domain.BackupData{
		Preferences:      make([]domain.Preference, 0, len(b.Requests)),
		Schedules:        make([]domain.Schedule, 0, len(b.Schedules)),
		Travel:           make([]domain.Travel, 0, len(b.Travel)),
		Config:           b.Config,
		RuleSetRevisions: make([]domain.RuleSetRevision, 0, len(b.ConfigHistory)),
	}

	for _, req := range b.Requests {
		data.Preferences = append(data.Preferences, domain.Preference{
			Month:     legacyMonth(req.Month),
			Staff:     req.Doctor,
			Text:      req.RequestText,
			CreatedAt: legacyTime(req.CreatedAt),
		})
	}

	// 同一个月同一状态只保留最后一条
	index := make(map[string]int)
	for _, s := range b.Schedules {
		schedule := domain.Schedule{
			Month:     legacyMonth(s.Month),
			Status:    domain.ScheduleStatus(s.Status),
			Table:     s.TableText,
			Tally:     s.CountsText,
			ChangeLog: s.ChangeLog,
			CreatedAt: legacyTime(s.CreatedAt),
		}
		if schedule.Status != domain.ScheduleStatusFinal {
			schedule.Status = domain.ScheduleStatusDraft
		}

		key := schedule.Month + "\x00" + string(schedule.Status)
		if i, ok := index[key]; ok {
			data.Schedules[i] = schedule
			continue
		}
		index[key] = len(data.Schedules)
		data.Schedules = append(data.Schedules, schedule)
	}

	for _, t := range b.Travel {
		data.Travel = append(data.Travel, domain.Travel{
			Month:     legacyMonth(t.Month),
			Staff:     t.Doctor,
			Days:      t.Days,
			Dates:     t.DatesText,
			CreatedAt: legacyTime(t.CreatedAt),
		})
	}

	for _, h := range b.ConfigHistory {
		data.RuleSetRevisions = append(data.RuleSetRevisions, domain.RuleSetRevision{
			CreatedAt: legacyTime(h.CreatedAt),
			Editor:    h.Editor,
			RuleSet: domain.RuleSet{
				StaffList:       utils.NormalizeStaffList(h.StaffList),
				BaseRules:       utils.SplitLines(h.BaseRules),
				IndividualRules: utils.SplitLines(h.IndividualRules),
				AdditionalRules: utils.SplitLines(h.AdditionalRules),
			},
		})
	}

	return data
}

func legacyMonth(label string) string {
	if month, err := utils.NormalizeMonth(label); err == nil {
		return month
	}
	return label
}

// legacyTime 解析失败时返回零值，恢复时会用当前时间代替
func legacyTime(value string) time.Time {
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339} {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}
