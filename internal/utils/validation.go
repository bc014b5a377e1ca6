package utils

import (
	"errors"
	"strings"

	"github.com/och-dev/shiftkun/internal/domain"
)

var (
	ErrStaffListEmpty       = errors.New("スタッフ一覧が空です")
	ErrStaffListDuplicated  = errors.New("スタッフ一覧に重複があります")
	ErrBaseRulesEmpty       = errors.New("基本ルールが空です")
	ErrIndividualRulesEmpty = errors.New("個別制約が空です")
	ErrAdditionalRulesEmpty = errors.New("追加ルールが空です")
)

// NormalizeStaffList 同时接受半角逗号和「、」作为分隔符
func NormalizeStaffList(raw string) []string {
	raw = strings.ReplaceAll(raw, "、", ",")
	return SplitNonEmpty(raw, ",")
}

func SplitLines(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	return SplitNonEmpty(raw, "\n")
}

// SplitNonEmpty 按 sep 切分并去掉首尾空白，空项会被丢弃
func SplitNonEmpty(s string, sep string) []string {
	items := make([]string, 0)
	for _, item := range strings.Split(s, sep) {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func ValidateRuleSet(rs *domain.RuleSet) error {
	if len(rs.StaffList) == 0 {
		return ErrStaffListEmpty
	}

	seen := make(map[string]bool, len(rs.StaffList))
	for _, staff := range rs.StaffList {
		if seen[staff] {
			return ErrStaffListDuplicated
		}
		seen[staff] = true
	}

	if len(rs.BaseRules) == 0 {
		return ErrBaseRulesEmpty
	}
	if len(rs.IndividualRules) == 0 {
		return ErrIndividualRulesEmpty
	}
	if len(rs.AdditionalRules) == 0 {
		return ErrAdditionalRulesEmpty
	}

	return nil
}

// JoinPreferenceNote 把备注附在希望文本后面
func JoinPreferenceNote(text string, note string) string {
	text = strings.TrimSpace(text)
	note = strings.TrimSpace(note)
	if note == "" {
		return text
	}
	return text + domain.PreferenceNoteSeparator + note
}

// MissingStaff 返回还没有提交希望的人，顺序与 staffList 一致
func MissingStaff(staffList []string, prefs []*domain.Preference) []string {
	submitted := make(map[string]bool, len(prefs))
	for _, pref := range prefs {
		submitted[pref.Staff] = true
	}

	missing := make([]string, 0)
	for _, staff := range staffList {
		if !submitted[staff] {
			missing = append(missing, staff)
		}
	}
	return missing
}
