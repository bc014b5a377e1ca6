package utils

import (
	"fmt"
	"strings"

	"github.com/och-dev/shiftkun/internal/domain"
)

// BuildPrompt 根据当前的希望、出差记录和规则拼出交给外部生成工具的文本。
// 输出只依赖参数本身，相同的输入总是得到相同的文本。
func BuildPrompt(month string, prefs []*domain.Preference, travels []*domain.Travel, rs *domain.RuleSet) string {
	var b strings.Builder

	section := func(title string) {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("【" + title + "】\n")
	}
	bullets := func(items []string) {
		for _, item := range items {
			b.WriteString("- " + item + "\n")
		}
	}

	section("対象月")
	b.WriteString(month + "\n")

	section("スタッフ一覧")
	b.WriteString(strings.Join(promptStaff(rs.StaffList, prefs), "、") + "\n")

	section("基本ルール（固定）")
	bullets(rs.BaseRules)

	section("個別制約（固定）")
	bullets(rs.IndividualRules)

	section("追加ルール（固定）")
	bullets(rs.AdditionalRules)

	section("希望一覧")
	if len(prefs) == 0 {
		b.WriteString("（まだ希望が登録されていません）\n")
	}
	for _, pref := range prefs {
		b.WriteString(pref.Staff + "：" + pref.Text + "\n")
	}

	section("出張日数／出張日")
	if len(travels) == 0 {
		b.WriteString("（まだ登録されていません）\n")
	}
	for _, t := range travels {
		days := "未入力"
		if t.Days != nil {
			days = fmt.Sprintf("%d日", *t.Days)
		}
		dates := "未入力"
		if t.Dates != nil && *t.Dates != "" {
			dates = *t.Dates
		}
		b.WriteString(fmt.Sprintf("%s：日数=%s、日付=%s\n", t.Staff, days, dates))
	}

	return strings.TrimRight(b.String(), "\n")
}

// promptStaff 没有设置人员名单时，用已经提交过希望的人代替
func promptStaff(staffList []string, prefs []*domain.Preference) []string {
	if len(staffList) > 0 {
		return staffList
	}

	seen := make(map[string]bool, len(prefs))
	staff := make([]string, 0, len(prefs))
	for _, pref := range prefs {
		if !seen[pref.Staff] {
			seen[pref.Staff] = true
			staff = append(staff, pref.Staff)
		}
	}
	if len(staff) == 0 {
		return []string{"（未設定）"}
	}
	return staff
}
