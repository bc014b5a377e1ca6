package domain

import "time"

// RuleSet 是生成 prompt 时使用的固定信息，保存在数据库的 config 表中
type RuleSet struct {
	StaffList       []string `json:"staffList"`
	BaseRules       []string `json:"baseRules"`
	IndividualRules []string `json:"individualRules"`
	AdditionalRules []string `json:"additionalRules"`
}

// RuleSetRevision 记录的是修改之前的 RuleSet
type RuleSetRevision struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Editor    string    `json:"editor"`
	RuleSet
}

var (
	DefaultBaseRules = []string{
		"平日は早番・日勤・準夜・夜勤の4枠、土日祝は早番・準夜・夜勤の3枠とする",
		"連続勤務は5日までとする",
		"準夜の翌日は準夜または夜勤のみとする",
		"夜勤の翌日は夜勤または休みとする",
		"同じシフトの連続は2日までとする",
		"各スタッフの勤務回数はできるだけ均等にする",
	}
	DefaultIndividualRules = []string{
		"特になし",
	}
	DefaultAdditionalRules = []string{
		"勤務表は「| 日付 | 曜 | 早番 | 日勤 | 準夜 | 夜勤 |」の表形式で出力する",
		"回数集計表（早番・日勤・準夜・夜勤・合計）を添える",
		"希望を反映できなかった箇所は変更ログとして列挙する",
	}
)

func DefaultRuleSet(staffList []string) *RuleSet {
	return &RuleSet{
		StaffList:       append([]string{}, staffList...),
		BaseRules:       append([]string{}, DefaultBaseRules...),
		IndividualRules: append([]string{}, DefaultIndividualRules...),
		AdditionalRules: append([]string{}, DefaultAdditionalRules...),
	}
}
