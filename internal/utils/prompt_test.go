package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/och-dev/shiftkun/internal/domain"
	"github.com/stretchr/testify/assert"
)

func testRuleSet() *domain.RuleSet {
	return &domain.RuleSet{
		StaffList:       []string{"佐藤", "鈴木"},
		BaseRules:       []string{"連続勤務は5日まで"},
		IndividualRules: []string{"鈴木は土日休み"},
		AdditionalRules: []string{"表形式で出力"},
	}
}

func TestBuildPromptIsDeterministic(t *testing.T) {
	days := int32(2)
	dates := "4/3, 4/4"
	prefs := []*domain.Preference{
		{ID: 1, Month: "2026年4月", Staff: "佐藤", Text: "4/12 休み", CreatedAt: time.Now()},
		{ID: 2, Month: "2026年4月", Staff: "鈴木", Text: "4/20 夜勤", CreatedAt: time.Now().Add(time.Hour)},
	}
	travels := []*domain.Travel{{Month: "2026年4月", Staff: "佐藤", Days: &days, Dates: &dates}}

	first := BuildPrompt("2026年4月", prefs, travels, testRuleSet())
	second := BuildPrompt("2026年4月", prefs, travels, testRuleSet())
	assert.Equal(t, first, second)

	expected := strings.Join([]string{
		"【対象月】",
		"2026年4月",
		"",
		"【スタッフ一覧】",
		"佐藤、鈴木",
		"",
		"【基本ルール（固定）】",
		"- 連続勤務は5日まで",
		"",
		"【個別制約（固定）】",
		"- 鈴木は土日休み",
		"",
		"【追加ルール（固定）】",
		"- 表形式で出力",
		"",
		"【希望一覧】",
		"佐藤：4/12 休み",
		"鈴木：4/20 夜勤",
		"",
		"【出張日数／出張日】",
		"佐藤：日数=2日、日付=4/3, 4/4",
	}, "\n")
	assert.Equal(t, expected, first)
}

func TestBuildPromptPlaceholders(t *testing.T) {
	prompt := BuildPrompt("2026年4月", nil, []*domain.Travel{{Staff: "鈴木"}}, testRuleSet())

	assert.Contains(t, prompt, "（まだ希望が登録されていません）")
	assert.Contains(t, prompt, "鈴木：日数=未入力、日付=未入力")
}

func TestBuildPromptFollowsPreferenceOrder(t *testing.T) {
	a := &domain.Preference{Staff: "佐藤", Text: "A"}
	b := &domain.Preference{Staff: "鈴木", Text: "B"}

	assert.NotEqual(t,
		BuildPrompt("2026年4月", []*domain.Preference{a, b}, nil, testRuleSet()),
		BuildPrompt("2026年4月", []*domain.Preference{b, a}, nil, testRuleSet()),
	)
}

func TestBuildPromptWithoutStaffList(t *testing.T) {
	rs := testRuleSet()
	rs.StaffList = nil

	prompt := BuildPrompt("2026年4月", nil, nil, rs)
	assert.Contains(t, prompt, "【スタッフ一覧】\n（未設定）\n")

	prefs := []*domain.Preference{
		{Staff: "伊藤", Text: "A"},
		{Staff: "佐藤", Text: "B"},
		{Staff: "伊藤", Text: "C"},
	}
	prompt = BuildPrompt("2026年4月", prefs, nil, rs)
	assert.Contains(t, prompt, "【スタッフ一覧】\n伊藤、佐藤\n")
}
