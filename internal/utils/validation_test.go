package utils

import (
	"testing"

	"github.com/och-dev/shiftkun/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeStaffList(t *testing.T) {
	assert.Equal(t, []string{"佐藤", "鈴木", "高橋"}, NormalizeStaffList(" 佐藤、鈴木 ,, 高橋 "))
	assert.Empty(t, NormalizeStaffList(" 、 , "))
}

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitLines("a\r\n\r\n  b  \n"))
}

func TestSplitNonEmpty(t *testing.T) {
	assert.Equal(t, []string{"佐藤", "鈴木"}, SplitNonEmpty(" 佐藤 ,,鈴木, ", ","))
	assert.Equal(t, []string{}, SplitNonEmpty("", "\n"))
}

func TestValidateRuleSet(t *testing.T) {
	valid := func() *domain.RuleSet { return domain.DefaultRuleSet([]string{"佐藤", "鈴木"}) }

	assert.NoError(t, ValidateRuleSet(valid()))

	cases := []struct {
		name   string
		modify func(rs *domain.RuleSet)
		want   error
	}{
		{"空のスタッフ", func(rs *domain.RuleSet) { rs.StaffList = nil }, ErrStaffListEmpty},
		{"重複", func(rs *domain.RuleSet) { rs.StaffList = []string{"佐藤", "佐藤"} }, ErrStaffListDuplicated},
		{"基本ルール", func(rs *domain.RuleSet) { rs.BaseRules = nil }, ErrBaseRulesEmpty},
		{"個別制約", func(rs *domain.RuleSet) { rs.IndividualRules = nil }, ErrIndividualRulesEmpty},
		{"追加ルール", func(rs *domain.RuleSet) { rs.AdditionalRules = nil }, ErrAdditionalRulesEmpty},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rs := valid()
			tc.modify(rs)
			assert.ErrorIs(t, ValidateRuleSet(rs), tc.want)
		})
	}
}

func TestJoinPreferenceNote(t *testing.T) {
	assert.Equal(t, "4/12 休み", JoinPreferenceNote(" 4/12 休み ", "  "))
	assert.Equal(t, "4/12 休み / 備考: 学会", JoinPreferenceNote("4/12 休み", "学会"))
}

func TestMissingStaff(t *testing.T) {
	prefs := []*domain.Preference{{Staff: "鈴木"}, {Staff: "部外者"}}

	assert.Equal(t, []string{"佐藤", "高橋"}, MissingStaff([]string{"佐藤", "鈴木", "高橋"}, prefs))
}
