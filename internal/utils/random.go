package utils

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/och-dev/shiftkun/internal/domain"
)

var commonSurnames = []string{
	"佐藤", "鈴木", "高橋", "田中", "伊藤", "渡辺", "山本", "中村", "小林", "加藤",
	"吉田", "山田", "佐々木", "山口", "松本", "井上", "木村", "林", "斎藤", "清水",
}

var preferenceKinds = []string{"休み", "年休", "出張", "早番のみ", "日勤のみ", "夜勤", "準夜", "○", "●"}

// GenerateRandomStaffList 生成 n 个不重复的姓氏作为员工名单
func GenerateRandomStaffList(n int) []string {
	if n > len(commonSurnames) {
		n = len(commonSurnames)
	}

	perm := rand.Perm(len(commonSurnames))
	staff := make([]string, 0, n)
	for _, i := range perm[:n] {
		staff = append(staff, commonSurnames[i])
	}
	return staff
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// GenerateRandomPreference 生成形如「4/3 休み、4/18 夜勤」的希望
func GenerateRandomPreference(month string, staff string) (*domain.Preference, error) {
	year, m, err := ParseMonth(month)
	if err != nil {
		return nil, err
	}

	n := rand.Intn(4) + 1
	days := rand.Perm(daysIn(year, m))[:n]

	tokens := make([]string, 0, n)
	for _, day := range days {
		tokens = append(tokens, fmt.Sprintf("%d/%d %s", int(m), day+1, preferenceKinds[rand.Intn(len(preferenceKinds))]))
	}

	return &domain.Preference{
		Month: month,
		Staff: staff,
		Text:  strings.Join(tokens, "、"),
	}, nil
}

func GenerateRandomTravel(month string, staff string) (*domain.Travel, error) {
	year, m, err := ParseMonth(month)
	if err != nil {
		return nil, err
	}

	n := int32(rand.Intn(3) + 1)
	start := rand.Intn(daysIn(year, m)-int(n)) + 1

	dates := make([]string, 0, n)
	for i := 0; i < int(n); i++ {
		dates = append(dates, fmt.Sprintf("%d/%d", int(m), start+i))
	}
	joined := strings.Join(dates, ", ")

	return &domain.Travel{
		Month: month,
		Staff: staff,
		Days:  &n,
		Dates: &joined,
	}, nil
}
