package seed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/och-dev/shiftkun/internal/domain"
	"github.com/och-dev/shiftkun/internal/repository"
	"github.com/och-dev/shiftkun/internal/utils"
)

var csvHeader = []string{"月", "氏名", "希望"}

// SeedRandom 生成 n 个随机人员，把他们写入规则并为每人插入希望和出差记录
func SeedRandom(r *repository.Repository, month string, n int) (int, error) {
	month, err := utils.NormalizeMonth(month)
	if err != nil {
		return 0, err
	}

	staffList := utils.GenerateRandomStaffList(n)

	rs, err := r.GetRuleSet()
	if err != nil {
		return 0, err
	}
	rs.StaffList = staffList
	if err := r.UpdateRuleSet(rs, "seed"); err != nil {
		return 0, err
	}

	cnt := 0
	for _, staff := range staffList {
		pref, err := utils.GenerateRandomPreference(month, staff)
		if err != nil {
			slog.Error("无法生成随机希望", "staff", staff, "error", err)
			continue
		}
		if err := r.InsertPreference(pref); err != nil {
			slog.Error("无法插入希望", "staff", staff, "error", err)
			continue
		}

		travel, err := utils.GenerateRandomTravel(month, staff)
		if err != nil {
			slog.Error("无法生成随机出差记录", "staff", staff, "error", err)
			continue
		}
		if err := r.UpsertTravel(travel); err != nil {
			slog.Error("无法插入出差记录", "staff", staff, "error", err)
			continue
		}

		cnt++
	}

	return cnt, nil
}

// SeedFromCSV 导入「月,氏名,希望」格式的 CSV，与管理画面导出的格式相同
func SeedFromCSV(r *repository.Repository, path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("打开文件失败: %w", err)
	}
	defer file.Close()

	return ImportPreferences(r, file)
}

func ImportPreferences(r *repository.Repository, src io.Reader) (int, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = len(csvHeader)

	// 读取表头
	headers, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("读取表头失败: %w", err)
	}
	for i, h := range headers {
		if strings.TrimPrefix(strings.TrimSpace(h), "\ufeff") != csvHeader[i] {
			return 0, fmt.Errorf("表头不正确: %v", headers)
		}
	}

	cnt := 0
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return cnt, fmt.Errorf("读取第 %d 行失败: %w", line, err)
		}

		month, err := utils.NormalizeMonth(record[0])
		pref := &domain.Preference{
			Month: month,
			Staff: strings.TrimSpace(record[1]),
			Text:  strings.TrimSpace(record[2]),
		}
		if err != nil || pref.Staff == "" || pref.Text == "" {
			slog.Warn("跳过不完整的行", "line", line)
			continue
		}

		if err := r.InsertPreference(pref); err != nil {
			return cnt, err
		}
		cnt++
	}

	return cnt, nil
}
