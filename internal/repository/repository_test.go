package repository

import (
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/och-dev/shiftkun/internal/config"
	"github.com/och-dev/shiftkun/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMonth = "2026年4月"

func newTestConfig(dbPath string) *config.Config {
	cfg := &config.Config{}
	cfg.App.StaffList = []string{"佐藤", "鈴木", "高橋"}
	cfg.Database.Driver = config.DriverSQLite
	cfg.Database.DSN = "file:" + dbPath + "?_pragma=busy_timeout(5000)"
	cfg.Database.ConnectTimeout = 5
	cfg.Database.QueryTimeout = 5
	cfg.Database.TransactionTimeout = 10
	cfg.Database.MaxOpenConns = 1
	cfg.Database.MaxIdleConns = 1
	cfg.Database.MaxIdleTime = 60
	return cfg
}

func openTestRepository(t *testing.T, dbPath string) (*Repository, *sql.DB) {
	t.Helper()

	cfg := newTestConfig(dbPath)
	dbpool, err := OpenDB(cfg)
	require.NoError(t, err)
	require.NoError(t, Migrate(cfg.Database.Driver, dbpool))

	return NewRepository(cfg, dbpool), dbpool
}

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	repo, dbpool := openTestRepository(t, filepath.Join(t.TempDir(), "shiftkun.db"))
	t.Cleanup(func() {
		_ = dbpool.Close()
	})
	return repo
}

func int32Ptr(v int32) *int32 { return &v }

func TestPreferencesKeepInsertionOrder(t *testing.T) {
	repo := newTestRepository(t)

	for _, staff := range []string{"高橋", "佐藤", "鈴木"} {
		require.NoError(t, repo.InsertPreference(&domain.Preference{
			Month: testMonth,
			Staff: staff,
			Text:  "4/12 休み",
		}))
	}
	require.NoError(t, repo.InsertPreference(&domain.Preference{Month: "2026年5月", Staff: "佐藤", Text: "特になし"}))

	prefs, err := repo.GetPreferencesByMonth(testMonth)
	require.NoError(t, err)
	require.Len(t, prefs, 3)
	assert.Equal(t, "高橋", prefs[0].Staff)
	assert.Equal(t, "佐藤", prefs[1].Staff)
	assert.Equal(t, "鈴木", prefs[2].Staff)
	assert.NotZero(t, prefs[0].ID)
	assert.False(t, prefs[0].CreatedAt.IsZero())

	mine, err := repo.GetPreferencesByMonthAndStaff(testMonth, "佐藤")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "4/12 休み", mine[0].Text)
}

func TestSaveScheduleLastWriteWins(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.GetSchedule(testMonth, domain.ScheduleStatusFinal)
	require.ErrorIs(t, err, sql.ErrNoRows)

	first := &domain.Schedule{Month: testMonth, Status: domain.ScheduleStatusFinal, Table: "v1", Tally: "t1", ChangeLog: "c1"}
	require.NoError(t, repo.SaveSchedule(first, nil))
	assert.Equal(t, int32(1), first.Version)

	second := &domain.Schedule{Month: testMonth, Status: domain.ScheduleStatusFinal, Table: "v2", Tally: "t2", ChangeLog: "c2"}
	require.NoError(t, repo.SaveSchedule(second, nil))
	assert.Equal(t, int32(2), second.Version)
	assert.Equal(t, first.ID, second.ID)

	got, err := repo.GetSchedule(testMonth, domain.ScheduleStatusFinal)
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Table)
	assert.Equal(t, "t2", got.Tally)
	assert.Equal(t, "c2", got.ChangeLog)
	assert.Equal(t, int32(2), got.Version)
}

func TestSaveScheduleVersionConflict(t *testing.T) {
	repo := newTestRepository(t)

	s := &domain.Schedule{Month: testMonth, Status: domain.ScheduleStatusDraft, Table: "v1"}
	require.ErrorIs(t, repo.SaveSchedule(s, int32Ptr(3)), ErrVersionConflict)
	require.NoError(t, repo.SaveSchedule(s, int32Ptr(0)))

	stale := &domain.Schedule{Month: testMonth, Status: domain.ScheduleStatusDraft, Table: "stale"}
	require.NoError(t, repo.SaveSchedule(&domain.Schedule{Month: testMonth, Status: domain.ScheduleStatusDraft, Table: "v2"}, int32Ptr(1)))
	require.ErrorIs(t, repo.SaveSchedule(stale, int32Ptr(1)), ErrVersionConflict)

	got, err := repo.GetSchedule(testMonth, domain.ScheduleStatusDraft)
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Table)
}

func TestSaveScheduleConcurrentWriters(t *testing.T) {
	repo := newTestRepository(t)

	const writers = 8
	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.SaveSchedule(&domain.Schedule{Month: testMonth, Status: domain.ScheduleStatusFinal, Table: "first"}, nil)
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	got, err := repo.GetSchedule(testMonth, domain.ScheduleStatusFinal)
	require.NoError(t, err)
	assert.Equal(t, int32(writers), got.Version)

	// 同一个版本号并发保存时只有一个能成功
	conflicts := 0
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.SaveSchedule(&domain.Schedule{Month: testMonth, Status: domain.ScheduleStatusFinal, Table: "second"}, int32Ptr(writers))
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		if errors.Is(err, ErrVersionConflict) {
			conflicts++
			continue
		}
		require.NoError(t, err)
	}
	assert.Equal(t, writers-1, conflicts)

	got, err = repo.GetSchedule(testMonth, domain.ScheduleStatusFinal)
	require.NoError(t, err)
	assert.Equal(t, int32(writers+1), got.Version)
	assert.Equal(t, "second", got.Table)

	require.ErrorIs(t, repo.SaveSchedule(&domain.Schedule{Month: testMonth, Status: domain.ScheduleStatusFinal, Table: "again"}, int32Ptr(0)), ErrVersionConflict)
}

func TestGetLatestSchedule(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.GetLatestFinalSchedule()
	require.ErrorIs(t, err, sql.ErrNoRows)

	require.NoError(t, repo.SaveSchedule(&domain.Schedule{Month: testMonth, Status: domain.ScheduleStatusFinal, Table: "final"}, nil))
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, repo.SaveSchedule(&domain.Schedule{Month: testMonth, Status: domain.ScheduleStatusDraft, Table: "draft"}, nil))

	latest, err := repo.GetLatestSchedule(testMonth)
	require.NoError(t, err)
	assert.Equal(t, "draft", latest.Table)

	// 跨月份查询时优先返回确定版
	shared, err := repo.GetLatestFinalSchedule()
	require.NoError(t, err)
	assert.Equal(t, "final", shared.Table)
}

func TestUpsertTravel(t *testing.T) {
	repo := newTestRepository(t)

	dates := "4/3, 4/4"
	require.NoError(t, repo.UpsertTravel(&domain.Travel{Month: testMonth, Staff: "佐藤", Days: int32Ptr(2), Dates: &dates}))
	require.NoError(t, repo.UpsertTravel(&domain.Travel{Month: testMonth, Staff: "佐藤", Days: int32Ptr(3)}))
	require.NoError(t, repo.UpsertTravel(&domain.Travel{Month: testMonth, Staff: "鈴木"}))

	travels, err := repo.GetTravelByMonth(testMonth)
	require.NoError(t, err)
	require.Len(t, travels, 2)

	sato, err := repo.GetTravel(testMonth, "佐藤")
	require.NoError(t, err)
	require.NotNil(t, sato.Days)
	assert.Equal(t, int32(3), *sato.Days)
	assert.Nil(t, sato.Dates)

	_, err = repo.GetTravel(testMonth, "高橋")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestRuleSetDefaultsAndRevisions(t *testing.T) {
	repo := newTestRepository(t)

	rs, err := repo.GetRuleSet()
	require.NoError(t, err)
	assert.Equal(t, []string{"佐藤", "鈴木", "高橋"}, rs.StaffList)
	assert.Equal(t, domain.DefaultBaseRules, rs.BaseRules)

	updated := &domain.RuleSet{
		StaffList:       []string{"佐藤", "田中"},
		BaseRules:       []string{"連続勤務は4日まで"},
		IndividualRules: []string{"田中は土日休み"},
		AdditionalRules: []string{"表形式で出力"},
	}
	require.NoError(t, repo.UpdateRuleSet(updated, "管理者"))

	rs, err = repo.GetRuleSet()
	require.NoError(t, err)
	assert.Equal(t, updated, rs)

	revisions, err := repo.GetRuleSetRevisions(10)
	require.NoError(t, err)
	require.Len(t, revisions, 1)
	assert.Equal(t, "管理者", revisions[0].Editor)
	assert.Equal(t, []string{"佐藤", "鈴木", "高橋"}, revisions[0].StaffList)
}

func TestReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "shiftkun.db")

	repo, dbpool := openTestRepository(t, dbPath)
	require.NoError(t, repo.InsertPreference(&domain.Preference{Month: testMonth, Staff: "佐藤", Text: "4/1 日勤のみ"}))
	require.NoError(t, repo.SaveSchedule(&domain.Schedule{Month: testMonth, Status: domain.ScheduleStatusFinal, Table: "saved"}, nil))
	require.NoError(t, dbpool.Close())

	repo, dbpool = openTestRepository(t, dbPath)
	defer dbpool.Close()

	prefs, err := repo.GetPreferencesByMonth(testMonth)
	require.NoError(t, err)
	require.Len(t, prefs, 1)
	assert.Equal(t, "4/1 日勤のみ", prefs[0].Text)

	schedule, err := repo.GetSchedule(testMonth, domain.ScheduleStatusFinal)
	require.NoError(t, err)
	assert.Equal(t, "saved", schedule.Table)
}

func TestBackupRoundTrip(t *testing.T) {
	repo := newTestRepository(t)

	require.NoError(t, repo.InsertPreference(&domain.Preference{Month: testMonth, Staff: "佐藤", Text: "4/12 休み"}))
	require.NoError(t, repo.SaveSchedule(&domain.Schedule{Month: testMonth, Status: domain.ScheduleStatusFinal, Table: "table", Tally: "tally", ChangeLog: "log"}, nil))
	require.NoError(t, repo.UpsertTravel(&domain.Travel{Month: testMonth, Staff: "佐藤", Days: int32Ptr(1)}))
	require.NoError(t, repo.UpdateRuleSet(domain.DefaultRuleSet([]string{"佐藤"}), "管理者"))

	backup, err := repo.ExportAll()
	require.NoError(t, err)
	assert.Equal(t, domain.BackupFormatVersion, backup.Version)
	assert.Len(t, backup.Data.Preferences, 1)
	assert.Len(t, backup.Data.Schedules, 1)
	assert.Len(t, backup.Data.Travel, 1)
	assert.Len(t, backup.Data.Config, 4)
	assert.Len(t, backup.Data.RuleSetRevisions, 1)

	other := newTestRepository(t)
	require.NoError(t, other.InsertPreference(&domain.Preference{Month: testMonth, Staff: "鈴木", Text: "消えるはず"}))
	require.NoError(t, other.RestoreAll(&backup.Data))

	prefs, err := other.GetPreferencesByMonth(testMonth)
	require.NoError(t, err)
	require.Len(t, prefs, 1)
	assert.Equal(t, "佐藤", prefs[0].Staff)

	schedule, err := other.GetSchedule(testMonth, domain.ScheduleStatusFinal)
	require.NoError(t, err)
	assert.Equal(t, "table", schedule.Table)

	rs, err := other.GetRuleSet()
	require.NoError(t, err)
	assert.Equal(t, []string{"佐藤"}, rs.StaffList)
}
