package seed

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/och-dev/shiftkun/internal/config"
	"github.com/och-dev/shiftkun/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *repository.Repository {
	t.Helper()

	cfg := &config.Config{}
	cfg.Database.Driver = config.DriverSQLite
	cfg.Database.DSN = "file:" + filepath.Join(t.TempDir(), "seed.db")
	cfg.Database.ConnectTimeout = 5
	cfg.Database.QueryTimeout = 5
	cfg.Database.TransactionTimeout = 10
	cfg.Database.MaxOpenConns = 1
	cfg.Database.MaxIdleConns = 1

	dbpool, err := repository.OpenDB(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = dbpool.Close()
	})
	require.NoError(t, repository.Migrate(cfg.Database.Driver, dbpool))

	return repository.NewRepository(cfg, dbpool)
}

func TestSeedRandom(t *testing.T) {
	repo := newTestRepository(t)

	cnt, err := SeedRandom(repo, "2026年5月", 4)
	require.NoError(t, err)
	assert.Equal(t, 4, cnt)

	rs, err := repo.GetRuleSet()
	require.NoError(t, err)
	assert.Len(t, rs.StaffList, 4)

	prefs, err := repo.GetPreferencesByMonth("2026年5月")
	require.NoError(t, err)
	assert.Len(t, prefs, 4)

	travels, err := repo.GetTravelByMonth("2026年5月")
	require.NoError(t, err)
	assert.Len(t, travels, 4)

	_, err = SeedRandom(repo, "5月", 4)
	assert.Error(t, err)
}

func TestImportPreferences(t *testing.T) {
	repo := newTestRepository(t)

	src := "\ufeff月,氏名,希望\n" +
		"2026年4月,佐藤,3日 休み\n" +
		"2026年4月,,名前なし\n" +
		"2026年4月,鈴木,\"10日 出張, 11日 出張\"\n" +
		"2026年04月,高橋,20日 休み\n" +
		"来月,伊藤,休み\n"

	cnt, err := ImportPreferences(repo, strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, 3, cnt)

	prefs, err := repo.GetPreferencesByMonth("2026年4月")
	require.NoError(t, err)
	require.Len(t, prefs, 3)
	assert.Equal(t, "佐藤", prefs[0].Staff)
	assert.Equal(t, "10日 出張, 11日 出張", prefs[1].Text)
	assert.Equal(t, "高橋", prefs[2].Staff)
}

func TestImportPreferencesRejectsWrongHeader(t *testing.T) {
	repo := newTestRepository(t)

	_, err := ImportPreferences(repo, strings.NewReader("name,text\n佐藤,休み\n"))
	assert.Error(t, err)
}
