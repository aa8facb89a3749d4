package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const validConfig = `
telegram:
  token: "123456:TEST"
  admin_id: 42
  run_mode: longpoll
store:
  driver: sheets
  spreadsheet_id: "sheet-id"
  credentials_file: "creds.json"
`

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, StoreDriverSheets, cfg.Store.Driver)
	assert.Equal(t, SessionBackendMemory, cfg.Sessions.Backend)
	assert.Equal(t, ":10000", cfg.Health.Listen)
	assert.Equal(t, int64(42), cfg.Core.Telegram.AdminID)
	require.NotNil(t, cfg.CoreConfig())
	assert.Equal(t, "longpoll", cfg.CoreConfig().Telegram.RunMode)
}

func TestLoadConfigRequiresAdminID(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `
telegram:
  token: "123456:TEST"
store:
  driver: sheets
  spreadsheet_id: "sheet-id"
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "admin_id")
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `
telegram:
  token: "123456:TEST"
  admin_id: 42
store:
  driver: dynamo
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.driver")
}

func TestLoadConfigSheetsRequiresSpreadsheet(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `
telegram:
  token: "123456:TEST"
  admin_id: 42
store:
  driver: sheets
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spreadsheet_id")
}

func TestLoadConfigPostgresRequiresHost(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `
telegram:
  token: "123456:TEST"
  admin_id: 42
store:
  driver: postgres
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.host")
}

func TestLoadConfigRedisBackendRequiresAddr(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, validConfig+`
sessions:
  backend: redis
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis_addr")
}
