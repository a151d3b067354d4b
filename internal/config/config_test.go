package config

import (
	"os"
	"path/filepath"
	"testing"
)

func setRequired(t *testing.T) {
	t.Setenv("ENV_FILE", "")
	t.Setenv("DB_APP_DATABASE", "forms")
	t.Setenv("DB_APP_USER", "app")
	t.Setenv("AUTHZ_URL", "http://authorizer:8080")
	t.Setenv("AUTHZ_CLIENT_ID", "client")
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "3000" || cfg.DBType != "mysql" || cfg.SubmissionPageLimit != 100 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.KeySubmissionsByID {
		t.Error("submissions are keyed by label by default")
	}
}

func TestLoadMissingRequired(t *testing.T) {
	t.Chdir(t.TempDir())
	setRequired(t)
	t.Setenv("AUTHZ_CLIENT_ID", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing AUTHZ_CLIENT_ID")
	}
}

func TestLoadSQLiteNeedsNoUser(t *testing.T) {
	t.Chdir(t.TempDir())
	setRequired(t)
	t.Setenv("DB_APP_USER", "")
	t.Setenv("DB_TYPE", "sqlite-pure")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.IsSQLite() {
		t.Error("expected sqlite config")
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	setRequired(t)
	// godotenv never overrides variables that are already set
	t.Setenv("PORT", "")
	os.Unsetenv("PORT")
	t.Setenv("KEY_SUBMISSIONS_BY_ID", "")
	os.Unsetenv("KEY_SUBMISSIONS_BY_ID")

	envFile := filepath.Join(dir, "forms.env")
	if err := os.WriteFile(envFile, []byte("PORT=4100\nKEY_SUBMISSIONS_BY_ID=true\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ENV_FILE", envFile)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "4100" || !cfg.KeySubmissionsByID {
		t.Errorf("env file not applied: %+v", cfg)
	}

	t.Setenv("ENV_FILE", filepath.Join(dir, "missing.env"))
	if _, err := Load(); err == nil {
		t.Error("expected error for explicit missing env file")
	}
}
