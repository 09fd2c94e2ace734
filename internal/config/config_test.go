package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Storage.Driver != "postgres" {
		t.Errorf("Storage.Driver = %q, want postgres", cfg.Storage.Driver)
	}
	if cfg.Database.Name != "bakery_db" {
		t.Errorf("Database.Name = %q, want bakery_db", cfg.Database.Name)
	}
	if cfg.JWT.ExpirationHours != 24 {
		t.Errorf("JWT.ExpirationHours = %d, want 24", cfg.JWT.ExpirationHours)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9100")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("REDIS_ADDR", "redis.internal:6379")

	cfg := Load()

	if cfg.Server.Port != 9100 {
		t.Errorf("Server.Port = %d, want 9100", cfg.Server.Port)
	}
	if cfg.Storage.Driver != "memory" {
		t.Errorf("Storage.Driver = %q, want memory", cfg.Storage.Driver)
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("Database.Host = %q, want db.internal", cfg.Database.Host)
	}
	if !cfg.Redis.Enabled || cfg.Redis.Addr != "redis.internal:6379" {
		t.Errorf("Redis = %+v, want enabled at redis.internal:6379", cfg.Redis)
	}
}
