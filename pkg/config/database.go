package config

import (
	dbutils "github.com/tendant/db-utils/db"
)

// DatabaseConfig holds PostgreSQL database configuration for the
// authorization store
type DatabaseConfig struct {
	Host     string `env:"OAUTH2_PG_HOST" env-default:"localhost"`
	Port     uint16 `env:"OAUTH2_PG_PORT" env-default:"5432"`
	Database string `env:"OAUTH2_PG_DATABASE" env-default:"oauth2_db"`
	User     string `env:"OAUTH2_PG_USER" env-default:"oauth2"`
	Password string `env:"OAUTH2_PG_PASSWORD" env-default:"pwd"`
	Schema   string `env:"OAUTH2_PG_SCHEMA" env-default:"public"`
}

// ToDbConfig converts the config to a db-utils DbConfig
func (d DatabaseConfig) ToDbConfig() dbutils.DbConfig {
	return dbutils.DbConfig{
		Host:     d.Host,
		Port:     d.Port,
		Database: d.Database,
		User:     d.User,
		Password: d.Password,
	}
}

// NewDatabaseConfigFromEnv creates a DatabaseConfig from environment variables
func NewDatabaseConfigFromEnv() DatabaseConfig {
	return DatabaseConfig{
		Host:     GetEnvOrDefault("OAUTH2_PG_HOST", "localhost"),
		Port:     GetEnvUint16("OAUTH2_PG_PORT", 5432),
		Database: GetEnvOrDefault("OAUTH2_PG_DATABASE", "oauth2_db"),
		User:     GetEnvOrDefault("OAUTH2_PG_USER", "oauth2"),
		Password: GetEnvOrDefault("OAUTH2_PG_PASSWORD", "pwd"),
		Schema:   GetEnvOrDefault("OAUTH2_PG_SCHEMA", "public"),
	}
}
