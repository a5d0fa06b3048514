package config

import (
	"time"

	"github.com/sosodev/duration"
)

// JWTConfig holds token signing configuration
type JWTConfig struct {
	Secret             string `env:"JWT_SECRET" env-default:"very-secure-jwt-secret"`
	Issuer             string `env:"JWT_ISSUER" env-default:"simple-oauth2"`
	Audience           string `env:"JWT_AUDIENCE" env-default:"simple-oauth2"`
	AccessTokenExpiry  string `env:"ACCESS_TOKEN_EXPIRY" env-default:"15m"`
	RefreshTokenExpiry string `env:"REFRESH_TOKEN_EXPIRY" env-default:"24h"`
	IDTokenExpiry      string `env:"ID_TOKEN_EXPIRY" env-default:"1h"`
}

// ParseAccessTokenExpiry parses the access token expiry duration
func (j JWTConfig) ParseAccessTokenExpiry() (time.Duration, error) {
	return parseDurationISO8601(j.AccessTokenExpiry)
}

// ParseRefreshTokenExpiry parses the refresh token expiry duration
func (j JWTConfig) ParseRefreshTokenExpiry() (time.Duration, error) {
	return parseDurationISO8601(j.RefreshTokenExpiry)
}

// ParseIDTokenExpiry parses the identity token expiry duration
func (j JWTConfig) ParseIDTokenExpiry() (time.Duration, error) {
	return parseDurationISO8601(j.IDTokenExpiry)
}

// NewJWTConfigFromEnv creates a JWTConfig from environment variables
func NewJWTConfigFromEnv() JWTConfig {
	return JWTConfig{
		Secret:             GetEnvOrDefault("JWT_SECRET", "very-secure-jwt-secret"),
		Issuer:             GetEnvOrDefault("JWT_ISSUER", "simple-oauth2"),
		Audience:           GetEnvOrDefault("JWT_AUDIENCE", "simple-oauth2"),
		AccessTokenExpiry:  GetEnvOrDefault("ACCESS_TOKEN_EXPIRY", "15m"),
		RefreshTokenExpiry: GetEnvOrDefault("REFRESH_TOKEN_EXPIRY", "24h"),
		IDTokenExpiry:      GetEnvOrDefault("ID_TOKEN_EXPIRY", "1h"),
	}
}

// parseDurationISO8601 tries to parse duration as ISO8601 first, then Go duration
func parseDurationISO8601(s string) (time.Duration, error) {
	isoDuration, err := duration.Parse(s)
	if err == nil {
		return isoDuration.ToTimeDuration(), nil
	}

	return time.ParseDuration(s)
}
