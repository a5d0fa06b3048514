// Package config provides configuration loading for simple-oauth2.
//
// It centralizes environment variable helpers and the database and token
// signing settings shared by the server binary. Durations accept both Go
// (15m) and ISO 8601 (PT15M) forms.
package config
