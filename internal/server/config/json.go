package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
	"github.com/dmitrijs2005/gophauth/internal/timex"
)

// JsonConfig mirrors Config for JSON files. Durations accept "24h" strings
// or integer nanoseconds.
type JsonConfig struct {
	EndpointAddrGRPC  string         `json:"endpoint_addr_grpc"`
	EndpointAddrHTTP  string         `json:"endpoint_addr_http"`
	DatabaseDriver    string         `json:"database_driver"`
	DatabaseDSN       string         `json:"database_dsn"`
	SecretKey         string         `json:"secret_key"`
	SecretKeyS3Object string         `json:"secret_key_s3_object"`
	TokenLifetime     timex.Duration `json:"token_lifetime"`
	TokenIssuer       string         `json:"token_issuer"`
	PasswordScheme    string         `json:"password_scheme"`
	LogLevel          string         `json:"log_level"`
	S3RootUser        string         `json:"s3_root_user"`
	S3RootPassword    string         `json:"s3_root_password"`
	S3Bucket          string         `json:"s3_bucket"`
	S3Region          string         `json:"s3_region"`
	S3BaseEndpoint    string         `json:"s3_base_endpoint"`
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// parseJson loads the file named by -c/-config in args, if any. Keys that
// are absent or empty keep their current value.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigPath(args)

	// nothing to load
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	overlay(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	overlay(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	overlay(&config.DatabaseDriver, c.DatabaseDriver)
	overlay(&config.DatabaseDSN, c.DatabaseDSN)
	overlay(&config.SecretKey, c.SecretKey)
	overlay(&config.SecretKeyS3Object, c.SecretKeyS3Object)
	overlay(&config.TokenIssuer, c.TokenIssuer)
	overlay(&config.PasswordScheme, c.PasswordScheme)
	overlay(&config.LogLevel, c.LogLevel)
	overlay(&config.S3RootUser, c.S3RootUser)
	overlay(&config.S3RootPassword, c.S3RootPassword)
	overlay(&config.S3Bucket, c.S3Bucket)
	overlay(&config.S3Region, c.S3Region)
	overlay(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	if c.TokenLifetime.Duration != 0 {
		config.TokenLifetime = c.TokenLifetime.Duration
	}

	return nil
}
