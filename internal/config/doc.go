// Package config loads and validates robot-admin configuration from YAML.
//
// Configuration supports ${VAR_NAME} environment variable expansion and
// human-readable duration strings ("2s", "500ms"). Liveness TTL, reaper
// sweep interval, and push-stream pacing are all independent knobs with
// conservative defaults.
package config
