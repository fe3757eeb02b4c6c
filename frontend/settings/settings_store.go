package settings

import (
	"context"
	"encoding/json"
	"log/slog"

	"weighbridge/infrastructure/kv"
	"weighbridge/models"
)

// ConfigKey is the blob holding the receipt template configuration.
const ConfigKey = "weight_config"

// LoadTemplateConfig reads the stored config. Missing or unreadable blobs
// fall back to defaults instead of failing.
func LoadTemplateConfig(ctx context.Context, kvStore *kv.Store) (models.TemplateConfig, error) {
	blob, found, err := kvStore.Get(ctx, ConfigKey)
	if err != nil {
		return models.DefaultTemplateConfig(), err
	}
	if !found {
		return models.DefaultTemplateConfig(), nil
	}

	var cfg models.TemplateConfig
	if err := json.Unmarshal(blob, &cfg); err != nil {
		slog.Warn("stored template config unreadable, using defaults", slog.Any("err", err))
		return models.DefaultTemplateConfig(), nil
	}
	return cfg, nil
}

// SaveTemplateConfig overwrites the whole config blob.
func SaveTemplateConfig(ctx context.Context, kvStore *kv.Store, cfg models.TemplateConfig) error {
	blob, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	return kvStore.Set(ctx, ConfigKey, blob)
}
