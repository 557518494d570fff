package defs

import (
	"go.uber.org/zap"
)

const DefaultDB = "glikoz"

const EntriesCollection = "entries"

type Config struct {
	Thresholds Thresholds  `yaml:"thresholds"`
	Mongo      MongoConfig `yaml:"mongo"`
	Logger     *zap.Logger `yaml:"_,omitempty"`
}

type MongoConfig struct {
	URI      string `yaml:"uri"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// WithDefaults fills unset thresholds with the standard values.
func (c Config) WithDefaults() Config {
	if c.Thresholds.Low == 0 {
		c.Thresholds.Low = DefaultLowThreshold
	}
	if c.Thresholds.High == 0 {
		c.Thresholds.High = DefaultHighThreshold
	}
	if c.Thresholds.VeryLow == 0 {
		c.Thresholds.VeryLow = DefaultVeryLowThreshold
	}
	return c
}
