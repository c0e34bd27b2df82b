package config

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// FeeConfig carries the fixed fee amounts that are not tied to a pricing
// table: the hostel charge and the one-time admission charge. Amounts are
// in paise.
type FeeConfig struct {
	HostelAmount    int64 `mapstructure:"hostelAmount"`
	AdmissionAmount int64 `mapstructure:"admissionAmount"`
}

func DefaultFeeConfig() FeeConfig {
	return FeeConfig{
		HostelAmount:    300_000,
		AdmissionAmount: 500_000,
	}
}

// FeeConfigHolder exposes the current FeeConfig and swaps it atomically on
// file change, so in-flight generations always see one consistent snapshot.
type FeeConfigHolder struct {
	current atomic.Value // holds FeeConfig
}

func NewFeeConfigHolder(log *zap.Logger) (*FeeConfigHolder, error) {
	log = log.Named("config.fees")
	v := viper.New()

	v.SetConfigName("fees")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/feeledger")
	v.AddConfigPath(".")

	v.SetEnvPrefix("FEELEDGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultFeeConfig()
		v.SetDefault("fees.hostelAmount", defaults.HostelAmount)
		v.SetDefault("fees.admissionAmount", defaults.AdmissionAmount)
	}

	var cfg FeeConfig
	if err := v.UnmarshalKey("fees", &cfg); err != nil {
		return nil, err
	}
	if err := validateFeeConfig(cfg); err != nil {
		return nil, err
	}

	holder := &FeeConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated FeeConfig
		if err := v.UnmarshalKey("fees", &updated); err != nil {
			log.Warn("fee config reload failed", zap.Error(err))
			return
		}
		if err := validateFeeConfig(updated); err != nil {
			log.Warn("fee config change ignored", zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("fee config reloaded",
			zap.String("file", e.Name),
			zap.Int64("hostel_amount", updated.HostelAmount),
			zap.Int64("admission_amount", updated.AdmissionAmount),
		)
	})

	return holder, nil
}

// NewStaticFeeConfigHolder returns a holder pinned to cfg. Tests use it.
func NewStaticFeeConfigHolder(cfg FeeConfig) *FeeConfigHolder {
	holder := &FeeConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *FeeConfigHolder) Get() FeeConfig {
	return h.current.Load().(FeeConfig)
}

func validateFeeConfig(cfg FeeConfig) error {
	if cfg.HostelAmount < 0 {
		return errors.New("fees.hostelAmount cannot be negative")
	}
	if cfg.AdmissionAmount < 0 {
		return errors.New("fees.admissionAmount cannot be negative")
	}
	return nil
}
