// Package config loads a host-side board profile: logging, codec format,
// button timing and SD card settings.
//
// Precedence, highest first: AUDIOBOARD_* environment variables, the
// profile file, built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"audioboard-go/audiohal"
	"audioboard-go/board"
	"audioboard-go/periph/sdcard"
)

// EnvPrefix is prepended to every environment override, e.g.
// AUDIOBOARD_SDCARD_MOUNT_ATTEMPTS=10.
const EnvPrefix = "AUDIOBOARD"

// Profile is the whole file.
type Profile struct {
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Codec   CodecConfig   `mapstructure:"codec" yaml:"codec"`
	Buttons ButtonsConfig `mapstructure:"buttons" yaml:"buttons"`
	SDCard  SDCardConfig  `mapstructure:"sdcard" yaml:"sdcard"`
}

// LoggingConfig controls x/logx and the optional rotating log file.
type LoggingConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR NONE debug info warn error none" yaml:"level"`

	// File, when set, receives log lines instead of stderr.
	File       string `mapstructure:"file" yaml:"file,omitempty"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" validate:"gte=0" yaml:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" validate:"gte=0" yaml:"max_backups"`
}

// CodecConfig is the I2S format shared by both codecs.
type CodecConfig struct {
	SampleRate uint32 `mapstructure:"sample_rate" validate:"oneof=8000 11025 16000 22050 32000 44100 48000" yaml:"sample_rate"`
	Bits       uint8  `mapstructure:"bits" validate:"oneof=16 24 32" yaml:"bits"`
}

// ButtonsConfig tunes the ADC ladder sampler.
type ButtonsConfig struct {
	SampleInterval  time.Duration `mapstructure:"sample_interval" validate:"gt=0" yaml:"sample_interval"`
	DebounceSamples int           `mapstructure:"debounce_samples" validate:"min=1" yaml:"debounce_samples"`
	LongPress       time.Duration `mapstructure:"long_press" validate:"gtfield=SampleInterval" yaml:"long_press"`
}

// SDCardConfig covers the card peripheral and the board's mount wait.
type SDCardConfig struct {
	Root          string        `mapstructure:"root" validate:"required,startswith=/" yaml:"root"`
	Mode          string        `mapstructure:"mode" validate:"oneof=1line 4line spi" yaml:"mode"`
	DetectPin     int           `mapstructure:"detect_pin" validate:"gte=-1" yaml:"detect_pin"`
	MountAttempts int           `mapstructure:"mount_attempts" validate:"min=1" yaml:"mount_attempts"`
	MountInterval time.Duration `mapstructure:"mount_interval" validate:"gt=0" yaml:"mount_interval"`
}

// Default mirrors board.DefaultConfig.
func Default() *Profile {
	bc := board.DefaultConfig()
	return &Profile{
		Logging: LoggingConfig{Level: "INFO", MaxSizeMB: 10, MaxBackups: 3},
		Codec: CodecConfig{
			SampleRate: bc.Codec.Iface.SampleRate,
			Bits:       bc.Codec.Iface.Bits,
		},
		Buttons: ButtonsConfig{
			SampleInterval:  bc.Buttons.SampleInterval,
			DebounceSamples: bc.Buttons.DebounceSamples,
			LongPress:       bc.Buttons.LongPress,
		},
		SDCard: SDCardConfig{
			Root:          bc.SDRoot,
			Mode:          "1line",
			DetectPin:     bc.SDDetectPin,
			MountAttempts: bc.MountPoll.Attempts,
			MountInterval: bc.MountPoll.Interval,
		},
	}
}

// Load reads the profile at path. An empty path yields the defaults with
// environment overrides applied.
func Load(path string) (*Profile, error) {
	v := viper.New()
	setupViper(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read profile: %w", err)
		}
	}

	var p Profile
	if err := v.Unmarshal(&p, viper.DecodeHook(decodeHooks())); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	if err := Validate(&p); err != nil {
		return nil, fmt.Errorf("profile validation failed: %w", err)
	}
	return &p, nil
}

// Validate checks the struct tags.
func Validate(p *Profile) error {
	return validator.New(validator.WithRequiredStructEnabled()).Struct(p)
}

// Save writes p as YAML, creating parent directories.
func Save(p *Profile, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create profile directory: %w", err)
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// setupViper registers every key with its default so environment variables
// resolve even when no file is read.
func setupViper(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("logging.max_size_mb", d.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", d.Logging.MaxBackups)
	v.SetDefault("codec.sample_rate", d.Codec.SampleRate)
	v.SetDefault("codec.bits", d.Codec.Bits)
	v.SetDefault("buttons.sample_interval", d.Buttons.SampleInterval)
	v.SetDefault("buttons.debounce_samples", d.Buttons.DebounceSamples)
	v.SetDefault("buttons.long_press", d.Buttons.LongPress)
	v.SetDefault("sdcard.root", d.SDCard.Root)
	v.SetDefault("sdcard.mode", d.SDCard.Mode)
	v.SetDefault("sdcard.detect_pin", d.SDCard.DetectPin)
	v.SetDefault("sdcard.mount_attempts", d.SDCard.MountAttempts)
	v.SetDefault("sdcard.mount_interval", d.SDCard.MountInterval)
}

func decodeHooks() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		durationDecodeHook(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// durationDecodeHook accepts "500ms" style strings and raw nanoseconds.
func durationDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			return time.ParseDuration(v)
		case int:
			return time.Duration(v), nil
		case int64:
			return time.Duration(v), nil
		case float64:
			return time.Duration(v), nil
		default:
			return data, nil
		}
	}
}

// ParseMode maps the profile spelling onto sdcard.Mode.
func ParseMode(s string) (sdcard.Mode, error) {
	switch strings.ToLower(s) {
	case "1line":
		return sdcard.Mode1Line, nil
	case "4line":
		return sdcard.Mode4Line, nil
	case "spi":
		return sdcard.ModeSPI, nil
	}
	return 0, fmt.Errorf("unknown sdcard mode %q", s)
}

// Board converts the profile to a board configuration and the requested
// card mode.
func (p *Profile) Board() (board.Config, sdcard.Mode, error) {
	mode, err := ParseMode(p.SDCard.Mode)
	if err != nil {
		return board.Config{}, 0, err
	}
	cfg := board.DefaultConfig()
	for _, c := range []*audiohal.CodecConfig{&cfg.Codec, &cfg.ADC} {
		c.Iface.SampleRate = p.Codec.SampleRate
		c.Iface.Bits = p.Codec.Bits
	}
	cfg.Buttons.SampleInterval = p.Buttons.SampleInterval
	cfg.Buttons.DebounceSamples = p.Buttons.DebounceSamples
	cfg.Buttons.LongPress = p.Buttons.LongPress
	cfg.SDRoot = p.SDCard.Root
	cfg.SDDetectPin = p.SDCard.DetectPin
	cfg.MountPoll = board.MountPoll{
		Attempts: p.SDCard.MountAttempts,
		Interval: p.SDCard.MountInterval,
	}
	return cfg, mode, nil
}
