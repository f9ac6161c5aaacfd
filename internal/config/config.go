package config

import (
	"time"

	"github.com/spf13/viper"
)

type AppConf struct {
	Env            string        `mapstructure:"env"`
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	ShutdownSecond int           `mapstructure:"shutdown_seconds"`
}

type MongoConf struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type RedisConf struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type AWSConf struct {
	Region   string `mapstructure:"region"`
	Bucket   string `mapstructure:"bucket"`
	Endpoint string `mapstructure:"endpoint"`
}

type JWTConf struct {
	Secret     string `mapstructure:"secret"`
	TTLMinutes int    `mapstructure:"ttl_minutes"`
	CookieName string `mapstructure:"cookie_name"`
}

type OTPConf struct {
	ExpireMinutes      int `mapstructure:"expire_minutes"`
	ResetExpireMinutes int `mapstructure:"reset_expire_minutes"`
	RateLimitPerHour   int `mapstructure:"rate_limit_per_hour"`
}

type BrevoConf struct {
	APIKey    string `mapstructure:"api_key"`
	FromEmail string `mapstructure:"from_email"`
	FromName  string `mapstructure:"from_name"`
}

type Config struct {
	App   AppConf   `mapstructure:"app"`
	Mongo MongoConf `mapstructure:"mongodb"`
	Redis RedisConf `mapstructure:"redis"`
	AWS   AWSConf   `mapstructure:"aws"`
	JWT   JWTConf   `mapstructure:"jwt"`
	OTP   OTPConf   `mapstructure:"otp"`
	Brevo BrevoConf `mapstructure:"brevo"`
	Log   struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`

	// derived
	ShutdownTimeout time.Duration
	TokenTTL        time.Duration
	OTPExpiry       time.Duration
	ResetOTPExpiry  time.Duration
}

func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if cfg.App.ShutdownSecond == 0 {
		cfg.App.ShutdownSecond = 15
	}
	if cfg.JWT.TTLMinutes == 0 {
		cfg.JWT.TTLMinutes = 60
	}
	if cfg.JWT.CookieName == "" {
		cfg.JWT.CookieName = "token"
	}
	if cfg.OTP.ExpireMinutes == 0 {
		cfg.OTP.ExpireMinutes = 5
	}
	// reset window is fixed at ten minutes unless overridden
	if cfg.OTP.ResetExpireMinutes == 0 {
		cfg.OTP.ResetExpireMinutes = 10
	}
	if cfg.OTP.RateLimitPerHour == 0 {
		cfg.OTP.RateLimitPerHour = 5
	}
	cfg.ShutdownTimeout = time.Duration(cfg.App.ShutdownSecond) * time.Second
	cfg.TokenTTL = time.Duration(cfg.JWT.TTLMinutes) * time.Minute
	cfg.OTPExpiry = time.Duration(cfg.OTP.ExpireMinutes) * time.Minute
	cfg.ResetOTPExpiry = time.Duration(cfg.OTP.ResetExpireMinutes) * time.Minute
	return &cfg, nil
}
