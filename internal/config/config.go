package config

import (
	"errors"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config centraliza a configuração carregada do ambiente.
type Config struct {
	Port            int
	DBDSN           string
	RedisURL        string
	JWTSecret       string
	JWTExpiration   time.Duration
	AllowOrigins    []string
	TrustedProxies  []netip.Prefix
	RateLimitPublic RateLimitConfig
	RateLimitAuth   RateLimitConfig
	Login           LoginLimitConfig
	MigrateOnStart  bool
	LogLevel        zerolog.Level
}

// RateLimitConfig representa limites simples para throttling.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// LoginLimitConfig controla o bloqueio temporário após falhas de login.
type LoginLimitConfig struct {
	MaxFails int
	Window   time.Duration
	BlockFor time.Duration
}

// Load carrega variáveis de ambiente e aplica defaults seguros.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 {
		return nil, errors.New("PORT inválida")
	}
	cfg.Port = port

	cfg.DBDSN = getEnv("DB_DSN", "")
	if cfg.DBDSN == "" {
		return nil, errors.New("DB_DSN obrigatório")
	}

	// sem REDIS_URL o bloqueio de login fica desligado
	cfg.RedisURL = strings.TrimSpace(getEnv("REDIS_URL", ""))

	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", ""))
	if len(cfg.JWTSecret) < 32 {
		return nil, errors.New("JWT_SECRET deve ter pelo menos 32 caracteres")
	}

	expiration, err := parseDurationEnv("JWT_EXPIRATION", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	if expiration <= 0 {
		return nil, errors.New("JWT_EXPIRATION deve ser positivo")
	}
	cfg.JWTExpiration = expiration

	cfg.AllowOrigins = splitList(getEnv("ALLOW_ORIGINS", ""))

	// headers X-Forwarded-For/X-Real-IP só valem vindos destes endereços
	proxies, err := parsePrefixes(splitList(getEnv("TRUSTED_PROXIES", "")))
	if err != nil {
		return nil, err
	}
	cfg.TrustedProxies = proxies

	cfg.RateLimitPublic = RateLimitConfig{RequestsPerSecond: 10, Burst: 20}
	cfg.RateLimitAuth = RateLimitConfig{RequestsPerSecond: 10, Burst: 40}

	maxFails, err := parseIntEnv("LOGIN_MAX_FAILS", 5)
	if err != nil {
		return nil, err
	}
	window, err := parseDurationEnv("LOGIN_WINDOW", 15*time.Minute)
	if err != nil {
		return nil, err
	}
	blockFor, err := parseDurationEnv("LOGIN_BLOCK_FOR", 15*time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.Login = LoginLimitConfig{MaxFails: maxFails, Window: window, BlockFor: blockFor}

	migrate, err := strconv.ParseBool(getEnv("MIGRATE_ON_START", "true"))
	if err != nil {
		return nil, errors.New("MIGRATE_ON_START inválido")
	}
	cfg.MigrateOnStart = migrate

	level, err := zerolog.ParseLevel(strings.ToLower(getEnv("LOG_LEVEL", "info")))
	if err != nil {
		return nil, errors.New("LOG_LEVEL inválido")
	}
	cfg.LogLevel = level

	return cfg, nil
}

func getEnv(key, def string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return def
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// parsePrefixes aceita IPs soltos ou CIDRs.
func parsePrefixes(entries []string) ([]netip.Prefix, error) {
	out := make([]netip.Prefix, 0, len(entries))
	for _, entry := range entries {
		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, errors.New("TRUSTED_PROXIES inválido: " + entry)
			}
			out = append(out, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, errors.New("TRUSTED_PROXIES inválido: " + entry)
		}
		addr = addr.Unmap()
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	val := getEnv(key, "")
	if val == "" {
		return def, nil
	}
	dur, err := time.ParseDuration(val)
	if err != nil {
		return 0, errors.New(key + " inválido")
	}
	return dur, nil
}

func parseIntEnv(key string, def int) (int, error) {
	val := strings.TrimSpace(getEnv(key, ""))
	if val == "" {
		return def, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		return 0, errors.New(key + " inválido")
	}
	return n, nil
}
