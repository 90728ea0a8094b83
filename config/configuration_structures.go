package config

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// JWTConfig : подпись токенов.
// Ключи задаются путями к PEM файлам и читаются один раз при старте.
// TTL задаются строками в формате time.ParseDuration ("15m", "720h").
type JWTConfig struct {
	PrivateKeyPath  string `yaml:"private_key_path"`
	PublicKeyPath   string `yaml:"public_key_path"`
	Issuer          string `yaml:"issuer"`
	AccessTokenTTL  string `yaml:"access_token_ttl"`
	RefreshTokenTTL string `yaml:"refresh_token_ttl"`
}

type TTL struct {
	// Время жизни записи клиента в кэше Redis, в секундах
	ClientCache int `yaml:"client_cache"`
}
