package config

type Config interface {
	EnvConfig
	CorsConfig
	MercadoLivreConfig
	SecurityConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetFrontendURL() string
	GetDatabaseURL() string
	GetEnv() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cors
	MercadoLivre
	Security
}

func New() Config {
	return mainConfig{}
}
