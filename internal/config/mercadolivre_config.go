package config

type MercadoLivreConfig interface {
	GetMLClientID() string
	GetMLClientSecret() string
	GetMLAuthBaseURL() string
	GetMLTokenURL() string
	GetMLAPIBaseURL() string
}

type MercadoLivre struct{}

var _ MercadoLivreConfig = MercadoLivre{}

func (MercadoLivre) GetMLClientID() string {
	return GetEnv("MERCADO_LIVRE_CLIENT_ID", "")
}

func (MercadoLivre) GetMLClientSecret() string {
	return GetEnv("MERCADO_LIVRE_CLIENT_SECRET", "")
}

// GetMLAuthBaseURL is the browser-facing authorization host. The .com.br
// host is deliberate: seller logins live on the country site, not on the
// api host.
func (MercadoLivre) GetMLAuthBaseURL() string {
	return GetEnv("MERCADO_LIVRE_AUTH_URL", "https://auth.mercadolibre.com.br")
}

func (MercadoLivre) GetMLTokenURL() string {
	return GetEnv("MERCADO_LIVRE_TOKEN_URL", "https://api.mercadolibre.com/oauth/token")
}

func (MercadoLivre) GetMLAPIBaseURL() string {
	return GetEnv("MERCADO_LIVRE_API_URL", "https://api.mercadolibre.com")
}
