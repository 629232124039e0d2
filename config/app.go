package config

// App is the typed view of the settings the core components need.
// It is built once at boot and handed to the token manager, mailer, and
// payment client at construction time, so none of them reach back into
// the process environment.
type App struct {
	Env         string
	Port        string
	Secret      string // session token signing key
	FrontendURL string // base URL embedded in password-reset links

	StripeKey      string
	StripeCurrency string

	MongoURI string
	MongoDB  string
}

// LoadApp reads the config sources and returns the typed App settings.
func LoadApp() (App, error) {
	if err := Load(); err != nil {
		return App{}, err
	}
	return App{
		Env:            AppEnv(),
		Port:           AppPort(),
		Secret:         AppSecret(),
		FrontendURL:    FrontendURL(),
		StripeKey:      StripeSecretKey(),
		StripeCurrency: StripeCurrency(),
		MongoURI:       MongoURI(),
		MongoDB:        MongoDatabase(),
	}, nil
}
