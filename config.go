package prefcenter

// Config represents the main config
type Config struct {
	DB struct {
		Type string // "bolt" (cached remote catalog) or "sqlite" (local catalog)
		Path string
	}

	HTTP struct {
		Addr string
	}

	Backend struct {
		URL     string
		APIKey  string
		Timeout int // seconds; 0 means the client default
	}

	Catalog struct {
		TTL  int // cache lifetime in seconds, bolt backend only
		Cron struct {
			Spec string
		}
	}

	Newsletter struct {
		SignupURL     string // offered when recovery reports an unknown address
		DefaultLocale string
	}

	Sentry struct {
		DSN string
	}
}
