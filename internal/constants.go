package internal

const (
	DotEnvPath    = "./.env"
	PublicDir     = "public"
	SessionCookie = "session"

	CustomResourceDesc = "Custom resource added by user"
)
