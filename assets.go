package assets

import "embed"

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var MigrationsFS embed.FS

//go:embed public
var PublicFS embed.FS

//go:embed seed/catalog.yaml
var SeedCatalog []byte
