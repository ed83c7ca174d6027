package catalog

// Config holds the catalog source configuration. Path may point at a JSON
// document or a sqlite snapshot (selected by extension).
type Config struct {
	Path string `envconfig:"CATALOG_PATH" default:"products.json"`
}
