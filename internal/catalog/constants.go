package catalog

// SchemaName is the key the catalog schema is registered under.
const SchemaName = "catalog.schema.json"

// Log messages
const (
	LogMsgCatalogLoaded = "Catalog loaded"
)

// Error context messages
const (
	ErrContextFailedToReadCatalog     = "failed to read catalog"
	ErrContextFailedToValidateCatalog = "catalog failed schema validation"
	ErrContextFailedToParseCatalog    = "failed to parse catalog"
)
