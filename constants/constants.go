package constants

const (
	// HandlerLogTag is a tag we are using to identify log messages from the handler
	HandlerLogTag = "API HANDLERS"
	// AuthLogTag identifies messages from the token check
	AuthLogTag  = "AUTH"
	MainLogTag  = "MAIN"
	StoreLogTag = "STORE"
	DiffLogTag  = "API DIFF"
)

// BasePath is the prefix every Asana resource route lives under
const BasePath = "/api/1.0"

// storage types
const (
	MemoryStorage = "memory"
	RedisStorage  = "redis"
	MongoStorage  = "mongo"
	SQLiteStorage = "sqlite"
	FileStorage   = "file"
)
