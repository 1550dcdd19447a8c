package database

// ключи значений в gin.Context
const (
	CTX_CONFIG  = "cnf"
	CTX_CACHE   = "cache"
	CTX_SCREENS = "screens"
)
