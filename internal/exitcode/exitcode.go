package exitcode

const (
	Success     = 0
	UsageError  = 1
	ConfigError = 2
	DBConnError = 3
	ServerError = 4
	StoreError  = 5
	ExportError = 6
)
