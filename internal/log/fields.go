package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldBackend     = "backend"
	FieldProject     = "project_id"
	FieldUser        = "user_id"
	FieldPeriod      = "period"
	FieldMonth       = "month"
	FieldCategory    = "category"
	FieldContributor = "contributor"
	FieldSort        = "sort"
	FieldCount       = "count"
	FieldAmount      = "amount"
	FieldDuration    = "duration_ms"
	FieldCacheHit    = "cache_hit"
	FieldPath        = "path"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentReport  = "report"
	ComponentStorage = "storage"
	ComponentMemory  = "memory"
	ComponentBackend = "backend"
	ComponentExport  = "export"
	ComponentConfig  = "config"
)

// Operations defines standard operation names
const (
	OpList     = "list"
	OpAppend   = "append"
	OpReport   = "report"
	OpExport   = "export"
	OpBudget   = "budget"
	OpMigrate  = "migrate"
	OpValidate = "validate"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

func (f LogFields) WithProject(projectID string) LogFields {
	f[FieldProject] = projectID
	return f
}

// WithSelector adds the view selector fields.
func (f LogFields) WithSelector(period, category, contributor, sort string) LogFields {
	f[FieldPeriod] = period
	f[FieldCategory] = category
	f[FieldContributor] = contributor
	f[FieldSort] = sort
	return f
}

func (f LogFields) WithCount(n int) LogFields {
	f[FieldCount] = n
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
