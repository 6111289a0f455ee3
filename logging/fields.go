package logging

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldRequestID     = "request_id"
	FieldClientIP      = "client_ip"
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldStatusCode    = "status_code"
	FieldDuration      = "duration_ms"
	FieldUserAgent     = "user_agent"
	FieldError         = "error"
	FieldOperation     = "operation"
	FieldFrequency     = "compounding_frequency"
	FieldDurationYears = "duration_years"
	FieldCacheHit      = "cache_hit"
	FieldHistoryID     = "history_id"
	FieldInflation     = "inflation_adjusted"
)

const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentService   = "sip"
	ComponentStorage   = "storage"
	ComponentCache     = "cache"
	ComponentEvents    = "events"
	ComponentRateLimit = "rate_limit"
)

const (
	OpCalculate = "calculate"
	OpSchedule  = "schedule"
	OpHistory   = "history"
	OpSave      = "save"
	OpPublish   = "publish"
	OpStartup   = "startup"
	OpShutdown  = "shutdown"
)

// Fields is a small builder for slog key/value pairs.
type Fields map[string]any

func NewFields() Fields {
	return make(Fields)
}

func (f Fields) WithError(err error) Fields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

func (f Fields) WithOperation(op string) Fields {
	f[FieldOperation] = op
	return f
}

func (f Fields) With(key string, value any) Fields {
	f[key] = value
	return f
}

// ToSlice flattens the fields for slog.
func (f Fields) ToSlice() []any {
	out := make([]any, 0, len(f)*2)
	for k, v := range f {
		out = append(out, k, v)
	}
	return out
}
