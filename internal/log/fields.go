package log

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldRequestID     = "request_id"
	FieldClientIP      = "client_ip"
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldStatusCode    = "status_code"
	FieldDuration      = "duration_ms"
	FieldSuccess       = "success"
	FieldError         = "error"
	FieldOperation     = "operation"
	FieldAction        = "action"
	FieldScreen        = "screen"
	FieldCurrentScreen = "current_screen"
	FieldBackend       = "backend"
	FieldExpenseID     = "expense_id"
	FieldExpenseDate   = "expense_date"
	FieldAmount        = "amount"
	FieldCategory      = "category"
	FieldCount         = "count"
	FieldSessionActive = "session_active"
	FieldErrorType     = "error_type"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentRPC     = "rpc"
	ComponentSession = "session"
	ComponentStorage = "storage"
	ComponentView    = "view"
	ComponentTUI     = "tui"
	ComponentMock    = "mock"
	ComponentHTTP    = "http"
	ComponentCache   = "cache"
)

// Operations defines standard operation names
const (
	OpLogin    = "login"
	OpLogout   = "logout"
	OpCreate   = "create"
	OpSet      = "set"
	OpClear    = "clear"
	OpNavigate = "navigate"
	OpMigrate  = "migrate"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeValidation     = "validation_error"
	ErrorTypeConfiguration  = "configuration_error"
	ErrorTypeNetwork        = "network_error"
	ErrorTypeBusiness       = "business_error"
	ErrorTypeSessionExpired = "session_expired"
	ErrorTypeStorage        = "storage_error"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithRequestID adds request ID field
func (f LogFields) WithRequestID(requestID string) LogFields {
	f[FieldRequestID] = requestID
	return f
}

// WithClientIP adds client IP field
func (f LogFields) WithClientIP(ip string) LogFields {
	f[FieldClientIP] = ip
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithAction adds the RPC action discriminator
func (f LogFields) WithAction(action string) LogFields {
	f[FieldAction] = action
	return f
}

// WithExpense adds expense-related fields. Descriptions are left out on purpose:
// they are free text typed by the user.
func (f LogFields) WithExpense(id, date, amount, category string) LogFields {
	f[FieldExpenseID] = id
	f[FieldExpenseDate] = date
	f[FieldAmount] = amount
	f[FieldCategory] = category
	return f
}

// WithHTTPRequest adds HTTP request fields
func (f LogFields) WithHTTPRequest(method, path string) LogFields {
	f[FieldMethod] = method
	f[FieldPath] = path
	return f
}

// WithHTTPResponse adds HTTP response fields
func (f LogFields) WithHTTPResponse(statusCode int, durationMs int64, success bool) LogFields {
	f[FieldStatusCode] = statusCode
	f[FieldDuration] = durationMs
	f[FieldSuccess] = success
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
