package log

// Standard field names for structured logging.
const (
	FieldComponent     = "component"
	FieldRequestID     = "request_id"
	FieldUserID        = "user_id"
	FieldTransactionID = "transaction_id"
	FieldOperation     = "operation"
	FieldAmount        = "amount"
	FieldCurrency      = "currency"
	FieldCategory      = "category"
	FieldPage          = "page"
	FieldTotal         = "total"
	FieldStatusCode    = "status_code"
	FieldDuration      = "duration_ms"
	FieldError         = "error"
)

// Standard component names.
const (
	ComponentApp      = "app"
	ComponentGateway  = "gateway"
	ComponentStore    = "store"
	ComponentAuth     = "auth"
	ComponentSession  = "session"
	ComponentCurrency = "currency"
)

// Standard operation names.
const (
	OpList       = "list"
	OpSummary    = "summary"
	OpByCategory = "by_category"
	OpCreate     = "create"
	OpUpdate     = "update"
	OpDelete     = "delete"
	OpImport     = "import"
	OpLogin      = "login"
	OpRegister   = "register"
	OpProfile    = "profile"
)
