package log

// Common field names for structured logging.
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldOperation = "operation"
	FieldRecordID  = "record_id"
	FieldTitle     = "title"
	FieldSource    = "source"
	FieldAmount    = "amount_cents"
	FieldCategory  = "category"
	FieldDate      = "date"
	FieldFilter    = "filter"
	FieldStatus    = "status"
	FieldDuration  = "duration_ms"
	FieldPage      = "page"
	FieldCount     = "count"
)

// Standard component names.
const (
	ComponentApp      = "app"
	ComponentSession  = "session"
	ComponentStore    = "store"
	ComponentSnapshot = "snapshot"
	ComponentAMQP     = "amqp"
	ComponentMirror   = "mirror"
	ComponentWorker   = "worker"
)
