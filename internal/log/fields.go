package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldDuration  = "duration_ms"
	FieldError     = "error"

	FieldPhoneKey  = "phone_key"
	FieldAccountID = "account_id"
	FieldMessageID = "message_id"
	FieldIntent    = "intent"
	FieldEntryID   = "entry_id"
	FieldAmount    = "amount"
	FieldCategory  = "category"
	FieldKind      = "kind"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentWebhook = "webhook"
	ComponentBot     = "bot"
	ComponentStore   = "store"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentWA      = "whatsapp"
	ComponentAppSync = "appsync"
)
