package executionevent

const (
	Table = "execution_events"

	FieldID          = "id"
	FieldCreateTime  = "create_time"
	FieldSequence    = "sequence"
	FieldEventType   = "event_type"
	FieldPayload     = "payload"
	FieldExecutionID = "execution_id"
)

// Columns holds all SQL columns for execution event fields.
var Columns = []string{
	FieldID,
	FieldCreateTime,
	FieldSequence,
	FieldEventType,
	FieldPayload,
	FieldExecutionID,
}
