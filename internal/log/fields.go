package log

import (
	"spese/internal/core"
)

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldOperation = "operation"
	FieldIndex     = "index"
	FieldAmount    = "amount"
	FieldCategory  = "category"
	FieldDate      = "date"
	FieldPayment   = "payment"
	FieldLocation  = "location"
	FieldBackend   = "backend"
	FieldRecords   = "records"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentLedger  = "ledger"
	ComponentStorage = "storage"
	ComponentBackend = "backend"
	ComponentAMQP    = "amqp"
	ComponentCLI     = "cli"
)

// Operations defines standard operation names
const (
	OpAdd     = "add"
	OpEdit    = "edit"
	OpDelete  = "delete"
	OpPublish = "publish"
	OpConsume = "consume"
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

// WithRecord adds the fields of an expense record at index
func (f LogFields) WithRecord(index int, r core.Record) LogFields {
	f[FieldIndex] = index
	f[FieldAmount] = core.FormatAmount(r.Amount)
	f[FieldCategory] = r.Category
	f[FieldDate] = r.Date
	f[FieldPayment] = r.Payment
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
