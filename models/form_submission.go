package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// FormType identifies one of the intake forms
type FormType string

const (
	FormTypeWISI  FormType = "WISI"
	FormTypeTARII FormType = "TARII"
	FormTypeFHN   FormType = "FHN"
)

// FormData holds the validated field values of a submission
type FormData map[string]interface{}

// Value implements driver.Valuer for JSONB
func (f FormData) Value() (driver.Value, error) {
	if f == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(f)
}

// Scan implements sql.Scanner for JSONB
func (f *FormData) Scan(value interface{}) error {
	if value == nil {
		*f = make(FormData)
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		*f = make(FormData)
		return nil
	}

	if len(bytes) == 0 {
		*f = make(FormData)
		return nil
	}

	return json.Unmarshal(bytes, f)
}

// FormSubmission represents one filled-in intake form
type FormSubmission struct {
	ID        uuid.UUID  `json:"id"`
	FormType  FormType   `json:"formType"`
	DossierID *uuid.UUID `json:"dossierId,omitempty"`
	UserID    uuid.UUID  `json:"userId"`
	Data      FormData   `json:"data"`
	CreatedAt time.Time  `json:"createdAt"`
}
