package telemetry

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

var ErrInvalidPayload = errors.New("payload is not valid JSON")

// Payload is an arbitrary JSON value (object, array, string, number, bool).
// Only well-formedness is checked; interpretation belongs to the consumer of
// the record's data type.
type Payload []byte

func NewPayload(v any) (Payload, error) {
	if raw, ok := v.(json.RawMessage); ok {
		return ParsePayload(raw)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return Payload(b), nil
}

func ParsePayload(raw []byte) (Payload, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || !json.Valid(trimmed) {
		return nil, ErrInvalidPayload
	}
	out := make([]byte, len(trimmed))
	copy(out, trimmed)
	return Payload(out), nil
}

// IsNull reports an absent or JSON null value.
func (p Payload) IsNull() bool {
	t := bytes.TrimSpace(p)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

func (p Payload) MarshalJSON() ([]byte, error) {
	if len(p) == 0 {
		return []byte("null"), nil
	}
	return p, nil
}

func (p *Payload) UnmarshalJSON(b []byte) error {
	if p == nil {
		return errors.New("telemetry.Payload: UnmarshalJSON on nil pointer")
	}
	*p = append((*p)[0:0], b...)
	return nil
}

func (p Payload) Value() (driver.Value, error) {
	if len(p) == 0 {
		return nil, nil
	}
	return string(p), nil
}

// Scan accepts the representations SQLite hands back when it applies numeric
// affinity to bare JSON numbers and booleans.
func (p *Payload) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*p = nil
	case []byte:
		*p = append((*p)[0:0], v...)
	case string:
		*p = Payload(v)
	case int64:
		*p = Payload(strconv.FormatInt(v, 10))
	case float64:
		*p = Payload(strconv.FormatFloat(v, 'g', -1, 64))
	case bool:
		*p = Payload(strconv.FormatBool(v))
	default:
		return fmt.Errorf("telemetry.Payload: unsupported scan type %T", value)
	}
	return nil
}

func (Payload) GormDataType() string { return "json" }

func (Payload) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "postgres":
		return "JSONB"
	case "sqlite":
		return "TEXT"
	default:
		return "JSON"
	}
}
