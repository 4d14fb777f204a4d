package models

import (
	"encoding/json"
	"fmt"
)

// scanJSON decodes a JSONB column into dst. Postgres hands jsonb back as
// []byte; NULL maps to the zero value.
func scanJSON(src, dst any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	}
	return fmt.Errorf("cannot scan %T into %T", src, dst)
}
