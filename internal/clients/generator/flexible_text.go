package generator

import (
	"bytes"
	"encoding/json"
)

// FlexibleText unmarshals a field that upstreams sometimes send as a string
// and sometimes as an object or number. Only string values are kept.
type FlexibleText string

func (t *FlexibleText) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '"' {
		*t = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*t = FlexibleText(s)
	return nil
}

func (t FlexibleText) String() string {
	return string(t)
}
