package generator

import (
	"encoding/json"
	"testing"
)

func TestFlexibleText_UnmarshalJSON(t *testing.T) {
	t.Run("string", func(t *testing.T) {
		var ft FlexibleText
		if err := json.Unmarshal([]byte(`"content flagged by moderation"`), &ft); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if ft != "content flagged by moderation" {
			t.Fatalf("got %q", ft)
		}
	})

	t.Run("object", func(t *testing.T) {
		var ft FlexibleText
		if err := json.Unmarshal([]byte(`{"code":429,"message":"slow down"}`), &ft); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if ft != "" {
			t.Fatalf("expected empty text, got %q", ft)
		}
	})

	t.Run("null", func(t *testing.T) {
		var ft FlexibleText
		if err := json.Unmarshal([]byte(`null`), &ft); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if ft != "" {
			t.Fatalf("expected empty text, got %q", ft)
		}
	})
}
