package tools

import (
	"errors"
	"testing"

	"github.com/mcp-telegram/mcp-telegram/internal/schema"
)

func TestDecodeArgs_DefaultsSurviveOmission(t *testing.T) {
	def := listMessages()
	got, err := decodeArgs(def.Name, def.Schema, listMessagesArgs{Limit: 100}, map[string]any{
		"dialog_id": float64(7),
	})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.DialogID != 7 {
		t.Errorf("dialog_id = %d, want 7", got.DialogID)
	}
	if got.Limit != 100 {
		t.Errorf("limit = %d, want default 100", got.Limit)
	}
	if got.Unread {
		t.Error("unread defaulted to true, want false")
	}
}

func TestDecodeArgs_ExplicitValueOverridesDefault(t *testing.T) {
	def := pinMessage()
	got, err := decodeArgs(def.Name, def.Schema, pinMessageArgs{Notify: true}, map[string]any{
		"dialog_id":  float64(1),
		"message_id": float64(2),
		"notify":     false,
	})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Notify {
		t.Error("notify = true, want explicit false to override the default")
	}
}

func TestDecodeArgs_OptionalPointerField(t *testing.T) {
	def := unpinMessage()

	got, err := decodeArgs(def.Name, def.Schema, unpinMessageArgs{}, map[string]any{
		"dialog_id": float64(1),
	})
	if err != nil {
		t.Fatalf("decode without message_id: %v", err)
	}
	if got.MessageID != nil {
		t.Errorf("message_id = %d, want unset", *got.MessageID)
	}

	got, err = decodeArgs(def.Name, def.Schema, unpinMessageArgs{}, map[string]any{
		"dialog_id":  float64(1),
		"message_id": float64(5),
	})
	if err != nil {
		t.Fatalf("decode with message_id: %v", err)
	}
	if got.MessageID == nil || *got.MessageID != 5 {
		t.Errorf("message_id = %v, want 5", got.MessageID)
	}
}

func TestDecodeArgs_RequiredFieldMissing(t *testing.T) {
	def := listMessages()
	_, err := decodeArgs(def.Name, def.Schema, listMessagesArgs{Limit: 100}, map[string]any{})
	var argErr *schema.ArgumentError
	if !errors.As(err, &argErr) {
		t.Fatalf("got %v, want ArgumentError", err)
	}
	if argErr.Field != "dialog_id" {
		t.Errorf("field = %q, want dialog_id", argErr.Field)
	}
}

func TestDecodeArgs_TypeMismatchNamesField(t *testing.T) {
	def := listMessages()
	_, err := decodeArgs(def.Name, def.Schema, listMessagesArgs{Limit: 100}, map[string]any{
		"dialog_id": "seven",
	})
	var argErr *schema.ArgumentError
	if !errors.As(err, &argErr) {
		t.Fatalf("got %v, want ArgumentError", err)
	}
	if argErr.Field != "dialog_id" {
		t.Errorf("field = %q, want dialog_id", argErr.Field)
	}
}

func TestDecodeArgs_UnknownFieldIgnored(t *testing.T) {
	def := listMessages()
	got, err := decodeArgs(def.Name, def.Schema, listMessagesArgs{Limit: 100}, map[string]any{
		"dialog_id": float64(7),
		"color":     "blue",
	})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.DialogID != 7 {
		t.Errorf("dialog_id = %d, want 7", got.DialogID)
	}
}

func TestDefine_NilRunner(t *testing.T) {
	def := define("Ghost", "unwired", schema.Object(nil), struct{}{}, nil)
	if _, err := def.bind(map[string]any{}); !errors.Is(err, schema.ErrNoHandler) {
		t.Fatalf("got %v, want ErrNoHandler", err)
	}
}

// Every definition must bind from arguments synthesized off its own schema:
// declared defaults cover the optional fields, so only required ones need a
// value.
func TestDefinitions_BindFromSchema(t *testing.T) {
	for _, def := range Definitions() {
		def := def
		t.Run(def.Name, func(t *testing.T) {
			raw := map[string]any{}
			for _, field := range def.Schema.Required {
				prop, ok := def.Schema.Properties[field]
				if !ok {
					t.Fatalf("required field %q not declared in properties", field)
				}
				raw[field] = sampleValue(t, prop.Type)
			}
			call, err := def.bind(raw)
			if err != nil {
				t.Fatalf("bind: %v", err)
			}
			if call == nil {
				t.Fatal("bind returned no call")
			}
		})
	}
}

func sampleValue(t *testing.T, typ string) any {
	t.Helper()
	switch typ {
	case "integer":
		return float64(1)
	case "string":
		return "x"
	case "boolean":
		return true
	default:
		t.Fatalf("no sample for schema type %q", typ)
		return nil
	}
}
