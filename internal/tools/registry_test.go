package tools

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/mcp-telegram/mcp-telegram/internal/schema"
)

func TestDefinitions_AllRegistered(t *testing.T) {
	reg, err := NewRegistry(Definitions())
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}

	want := []string{
		"ListDialogs",
		"ListMessages",
		"SendMessage",
		"DeleteMessage",
		"EditMessage",
		"ForwardMessage",
		"PinMessage",
		"UnpinMessage",
		"GetMessageReactions",
		"ReactToMessage",
		"ReplyToMessage",
		"GetMe",
		"SendFile",
		"DownloadMedia",
		"GetChatInfo",
		"ListChatAdmins",
		"SetChatTitle",
		"SetChatDescription",
		"BanChatMember",
		"UnbanChatMember",
		"CreateInviteLink",
		"LeaveChat",
	}
	got := reg.List()
	if len(got) != len(want) {
		t.Fatalf("registered %d tools, want %d", len(got), len(want))
	}
	for i, tool := range got {
		if tool.Name != want[i] {
			t.Errorf("tool %d: got %q, want %q", i, tool.Name, want[i])
		}
	}
}

func TestDefinitions_Deterministic(t *testing.T) {
	first, err := NewRegistry(Definitions())
	if err != nil {
		t.Fatalf("first build: %v", err)
	}
	second, err := NewRegistry(Definitions())
	if err != nil {
		t.Fatalf("second build: %v", err)
	}

	a, b := first.List(), second.List()
	if len(a) != len(b) {
		t.Fatalf("listing sizes differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Name != b[i].Name {
			t.Errorf("position %d: %q vs %q", i, a[i].Name, b[i].Name)
		}
		aw, err := json.Marshal(a[i].InputSchema)
		if err != nil {
			t.Fatalf("marshal schema %s: %v", a[i].Name, err)
		}
		bw, err := json.Marshal(b[i].InputSchema)
		if err != nil {
			t.Fatalf("marshal schema %s: %v", b[i].Name, err)
		}
		if string(aw) != string(bw) {
			t.Errorf("%s: schemas differ between builds", a[i].Name)
		}
	}
}

func TestDefinitions_SchemaShape(t *testing.T) {
	for _, def := range Definitions() {
		def := def
		t.Run(def.Name, func(t *testing.T) {
			if def.Description == "" {
				t.Error("empty description")
			}
			desc := def.Descriptor()
			if desc.InputSchema.Type != "object" {
				t.Errorf("schema type %q, want object", desc.InputSchema.Type)
			}
			for _, field := range desc.InputSchema.Required {
				if _, ok := desc.InputSchema.Properties[field]; !ok {
					t.Errorf("required field %q not declared in properties", field)
				}
			}
			for name, prop := range desc.InputSchema.Properties {
				if prop.Type == "" {
					t.Errorf("property %q has no type", name)
				}
				if len(prop.Default) > 0 {
					var v any
					if err := json.Unmarshal(prop.Default, &v); err != nil {
						t.Errorf("property %q default does not parse: %v", name, err)
					}
				}
			}
		})
	}
}

func TestNewRegistry_DuplicateName(t *testing.T) {
	dup := define("Echo", "test tool", schema.Object(nil), struct{}{}, nil)
	_, err := NewRegistry([]Definition{dup, dup})
	if !errors.Is(err, schema.ErrDuplicateTool) {
		t.Fatalf("got %v, want ErrDuplicateTool", err)
	}
}

func TestNewRegistry_EmptyName(t *testing.T) {
	blank := define("", "nameless", schema.Object(nil), struct{}{}, nil)
	if _, err := NewRegistry([]Definition{blank}); err == nil {
		t.Fatal("expected error for empty tool name")
	}
}

func TestRegistry_Get(t *testing.T) {
	reg, err := NewRegistry(Definitions())
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	if _, ok := reg.Get("SendMessage"); !ok {
		t.Error("SendMessage not found")
	}
	if _, ok := reg.Get("NoSuchTool"); ok {
		t.Error("unexpected hit for unregistered name")
	}
}
