package todo

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"
)

const validStoreJSON = `{
  "saved": [
    {
      "id": "s1",
      "title": "Saved task",
      "description": "",
      "completed": true,
      "status": "saved",
      "created_at": "2026-01-02T03:04:05Z",
      "updated_at": "2026-01-02T04:04:05Z"
    }
  ],
  "drafts": [
    {
      "id": "d1",
      "title": "Draft task",
      "description": "later",
      "completed": false,
      "status": "draft",
      "created_at": "2026-01-02T03:04:05.123456789Z",
      "updated_at": "2026-01-02T03:04:05.123456789Z"
    }
  ]
}
`

func TestDecodeValid(t *testing.T) {
	s, err := Decode([]byte(validStoreJSON))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(s.Saved) != 1 || len(s.Drafts) != 1 {
		t.Fatalf("collections: saved %d drafts %d", len(s.Saved), len(s.Drafts))
	}
	if !s.Saved[0].Completed || s.Saved[0].Status != StatusSaved {
		t.Errorf("saved task: %+v", s.Saved[0])
	}
	if s.Drafts[0].CreatedAt.Nanosecond() != 123456789 {
		t.Errorf("nanoseconds lost: %v", s.Drafts[0].CreatedAt)
	}
}

func TestDecodeEmptyCollections(t *testing.T) {
	s, err := Decode([]byte(`{"saved": [], "drafts": []}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len: got %d, want 0", s.Len())
	}
}

func TestDecodeRejectsCorruption(t *testing.T) {
	task := func(overrides string) string {
		base := map[string]string{
			"id":          `"x1"`,
			"title":       `"T"`,
			"description": `""`,
			"completed":   `false`,
			"status":      `"saved"`,
			"created_at":  `"2026-01-02T03:04:05Z"`,
			"updated_at":  `"2026-01-02T03:04:05Z"`,
		}
		for _, kv := range strings.Split(overrides, ";") {
			if kv == "" {
				continue
			}
			parts := strings.SplitN(kv, "=", 2)
			if parts[1] == "-" {
				delete(base, parts[0])
				continue
			}
			base[parts[0]] = parts[1]
		}
		var fields []string
		for k, v := range base {
			fields = append(fields, `"`+k+`": `+v)
		}
		return "{" + strings.Join(fields, ", ") + "}"
	}

	tests := []struct {
		name string
		data string
	}{
		{"empty input", ``},
		{"not json", `this is not json`},
		{"truncated", `{"saved": [`},
		{"trailing data", `{"saved": [], "drafts": []} {}`},
		{"array root", `[]`},
		{"missing drafts", `{"saved": []}`},
		{"missing saved", `{"drafts": []}`},
		{"null collection", `{"saved": null, "drafts": []}`},
		{"extra top-level field", `{"saved": [], "drafts": [], "next_id": 3}`},
		{"task not object", `{"saved": ["x"], "drafts": []}`},
		{"missing id", `{"saved": [` + task("id=-") + `], "drafts": []}`},
		{"missing description", `{"saved": [` + task("description=-") + `], "drafts": []}`},
		{"empty title", `{"saved": [` + task(`title=""`) + `], "drafts": []}`},
		{"blank title", `{"saved": [` + task(`title="   "`) + `], "drafts": []}`},
		{"numeric id", `{"saved": [` + task("id=7") + `], "drafts": []}`},
		{"string completed", `{"saved": [` + task(`completed="yes"`) + `], "drafts": []}`},
		{"unknown status", `{"saved": [` + task(`status="done"`) + `], "drafts": []}`},
		{"draft status in saved", `{"saved": [` + task(`status="draft"`) + `], "drafts": []}`},
		{"saved status in drafts", `{"saved": [], "drafts": [` + task("") + `]}`},
		{"completed draft", `{"saved": [], "drafts": [` + task(`status="draft";completed=true`) + `]}`},
		{"bad timestamp", `{"saved": [` + task(`created_at="yesterday"`) + `], "drafts": []}`},
		{"extra task field", `{"saved": [` + task(`priority=1`) + `], "drafts": []}`},
		{"updated before created", `{"saved": [` + task(`updated_at="2025-01-01T00:00:00Z"`) + `], "drafts": []}`},
		{"duplicate id across collections", `{"saved": [` + task("") + `], "drafts": [` + task(`status="draft"`) + `]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Decode([]byte(tt.data))
			if s != nil {
				t.Errorf("Decode returned a partial store: %+v", s)
			}
			var ce *CorruptionError
			if !errors.As(err, &ce) {
				t.Fatalf("expected CorruptionError, got %v", err)
			}
			if len(ce.Errors) == 0 {
				t.Error("CorruptionError carries no details")
			}
		})
	}
}

func TestDecodeErrorPaths(t *testing.T) {
	data := `{"saved": [], "drafts": [{"id": "d1", "title": "", "description": "", "completed": false,
		"status": "draft", "created_at": "2026-01-02T03:04:05Z", "updated_at": "2026-01-02T03:04:05Z"}]}`

	_, err := Decode([]byte(data))
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected SchemaError inside %v", err)
	}
	if !strings.HasPrefix(se.Path, "drafts[0]") {
		t.Errorf("Path: got %q, want drafts[0]...", se.Path)
	}
}

func TestEncodeFormat(t *testing.T) {
	data, err := Encode(&Store{})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	want := "{\n  \"saved\": [],\n  \"drafts\": []\n}\n"
	if string(data) != want {
		t.Errorf("Encode empty store:\ngot  %q\nwant %q", data, want)
	}
}

func TestEncodeFieldNames(t *testing.T) {
	s := NewStore()
	_, _ = s.Add("Task", "", false)

	data, err := Encode(s)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	for _, key := range []string{`"id"`, `"title"`, `"description"`, `"completed"`, `"status": "saved"`, `"created_at"`, `"updated_at"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("encoded store missing %s:\n%s", key, data)
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	stepClock(t, time.Date(2026, 3, 4, 5, 6, 7, 891011121, time.UTC))
	s := NewStore()
	a, _ := s.Add("A", "first", false)
	_, _ = s.Add("B", "", true)
	c, _ := s.Add("C", "third", false)
	_, _ = s.ToggleCompleted(a.ID)
	_, _ = s.Add("D", "", true)
	_ = c

	data, err := Encode(s)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !reflect.DeepEqual(got, s) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, s)
	}
}

func TestValidateStore(t *testing.T) {
	s := NewStore()
	_, _ = s.Add("A", "", false)
	if err := s.Validate(); err != nil {
		t.Errorf("valid store: %v", err)
	}

	s.Saved[0].Title = " "
	var ce *CorruptionError
	if err := s.Validate(); !errors.As(err, &ce) {
		t.Errorf("blank title: expected CorruptionError, got %v", err)
	}
}

func TestSchemaIsEmbedded(t *testing.T) {
	raw := Schema()
	if !strings.Contains(string(raw), SchemaURL) {
		t.Error("embedded schema does not declare its $id")
	}
	if _, err := storeSchema(); err != nil {
		t.Fatalf("schema does not compile: %v", err)
	}
}
