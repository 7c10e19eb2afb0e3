package event

import (
	"strings"
	"testing"
)

func TestTruncateStringExactCapUnaffected(t *testing.T) {
	t.Parallel()

	s := strings.Repeat("a", MaxNameBytes)
	if got := TruncateString(s, MaxNameBytes); got != s {
		t.Fatalf("string at exact cap was altered")
	}
}

func TestTruncateStringOverCap(t *testing.T) {
	t.Parallel()

	s := strings.Repeat("a", MaxNameBytes+1)
	got := TruncateString(s, MaxNameBytes)
	if len(got) != MaxNameBytes+len(truncatedSuffix) {
		t.Fatalf("len(got) = %d, want %d", len(got), MaxNameBytes+len(truncatedSuffix))
	}
	if !strings.HasSuffix(got, truncatedSuffix) {
		t.Fatalf("got = %q, want suffix %q", got, truncatedSuffix)
	}
}

func TestTruncateStringIdempotent(t *testing.T) {
	t.Parallel()

	s := strings.Repeat("b", MaxNameBytes*2)
	once := TruncateString(s, MaxNameBytes)
	twice := TruncateString(once, MaxNameBytes)
	if once != twice {
		t.Fatalf("truncate not idempotent: once=%q twice=%q", once, twice)
	}
}

func TestTruncateStringUTF8Boundary(t *testing.T) {
	t.Parallel()

	// Each "é" is 2 bytes; place the cap right in the middle of one.
	s := strings.Repeat("é", 10) // 20 bytes
	got := TruncateString(s, 15)
	if !strings.HasSuffix(got, truncatedSuffix) {
		t.Fatalf("expected truncation marker, got %q", got)
	}
	payload := strings.TrimSuffix(got, truncatedSuffix)
	for _, r := range payload {
		if r == '�' {
			t.Fatalf("payload contains replacement rune, boundary cut mid-codepoint: %q", payload)
		}
	}
}

func TestTruncateEventName(t *testing.T) {
	t.Parallel()

	e := Event{Type: "trace", TraceID: "t1", Name: strings.Repeat("x", MaxNameBytes+1)}
	got := Truncate(e)
	if len(got.Name) != MaxNameBytes+len(truncatedSuffix) {
		t.Fatalf("name not truncated to expected length, got %d bytes", len(got.Name))
	}
}

func TestTruncateDataRecursesIntoNestedObjects(t *testing.T) {
	t.Parallel()

	big := strings.Repeat("z", MaxDataValueBytes+1)
	e := Event{
		Type:    "span",
		TraceID: "t1",
		SpanID:  "s1",
		Data: map[string]any{
			"nested": map[string]any{
				"deep": big,
			},
		},
	}
	got := Truncate(e)
	nested := got.Data["nested"].(map[string]any)
	deep := nested["deep"].(string)
	if len(deep) != MaxDataValueBytes+len(truncatedSuffix) {
		t.Fatalf("nested string not truncated, len=%d", len(deep))
	}
}

func TestTruncateDataArrayElementsPassThrough(t *testing.T) {
	t.Parallel()

	big := strings.Repeat("z", MaxDataValueBytes+1)
	e := Event{
		Type:    "span",
		TraceID: "t1",
		SpanID:  "s1",
		Data: map[string]any{
			"list": []any{big, 42, true, nil},
		},
	}
	got := Truncate(e)
	list := got.Data["list"].([]any)
	if list[0].(string) != big {
		t.Fatalf("array element was truncated; spec says array elements pass through untouched")
	}
}

func TestTruncateDataNonStringPassThrough(t *testing.T) {
	t.Parallel()

	e := Event{
		Type:    "span",
		TraceID: "t1",
		SpanID:  "s1",
		Data:    map[string]any{"n": 42, "b": true, "nil": nil},
	}
	got := Truncate(e)
	if got.Data["n"] != 42 || got.Data["b"] != true || got.Data["nil"] != nil {
		t.Fatalf("non-string values altered: %+v", got.Data)
	}
}
