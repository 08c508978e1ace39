package vectorstore

import "testing"

func TestNewRejectsMissingAddress(t *testing.T) {
	if _, err := New("", "chunks", 768); err == nil {
		t.Error("expected an error for an empty address")
	}
}

func TestNewRejectsMissingCollection(t *testing.T) {
	if _, err := New("localhost:6334", "", 768); err == nil {
		t.Error("expected an error for an empty collection name")
	}
}

func TestNewRejectsNonPositiveDimensions(t *testing.T) {
	if _, err := New("localhost:6334", "chunks", 0); err == nil {
		t.Error("expected an error for non-positive dimensions")
	}
}

func TestToQdrantValueHandlesKnownTypes(t *testing.T) {
	if v := toQdrantValue("hello"); v.GetStringValue() != "hello" {
		t.Errorf("string value = %v, want hello", v.GetStringValue())
	}
	if v := toQdrantValue(int64(42)); v.GetIntegerValue() != 42 {
		t.Errorf("int64 value = %v, want 42", v.GetIntegerValue())
	}
	if v := toQdrantValue(3.14); v.GetDoubleValue() != 3.14 {
		t.Errorf("float64 value = %v, want 3.14", v.GetDoubleValue())
	}
	if v := toQdrantValue(true); v.GetBoolValue() != true {
		t.Errorf("bool value = %v, want true", v.GetBoolValue())
	}
}
