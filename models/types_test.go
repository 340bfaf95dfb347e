// File: /models/types_test.go
package models

import (
	"testing"
)

func TestStringSliceNilSemantics(t *testing.T) {
	var ss StringSlice

	// nil stores as NULL but serializes as an empty array
	v, err := ss.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}
	if v != nil {
		t.Errorf("nil slice should store as NULL, got %v", v)
	}

	out, err := ss.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON failed: %v", err)
	}
	if string(out) != "[]" {
		t.Errorf("nil slice should marshal to [], got %s", out)
	}
}

func TestStringSliceScan(t *testing.T) {
	var ss StringSlice

	if err := ss.Scan(`["bartending","silver service"]`); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(ss) != 2 || ss[0] != "bartending" {
		t.Errorf("unexpected scan result: %v", ss)
	}

	// NULL and empty payloads both clear the slice
	if err := ss.Scan(nil); err != nil || ss != nil {
		t.Errorf("scanning NULL should clear the slice, got %v (%v)", ss, err)
	}
	ss = StringSlice{"stale"}
	if err := ss.Scan([]byte{}); err != nil || ss != nil {
		t.Errorf("scanning an empty payload should clear the slice, got %v (%v)", ss, err)
	}

	if err := ss.Scan(42); err == nil {
		t.Error("scanning an unsupported type should fail")
	}
}
