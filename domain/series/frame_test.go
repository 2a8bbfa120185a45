package series

import (
	"math"
	"testing"
)

func TestFrame_AddAndRead(t *testing.T) {
	f := NewFrame()
	if err := f.AddColumn("a", []float64{1, 2, 3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.AddColumn("b", []float64{4, 5, 6}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.Len() != 3 || f.Width() != 2 {
		t.Errorf("Len/Width = %d/%d, want 3/2", f.Len(), f.Width())
	}
	col, ok := f.Column("b")
	if !ok || col[1] != 5 {
		t.Errorf("Column(b) = %v, %v", col, ok)
	}
	if _, ok := f.Column("missing"); ok {
		t.Error("Column should report missing names")
	}

	names := f.Names()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("Names = %v, want insertion order [a b]", names)
	}
}

func TestFrame_AddColumnRejections(t *testing.T) {
	f := NewFrame()
	if err := f.AddColumn("", []float64{1}); err == nil {
		t.Error("expected an error for an empty name")
	}
	if err := f.AddColumn("a", []float64{1, 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.AddColumn("a", []float64{3, 4}); err == nil {
		t.Error("expected an error for a duplicate name")
	}
	if err := f.AddColumn("b", []float64{1}); err == nil {
		t.Error("expected an error for a length mismatch")
	}
	if err := f.AddColumn("c", []float64{1, math.NaN()}); err == nil {
		t.Error("expected an error for a NaN value")
	}
	if err := f.AddColumn("d", []float64{1, math.Inf(1)}); err == nil {
		t.Error("expected an error for an infinite value")
	}
}

func TestFrame_Require(t *testing.T) {
	f := NewFrame()
	if err := f.AddColumn("x", []float64{1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.Require("x"); err != nil {
		t.Errorf("Require(x) = %v, want nil", err)
	}
	if err := f.Require("x", "y", "z"); err == nil {
		t.Error("expected an error listing the missing columns")
	}
}

func TestFrame_Select(t *testing.T) {
	f := NewFrame()
	for _, c := range []struct {
		name   string
		values []float64
	}{
		{"a", []float64{1, 2}},
		{"b", []float64{3, 4}},
		{"c", []float64{5, 6}},
	} {
		if err := f.AddColumn(c.name, c.values); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	sub, err := f.Select("c", "a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	names := sub.Names()
	if len(names) != 2 || names[0] != "c" || names[1] != "a" {
		t.Errorf("selected names = %v, want [c a]", names)
	}
	if sub.Len() != 2 {
		t.Errorf("selected Len = %d, want 2", sub.Len())
	}

	if _, err := f.Select("a", "missing"); err == nil {
		t.Error("expected an error for a missing column")
	}
}
