// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package cfgtree_test

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/creachadair/cfgtree"
	"github.com/google/go-cmp/cmp"
)

// sampleTree builds a tree exercising every kind of value.
func sampleTree(t *testing.T) *cfgtree.Object {
	t.Helper()
	inner := cfgtree.NewObject()
	mustAdd(t, inner, "token", cfgtree.String("xyz-pdq"))
	mustAdd(t, inner, "count", cfgtree.Number(100))

	root := cfgtree.NewObject()
	mustAdd(t, root, "name", cfgtree.String("Dennis"))
	mustAdd(t, root, "age", cfgtree.Number(37.5))
	mustAdd(t, root, "page", inner)
	mustAdd(t, root, "values", cfgtree.ListOf(cfgtree.Number(5), cfgtree.Number(0.125)))
	mustAdd(t, root, "words", cfgtree.ListOf(cfgtree.String("free"), cfgtree.String("your mind")))
	mustAdd(t, root, "nested", cfgtree.ListOf(
		cfgtree.ListOf(cfgtree.Number(1)),
		cfgtree.NewList(cfgtree.Invalid),
	))
	mustAdd(t, root, "objects", cfgtree.ListOf(cfgtree.NewObject(), cfgtree.NewObject()))
	return root
}

func mustAdd(t *testing.T, o *cfgtree.Object, key string, v cfgtree.Value, flags ...cfgtree.Flags) *cfgtree.Entry {
	t.Helper()
	e, err := o.Add(key, v, flags...)
	if err != nil {
		t.Fatalf("Add %q: unexpected error: %v", key, err)
	}
	return e
}

func TestSave(t *testing.T) {
	tests := []struct {
		input cfgtree.Value
		want  string
	}{
		{cfgtree.NewObject(), `{}`},
		{cfgtree.String(""), `""`},
		{cfgtree.String("a \t b"), "\"a \t b\""},
		{cfgtree.Number(0), `0.000000`},
		{cfgtree.Number(15), `15.000000`},
		{cfgtree.Number(0.1234567), `0.123457`},
		{cfgtree.NewList(cfgtree.StringKind), `[]`},
		{cfgtree.ListOf(cfgtree.String("a"), cfgtree.String("b")), `["a","b"]`},
	}
	for _, test := range tests {
		if got := test.input.String(); got != test.want {
			t.Errorf("Input: %#v\nGot:  %s\nWant: %s", test.input, got, test.want)
		}
	}

	negZero := cfgtree.NewObject()
	mustAdd(t, negZero, "z", cfgtree.Number(math.Copysign(0, -1)))
	if got := negZero.String(); got != "{z:0.000000}" {
		t.Errorf("Negative zero: got %#q, want %#q", got, "{z:0.000000}")
	}

	var buf cfgtree.Buffer
	if err := cfgtree.Save(&buf, sampleTree(t)); err != nil {
		t.Fatalf("Save: unexpected error: %v", err)
	}
	const want = `{name:"Dennis",age:37.500000,page:{token:"xyz-pdq",count:100.000000},` +
		`values:[5.000000,0.125000],words:["free","your mind"],nested:[[1.000000],[]],objects:[{},{}]}`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("Save (-want, +got):\n%s", diff)
	}
}

func TestSave_precision(t *testing.T) {
	obj := mustLoad(t, "{a:2.5,b:[0.333333333]}")
	for _, test := range []struct {
		prec int
		want string
	}{
		{0, "{a:2,b:[0]}"},
		{2, "{a:2.50,b:[0.33]}"},
		{9, "{a:2.500000000,b:[0.333333333]}"},
	} {
		var buf cfgtree.Buffer
		enc := cfgtree.NewEncoder(&buf)
		enc.Precision(test.prec)
		if err := enc.Encode(obj); err != nil {
			t.Fatalf("Encode: unexpected error: %v", err)
		}
		if got := buf.String(); got != test.want {
			t.Errorf("Precision %d: got %#q, want %#q", test.prec, got, test.want)
		}
	}
}

func TestSave_invalid(t *testing.T) {
	tests := []struct {
		key string
		val cfgtree.Value
	}{
		{"a:b", cfgtree.Number(1)},
		{"", cfgtree.Number(1)},
		{" lead", cfgtree.Number(1)},
		{"#hash", cfgtree.Number(1)},
		{"}", cfgtree.Number(1)},
		{"}x", cfgtree.Number(1)},
		{"q", cfgtree.String(`say "hi"`)},
		{"neg", cfgtree.Number(-1)},
		{"nan", cfgtree.Number(math.NaN())},
		{"inf", cfgtree.Number(math.Inf(1))},
		{"deep", cfgtree.ListOf(cfgtree.Number(-2))},
	}
	for _, test := range tests {
		obj := cfgtree.NewObject()
		mustAdd(t, obj, test.key, test.val)
		var buf cfgtree.Buffer
		err := cfgtree.Save(&buf, obj)
		if !errors.Is(err, cfgtree.InvalidValue) {
			t.Errorf("Save %q: got %v, want %v", test.key, err, cfgtree.InvalidValue)
		}
	}

	if err := cfgtree.Save(new(cfgtree.Buffer), nil); !errors.Is(err, cfgtree.InvalidValue) {
		t.Errorf("Save nil: got %v, want %v", err, cfgtree.InvalidValue)
	}
}

func TestSave_writeErrors(t *testing.T) {
	t.Run("Limit", func(t *testing.T) {
		buf := &cfgtree.Buffer{Limit: 10}
		err := cfgtree.Save(buf, sampleTree(t))
		if !errors.Is(err, cfgtree.AllocationFailure) {
			t.Errorf("Save: got %v, want %v", err, cfgtree.AllocationFailure)
		}
		if got := buf.String(); got != `{name:"Den` {
			t.Errorf("Partial output: got %#q", got)
		}
	})
	t.Run("Sink", func(t *testing.T) {
		bad := errors.New("disk full")
		w := &failWriter{n: 3, err: bad}
		err := cfgtree.Save(w, sampleTree(t))
		if !errors.Is(err, cfgtree.IOFailure) || !errors.Is(err, bad) {
			t.Errorf("Save: got %v, want %v wrapping %v", err, cfgtree.IOFailure, bad)
		}
		if w.calls != 4 {
			t.Errorf("Save: made %d writes, want 4 (stop at first failure)", w.calls)
		}
	})
}

// failWriter accepts n writes, then reports err.
type failWriter struct {
	n, calls int
	err      error
}

func (f *failWriter) WriteChar(byte) error {
	f.calls++
	if f.calls > f.n {
		return f.err
	}
	return nil
}

func TestSave_writer(t *testing.T) {
	var out bytes.Buffer
	obj := mustLoad(t, "{ a : [ \"x\" ] }")
	if err := cfgtree.Save(cfgtree.NewWriter(&out), obj); err != nil {
		t.Fatalf("Save: unexpected error: %v", err)
	}
	// Keys are raw, so the space before the colon belongs to the key.
	if got, want := out.String(), `{a :["x"]}`; got != want {
		t.Errorf("Save: got %#q, want %#q", got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	orig := sampleTree(t)
	var buf cfgtree.Buffer
	if err := cfgtree.Save(&buf, orig); err != nil {
		t.Fatalf("Save: unexpected error: %v", err)
	}
	text := buf.String()

	got, err := cfgtree.Load(&buf)
	if err != nil {
		t.Fatalf("Load %#q: unexpected error: %v", text, err)
	}
	if !cfgtree.Equal(orig, got) {
		t.Errorf("Round trip mismatch:\norig: %v\ngot:  %v", orig, got)
	}

	// Reserializing the parsed tree produces identical text.
	if again := got.String(); again != text {
		t.Errorf("Reserialize:\nfirst:  %s\nsecond: %s", text, again)
	}
}

func TestCanonical(t *testing.T) {
	inputs := []string{
		"{  a : 1 , b:[ 2.5,3 ] # note # }",
		"{x:{y:{z:[[\"p\"],[\"q\", \"r\"]]}}}",
		"{v:1.2.3,w:0010.50}",
	}
	for _, input := range inputs {
		first := mustLoad(t, input).String()
		second := mustLoad(t, first).String()
		third := mustLoad(t, second).String()
		if second != third || first != second {
			t.Errorf("Input %#q not canonical:\n1: %s\n2: %s\n3: %s", input, first, second, third)
		}
	}
}

func TestCheckKey(t *testing.T) {
	for _, key := range []string{"a", "a b", "a#", "x.y", "trailing "} {
		if err := cfgtree.CheckKey(key); err != nil {
			t.Errorf("CheckKey(%q): unexpected error: %v", key, err)
		}
	}
	for _, key := range []string{"", "a:b", " a", "\ta", "#a", "}", "}x"} {
		if err := cfgtree.CheckKey(key); !errors.Is(err, cfgtree.InvalidValue) {
			t.Errorf("CheckKey(%q): got %v, want %v", key, err, cfgtree.InvalidValue)
		}
	}
	if err := cfgtree.CheckString(`plain # text`); err != nil {
		t.Errorf("CheckString: unexpected error: %v", err)
	}
	if err := cfgtree.CheckString(`a "quoted" word`); !errors.Is(err, cfgtree.InvalidValue) {
		t.Errorf("CheckString: got %v, want %v", err, cfgtree.InvalidValue)
	}
}

func TestSave_braceKeys(t *testing.T) {
	// A key may contain a closing brace, but not begin with one.
	obj := cfgtree.NewObject()
	mustAdd(t, obj, "x}", cfgtree.Number(1))
	mustAdd(t, obj, "y}z", cfgtree.String("w"))
	var buf cfgtree.Buffer
	if err := cfgtree.Save(&buf, obj); err != nil {
		t.Fatalf("Save: unexpected error: %v", err)
	}
	got, err := cfgtree.Load(&buf)
	if err != nil {
		t.Fatalf("Load %#q: unexpected error: %v", buf.String(), err)
	}
	if !cfgtree.Equal(obj, got) {
		t.Errorf("Round trip: got %v, want %v", got, obj)
	}

	for _, key := range []string{"}", "}x"} {
		obj := cfgtree.NewObject()
		mustAdd(t, obj, key, cfgtree.Number(1))
		var buf cfgtree.Buffer
		if err := cfgtree.Save(&buf, obj); !errors.Is(err, cfgtree.InvalidValue) {
			t.Errorf("Save key %q: got %v (output %#q), want %v", key, err, buf.String(), cfgtree.InvalidValue)
		}
	}
}
