// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package cfgjson_test

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/creachadair/cfgtree"
	"github.com/creachadair/cfgtree/cfgjson"
	"github.com/google/go-cmp/cmp"
)

func TestImport(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`{}`, `{}`},
		{`{"a": 1}`, `{a:1.000000}`},
		{`{"s": "hello, world"}`, `{s:"hello, world"}`},
		{`{"esc": "tab\there & now"}`, "{esc:\"tab\there & now\"}"},
		{`{"list": [1, 2.5, 3e2], "empty": []}`, `{list:[1.000000,2.500000,300.000000],empty:[]}`},
		{`{"nest": {"x": ["a", "b"], "y": [{}, {"z": 0}]}}`, `{nest:{x:["a","b"],y:[{},{z:0.000000}]}}`},

		// HuJSON extensions.
		{"{\n  // comment\n  \"a\": [1, 2,],\n  /* more */ \"b\": \"c\",\n}", `{a:[1.000000,2.000000],b:"c"}`},
	}
	for _, tc := range tests {
		obj, err := cfgjson.Import([]byte(tc.input))
		if err != nil {
			t.Errorf("Import %#q: unexpected error: %v", tc.input, err)
			continue
		}
		if diff := cmp.Diff(tc.want, obj.String()); diff != "" {
			t.Errorf("Import %#q (-want, +got):\n%s", tc.input, diff)
		}
	}
}

func TestImport_errors(t *testing.T) {
	tests := []struct {
		input string
		want  cfgtree.ErrorKind
	}{
		{``, cfgtree.UnexpectedToken},
		{`{"a":`, cfgtree.UnexpectedToken},
		{`[1, 2]`, cfgtree.UnexpectedToken},
		{`"str"`, cfgtree.UnexpectedToken},
		{`{"a": null}`, cfgtree.InvalidValue},
		{`{"a": true}`, cfgtree.InvalidValue},
		{`{"a": false}`, cfgtree.InvalidValue},
		{`{"a": -1}`, cfgtree.InvalidValue},
		{`{"a": 1e999}`, cfgtree.InvalidValue},
		{`{"a": "say \"hi\""}`, cfgtree.InvalidValue},
		{`{"": 1}`, cfgtree.InvalidValue},
		{`{"a:b": 1}`, cfgtree.InvalidValue},
		{`{" a": 1}`, cfgtree.InvalidValue},
		{`{"#a": 1}`, cfgtree.InvalidValue},
		{`{"}": 1}`, cfgtree.InvalidValue},
		{`{"a": [1, "x"]}`, cfgtree.HeterogeneousList},
		{`{"a": [[1], {}]}`, cfgtree.HeterogeneousList},
		{`{"a": 1, "a": 2}`, cfgtree.DuplicateKey},
	}
	for _, tc := range tests {
		obj, err := cfgjson.Import([]byte(tc.input))
		if err == nil {
			t.Errorf("Import %#q: got %v, want error", tc.input, obj)
			continue
		}
		if !errors.Is(err, tc.want) {
			t.Errorf("Import %#q: got %v, want %v", tc.input, err, tc.want)
		}
		var cerr *cfgtree.Error
		if !errors.As(err, &cerr) {
			t.Errorf("Import %#q: error has type %T, want *cfgtree.Error", tc.input, err)
		}
	}
}

func TestImport_location(t *testing.T) {
	_, err := cfgjson.Import([]byte("{\n  \"ok\": 1,\n  \"bad\": null\n}"))
	var cerr *cfgtree.Error
	if !errors.As(err, &cerr) {
		t.Fatalf("Import: got %v, want *cfgtree.Error", err)
	}
	if want := (cfgtree.LineCol{Line: 3, Column: 9}); cerr.Location != want {
		t.Errorf("Location: got %v, want %v", cerr.Location, want)
	}
}

func TestExport(t *testing.T) {
	obj := cfgtree.NewObject()
	inner := cfgtree.NewObject()
	mustAdd(t, inner, "token", cfgtree.String("line\nbreak"))
	mustAdd(t, inner, "count", cfgtree.Number(100))
	mustAdd(t, obj, "name", cfgtree.String("Dennis"))
	mustAdd(t, obj, "age", cfgtree.Number(37.5))
	mustAdd(t, obj, "page", inner)
	mustAdd(t, obj, "words", cfgtree.ListOf(cfgtree.String("free"), cfgtree.String("your mind")))
	mustAdd(t, obj, "empty", cfgtree.NewList(cfgtree.Invalid))
	mustAdd(t, obj, "objs", cfgtree.ListOf(cfgtree.NewObject()))

	data, err := cfgjson.Export(obj)
	if err != nil {
		t.Fatalf("Export: unexpected error: %v", err)
	}
	if !json.Valid(data) {
		t.Fatalf("Export produced invalid JSON:\n%s", data)
	}

	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	want := map[string]any{
		"name":  "Dennis",
		"age":   37.5,
		"page":  map[string]any{"token": "line\nbreak", "count": 100.0},
		"words": []any{"free", "your mind"},
		"empty": []any{},
		"objs":  []any{map[string]any{}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Export (-want, +got):\n%s", diff)
	}

	back, err := cfgjson.Import(data)
	if err != nil {
		t.Fatalf("Import: unexpected error: %v", err)
	}
	if !cfgtree.Equal(obj, back) {
		t.Errorf("Round trip: got %v, want %v", back, obj)
	}
}

func TestExport_errors(t *testing.T) {
	if _, err := cfgjson.Export(nil); !errors.Is(err, cfgtree.InvalidValue) {
		t.Errorf("Export(nil): got %v, want %v", err, cfgtree.InvalidValue)
	}
	obj := cfgtree.NewObject()
	mustAdd(t, obj, "inf", cfgtree.Number(math.Inf(1)))
	if _, err := cfgjson.Export(obj); !errors.Is(err, cfgtree.InvalidValue) {
		t.Errorf("Export(inf): got %v, want %v", err, cfgtree.InvalidValue)
	}
}

func mustAdd(t *testing.T, o *cfgtree.Object, key string, v cfgtree.Value) {
	t.Helper()
	if _, err := o.Add(key, v); err != nil {
		t.Fatalf("Add %q: unexpected error: %v", key, err)
	}
}
