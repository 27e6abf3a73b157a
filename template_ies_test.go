/*
Copyright 2023 Alexander Bartolomey (github@alexanderbartolomey.de)

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package ipfix

import (
	"context"
	"errors"
	"testing"

	"github.com/mityagz/libfds/iana/datatypes"
)

func parseDataTemplate(t *testing.T, fields []testFieldSpec) *Template {
	t.Helper()

	raw := buildTemplateBytes(KindTemplateRecord, 256, 0, fields)
	tmpl, _, err := ParseTemplate(KindTemplateRecord, raw)
	if err != nil {
		t.Fatal(err)
	}
	return tmpl
}

func TestDefineIEs(t *testing.T) {
	cache := NewIANAFieldCache(context.TODO())

	t.Run("binds definitions and derives reverse flags", func(t *testing.T) {
		tmpl := parseDataTemplate(t, []testFieldSpec{
			{id: 1, length: 8},                 // octetDeltaCount
			{id: 1, en: ReversePEN, length: 8}, // reversedOctetDeltaCount
			{id: 8, length: 4},                 // sourceIPv4Address
			{id: 12, length: 4},                // destinationIPv4Address
			{id: 4, length: 1},                 // protocolIdentifier
			{id: 999, en: 42, length: 2},       // unknown enterprise element
		})

		tmpl.DefineIEs(cache, false)

		if tmpl.Flags&TemplateHasReverse == 0 {
			t.Fatal("template must have the reverse flag")
		}
		if tmpl.Flags&TemplateHasStruct != 0 {
			t.Fatal("template must not have the struct flag")
		}

		if def := tmpl.Fields[0].Definition; def == nil || def.Name != "octetDeltaCount" {
			t.Fatalf("unexpected definition on field 0: %v", def)
		}
		if def := tmpl.Fields[1].Definition; def == nil || !def.IsReverse || def.Name != "reversedOctetDeltaCount" {
			t.Fatalf("unexpected definition on field 1: %v", def)
		}
		if tmpl.Fields[1].Flags&FieldReverse == 0 {
			t.Fatal("field 1 must have the reverse flag")
		}
		if tmpl.Fields[5].Definition != nil {
			t.Fatal("unknown elements must stay unresolved")
		}

		// octetDeltaCount has its reverse counterpart in the template and is
		// therefore not a common key; the unresolved enterprise field is a
		// common key without source or destination direction
		biflowKeys := []FieldFlag{
			0,
			0,
			FieldBiflowKeyCommon | FieldBiflowKeySource,
			FieldBiflowKeyCommon | FieldBiflowKeyDestination,
			FieldBiflowKeyCommon,
			FieldBiflowKeyCommon,
		}
		biflowMask := FieldBiflowKeyCommon | FieldBiflowKeySource | FieldBiflowKeyDestination
		for i, expected := range biflowKeys {
			if got := tmpl.Fields[i].Flags & biflowMask; got != expected {
				t.Fatalf("field %d: expected biflow flags %b, got %b", i, expected, got)
			}
		}
	})

	t.Run("no biflow classification without reverse fields", func(t *testing.T) {
		tmpl := parseDataTemplate(t, []testFieldSpec{
			{id: 8, length: 4},
			{id: 7, length: 2},
		})

		tmpl.DefineIEs(cache, false)

		if tmpl.Flags&TemplateHasReverse != 0 {
			t.Fatal("template must not have the reverse flag")
		}
		for i := range tmpl.Fields {
			if tmpl.Fields[i].Flags&(FieldBiflowKeyCommon|FieldBiflowKeySource|FieldBiflowKeyDestination) != 0 {
				t.Fatalf("field %d must not carry biflow flags", i)
			}
		}
	})

	t.Run("derives structured flags", func(t *testing.T) {
		enterprise := NewEphemeralFieldCache("enterprise")
		if err := enterprise.Add(context.TODO(), InformationElement{
			Id:           100,
			Name:         "sessionList",
			EnterpriseId: 6871,
			Type:         datatypes.SubTemplateList,
		}); err != nil {
			t.Fatal(err)
		}

		tmpl := parseDataTemplate(t, []testFieldSpec{
			{id: 100, en: 6871, length: VariableLength},
		})

		tmpl.DefineIEs(enterprise, false)

		if tmpl.Flags&TemplateHasStruct == 0 {
			t.Fatal("template must have the struct flag")
		}
		if tmpl.Fields[0].Flags&FieldStructured == 0 {
			t.Fatal("field 0 must have the structured flag")
		}
	})

	t.Run("preserve keeps existing definitions", func(t *testing.T) {
		tmpl := parseDataTemplate(t, []testFieldSpec{
			{id: 1, length: 8},
			{id: 1, en: ReversePEN, length: 8},
		})

		tmpl.DefineIEs(cache, false)
		bound := tmpl.Fields[0].Definition

		empty := NewEphemeralFieldCache("empty")
		tmpl.DefineIEs(empty, true)

		if tmpl.Fields[0].Definition != bound {
			t.Fatal("preserve must keep the bound definition")
		}
		if tmpl.Flags&TemplateHasReverse == 0 {
			t.Fatal("preserve must keep the aggregated reverse flag")
		}
	})

	t.Run("nil cache with preserve is a no-op", func(t *testing.T) {
		tmpl := parseDataTemplate(t, []testFieldSpec{
			{id: 1, length: 8},
			{id: 1, en: ReversePEN, length: 8},
		})

		tmpl.DefineIEs(cache, false)
		tmpl.DefineIEs(nil, true)

		if tmpl.Fields[0].Definition == nil {
			t.Fatal("definitions must survive a nil cache with preserve")
		}
		if tmpl.Flags&TemplateHasReverse == 0 {
			t.Fatal("flags must survive a nil cache with preserve")
		}
	})

	t.Run("nil cache without preserve unbinds", func(t *testing.T) {
		tmpl := parseDataTemplate(t, []testFieldSpec{
			{id: 1, length: 8},
			{id: 1, en: ReversePEN, length: 8},
		})

		tmpl.DefineIEs(cache, false)
		tmpl.DefineIEs(nil, false)

		for i := range tmpl.Fields {
			if tmpl.Fields[i].Definition != nil {
				t.Fatalf("field %d must be unbound", i)
			}
			if tmpl.Fields[i].Flags&(FieldReverse|FieldStructured|FieldBiflowKeyCommon) != 0 {
				t.Fatalf("field %d must not keep derived flags", i)
			}
		}
		if tmpl.Flags&(TemplateHasReverse|TemplateHasStruct) != 0 {
			t.Fatal("template must not keep derived flags")
		}
	})

	t.Run("rebinding is idempotent", func(t *testing.T) {
		tmpl := parseDataTemplate(t, []testFieldSpec{
			{id: 1, length: 8},
			{id: 1, en: ReversePEN, length: 8},
			{id: 8, length: 4},
		})

		tmpl.DefineIEs(cache, false)
		first := append([]TemplateField(nil), tmpl.Fields...)

		tmpl.DefineIEs(cache, true)

		for i := range tmpl.Fields {
			if tmpl.Fields[i] != first[i] {
				t.Fatalf("field %d changed on rebind: %+v != %+v", i, tmpl.Fields[i], first[i])
			}
		}
	})
}

func TestFlowKeys(t *testing.T) {
	newTemplate := func(t *testing.T) *Template {
		return parseDataTemplate(t, []testFieldSpec{
			{id: 8, length: 4},
			{id: 12, length: 4},
			{id: 7, length: 2},
			{id: 11, length: 2},
		})
	}

	t.Run("define and compare", func(t *testing.T) {
		tmpl := newTemplate(t)

		if err := tmpl.DefineFlowKey(0b0101); err != nil {
			t.Fatal(err)
		}

		if tmpl.Flags&TemplateHasFlowKey == 0 {
			t.Fatal("template must have the flow key flag")
		}
		for i, expected := range []bool{true, false, true, false} {
			if got := tmpl.Fields[i].Flags&FieldFlowKey != 0; got != expected {
				t.Fatalf("field %d: expected flow key %v, got %v", i, expected, got)
			}
		}

		if tmpl.CompareFlowKey(0b0101) != 0 {
			t.Fatal("the applied flow key must compare equal")
		}
		for _, other := range []uint64{0, 0b0001, 0b1111, 0b1010} {
			if tmpl.CompareFlowKey(other) == 0 {
				t.Fatalf("flow key %b must not compare equal", other)
			}
		}
	})

	t.Run("redefining clears stale flags", func(t *testing.T) {
		tmpl := newTemplate(t)

		if err := tmpl.DefineFlowKey(0b1111); err != nil {
			t.Fatal(err)
		}
		if err := tmpl.DefineFlowKey(0); err != nil {
			t.Fatal(err)
		}

		if tmpl.Flags&TemplateHasFlowKey != 0 {
			t.Fatal("zero mask must clear the template flag")
		}
		for i := range tmpl.Fields {
			if tmpl.Fields[i].Flags&FieldFlowKey != 0 {
				t.Fatalf("field %d must not keep the flow key flag", i)
			}
		}
		if tmpl.CompareFlowKey(0) != 0 {
			t.Fatal("zero flow key must compare equal after clearing")
		}
	})

	t.Run("mask wider than the template", func(t *testing.T) {
		tmpl := newTemplate(t)

		if err := tmpl.FlowKeyApplicable(0b10000); !errors.Is(err, ErrFormat) {
			t.Fatalf("expected ErrFormat, got %v", err)
		}
		if err := tmpl.DefineFlowKey(0b10000); !errors.Is(err, ErrFormat) {
			t.Fatalf("expected ErrFormat, got %v", err)
		}
		if tmpl.FlowKeyApplicable(0b1111) != nil {
			t.Fatal("mask covering all fields must be applicable")
		}
	})
}
