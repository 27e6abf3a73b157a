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
	"testing"
)

func parseOptionsTemplate(t *testing.T, scopeFieldCount uint16, fields []testFieldSpec) *Template {
	t.Helper()

	raw := buildTemplateBytes(KindOptionsTemplateRecord, 300, scopeFieldCount, fields)
	tmpl, _, err := ParseTemplate(KindOptionsTemplateRecord, raw)
	if err != nil {
		t.Fatal(err)
	}
	return tmpl
}

func TestOptionsTypeDetection(t *testing.T) {
	t.Run("metering process statistics", func(t *testing.T) {
		tmpl := parseOptionsTemplate(t, 1, []testFieldSpec{
			{id: 149, length: 4}, // observationDomainId
			{id: 40, length: 8},
			{id: 41, length: 8},
			{id: 42, length: 8},
		})

		if tmpl.OptionsTypes != OptionsMeteringStatistics {
			t.Fatalf("expected exactly the metering statistics type, got %v", tmpl.OptionsTypes.Names())
		}
	})

	t.Run("metering process statistics scoped by meteringProcessId", func(t *testing.T) {
		tmpl := parseOptionsTemplate(t, 1, []testFieldSpec{
			{id: 143, length: 4}, // meteringProcessId
			{id: 40, length: 8},
			{id: 41, length: 8},
			{id: 42, length: 8},
		})

		if tmpl.OptionsTypes != OptionsMeteringStatistics {
			t.Fatalf("expected exactly the metering statistics type, got %v", tmpl.OptionsTypes.Names())
		}
	})

	t.Run("metering process reliability statistics without statistics set", func(t *testing.T) {
		// the reliability pattern matches independently of the plain
		// statistics element set
		tmpl := parseOptionsTemplate(t, 1, []testFieldSpec{
			{id: 149, length: 4},
			{id: 164, length: 8},
			{id: 165, length: 8},
			{id: 322, length: 4},
			{id: 323, length: 8},
		})

		if tmpl.OptionsTypes != OptionsMeteringReliabilityStatistics {
			t.Fatalf("expected exactly the metering reliability type, got %v", tmpl.OptionsTypes.Names())
		}
	})

	t.Run("both metering types at once", func(t *testing.T) {
		tmpl := parseOptionsTemplate(t, 1, []testFieldSpec{
			{id: 149, length: 4},
			{id: 40, length: 8},
			{id: 41, length: 8},
			{id: 42, length: 8},
			{id: 164, length: 8},
			{id: 165, length: 8},
			{id: 322, length: 4},
			{id: 325, length: 8},
		})

		expected := OptionsMeteringStatistics | OptionsMeteringReliabilityStatistics
		if tmpl.OptionsTypes != expected {
			t.Fatalf("expected both metering types, got %v", tmpl.OptionsTypes.Names())
		}
	})

	t.Run("scope element outside the scope disqualifies metering detection", func(t *testing.T) {
		tmpl := parseOptionsTemplate(t, 1, []testFieldSpec{
			{id: 145, length: 2},
			{id: 149, length: 4}, // observationDomainId outside the scope
			{id: 40, length: 8},
			{id: 41, length: 8},
			{id: 42, length: 8},
		})

		if tmpl.OptionsTypes&OptionsMeteringStatistics != 0 {
			t.Fatal("metering statistics must not be detected")
		}
	})

	t.Run("more than two observation time elements disqualify reliability", func(t *testing.T) {
		tmpl := parseOptionsTemplate(t, 1, []testFieldSpec{
			{id: 149, length: 4},
			{id: 164, length: 8},
			{id: 165, length: 8},
			{id: 322, length: 4},
			{id: 323, length: 8},
			{id: 324, length: 8},
		})

		if tmpl.OptionsTypes&OptionsMeteringReliabilityStatistics != 0 {
			t.Fatal("metering reliability must not be detected")
		}
	})

	t.Run("exporting process reliability statistics", func(t *testing.T) {
		tmpl := parseOptionsTemplate(t, 1, []testFieldSpec{
			{id: 130, length: 4}, // exporterIPv4Address
			{id: 166, length: 8},
			{id: 167, length: 8},
			{id: 168, length: 8},
			{id: 324, length: 8},
			{id: 325, length: 8},
		})

		if tmpl.OptionsTypes != OptionsExportingReliabilityStatistics {
			t.Fatalf("expected exactly the exporting reliability type, got %v", tmpl.OptionsTypes.Names())
		}
	})

	t.Run("exporting detection needs the observation time pair", func(t *testing.T) {
		tmpl := parseOptionsTemplate(t, 1, []testFieldSpec{
			{id: 144, length: 4}, // exportingProcessId
			{id: 166, length: 8},
			{id: 167, length: 8},
			{id: 168, length: 8},
		})

		if tmpl.OptionsTypes != 0 {
			t.Fatalf("expected no detected types, got %v", tmpl.OptionsTypes.Names())
		}
	})

	t.Run("flow keys", func(t *testing.T) {
		tmpl := parseOptionsTemplate(t, 1, []testFieldSpec{
			{id: 145, length: 2}, // templateId
			{id: 173, length: 8}, // flowKeyIndicator
		})

		if tmpl.OptionsTypes != OptionsFlowKeys {
			t.Fatalf("expected exactly the flow keys type, got %v", tmpl.OptionsTypes.Names())
		}
	})

	t.Run("flow keys with duplicated template id scope", func(t *testing.T) {
		tmpl := parseOptionsTemplate(t, 2, []testFieldSpec{
			{id: 145, length: 2},
			{id: 145, length: 2},
			{id: 173, length: 8},
		})

		if tmpl.OptionsTypes&OptionsFlowKeys != 0 {
			t.Fatal("flow keys must not be detected on a multi IE scope")
		}
	})

	t.Run("information element type", func(t *testing.T) {
		tmpl := parseOptionsTemplate(t, 2, []testFieldSpec{
			{id: 346, length: 4}, // privateEnterpriseNumber
			{id: 303, length: 2}, // informationElementId
			{id: 339, length: 1}, // informationElementDataType
			{id: 344, length: 1}, // informationElementSemantics
			{id: 341, length: VariableLength}, // informationElementName
		})

		if tmpl.OptionsTypes != OptionsInformationElementType {
			t.Fatalf("expected exactly the information element type, got %v", tmpl.OptionsTypes.Names())
		}
	})

	t.Run("information element type requires both scope elements", func(t *testing.T) {
		tmpl := parseOptionsTemplate(t, 1, []testFieldSpec{
			{id: 303, length: 2},
			{id: 339, length: 1},
			{id: 344, length: 1},
			{id: 341, length: VariableLength},
		})

		if tmpl.OptionsTypes&OptionsInformationElementType != 0 {
			t.Fatal("information element type must not be detected")
		}
	})

	t.Run("unrecognized options template", func(t *testing.T) {
		tmpl := parseOptionsTemplate(t, 1, []testFieldSpec{
			{id: 148, length: 8},
			{id: 1, length: 8},
			{id: 2, length: 8},
		})

		if tmpl.OptionsTypes != 0 {
			t.Fatalf("expected no detected types, got %v", tmpl.OptionsTypes.Names())
		}
	})
}
