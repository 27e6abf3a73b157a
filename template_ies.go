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
	"fmt"
	"math/bits"
	"strings"
)

// DefineIEs resolves every field against the given registry and rederives the
// reverse and structured flags, both per field and for the template as a
// whole. With preserve set, fields that already carry a definition keep it
// and only contribute to the aggregated flags.
//
// Passing a nil cache with preserve unset drops all definitions; with
// preserve set the call is a no-op. Unresolvable fields are left with a nil
// definition, binding never fails.
//
// When at least one field resolved to a reverse element, every field is
// additionally classified as a biflow key component (RFC 5103).
// DefineIEs is idempotent for a fixed cache.
func (t *Template) DefineIEs(cache FieldCache, preserve bool) {
	if cache == nil && preserve {
		return
	}

	var hasReverse, hasStruct bool

	for i := range t.Fields {
		f := &t.Fields[i]
		f.Flags &^= FieldBiflowKeyCommon | FieldBiflowKeySource | FieldBiflowKeyDestination

		if preserve && f.Definition != nil {
			hasReverse = hasReverse || f.Flags&FieldReverse != 0
			hasStruct = hasStruct || f.Flags&FieldStructured != 0
			continue
		}

		f.Flags &^= FieldReverse | FieldStructured

		var def *InformationElement
		if cache != nil {
			def = cache.FindByID(f.EnterpriseId, f.Id)
		}
		if def == nil {
			f.Definition = nil
			continue
		}

		f.Definition = def
		if def.IsReverse {
			f.Flags |= FieldReverse
			hasReverse = true
		}
		if def.Structured() {
			f.Flags |= FieldStructured
			hasStruct = true
		}
	}

	if hasReverse {
		t.Flags |= TemplateHasReverse
	} else {
		t.Flags &^= TemplateHasReverse
	}
	if hasStruct {
		t.Flags |= TemplateHasStruct
	} else {
		t.Flags &^= TemplateHasStruct
	}

	if hasReverse {
		t.classifyBiflowKeys()
	}
}

// classifyBiflowKeys marks the direction-neutral fields of a biflow template.
// A field is a common key when it neither is a reverse element itself nor has
// its reverse counterpart present in the template. Common keys with a known
// name are further split into source and destination keys by name prefix.
func (t *Template) classifyBiflowKeys() {
	for i := range t.Fields {
		f := &t.Fields[i]

		if def := f.Definition; def != nil {
			if def.IsReverse {
				continue
			}
			if rev := def.ReverseElement; rev != nil && t.Find(rev.EnterpriseId, rev.Id) != nil {
				// explicit forward/reverse pairing exists
				continue
			}
		}

		f.Flags |= FieldBiflowKeyCommon

		def := f.Definition
		if def == nil || def.Name == "" {
			continue
		}
		if hasFoldPrefix(def.Name, "source") {
			f.Flags |= FieldBiflowKeySource
		} else if hasFoldPrefix(def.Name, "destination") {
			f.Flags |= FieldBiflowKeyDestination
		}
	}
}

func hasFoldPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// FlowKeyApplicable reports whether the flow key indicator fits this
// template, i.e. whether its highest set bit still addresses a field. Bit i
// of the indicator, LSB first, selects field i.
func (t *Template) FlowKeyApplicable(flowkey uint64) error {
	if highest := bits.Len64(flowkey); highest > int(t.FieldCount) {
		return fmt.Errorf("%w: flow key indicator covers %d fields, template has %d", ErrFormat, highest, t.FieldCount)
	}
	return nil
}

// DefineFlowKey applies a flow key indicator to the template, setting the
// flow key flag on exactly the fields selected by the mask. A zero mask
// clears the template's flow key flag.
func (t *Template) DefineFlowKey(flowkey uint64) error {
	if err := t.FlowKeyApplicable(flowkey); err != nil {
		return err
	}

	if flowkey != 0 {
		t.Flags |= TemplateHasFlowKey
	} else {
		t.Flags &^= TemplateHasFlowKey
	}

	for i := range t.Fields {
		if flowkey&0x1 != 0 {
			t.Fields[i].Flags |= FieldFlowKey
		} else {
			t.Fields[i].Flags &^= FieldFlowKey
		}
		flowkey >>= 1
	}
	return nil
}

// CompareFlowKey returns 0 when the template currently encodes exactly the
// given flow key indicator, and 1 otherwise.
func (t *Template) CompareFlowKey(flowkey uint64) int {
	expected := flowkey != 0
	actual := t.Flags&TemplateHasFlowKey != 0

	if !expected && !actual {
		return 0
	}
	if expected != actual {
		return 1
	}

	if bits.Len64(flowkey) > int(t.FieldCount) {
		return 1
	}

	for i := range t.Fields {
		if (flowkey&0x1 != 0) != (t.Fields[i].Flags&FieldFlowKey != 0) {
			return 1
		}
		flowkey >>= 1
	}
	return 0
}
