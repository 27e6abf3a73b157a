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
	"bytes"
	"fmt"
)

// TemplateKind distinguishes between plain Template Records and Options
// Template Records, which additionally carry a scope field count in their
// header.
type TemplateKind uint8

const (
	KindTemplateRecord TemplateKind = iota
	KindOptionsTemplateRecord
)

func (k TemplateKind) String() string {
	switch k {
	case KindTemplateRecord:
		return "TemplateRecord"
	case KindOptionsTemplateRecord:
		return "OptionsTemplateRecord"
	default:
		return "Unknown"
	}
}

const (
	// VariableLength is the sentinel length announcing a variable-length
	// information element as per RFC 7011, Section 7.
	VariableLength uint16 = 0xFFFF

	// MinDataSetId is the lowest set id usable for templates. Ids below are
	// reserved for (options) template sets themselves.
	MinDataSetId uint16 = 256

	penMask uint16 = 0x8000

	templateHeaderLength        int = 4
	optionsTemplateHeaderLength int = 6
	fieldSpecifierLength        int = 4
	enterpriseNumberLength      int = 4

	messageHeaderLength int = 16
	setHeaderLength     int = 4

	// maxDataRecordLength bounds the (minimal) length of a data record such
	// that a single record still fits into one IPFIX message.
	maxDataRecordLength uint32 = 0xFFFF - uint32(messageHeaderLength) - uint32(setHeaderLength)
)

// TemplateFlag is the bitset of properties derived for a template as a whole.
type TemplateFlag uint16

const (
	// TemplateHasMultiIE is set when at least one information element occurs
	// more than once in the template.
	TemplateHasMultiIE TemplateFlag = 1 << iota
	// TemplateHasDynamic is set when at least one field is variable-length.
	TemplateHasDynamic
	// TemplateHasReverse is set when at least one field is bound to a reverse
	// information element definition (RFC 5103).
	TemplateHasReverse
	// TemplateHasStruct is set when at least one field is bound to a
	// structured data type definition (RFC 6313).
	TemplateHasStruct
	// TemplateHasFlowKey is set when a non-zero flow key has been applied.
	TemplateHasFlowKey
)

// FieldFlag is the bitset of per-field properties.
type FieldFlag uint16

const (
	// FieldScope marks the leading scope fields of an options template.
	FieldScope FieldFlag = 1 << iota
	// FieldMultiIE marks every occurrence of an information element that
	// appears more than once in the template.
	FieldMultiIE
	// FieldLastIE marks the last occurrence of an information element.
	FieldLastIE
	// FieldReverse marks fields bound to a reverse definition (RFC 5103).
	FieldReverse
	// FieldStructured marks fields bound to a structured data type (RFC 6313).
	FieldStructured
	// FieldFlowKey marks fields selected by an applied flow key.
	FieldFlowKey
	// FieldBiflowKeyCommon marks direction-neutral fields of a biflow.
	FieldBiflowKeyCommon
	// FieldBiflowKeySource marks common biflow keys describing the source.
	FieldBiflowKeySource
	// FieldBiflowKeyDestination marks common biflow keys describing the
	// destination.
	FieldBiflowKeyDestination
)

// OptionsType is the bitset of well-known options template shapes recognized
// after parsing, per RFC 7011, Section 4 and RFC 5610, Section 3.9.
type OptionsType uint8

const (
	OptionsMeteringStatistics OptionsType = 1 << iota
	OptionsMeteringReliabilityStatistics
	OptionsExportingReliabilityStatistics
	OptionsFlowKeys
	OptionsInformationElementType
)

var optionsTypeNames = []struct {
	flag OptionsType
	name string
}{
	{OptionsMeteringStatistics, "meteringProcessStatistics"},
	{OptionsMeteringReliabilityStatistics, "meteringProcessReliabilityStatistics"},
	{OptionsExportingReliabilityStatistics, "exportingProcessReliabilityStatistics"},
	{OptionsFlowKeys, "flowKeys"},
	{OptionsInformationElementType, "informationElementType"},
}

// Names returns the textual names of all recognized options template types
// contained in the bitset.
func (o OptionsType) Names() []string {
	names := make([]string, 0)
	for _, t := range optionsTypeNames {
		if o&t.flag != 0 {
			names = append(names, t.name)
		}
	}
	return names
}

// TemplateField is a single parsed field specifier, enriched with structural
// metadata and, after DefineIEs, a reference to an information element
// definition.
type TemplateField struct {
	// Id is the information element identifier with the enterprise bit
	// already stripped.
	Id uint16 `json:"id"`

	// EnterpriseId is the private enterprise number, 0 for IANA elements.
	EnterpriseId uint32 `json:"pen,omitempty"`

	// Length is the declared field length; VariableLength denotes a
	// variable-length element.
	Length uint16 `json:"length"`

	// Offset is the byte offset of the field within a data record, or
	// VariableLength when the offset is undefined because this field or a
	// preceding one is variable-length.
	Offset uint16 `json:"offset"`

	Flags FieldFlag `json:"flags,omitempty"`

	// Definition is a non-owning reference into a FieldCache. It may be nil
	// when no registry knows the element. The referenced definition must
	// outlive the template.
	Definition *InformationElement `json:"-"`
}

func (f *TemplateField) String() string {
	return fmt.Sprintf("<en=%d,id=%d,len=%d>", f.EnterpriseId, f.Id, f.Length)
}

// Template is the parsed, analyzed in-memory representation of an IPFIX
// (options) template record.
//
// After ParseTemplate the structural properties (ids, lengths, offsets,
// scope/multi/last flags, raw bytes) are permanent. Only the rebindable
// metadata changes afterwards: information element references via DefineIEs
// and flow key flags via DefineFlowKey. Concurrent readers are safe once all
// mutating calls have happened-before.
type Template struct {
	Kind TemplateKind `json:"kind"`

	TemplateId uint16 `json:"template_id"`

	// FieldCount is the total number of field specifiers. A count of zero
	// denotes a template withdrawal.
	FieldCount uint16 `json:"field_count"`

	// ScopeFieldCount is the number of leading scope fields. It is zero for
	// plain templates and withdrawals, and between 1 and FieldCount for
	// options templates.
	ScopeFieldCount uint16 `json:"scope_field_count,omitempty"`

	Flags TemplateFlag `json:"flags,omitempty"`

	// OptionsTypes is only meaningful for options templates.
	OptionsTypes OptionsType `json:"options_types,omitempty"`

	// DataLength is the expected length in octets of a data record described
	// by this template. When TemplateHasDynamic is set this is the minimal
	// length, with every variable-length field contributing one octet.
	DataLength uint16 `json:"data_length"`

	Fields []TemplateField `json:"fields,omitempty"`

	raw []byte
}

func (t *Template) String() string {
	return fmt.Sprintf("%s<id=%d,fields=%d,scope=%d>", t.Kind, t.TemplateId, t.FieldCount, t.ScopeFieldCount)
}

// Raw returns the exact wire bytes the template was parsed from, header and
// field specifiers included. The returned slice is owned by the template and
// must not be modified.
func (t *Template) Raw() []byte {
	return t.raw
}

// Find returns the first field matching the enterprise number and element id
// in insertion order, or nil.
func (t *Template) Find(enterpriseId uint32, id uint16) *TemplateField {
	for i := range t.Fields {
		f := &t.Fields[i]
		if f.Id == id && f.EnterpriseId == enterpriseId {
			return f
		}
	}
	return nil
}

// Copy returns a deep copy of the template. The fields sequence and the raw
// bytes are duplicated; information element references are shared, as their
// lifetime is managed by the registry, not by templates.
func (t *Template) Copy() *Template {
	cpy := *t
	cpy.Fields = append([]TemplateField(nil), t.Fields...)
	cpy.raw = append([]byte(nil), t.raw...)
	return &cpy
}

// CompareTemplates orders templates by the length of their raw wire form
// first, then lexicographically by raw bytes. Two templates are equal exactly
// when they were parsed from identical bytes.
func CompareTemplates(t1, t2 *Template) int {
	if len(t1.raw) != len(t2.raw) {
		if len(t1.raw) > len(t2.raw) {
			return 1
		}
		return -1
	}
	return bytes.Compare(t1.raw, t2.raw)
}
