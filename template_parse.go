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
	"encoding/binary"
	"fmt"
)

// ParseTemplate decodes a single (options) template record starting at raw[0]
// and returns the analyzed template together with the number of bytes
// consumed. raw may extend beyond the record; the record's real length is
// derived from the field count.
//
// A field count of zero denotes a template withdrawal: the record is returned
// with its header bytes retained and no structural analysis applied.
//
// All rejection paths wrap ErrFormat. The input slice only needs to stay
// valid for the duration of the call, the template keeps its own copy of the
// consumed bytes.
func ParseTemplate(kind TemplateKind, raw []byte) (*Template, int, error) {
	t, headerLen, err := parseTemplateHeader(kind, raw)
	if err != nil {
		TemplateParseErrorsTotal.Inc()
		return nil, 0, err
	}

	if t.FieldCount == 0 {
		// withdrawal, nothing to analyze
		t.raw = append([]byte(nil), raw[:headerLen]...)
		TemplatesParsedTotal.WithLabelValues(kind.String()).Inc()
		return t, headerLen, nil
	}

	fieldsLen, err := t.parseFieldSpecifiers(raw[headerLen:])
	if err != nil {
		TemplateParseErrorsTotal.Inc()
		return nil, 0, err
	}

	consumed := headerLen + fieldsLen
	t.raw = append([]byte(nil), raw[:consumed]...)

	if err := t.calcFeatures(); err != nil {
		TemplateParseErrorsTotal.Inc()
		return nil, 0, err
	}

	if t.Kind == KindOptionsTemplateRecord {
		t.detectOptionsTypes()
	}

	TemplatesParsedTotal.WithLabelValues(kind.String()).Inc()
	return t, consumed, nil
}

// parseTemplateHeader decodes the record header and allocates a template
// sized for the announced number of field specifiers.
//
// The options template header is a superstructure of the plain header, so the
// scope field count is only read when the kind demands it and the record is
// not a withdrawal.
func parseTemplateHeader(kind TemplateKind, raw []byte) (*Template, int, error) {
	if len(raw) < templateHeaderLength {
		return nil, 0, fmt.Errorf("%w: template header requires %d bytes, got %d", ErrFormat, templateHeaderLength, len(raw))
	}

	templateId := binary.BigEndian.Uint16(raw[0:2])
	if templateId < MinDataSetId {
		return nil, 0, fmt.Errorf("%w: template id %d is reserved for sets", ErrFormat, templateId)
	}

	fieldCount := binary.BigEndian.Uint16(raw[2:4])
	headerLen := templateHeaderLength

	var scopeFieldCount uint16
	if fieldCount != 0 && kind == KindOptionsTemplateRecord {
		if len(raw) < optionsTemplateHeaderLength {
			return nil, 0, fmt.Errorf("%w: options template header requires %d bytes, got %d", ErrFormat, optionsTemplateHeaderLength, len(raw))
		}
		headerLen = optionsTemplateHeaderLength

		scopeFieldCount = binary.BigEndian.Uint16(raw[4:6])
		if scopeFieldCount == 0 || scopeFieldCount > fieldCount {
			return nil, 0, fmt.Errorf("%w: scope field count %d not in range [1, %d]", ErrFormat, scopeFieldCount, fieldCount)
		}
	}

	t := &Template{
		Kind:            kind,
		TemplateId:      templateId,
		FieldCount:      fieldCount,
		ScopeFieldCount: scopeFieldCount,
		Fields:          make([]TemplateField, fieldCount),
	}
	return t, headerLen, nil
}

// parseFieldSpecifiers decodes FieldCount specifiers from raw and returns the
// number of bytes consumed. A set enterprise bit extends the specifier by a
// 4-byte enterprise number.
func (t *Template) parseFieldSpecifiers(raw []byte) (int, error) {
	n := 0
	for i := range t.Fields {
		if len(raw)-n < fieldSpecifierLength {
			return 0, fmt.Errorf("%w: unexpected end of template in field specifier %d", ErrFormat, i)
		}

		f := &t.Fields[i]
		f.Id = binary.BigEndian.Uint16(raw[n : n+2])
		f.Length = binary.BigEndian.Uint16(raw[n+2 : n+4])
		n += fieldSpecifierLength

		if f.Id&penMask == 0 {
			continue
		}

		if len(raw)-n < enterpriseNumberLength {
			return 0, fmt.Errorf("%w: unexpected end of template in enterprise number of field %d", ErrFormat, i)
		}
		f.Id &^= penMask
		f.EnterpriseId = binary.BigEndian.Uint32(raw[n : n+4])
		n += enterpriseNumberLength
	}
	return n, nil
}

// calcFieldFlags derives the flags that follow from the template structure
// alone: scope membership and duplicate classification. All other flags need
// external information.
func (t *Template) calcFieldFlags() {
	for i := uint16(0); i < t.ScopeFieldCount; i++ {
		t.Fields[i].Flags |= FieldScope
	}

	// Classify duplicates walking from the back. A coarse presence bitmask
	// over the element id keeps the suffix scan off the common path of
	// templates without repeated elements.
	var seen uint64
	for i := len(t.Fields) - 1; i >= 0; i-- {
		f := &t.Fields[i]

		bit := uint64(1) << (f.Id % 64)
		if seen&bit == 0 {
			f.Flags |= FieldLastIE
			seen |= bit
			continue
		}

		duplicate := false
		for j := i + 1; j < len(t.Fields); j++ {
			g := &t.Fields[j]
			if f.Id != g.Id || f.EnterpriseId != g.EnterpriseId {
				continue
			}
			f.Flags |= FieldMultiIE
			g.Flags |= FieldMultiIE
			duplicate = true
			break
		}

		if !duplicate {
			f.Flags |= FieldLastIE
		}
	}
}

// calcFeatures computes per-field offsets, the expected data record length,
// and the structural template flags.
func (t *Template) calcFeatures() error {
	t.calcFieldFlags()

	var dataLength uint32
	var offset uint16
	for i := range t.Fields {
		f := &t.Fields[i]
		f.Offset = offset

		if f.Flags&FieldMultiIE != 0 {
			t.Flags |= TemplateHasMultiIE
		}

		if f.Length == VariableLength {
			// a variable-length element has no well-defined offset itself and
			// occupies at least its length prefix
			f.Offset = VariableLength
			t.Flags |= TemplateHasDynamic
			dataLength++
			offset = VariableLength
			continue
		}

		dataLength += uint32(f.Length)
		if offset != VariableLength {
			// overflow is caught by the total length check below
			offset += f.Length
		}
	}

	if dataLength > maxDataRecordLength {
		return fmt.Errorf("%w: minimal data record length %d exceeds %d", ErrFormat, dataLength, maxDataRecordLength)
	}
	t.DataLength = uint16(dataLength)
	return nil
}
