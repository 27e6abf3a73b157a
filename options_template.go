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

// Recognition of well-known options template shapes. Detection never fails:
// an options template that matches none of the patterns simply keeps an empty
// OptionsTypes bitset. The patterns are taken from RFC 7011, Sections 4.1-4.4
// and RFC 5610, Section 3.9.

type optionsRequirement struct {
	id uint16
	en uint32
}

// hasRequiredNonScope reports whether every required element appears among
// the non-scope fields. Scope fields are ignored entirely.
func (t *Template) hasRequiredNonScope(reqs []optionsRequirement) bool {
	for _, req := range reqs {
		found := false
		for i := int(t.ScopeFieldCount); i < len(t.Fields); i++ {
			f := &t.Fields[i]
			if f.Id == req.id && f.EnterpriseId == req.en {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// hasObservationTimePair reports whether exactly two non-scope fields carry
// an observationTime element of any precision, i.e. observationTimeSeconds
// (322) through observationTimeNanoseconds (325). More than two matches
// disqualify the template.
func (t *Template) hasObservationTimePair() bool {
	matches := 0
	for i := int(t.ScopeFieldCount); i < len(t.Fields); i++ {
		f := &t.Fields[i]
		if f.EnterpriseId != 0 {
			continue
		}
		if f.Id < 322 || f.Id > 325 {
			continue
		}

		matches++
		if matches > 2 {
			return false
		}
	}
	return matches == 2
}

func (t *Template) detectOptionsTypes() {
	t.detectMeteringProcessOptions()
	t.detectExportingProcessOptions()
	t.detectFlowKeysOptions()
	t.detectInformationElementTypeOptions()

	for _, ot := range optionsTypeNames {
		if t.OptionsTypes&ot.flag != 0 {
			OptionsTemplatesRecognizedTotal.WithLabelValues(ot.name).Inc()
		}
	}
}

// detectMeteringProcessOptions covers both the Metering Process Statistics
// and the Metering Process Reliability Statistics templates (RFC 7011,
// Sections 4.1 and 4.2).
//
// Note that the reliability check does not require the statistics check to
// have succeeded, the two required sets are evaluated independently.
func (t *Template) detectMeteringProcessOptions() {
	odid := t.Find(0, 149) // observationDomainId
	mpid := t.Find(0, 143) // meteringProcessId
	if odid == nil && mpid == nil {
		// at least one of them must scope the template
		return
	}

	for _, f := range []*TemplateField{odid, mpid} {
		if f == nil {
			continue
		}
		if f.Flags&FieldScope == 0 || f.Flags&FieldMultiIE != 0 {
			return
		}
	}

	if t.hasRequiredNonScope([]optionsRequirement{
		{40, 0}, // exportedOctetTotalCount
		{41, 0}, // exportedMessageTotalCount
		{42, 0}, // exportedFlowRecordTotalCount
	}) {
		t.OptionsTypes |= OptionsMeteringStatistics
	}

	if !t.hasRequiredNonScope([]optionsRequirement{
		{164, 0}, // ignoredPacketTotalCount
		{165, 0}, // ignoredOctetTotalCount
	}) {
		return
	}

	if t.hasObservationTimePair() {
		t.OptionsTypes |= OptionsMeteringReliabilityStatistics
	}
}

// detectExportingProcessOptions covers the Exporting Process Reliability
// Statistics template (RFC 7011, Section 4.3).
func (t *Template) detectExportingProcessOptions() {
	exporterIds := []uint16{
		130, // exporterIPv4Address
		131, // exporterIPv6Address
		144, // exportingProcessId
	}

	found := false
	for _, id := range exporterIds {
		f := t.Find(0, id)
		if f == nil {
			continue
		}
		if f.Flags&FieldScope != 0 && f.Flags&FieldLastIE != 0 {
			found = true
			break
		}
	}
	if !found {
		return
	}

	if !t.hasRequiredNonScope([]optionsRequirement{
		{166, 0}, // notSentFlowTotalCount
		{167, 0}, // notSentPacketTotalCount
		{168, 0}, // notSentOctetTotalCount
	}) {
		return
	}

	if t.hasObservationTimePair() {
		t.OptionsTypes |= OptionsExportingReliabilityStatistics
	}
}

// detectFlowKeysOptions covers the Flow Keys template (RFC 7011, Section 4.4).
func (t *Template) detectFlowKeysOptions() {
	f := t.Find(0, 145) // templateId
	if f == nil {
		return
	}
	if f.Flags&FieldScope == 0 || f.Flags&FieldMultiIE != 0 {
		return
	}

	if t.hasRequiredNonScope([]optionsRequirement{
		{173, 0}, // flowKeyIndicator
	}) {
		t.OptionsTypes |= OptionsFlowKeys
	}
}

// detectInformationElementTypeOptions covers the Information Element Type
// template announcing enterprise-specific elements (RFC 5610, Section 3.9).
func (t *Template) detectInformationElementTypeOptions() {
	ieId := t.Find(0, 303) // informationElementId
	pen := t.Find(0, 346)  // privateEnterpriseNumber

	for _, f := range []*TemplateField{ieId, pen} {
		if f == nil {
			return
		}
		if f.Flags&FieldScope == 0 || f.Flags&FieldMultiIE != 0 {
			return
		}
	}

	if t.hasRequiredNonScope([]optionsRequirement{
		{339, 0}, // informationElementDataType
		{344, 0}, // informationElementSemantics
		{341, 0}, // informationElementName
	}) {
		t.OptionsTypes |= OptionsInformationElementType
	}
}
