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

import "strings"

// ReversePEN is the private enterprise number designated by RFC 5103 for
// carrying the reverse direction of biflow information. An element under this
// PEN is semantically the IANA element of the same id, describing data "in
// the opposite direction" of the flow.
const ReversePEN uint32 = 29305

// nonReversibleElements lists the IANA information elements that RFC 5103
// declares irreversible, keyed by element id. For all other IANA elements a
// reverse counterpart under ReversePEN is well-defined.
var nonReversibleElements = map[uint16]string{
	// identifiers per RFC 5102, Section 5.1
	10:  "ingressInterface",
	14:  "egressInterface",
	137: "commonPropertiesId",
	138: "observationPointId",
	141: "lineCardId",
	142: "portId",
	143: "meteringProcessId",
	144: "exportingProcessId",
	145: "templateId",
	148: "flowId",
	149: "observationDomainId",
	// process configuration per RFC 5102, Section 5.2
	130: "exporterIPv4Address",
	131: "exporterIPv6Address",
	211: "collectorIPv4Address",
	212: "collectorIPv6Address",
	213: "exportInterface",
	214: "exportProtocolVersion",
	215: "exportTransportProtocol",
	216: "collectorTransportPort",
	217: "exporterTransportPort",
	173: "flowKeyIndicator",
	// metering and exporting process statistics per RFC 5102, Section 5.3
	40:  "exportedOctetTotalCount",
	41:  "exportedMessageTotalCount",
	42:  "exportedFlowRecordTotalCount",
	163: "observedFlowTotalCount",
	164: "ignoredPacketTotalCount",
	165: "ignoredOctetTotalCount",
	166: "notSentFlowTotalCount",
	167: "notSentPacketTotalCount",
	168: "notSentOctetTotalCount",
	// padding octets per RFC 5102, Section 5.12.1
	210: "paddingOctets",
	// biflowDirection per RFC 5103, Section 6.3
	239: "biflowDirection",
}

// Reversible reports whether an IANA element id has a well-defined reverse
// counterpart under the reverse PEN.
func Reversible(id uint16) bool {
	_, nonReversible := nonReversibleElements[id]
	return !nonReversible
}

// ReversedName prefixes an element name with "reversed" in camelCase to
// textually indicate the presence of the reverse PEN.
func ReversedName(name string) string {
	if name == "" {
		return name
	}
	s := strings.ToUpper(string([]rune(name)[0:1])) // UTF-8
	return "reversed" + s + name[1:]
}
