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

/*
Package ipfix implements the template subsystem of an IPFIX (RFC 7011)
protocol library: parsing of binary Template Records and Options Template
Records into validated, introspectable template objects.

# Overview

ParseTemplate converts a raw wire-format template into a Template carrying
per-field structural metadata (scope membership, duplicate classification,
data record offsets), the expected data record length, and, for options
templates, recognition of the well-known shapes of RFC 7011, Section 4 and
RFC 5610, Section 3.9:

	tmpl, n, err := ipfix.ParseTemplate(ipfix.KindTemplateRecord, buf)

Parsed templates are bound against an information element registry with
DefineIEs, which resolves every field to a definition, derives reverse
(RFC 5103) and structured (RFC 6313) flags, and classifies biflow key
components. A registry preloaded with the builtin IANA set is available via
NewIANAFieldCache; enterprise-specific definitions are added from YAML
registry exports or programmatically.

Flow key indicators received through the Flow Keys options template are
applied with DefineFlowKey and checked with CompareFlowKey.

Templates observed in a stream are tracked per observation domain in a
TemplateCache, where adding a withdrawal (a record with a field count of
zero) retracts the stored entry.

The package logs through logr (see SetLogger) and exposes unregistered
Prometheus collectors for embedding applications to register.

# Supported RFCs

- RFC 7011: Specification of the IPFIX Protocol

- RFC 5103: Bidirectional Flow Export Using IPFIX

- RFC 5610: Exporting Type Information for IPFIX Information Elements

- RFC 6313: Export of Structured Data in IPFIX (type recognition only)
*/
package ipfix
