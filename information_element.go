package ipfix

import (
	"encoding/json"

	"github.com/mityagz/libfds/iana/datatypes"
)

// InformationElement is the definition of a single IPFIX information element
// as carried by a registry. Templates reference these definitions without
// owning them.
type InformationElement struct {
	Id           uint16 `json:"id" yaml:"id"`
	Name         string `json:"name,omitempty" yaml:"name,omitempty"`
	EnterpriseId uint32 `json:"pen,omitempty" yaml:"pen,omitempty"`

	Type datatypes.DataType `json:"type,omitempty" yaml:"type,omitempty"`

	Semantics string `json:"semantics,omitempty" yaml:"semantics,omitempty"`
	Status    string `json:"status,omitempty" yaml:"status,omitempty"`

	Units       *string `json:"units,omitempty" yaml:"units,omitempty"`
	Description *string `json:"description,omitempty" yaml:"description,omitempty"`

	// IsReverse marks definitions that describe the reverse direction of a
	// biflow (RFC 5103), i.e. elements under the reverse PEN.
	IsReverse bool `json:"is_reverse,omitempty" yaml:"isReverse,omitempty"`

	// ReverseElement links a forward definition to its reverse counterpart
	// and vice versa. The link is established by the registry, not
	// serialized.
	ReverseElement *InformationElement `json:"-" yaml:"-"`
}

func (i InformationElement) String() string {
	b, err := json.Marshal(i)
	if err != nil {
		panic(err)
	}
	return string(b)
}

// Structured reports whether the element carries one of the structured data
// types of RFC 6313.
func (i *InformationElement) Structured() bool {
	switch i.Type {
	case datatypes.BasicList, datatypes.SubTemplateList, datatypes.SubTemplateMultiList:
		return true
	default:
		return false
	}
}

// Clone copies the definition by value. The ReverseElement link is shared,
// pointer-valued metadata is duplicated.
func (i *InformationElement) Clone() InformationElement {
	ie := *i

	if i.Units != nil {
		u := *i.Units
		ie.Units = &u
	}
	if i.Description != nil {
		d := *i.Description
		ie.Description = &d
	}

	return ie
}
