package datatypes

import (
	"encoding"
	"fmt"

	"gopkg.in/yaml.v3"
)

// DataType enumerates the abstract data types of information elements as
// registered by IANA and numbered in RFC 5610, Section 3.1. The zero value is
// octetArray, which RFC 5610 also designates as the default for elements of
// unknown type.
type DataType uint8

const (
	OctetArray DataType = iota
	Unsigned8
	Unsigned16
	Unsigned32
	Unsigned64
	Signed8
	Signed16
	Signed32
	Signed64
	Float32
	Float64
	Boolean
	MacAddress
	String
	DateTimeSeconds
	DateTimeMilliseconds
	DateTimeMicroseconds
	DateTimeNanoseconds
	Ipv4Address
	Ipv6Address
	BasicList
	SubTemplateList
	SubTemplateMultiList

	Unassigned DataType = 0xFF
)

var names = map[DataType]string{
	OctetArray:           "octetArray",
	Unsigned8:            "unsigned8",
	Unsigned16:           "unsigned16",
	Unsigned32:           "unsigned32",
	Unsigned64:           "unsigned64",
	Signed8:              "signed8",
	Signed16:             "signed16",
	Signed32:             "signed32",
	Signed64:             "signed64",
	Float32:              "float32",
	Float64:              "float64",
	Boolean:              "boolean",
	MacAddress:           "macAddress",
	String:               "string",
	DateTimeSeconds:      "dateTimeSeconds",
	DateTimeMilliseconds: "dateTimeMilliseconds",
	DateTimeMicroseconds: "dateTimeMicroseconds",
	DateTimeNanoseconds:  "dateTimeNanoseconds",
	Ipv4Address:          "ipv4Address",
	Ipv6Address:          "ipv6Address",
	BasicList:            "basicList",
	SubTemplateList:      "subTemplateList",
	SubTemplateMultiList: "subTemplateMultiList",
}

func (d DataType) String() string {
	if n, ok := names[d]; ok {
		return n
	}
	return "unassigned"
}

// FromNumber maps the numeric encoding used by RFC 5610 data records to a
// DataType, returning Unassigned for numbers outside the registry.
func FromNumber(i uint8) DataType {
	d := DataType(i)
	if _, ok := names[d]; !ok {
		return Unassigned
	}
	return d
}

// Parse maps a textual type name to a DataType, returning Unassigned for
// unknown names.
func Parse(s string) DataType {
	for d, n := range names {
		if n == s {
			return d
		}
	}
	return Unassigned
}

var _ fmt.Stringer = DataType(0)
var _ encoding.TextMarshaler = DataType(0)
var _ encoding.TextUnmarshaler = (*DataType)(nil)

func (d DataType) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *DataType) UnmarshalText(in []byte) error {
	*d = Parse(string(in))
	return nil
}

// yaml.v3 resolves scalars without consulting encoding.TextUnmarshaler, so
// the textual form is wired up explicitly for registry files.
func (d DataType) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

func (d *DataType) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	*d = Parse(s)
	return nil
}
