package ipfix

import (
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

// RegistryExport is the on-disk form of an information element registry, used
// for distributing enterprise-specific element definitions alongside the
// builtin IANA set.
type RegistryExport struct {
	Name            string
	ExportTimestamp time.Time

	Fields []*InformationElement
}

func MustReadYAML(r io.Reader) []*InformationElement {
	m, err := ReadYAML(r)
	if err != nil {
		panic(err)
	}
	return m
}

func ReadYAML(r io.Reader) ([]*InformationElement, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	read := RegistryExport{}
	err := dec.Decode(&read)
	if err != nil {
		return nil, err
	}

	return read.Fields, nil
}

func MustWriteYAML(w io.Writer, name string, elements []*InformationElement) {
	err := WriteYAML(w, name, elements)
	if err != nil {
		panic(err)
	}
}

func WriteYAML(w io.Writer, name string, elements []*InformationElement) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	err := enc.Encode(RegistryExport{
		ExportTimestamp: time.Now(),
		Name:            name,
		Fields:          elements,
	})
	if err != nil {
		return err
	}

	return nil
}
