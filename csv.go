package ipfix

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/mityagz/libfds/iana/datatypes"
)

func MustReadCSV(r io.Reader) []InformationElement {
	m, err := ReadCSV(r)
	if err != nil {
		panic(err)
	}
	return m
}

// ReadCSV reads information element definitions in the column layout of the
// IANA "IPFIX Information Elements" registry export: ElementID, Name,
// Abstract Data Type, Data Type Semantics, Status, Description, Units.
// The first row is treated as a header and skipped.
func ReadCSV(r io.Reader) ([]InformationElement, error) {
	csvReader := csv.NewReader(r)

	_, _ = csvReader.Read()

	elements := make([]InformationElement, 0)

	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		ie := InformationElement{}

		id, _ := strconv.Atoi(record[0])
		ie.Id = uint16(id)

		ie.Name = record[1]

		if typ := record[2]; typ != "" {
			ie.Type = datatypes.Parse(typ)
		}

		if sem := record[3]; sem != "" {
			ie.Semantics = sem
		}

		if stat := record[4]; stat != "" {
			ie.Status = stat
		}

		if description := record[5]; description != "" {
			ie.Description = &description
		}

		if units := record[6]; units != "" {
			ie.Units = &units
		}

		elements = append(elements, ie)
	}

	return elements, nil
}
