package datatypes

import "testing"

func TestDataTypeConversions(t *testing.T) {
	t.Run("number round trip", func(t *testing.T) {
		for i := uint8(0); i <= 22; i++ {
			d := FromNumber(i)
			if uint8(d) != i {
				t.Fatalf("number %d does not round-trip, got %d", i, uint8(d))
			}
		}
		if FromNumber(23) != Unassigned {
			t.Fatal("numbers outside the registry must map to Unassigned")
		}
	})

	t.Run("name round trip", func(t *testing.T) {
		for _, d := range []DataType{OctetArray, Unsigned64, String, BasicList, SubTemplateMultiList} {
			if Parse(d.String()) != d {
				t.Fatalf("%s does not round-trip", d)
			}
		}
		if Parse("notAType") != Unassigned {
			t.Fatal("unknown names must map to Unassigned")
		}
	})

	t.Run("text marshalling", func(t *testing.T) {
		b, err := Ipv6Address.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		if string(b) != "ipv6Address" {
			t.Fatalf("unexpected text %s", b)
		}

		var d DataType
		if err := d.UnmarshalText([]byte("subTemplateList")); err != nil {
			t.Fatal(err)
		}
		if d != SubTemplateList {
			t.Fatalf("expected subTemplateList, got %s", d)
		}
	})
}
