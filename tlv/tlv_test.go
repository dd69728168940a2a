package tlv

import (
	"fmt"

	"wobbegong.dev/asn1"
)

func ExampleHeader_String() {
	fmt.Println(Header{Universal(asn1.TagSequence), 845})
	fmt.Println(Header{Universal(asn1.TagInteger), 1})
	fmt.Println(Header{Identifier{asn1.ClassContextSpecific, true, 0}, 3})
	fmt.Println(Header{Identifier{asn1.ClassApplication, false, 7}, 0})

	// Output:
	// SEQUENCE/c:845
	// INTEGER/p:1
	// [0]/c:3
	// [APPLICATION 7]/p:0
}
