package bidding

// jackFactors maps the jack bitset (bit 0 Clubs, 1 Spades, 2 Hearts, 3 Diamonds)
// to the signed "with"/"without" count. Positive means playing with the Clubs
// jack and the jacks that follow it, negative means playing without them.
var jackFactors = [16]int{
	0b0000: -4, // without 4
	0b0001: 1,  // with 1
	0b0010: -1, // without 1
	0b0011: 2,  // with 2
	0b0100: -2, // without 2
	0b0101: 1,  // with 1
	0b0110: -1, // without 1
	0b0111: 3,  // with 3
	0b1000: -3, // without 3
	0b1001: 1,  // with 1
	0b1010: -1, // without 1
	0b1011: 2,  // with 2
	0b1100: -2, // without 2
	0b1101: 1,  // with 1
	0b1110: -1, // without 1
	0b1111: 4,  // with 4
}

// JackMask packs jack presence (indexed like shared.Suits) into a 4-bit set.
func JackMask(jacks [4]bool) uint8 {
	var mask uint8
	for i, held := range jacks {
		if held {
			mask |= 1 << i
		}
	}
	return mask
}

// JackFactor returns the jack-sequence factor in -4..4 for the held jacks.
func JackFactor(jacks [4]bool) int {
	return jackFactors[JackMask(jacks)]
}
