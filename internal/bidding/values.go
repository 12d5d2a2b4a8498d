package bidding

import "sort"

// Values is the ladder of values that can be called while bidding, lowest first.
var Values = []int{
	18, 20, 22, 23, 24, 27, 30, 33, 35, 36,
	40, 44, 45, 46, 48, 50, 54, 55, 59, 60,
	63, 66, 70, 72, 77, 80, 81, 84, 88, 90,
	96, 99, 100, 108, 110, 117, 120, 121, 126, 130,
	132, 135, 140, 143, 144, 150, 153, 154, 156, 160,
	162, 165, 168, 170, 176, 180, 187, 192, 198, 204,
	216, 240, 264,
}

// IsValue reports whether v is on the bidding ladder.
func IsValue(v int) bool {
	i := sort.SearchInts(Values, v)
	return i < len(Values) && Values[i] == v
}

// NextValue returns the lowest ladder value above v.
// Passing 0 yields the opening value 18.
func NextValue(v int) (int, bool) {
	i := sort.SearchInts(Values, v+1)
	if i == len(Values) {
		return 0, false
	}
	return Values[i], true
}
