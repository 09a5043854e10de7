package binio

// maxCount keeps a record count representable as a non-negative int on
// 32-bit platforms. No readable source holds that many records.
const maxCount = 1<<31 - 1

// maxCapHint bounds slice preallocation driven by an on-disk count.
const maxCapHint = 4096

// Count converts a 32-bit record count read from the stream to an int.
func Count(n int64) int {
	if n > maxCount {
		return maxCount
	}
	if n < 0 {
		return 0
	}
	return int(n)
}

// CapHint returns a slice capacity for count records. The count comes from
// untrusted input, so the hint is capped and append grows the rest.
func CapHint(count int) int {
	return max(0, min(count, maxCapHint))
}
