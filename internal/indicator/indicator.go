// Package indicator computes technical indicator series over price slices.
//
// Every function returns the series aligned to the end of its input: the last
// element belongs to the last input value. Inputs shorter than the warm-up
// period produce an empty series.
package indicator

func valid(n, period int) bool {
	return period > 0 && n >= period
}
