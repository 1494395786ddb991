package utils

// Max returns the largest of the given ints, or -1 for no input.
func Max(data ...int) int {
	if len(data) == 0 {
		return -1
	}

	res := data[0]
	for _, datum := range data {
		if datum > res {
			res = datum
		}
	}
	return res
}

// Min returns the smallest of the given ints, or -1 for no input.
func Min(data ...int) int {
	if len(data) == 0 {
		return -1
	}

	res := data[0]
	for _, datum := range data {
		if datum < res {
			res = datum
		}
	}
	return res
}

// SuperMajority returns the strict two-thirds threshold for a cohort of n:
// the smallest group size strictly greater than 2n/3.
func SuperMajority(n int) int {
	return (2*n)/3 + 1
}
