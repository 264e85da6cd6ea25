package service

// normalizePage clamps pagination parameters. A missing limit defaults to
// 20; max caps runaway page sizes.
func normalizePage(skip, limit, max int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = 20
	}
	if max > 0 && limit > max {
		limit = max
	}
	return skip, limit
}
