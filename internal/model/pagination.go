package model

const (
	defaultPageLimit int64 = 20
	maxPageLimit     int64 = 100
)

// NormalizePage clamps pagination input to sane values.
func NormalizePage(page, limit int64) (int64, int64) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxPageLimit {
		limit = defaultPageLimit
	}
	return page, limit
}
