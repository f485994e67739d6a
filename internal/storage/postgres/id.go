package postgres

import "math"

// storableID reports whether id fits the SERIAL key columns. Any other id
// cannot match a row, so lookups answer not found without a round trip.
func storableID(id int64) bool {
	return id > 0 && id <= math.MaxInt32
}
