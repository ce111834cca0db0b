package auth

import "strconv"

func parseUserID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

func formatUserID(id int64) string {
	return strconv.FormatInt(id, 10)
}
