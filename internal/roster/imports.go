package roster

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// ParseIDList extracts user ids from a newline-delimited listing. Lines may
// be comma-delimited with the id in the first field (CSV exports); lines
// whose first field is not a plain positive integer are silently skipped.
func ParseIDList(r io.Reader) []int64 {
	var ids []int64
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if i := strings.IndexByte(line, ','); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		id, err := strconv.ParseInt(line, 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// ParseIDArgs extracts user ids from command arguments. Unlike ParseIDList
// it reports failure on the first non-numeric argument so the caller can
// answer with a usage hint instead of silently dropping input.
func ParseIDArgs(args []string) ([]int64, bool) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
		if err != nil || id <= 0 {
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}
