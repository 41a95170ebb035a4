package api

import (
	"net/http"
	"strconv"
	"strings"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

const HeaderConsumer = "X-consumer"

func consumerKey(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(HeaderConsumer))
}

// queryInts parses every named query parameter as an integer. A missing
// parameter reads as 0, the same as an out-of-grid coordinate.
func queryInts(r *http.Request, names ...string) ([]int, error) {
	values := make([]int, len(names))
	query := r.URL.Query()

	for i, name := range names {
		raw := strings.TrimSpace(query.Get(name))
		if raw == "" {
			continue
		}

		value, err := strconv.Atoi(raw)
		if err != nil {
			return nil, cerr.ErrInvalidQueryParam(name, raw)
		}
		values[i] = value
	}
	return values, nil
}
