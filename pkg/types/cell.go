package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"time"
)

var ErrUnrepresentable = errors.New("cell value cannot be represented as text")

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// CellText converts a cell value to the text that is searched and displayed.
// A nil cell is the empty string.
func CellText(v any) (s string, err error) {
	defer func() {
		if r := recover(); r != nil {
			s, err = "", fmt.Errorf("%w: %v", ErrUnrepresentable, r)
		}
	}()
	return cellText(v, 0)
}

func cellText(v any, depth int) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case []byte:
		return string(x), nil
	case time.Time:
		if x.IsZero() {
			return "", nil
		}
		h, m, s := x.Clock()
		if h == 0 && m == 0 && s == 0 && x.Nanosecond() == 0 {
			return x.Format(dateLayout), nil
		}
		return x.Format(dateTimeLayout), nil
	case *time.Time:
		if x == nil {
			return "", nil
		}
		return cellText(*x, depth)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case int32:
		return strconv.FormatInt(int64(x), 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case bool:
		return strconv.FormatBool(x), nil
	case driver.Valuer:
		// sql.Null* wrappers; guard against valuers returning themselves
		if depth > 2 {
			return "", ErrUnrepresentable
		}
		inner, err := x.Value()
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrUnrepresentable, err)
		}
		return cellText(inner, depth+1)
	case fmt.Stringer:
		return x.String(), nil
	case error:
		return x.Error(), nil
	default:
		return fmt.Sprint(x), nil
	}
}
