package localtime

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// API上のタイムスタンプはタイムゾーンなしの LocalDateTime。
// DB側も DATETIME なので、全経路でゾーン変換を行わない。
const Layout = "2006-01-02T15:04:05"

var parseLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	Layout,
}

// LocalDateTime is a naive wall-clock timestamp serialized as
// "2006-01-02T15:04:05" with no timezone offset.
type LocalDateTime struct {
	time.Time
}

func Of(t time.Time) LocalDateTime {
	return LocalDateTime{Time: t}
}

func (t LocalDateTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`null`), nil
	}
	return []byte(`"` + t.Format(Layout) + `"`), nil
}

func (t *LocalDateTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" || s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range parseLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("invalid datetime %q, expected %s", s, Layout)
}

// Value/Scan で DATETIME カラムにそのまま入る
func (t LocalDateTime) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return t.Time, nil
}

func (t *LocalDateTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = v
		return nil
	case []byte:
		return t.UnmarshalJSON(v)
	default:
		return fmt.Errorf("cannot scan %T into LocalDateTime", src)
	}
}
