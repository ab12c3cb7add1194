package dateutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		year    int
		month   time.Month
		day     int
	}{
		{"ISO", "2024-09-01", false, 2024, time.September, 1},
		{"ISO with time", "2024-09-01T13:45:00", false, 2024, time.September, 1},
		{"european dotted", "15.01.2023", false, 2023, time.January, 15},
		{"slash day first", "15/01/2023", false, 2023, time.January, 15},
		{"single digit parts", "5/3/2024", false, 2024, time.March, 5},
		{"two digit year", "5/3/24", false, 2024, time.March, 5},
		{"dash two digit year", "7-12-19", false, 2019, time.December, 7},
		{"surrounding whitespace", "  2024-09-01  ", false, 2024, time.September, 1},
		{"empty", "", true, 0, 0, 0},
		{"garbage", "not a date", true, 0, 0, 0},
		{"month out of range", "10/13/2024", true, 0, 0, 0},
		{"impossible day", "31/2/2024", true, 0, 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDate(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.year, got.Year())
			assert.Equal(t, tc.month, got.Month())
			assert.Equal(t, tc.day, got.Day())
		})
	}
}

func TestToISODate(t *testing.T) {
	d := time.Date(2024, time.September, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-09-01", ToISODate(d))
}
