package generic_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/paycheck/generic"
)

func TestYearMonth_Add_RollsOverYears(t *testing.T) {
	dec := generic.YearMonth{Year: 2025, Month: time.December}
	assert.Equal(t, generic.YearMonth{Year: 2026, Month: time.January}, dec.Add(1))

	jan := generic.YearMonth{Year: 2026, Month: time.January}
	assert.Equal(t, generic.YearMonth{Year: 2025, Month: time.December}, jan.Add(-1))
	assert.Equal(t, generic.YearMonth{Year: 2024, Month: time.November}, jan.Add(-14))
	assert.Equal(t, generic.YearMonth{Year: 2027, Month: time.January}, jan.Add(12))
}

func TestFromTime_TruncatesToMidnight(t *testing.T) {
	tp := generic.FromTime(time.Date(2026, time.March, 9, 23, 59, 0, 0, time.UTC))
	assert.True(t, tp.Equal(generic.NewTimePoint(2026, time.March, 9)))
	assert.Equal(t, 2, tp.MonthIndex())
}

func TestParseDate(t *testing.T) {
	tp, err := generic.ParseDate("2026-01-05")
	require.NoError(t, err)
	assert.Equal(t, "2026-01-05", tp.String())

	_, err = generic.ParseDate("05/01/2026")
	assert.Error(t, err)
}

func TestPeriod_ContainsAndDaysLeft(t *testing.T) {
	p := generic.Period{
		Start: generic.NewTimePoint(2026, time.January, 8),
		End:   generic.NewTimePoint(2026, time.February, 9),
	}
	assert.True(t, p.Contains(p.Start))
	assert.True(t, p.Contains(p.End))
	assert.False(t, p.Contains(p.End.AddDays(1)))
	assert.Equal(t, 4, p.DaysLeft(generic.NewTimePoint(2026, time.February, 5)))
	assert.Equal(t, 0, p.DaysLeft(generic.NewTimePoint(2026, time.March, 1)))
}

func TestAmount_JSONRoundTripAsNumber(t *testing.T) {
	data, err := json.Marshal(struct {
		Amount generic.Amount `json:"amount"`
	}{generic.MustParseAmount("129.50")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":129.5}`, string(data))

	var quoted struct {
		Amount generic.Amount `json:"amount"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"amount":"15000"}`), &quoted))
	assert.True(t, quoted.Amount.Equal(generic.NewAmountFromInt(15000)))
}

func TestStorageError_MatchesSentinelAndCause(t *testing.T) {
	cause := errors.New("disk full")
	err := generic.WrapStorage("save expense", cause)

	assert.ErrorIs(t, err, generic.ErrStorage)
	assert.ErrorIs(t, err, cause)
	assert.False(t, generic.IsClientError(err))
	assert.Nil(t, generic.WrapStorage("noop", nil))

	// Already wrapped errors keep their original op.
	again := generic.WrapStorage("outer", err)
	var se *generic.StorageError
	require.ErrorAs(t, again, &se)
	assert.Equal(t, "save expense", se.Op)
}

func TestValidationError_IsClientError(t *testing.T) {
	err := &generic.ValidationError{Field: "name", Reason: "must not be empty"}
	assert.True(t, generic.IsClientError(err))
	assert.EqualError(t, err, "invalid name: must not be empty")
}
