package datefilter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Time
		wantErr bool
	}{
		{name: "padded", in: "03/15/2019", want: time.Date(2019, 3, 15, 0, 0, 0, 0, time.UTC)},
		{name: "unpadded", in: "3/5/2019", want: time.Date(2019, 3, 5, 0, 0, 0, 0, time.UTC)},
		{name: "surrounding space", in: "  12/20/2019 ", want: time.Date(2019, 12, 20, 0, 0, 0, 0, time.UTC)},
		{name: "trailing time", in: "01/15/2020 4:32pm", want: time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC)},
		{name: "leap day", in: "02/29/2020", want: time.Date(2020, 2, 29, 0, 0, 0, 0, time.UTC)},
		{name: "empty", in: "", wantErr: true},
		{name: "wrong order", in: "2019-03-15", wantErr: true},
		{name: "month 13", in: "13/01/2019", wantErr: true},
		{name: "day overflow", in: "02/30/2020", wantErr: true},
		{name: "day zero", in: "02/00/2020", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v want %v", got, tt.want)
		})
	}
}

func TestTargetCompare(t *testing.T) {
	target := NewTarget("01/01/2020")
	require.True(t, target.Valid)

	tests := []struct {
		name string
		text string
		ok   bool
		want Verdict
	}{
		{name: "newer", text: "03/01/2020", ok: true, want: NotReached},
		{name: "equal counts as not reached", text: "01/01/2020", ok: true, want: NotReached},
		{name: "older", text: "12/20/2019", ok: true, want: Reached},
		{name: "one day older", text: "12/31/2019", ok: true, want: Reached},
		{name: "absent", text: "", ok: false, want: Undeterminable},
		{name: "garbage", text: "yesterday", ok: true, want: Undeterminable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, target.Compare(tt.text, tt.ok))
		})
	}
}

func TestInvalidTargetNeverReached(t *testing.T) {
	target := NewTarget("not a date")
	assert.False(t, target.Valid)
	assert.Equal(t, Undeterminable, target.Compare("01/01/1990", true))
	assert.Contains(t, target.String(), "not a date")
}

func TestTargetString(t *testing.T) {
	assert.Equal(t, "03/05/2019", NewTarget("3/5/2019").String())
}

func TestVerdictString(t *testing.T) {
	assert.Equal(t, "reached", Reached.String())
	assert.Equal(t, "not-reached", NotReached.String())
	assert.Equal(t, "undeterminable", Undeterminable.String())
}
