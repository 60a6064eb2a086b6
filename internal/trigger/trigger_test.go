package trigger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEvent(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    Event
		wantErr bool
	}{
		{name: "start", payload: `{"type":"start","date":"03/15/2019"}`, want: Event{Type: EventStart, Date: "03/15/2019"}},
		{name: "start with empty date", payload: `{"type":"start","date":""}`, want: Event{Type: EventStart}},
		{name: "cancel", payload: `{"type":"cancel"}`, want: Event{Type: EventCancel}},
		{name: "unknown type", payload: `{"type":"dance"}`, wantErr: true},
		{name: "not json", payload: `F1`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEvent(tt.payload)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHandleFiltersAndDrops(t *testing.T) {
	tr := newTrigger(Config{Binding: "__b", Buffer: 1})

	tr.handle("someOtherBinding", `{"type":"cancel"}`)
	assert.Len(t, tr.Events(), 0)

	tr.handle("__b", `garbage`)
	assert.Len(t, tr.Events(), 0)

	tr.handle("__b", `{"type":"start","date":"01/01/2020"}`)
	tr.handle("__b", `{"type":"cancel"}`) // buffer full, dropped

	require.Len(t, tr.Events(), 1)
	ev := <-tr.Events()
	assert.Equal(t, EventStart, ev.Type)
	assert.Equal(t, "01/01/2020", ev.Date)
}

func TestInjectScript(t *testing.T) {
	script := injectScript(Config{Binding: "__b", CancelKey: "F1", Anchor: "[id^='home_button']"})
	assert.Contains(t, script, `("__b", "F1", "[id^='home_button']")`)
	assert.Contains(t, script, "paddingTop = '2%'")
	assert.NotContains(t, script, "%!")
}
