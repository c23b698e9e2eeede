package entities

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyNotificationData(t *testing.T) {
	data, err := json.Marshal(EmptyNotificationData())
	require.NoError(t, err)
	assert.JSONEq(t, `{"formatVersion":1,"enabled":false,"notifications":[]}`, string(data))
}

func TestNotificationData_IsEmpty(t *testing.T) {
	tests := []struct {
		name string
		data NotificationData
		want bool
	}{
		{name: "nil list", data: NotificationData{FormatVersion: 1}, want: true},
		{name: "enabled with empty list", data: NotificationData{FormatVersion: 1, Enabled: true, Notifications: []Notification{}}, want: true},
		{name: "one notification", data: NotificationData{FormatVersion: 1, Notifications: []Notification{{ID: "n1"}}}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.data.IsEmpty())
		})
	}
}

func TestNotificationData_JSONFieldNames(t *testing.T) {
	input := `{
		"formatVersion": 1,
		"enabled": true,
		"notifications": [{
			"id": "n1",
			"label": "Rent",
			"price": 950.5,
			"currency": "EUR",
			"start": "2024-01-01",
			"frequency": {"year": 0, "month": 1, "day": 0},
			"send": 9
		}]
	}`

	var data NotificationData
	require.NoError(t, json.Unmarshal([]byte(input), &data))

	require.Len(t, data.Notifications, 1)
	n := data.Notifications[0]
	assert.Equal(t, "Rent", n.Label)
	assert.Equal(t, 950.5, n.Price)
	assert.Equal(t, float64(1), n.Frequency.Month)
	assert.Equal(t, float64(9), n.Send)

	out, err := json.Marshal(data)
	require.NoError(t, err)
	assert.JSONEq(t, input, string(out))
}

func TestNotificationData_KeepsUnknownMembers(t *testing.T) {
	input := `{"formatVersion":1,"enabled":true,"notifications":[{"id":"n1","label":"Rent","price":950,"currency":"EUR","start":"2024-01-01","frequency":{"year":0,"month":1,"day":0,"week":2},"send":9,"memo":"x"}],"updatedAt":"2024"}`

	var data NotificationData
	require.NoError(t, json.Unmarshal([]byte(input), &data))
	assert.False(t, data.IsEmpty())

	out, err := json.Marshal(data)
	require.NoError(t, err)
	assert.JSONEq(t, input, string(out))

	out, err = json.Marshal(data.Fields())
	require.NoError(t, err)
	assert.NotContains(t, string(out), "updatedAt")
}
