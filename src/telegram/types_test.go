package telegram

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telegram-connector/telegram-mcp/src/json"
)

func TestChannelIDRejectsNonPositive(t *testing.T) {
	for _, v := range []int64{0, -1, -123456789} {
		_, err := NewChannelID(v)
		assert.ErrorIs(t, err, ErrNonPositiveID, "value %d", v)
	}
}

func TestChannelIDRoundTrips(t *testing.T) {
	id, err := NewChannelID(123456789)
	require.NoError(t, err)
	assert.Equal(t, int64(123456789), id.Int64())
}

func TestMessageAndUserIDValidation(t *testing.T) {
	_, err := NewMessageID(0)
	assert.ErrorIs(t, err, ErrNonPositiveID)

	mid, err := NewMessageID(42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), mid.Int64())

	_, err = NewUserID(-5)
	assert.ErrorIs(t, err, ErrNonPositiveID)

	uid, err := NewUserID(7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), uid.Int64())
}

func TestUsernameValidation(t *testing.T) {
	cases := []struct {
		input string
		ok    bool
	}{
		{"valid_user", true},
		{"abcde", true},
		{strings.Repeat("a", 32), true},
		{"User_123", true},
		{"abcd", false},
		{strings.Repeat("a", 33), false},
		{"has space", false},
		{"has-dash", false},
		{"unicode_ü", false},
		{"", false},
	}
	for _, tc := range cases {
		u, err := NewUsername(tc.input)
		if tc.ok {
			require.NoError(t, err, "input %q", tc.input)
			assert.Equal(t, tc.input, u.String())
		} else {
			assert.Error(t, err, "input %q", tc.input)
		}
	}
}

func TestChannelNameTrimsAndRejectsBlank(t *testing.T) {
	n, err := NewChannelName("  Tech News  ")
	require.NoError(t, err)
	assert.Equal(t, "Tech News", n.String())

	_, err = NewChannelName("   \t\n")
	assert.ErrorIs(t, err, ErrEmptyChannelName)
}

func TestNewSearchParamsDefaults(t *testing.T) {
	p := NewSearchParams("golang", nil, 0, 0)
	assert.Equal(t, DefaultHoursBack, p.HoursBack)
	assert.Equal(t, DefaultLimit, p.Limit)
}

func TestNewSearchParamsClampsCeilings(t *testing.T) {
	p := NewSearchParams("golang", nil, 1000, 500)
	assert.Equal(t, MaxHoursBack, p.HoursBack)
	assert.Equal(t, MaxLimit, p.Limit)
}

func TestSearchParamsInRangeUntouched(t *testing.T) {
	p := NewSearchParams("golang", nil, 24, 50)
	assert.Equal(t, uint32(24), p.HoursBack)
	assert.Equal(t, uint32(50), p.Limit)
}

func TestIdentifiersSerializeAsNumbers(t *testing.T) {
	id, err := NewChannelID(123)
	require.NoError(t, err)

	data, err := json.Marshal(id)
	require.NoError(t, err)
	assert.Equal(t, "123", string(data))
}

func TestMessageJSONShape(t *testing.T) {
	cid, _ := NewChannelID(123)
	mid, _ := NewMessageID(1)
	name, _ := NewChannelName("Test Channel")
	user, _ := NewUsername("testchannel")

	msg := Message{
		ID:              mid,
		ChannelID:       cid,
		ChannelName:     name,
		ChannelUsername: user,
		Text:            "hello",
		Timestamp:       time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		HasMedia:        false,
		MediaType:       MediaNone,
	}

	data, err := json.Marshal(msg)
	require.NoError(t, err)
	s := string(data)
	assert.Contains(t, s, `"channel_id":123`)
	assert.Contains(t, s, `"media_type":"none"`)
	assert.NotContains(t, s, "sender_id", "absent sender must be omitted")
}
