package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatState_Helpers(t *testing.T) {
	state := &ChatState{
		TempData: map[string]string{
			"int":    "123",
			"float":  "199.50",
			"string": "hello",
			"bad":    "not-a-number",
		},
	}

	t.Run("NilTempData", func(t *testing.T) {
		empty := &ChatState{}
		assert.Equal(t, int64(0), empty.GetInt64("any"))
		assert.Equal(t, "", empty.GetString("any"))
		assert.Equal(t, 0.0, empty.GetFloat("any"))
	})

	t.Run("Get", func(t *testing.T) {
		assert.Equal(t, int64(123), state.GetInt64("int"))
		assert.Equal(t, 123, state.GetInt("int"))
		assert.Equal(t, 199.50, state.GetFloat("float"))
		assert.Equal(t, "hello", state.GetString("string"))
		assert.Equal(t, int64(0), state.GetInt64("bad"))
		assert.Equal(t, int64(0), state.GetInt64("missing"))
	})

	t.Run("Set", func(t *testing.T) {
		empty := &ChatState{}
		empty.Set("k", "42")
		assert.Equal(t, int64(42), empty.GetInt64("k"))
	})
}

func TestNights(t *testing.T) {
	t.Run("TwoNights", func(t *testing.T) {
		nights, err := Nights("2024-06-01", "2024-06-03")
		require.NoError(t, err)
		assert.Equal(t, 2, nights)
	})

	t.Run("SameDay", func(t *testing.T) {
		_, err := Nights("2024-06-01", "2024-06-01")
		assert.Error(t, err)
	})

	t.Run("Reversed", func(t *testing.T) {
		_, err := Nights("2024-06-03", "2024-06-01")
		assert.Error(t, err)
	})

	t.Run("Malformed", func(t *testing.T) {
		_, err := Nights("01.06.2024", "2024-06-03")
		assert.Error(t, err)
	})
}

func TestAsBooking(t *testing.T) {
	ab := AccommodationBooking{
		ID: 7, AccommodationID: 3, CheckIn: "2024-06-01", CheckOut: "2024-06-03",
		Guests: 2, TotalPrice: 200, Status: StatusPending,
	}
	b := ab.AsBooking()
	assert.Equal(t, KindAccommodation, b.Kind)
	assert.Equal(t, int64(3), b.SubjectID)
	assert.Equal(t, "2024-06-03", b.EndDate)

	tb := TransportBooking{ID: 9, TransportID: 4, TravelDate: "2024-07-10", Seats: 3, TotalPrice: 90, Status: StatusConfirmed}
	v := tb.AsBooking()
	assert.Equal(t, KindTransport, v.Kind)
	assert.Equal(t, "", v.EndDate)
	assert.Equal(t, 3, v.Quantity)
}

func TestKnownRole(t *testing.T) {
	assert.True(t, KnownRole(RoleTourist))
	assert.True(t, KnownRole(RoleHost))
	assert.True(t, KnownRole(RoleDriver))
	assert.False(t, KnownRole("admin"))
	assert.False(t, KnownRole(""))
}
