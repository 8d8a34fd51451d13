package bookings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseState(t *testing.T) {
	for _, s := range []string{"ALL", "CURRENT", "PAST", "FUTURE", "WAITING", "REJECTED"} {
		got, err := ParseState(s)
		require.NoError(t, err)
		assert.Equal(t, State(s), got)
	}

	_, err := ParseState("all") // 小文字は不可
	assertCode(t, err, CodeInvalidArgument)
	_, err = ParseState("APPROVED") // Status であって State ではない
	assertCode(t, err, CodeInvalidArgument)
}

func TestBuildListQuery(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	t.Run("ALL", func(t *testing.T) {
		q := buildListQuery(StateAll, scopeBooker, now)
		assert.Nil(t, q.Status)
		assert.Nil(t, q.StartAfter)
		assert.Nil(t, q.EndBefore)
		assert.Nil(t, q.CurrentAt)
		assert.False(t, q.OrderAsc)
	})

	t.Run("PAST", func(t *testing.T) {
		q := buildListQuery(StatePast, scopeBooker, now)
		require.NotNil(t, q.EndBefore)
		assert.Equal(t, now, *q.EndBefore)
	})

	t.Run("FUTURE", func(t *testing.T) {
		q := buildListQuery(StateFuture, scopeBooker, now)
		require.NotNil(t, q.StartAfter)
		assert.Equal(t, now, *q.StartAfter)
	})

	t.Run("WAITING", func(t *testing.T) {
		q := buildListQuery(StateWaiting, scopeBooker, now)
		require.NotNil(t, q.Status)
		assert.Equal(t, StatusWaiting, *q.Status)
	})

	t.Run("REJECTED", func(t *testing.T) {
		q := buildListQuery(StateRejected, scopeItemOwner, now)
		require.NotNil(t, q.Status)
		assert.Equal(t, StatusRejected, *q.Status)
		assert.False(t, q.OrderAsc)
	})

	t.Run("CURRENT order depends on scope", func(t *testing.T) {
		b := buildListQuery(StateCurrent, scopeBooker, now)
		o := buildListQuery(StateCurrent, scopeItemOwner, now)
		require.NotNil(t, b.CurrentAt)
		assert.False(t, b.OrderAsc)
		assert.True(t, o.OrderAsc)
	})
}

func TestPageOffset(t *testing.T) {
	cases := []struct {
		from, size, want int
	}{
		{0, 20, 0},
		{20, 20, 20},
		{25, 10, 20}, // size の倍数でない from はページ境界に切り下げ
		{5, 20, 0},
		{40, 20, 40},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, pageOffset(tc.from, tc.size), "from=%d size=%d", tc.from, tc.size)
	}
}

func TestStatusCanTransitionTo(t *testing.T) {
	assert.True(t, StatusWaiting.CanTransitionTo(StatusApproved))
	assert.True(t, StatusWaiting.CanTransitionTo(StatusRejected))
	assert.True(t, StatusApproved.CanTransitionTo(StatusRejected))
	assert.False(t, StatusApproved.CanTransitionTo(StatusApproved))
	assert.False(t, StatusRejected.CanTransitionTo(StatusRejected))
}
