package bookings

import "time"

// State は一覧取得のフィルタ指定。Status と違い永続化されない。
type State string

const (
	StateAll      State = "ALL"
	StateCurrent  State = "CURRENT"
	StatePast     State = "PAST"
	StateFuture   State = "FUTURE"
	StateWaiting  State = "WAITING"
	StateRejected State = "REJECTED"
)

func ParseState(s string) (State, error) {
	switch State(s) {
	case StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected:
		return State(s), nil
	}
	return "", ErrInvalid("Unknown state: " + s)
}

// listScope: CURRENT の並び順が booker 側と owner 側で食い違う点に注意。
type listScope int

const (
	scopeBooker listScope = iota
	scopeItemOwner
)

// ListQuery は store が実行する絞り込み・並び・ページング条件。
// state → 条件への変換はここに集約し、SQL側は条件を機械的に適用するだけにする。
type ListQuery struct {
	Status     *Status
	StartAfter *time.Time
	EndBefore  *time.Time
	CurrentAt  *time.Time // start < CurrentAt < end
	OrderAsc   bool
	Limit      int
	Offset     int
}

func buildListQuery(state State, scope listScope, now time.Time) ListQuery {
	q := ListQuery{}
	switch state {
	case StateAll:
		// 絞り込みなし
	case StateCurrent:
		q.CurrentAt = &now
		// owner 側だけ昇順。非対称だが既存クライアントが依存しているため変更しない
		q.OrderAsc = scope == scopeItemOwner
	case StatePast:
		q.EndBefore = &now
	case StateFuture:
		q.StartAfter = &now
	case StateWaiting:
		st := StatusWaiting
		q.Status = &st
	case StateRejected:
		st := StatusRejected
		q.Status = &st
	}
	return q
}

// from/size → OFFSET。page = from/size のページ番号方式。
// from が size の倍数でないと行オフセットとはズレるが、API互換のため変更しない。
func pageOffset(from, size int) int {
	return (from / size) * size
}
