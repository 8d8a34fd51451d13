package bookings

import "shareit-backend/internal/sharing/localtime"

// 予約作成リクエスト
// start/end は "2006-01-02T15:04:05" 形式（タイムゾーンなし）
type CreateBookingRequest struct {
	ItemID int64                    `json:"itemId"`
	Start  *localtime.LocalDateTime `json:"start"`
	End    *localtime.LocalDateTime `json:"end"`
}

type BookerDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type BookedItemDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	Owner       int64  `json:"owner"`
	RequestID   *int64 `json:"requestId,omitempty"`
}

// 予約レスポンス
// name は item 名（作成直後のレスポンスでは省略される）
type BookingResponse struct {
	ID          int64                   `json:"id"`
	BookingULID string                  `json:"bookingUlid,omitempty"`
	Start       localtime.LocalDateTime `json:"start"`
	End         localtime.LocalDateTime `json:"end"`
	Status      Status                  `json:"status"`
	Booker      *BookerDTO              `json:"booker"`
	Item        *BookedItemDTO          `json:"item"`
	Name        string                  `json:"name,omitempty"`
}

func itemDTO(it *ItemRef) *BookedItemDTO {
	if it == nil {
		return nil
	}
	dto := &BookedItemDTO{
		ID:          it.ItemID,
		Name:        it.Name,
		Description: it.Description,
		Available:   it.Available,
		Owner:       it.OwnerID,
	}
	if it.RequestID.Valid {
		v := it.RequestID.Int64
		dto.RequestID = &v
	}
	return dto
}

func bookerDTO(u *UserRef) *BookerDTO {
	if u == nil {
		return nil
	}
	return &BookerDTO{ID: u.UserID, Name: u.Name, Email: u.Email}
}
