package items

import "shareit-backend/internal/sharing/localtime"

type CreateItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   *bool  `json:"available"`
	RequestID   *int64 `json:"requestId,omitempty"`
}

// PATCH 用。nil のフィールドは据え置き
type UpdateItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

type CreateCommentRequest struct {
	Text string `json:"text"`
}

type CommentResponse struct {
	ID         int64                   `json:"id"`
	Text       string                  `json:"text"`
	AuthorName string                  `json:"authorName"`
	Created    localtime.LocalDateTime `json:"created"`
}

type BookingBriefDTO struct {
	ID       int64                   `json:"id"`
	BookerID int64                   `json:"bookerId"`
	Start    localtime.LocalDateTime `json:"start"`
	End      localtime.LocalDateTime `json:"end"`
}

// ItemResponse: lastBooking/nextBooking は所有者が見たときだけ入る
type ItemResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Available   bool              `json:"available"`
	Owner       int64             `json:"owner"`
	RequestID   *int64            `json:"requestId,omitempty"`
	LastBooking *BookingBriefDTO  `json:"lastBooking,omitempty"`
	NextBooking *BookingBriefDTO  `json:"nextBooking,omitempty"`
	Comments    []CommentResponse `json:"comments"`
}

func briefDTO(b *BookingBrief) *BookingBriefDTO {
	if b == nil {
		return nil
	}
	return &BookingBriefDTO{ID: b.BookingID, BookerID: b.BookerID, Start: b.Start, End: b.End}
}

func commentDTOs(comments []Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for _, cm := range comments {
		out = append(out, CommentResponse{
			ID:         cm.CommentID,
			Text:       cm.Text,
			AuthorName: cm.AuthorName,
			Created:    cm.CreatedAt,
		})
	}
	return out
}

func itemDTO(it *Item) ItemResponse {
	dto := ItemResponse{
		ID:          it.ItemID,
		Name:        it.Name,
		Description: it.Description,
		Available:   it.Available,
		Owner:       it.OwnerID,
		Comments:    []CommentResponse{},
	}
	if it.RequestID.Valid {
		v := it.RequestID.Int64
		dto.RequestID = &v
	}
	return dto
}
