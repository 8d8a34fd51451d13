package requests

import "shareit-backend/internal/sharing/localtime"

type CreateRequestRequest struct {
	Description string `json:"description"`
}

type PostRequestResponse struct {
	ID          int64                   `json:"id"`
	Description string                  `json:"description"`
	Created     localtime.LocalDateTime `json:"created"`
}

type ItemInRequestDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	RequestID   *int64 `json:"requestId,omitempty"`
	Owner       int64  `json:"owner"`
}

type RequestWithItemsResponse struct {
	ID          int64                   `json:"id"`
	Description string                  `json:"description"`
	Created     localtime.LocalDateTime `json:"created"`
	Items       []ItemInRequestDTO      `json:"items"`
}

func itemInRequestDTO(it *ItemInRequest) ItemInRequestDTO {
	dto := ItemInRequestDTO{
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
