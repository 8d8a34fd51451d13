package bookings

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// 呼び出しユーザーは gateway が検証済みの X-Sharer-User-Id ヘッダで渡ってくる。
// このサーバー自身は認証を行わない。
const userIDHeader = "X-Sharer-User-Id"

const (
	defaultState = "ALL"
	defaultFrom  = "0"
	defaultSize  = "20"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.POST("/bookings", h.CreateBooking)
	r.PATCH("/bookings/:bookingId", h.PatchBooking)
	r.GET("/bookings/:bookingId", h.FindByID)
	r.GET("/bookings", h.FindAllByBooker)
	r.GET("/bookings/owner", h.FindAllByItemOwner)
}

func (h *Handler) CreateBooking(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("invalid json"))
		return
	}
	res, err := h.svc.CreateBooking(c.Request.Context(), req, userID)
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}
	c.Header("Location", "/bookings/"+strconv.FormatInt(res.ID, 10))
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) PatchBooking(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	bookingID, err := strconv.ParseInt(c.Param("bookingId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody("invalid booking id"))
		return
	}
	approved, err := strconv.ParseBool(c.Query("approved"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody("approved must be true or false"))
		return
	}
	res, err := h.svc.PatchBooking(c.Request.Context(), bookingID, approved, userID)
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) FindByID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	bookingID, err := strconv.ParseInt(c.Param("bookingId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody("invalid booking id"))
		return
	}
	res, err := h.svc.FindByID(c.Request.Context(), bookingID, userID)
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) FindAllByBooker(c *gin.Context) {
	h.findAll(c, h.svc.FindAllByBooker)
}

func (h *Handler) FindAllByItemOwner(c *gin.Context) {
	h.findAll(c, h.svc.FindAllByItemOwner)
}

func (h *Handler) findAll(c *gin.Context, find func(ctx context.Context, state string, userID int64, from, size int) ([]BookingResponse, error)) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	state := c.DefaultQuery("state", defaultState)
	from, err := strconv.Atoi(c.DefaultQuery("from", defaultFrom))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody("from must be an integer"))
		return
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", defaultSize))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody("size must be an integer"))
		return
	}
	res, err := find(c.Request.Context(), state, userID, from, size)
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

// ---------- helpers ----------

func currentUserID(c *gin.Context) (int64, bool) {
	raw := c.GetHeader(userIDHeader)
	if raw == "" {
		c.JSON(http.StatusBadRequest, errorBody("missing "+userIDHeader+" header"))
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody("invalid "+userIDHeader+" header"))
		return 0, false
	}
	return id, true
}

func errorBody(msg string) gin.H {
	return gin.H{"error": msg}
}

func errorFromErr(err error) gin.H {
	var msg string
	if api, ok := err.(*APIError); ok {
		msg = api.Message
	} else {
		msg = err.Error()
	}
	return errorBody(msg)
}
