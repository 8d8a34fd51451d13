package requests

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const userIDHeader = "X-Sharer-User-Id"

const (
	defaultFrom = "0"
	defaultSize = "20"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.POST("/requests", h.CreateRequest)
	r.GET("/requests", h.FindAllByUserID)
	r.GET("/requests/all", h.FindAll)
	r.GET("/requests/:requestId", h.FindByID)
}

func (h *Handler) CreateRequest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("invalid json"))
		return
	}
	res, err := h.svc.CreateRequest(c.Request.Context(), req, userID)
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) FindAllByUserID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	res, err := h.svc.FindAllByUserID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) FindAll(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
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
	res, err := h.svc.FindAll(c.Request.Context(), from, size, userID)
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
	requestID, err := strconv.ParseInt(c.Param("requestId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody("invalid request id"))
		return
	}
	res, err := h.svc.FindByID(c.Request.Context(), requestID, userID)
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
