package items

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const userIDHeader = "X-Sharer-User-Id"

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.POST("/items", h.CreateItem)
	r.GET("/items", h.GetAllItems)
	// search は :itemId より先に引っかけたいので gin 的には静的パス優先で問題なし
	r.GET("/items/search", h.SearchAvailableItems)
	r.GET("/items/:itemId", h.GetItem)
	r.PATCH("/items/:itemId", h.UpdateItem)
	r.DELETE("/items/:itemId", h.DeleteItem)
	r.POST("/items/:itemId/comment", h.SaveComment)
}

func (h *Handler) CreateItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("invalid json"))
		return
	}
	res, err := h.svc.CreateItem(c.Request.Context(), req, userID)
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) GetAllItems(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	res, err := h.svc.GetAllItems(c.Request.Context(), userID)
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) GetItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	itemID, err := strconv.ParseInt(c.Param("itemId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody("invalid item id"))
		return
	}
	res, err := h.svc.GetItem(c.Request.Context(), itemID, userID)
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) UpdateItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	itemID, err := strconv.ParseInt(c.Param("itemId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody("invalid item id"))
		return
	}
	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("invalid json"))
		return
	}
	res, err := h.svc.UpdateItem(c.Request.Context(), itemID, userID, req)
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) DeleteItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	itemID, err := strconv.ParseInt(c.Param("itemId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody("invalid item id"))
		return
	}
	if err := h.svc.DeleteItem(c.Request.Context(), itemID, userID); err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}
	c.Status(http.StatusOK)
}

func (h *Handler) SearchAvailableItems(c *gin.Context) {
	res, err := h.svc.SearchAvailableItems(c.Request.Context(), c.Query("text"))
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) SaveComment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	itemID, err := strconv.ParseInt(c.Param("itemId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody("invalid item id"))
		return
	}
	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("invalid json"))
		return
	}
	res, err := h.svc.SaveComment(c.Request.Context(), req, itemID, userID)
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
