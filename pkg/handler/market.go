package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) TopAssets(c *gin.Context) {
	assets, err := h.service.Market.TopAssets(c.Request.Context())
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, assets)
}

func (h *Handler) Trending(c *gin.Context) {
	coins, err := h.service.Market.Trending(c.Request.Context())
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, coins)
}

func (h *Handler) News(c *gin.Context) {
	news, err := h.service.Market.News(c.Request.Context())
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, news)
}
