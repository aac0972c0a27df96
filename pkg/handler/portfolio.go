package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio_tracker_back/models"
)

// GetPortfolio returns the user's portfolio with assets and live wallet
// balances. Wallets that could not be read carry an error field.
func (h *Handler) GetPortfolio(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	portfolio, err := h.service.Portfolio.GetPortfolio(c.Request.Context(), userID)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, portfolio)
}

func (h *Handler) AddAsset(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var input models.AssetInput
	if !bindJSON(c, &input) {
		return
	}

	asset, err := h.service.Portfolio.AddAsset(c.Request.Context(), userID, input)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, asset)
}

func (h *Handler) AddWallet(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var input models.WalletInput
	if !bindJSON(c, &input) {
		return
	}

	wallet, err := h.service.Portfolio.AddWallet(c.Request.Context(), userID, input)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, wallet)
}

func (h *Handler) RefreshBalances(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	balances, err := h.service.Portfolio.RefreshBalances(c.Request.Context(), userID)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, balances)
}
