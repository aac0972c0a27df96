package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"portfolio_tracker_back/models"
	"portfolio_tracker_back/pkg/session"
)

func (h *Handler) Register(c *gin.Context) {
	var input models.Credentials
	if !bindJSON(c, &input) {
		return
	}

	user, err := h.service.Authorization.Register(c.Request.Context(), input)
	if err != nil {
		serviceError(c, err)
		return
	}

	if !h.startSession(c, user.ID) {
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *Handler) Login(c *gin.Context) {
	var input models.Credentials
	if !bindJSON(c, &input) {
		return
	}

	user, err := h.service.Authorization.Login(c.Request.Context(), input)
	if err != nil {
		serviceError(c, err)
		return
	}

	if !h.startSession(c, user.ID) {
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) Logout(c *gin.Context) {
	if id, err := c.Cookie(session.CookieName); err == nil && id != "" {
		if err := h.sessions.Delete(c.Request.Context(), id); err != nil {
			logrus.WithError(err).Warn("delete session")
		}
	}
	h.setSessionCookie(c, "", -1)

	wrapOkJSON(c, map[string]interface{}{
		"message": "logged out",
	})
}

func (h *Handler) GetUser(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	user, err := h.service.Authorization.GetUser(c.Request.Context(), userID)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) startSession(c *gin.Context, userID int64) bool {
	id, err := h.sessions.Create(c.Request.Context(), userID)
	if err != nil {
		serviceError(c, err)
		return false
	}
	h.setSessionCookie(c, id, int(h.cfg.SessionTTL.Seconds()))
	return true
}

func (h *Handler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, value, maxAge, "/", "", h.cfg.SecureCookie, true)
}
