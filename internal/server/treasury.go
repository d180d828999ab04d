package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type fundsRequest struct {
	AmountCents int64 `json:"amount_cents"`
}

func (s *Server) GetTreasury(c *gin.Context) {
	resp, err := s.treasurySvc.Overview(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DepositFunds(c *gin.Context) {
	caller := Caller(c)
	if caller == "" {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req fundsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	if err := s.treasurySvc.Deposit(c.Request.Context(), caller, req.AmountCents); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) WithdrawExcess(c *gin.Context) {
	caller := Caller(c)
	if caller == "" {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req fundsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	if err := s.treasurySvc.WithdrawExcess(c.Request.Context(), caller, req.AmountCents); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
