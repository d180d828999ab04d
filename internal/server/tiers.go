package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	payouttierdomain "github.com/smallbiznis/skycover/internal/payouttier/domain"
)

func (s *Server) ListPayoutTiers(c *gin.Context) {
	resp, err := s.tierSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) AddPayoutTier(c *gin.Context) {
	caller := Caller(c)
	if caller == "" {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req payouttierdomain.AddTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.tierSvc.AddTier(c.Request.Context(), caller, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}
