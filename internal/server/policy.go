package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	policydomain "github.com/smallbiznis/skycover/internal/policy/domain"
)

func (s *Server) CreatePolicy(c *gin.Context) {
	caller := Caller(c)
	if caller == "" {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req policydomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	// The premium payer is the authenticated caller, never a body field.
	req.Holder = caller

	resp, err := s.policySvc.CreatePolicy(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) GetPolicyByID(c *gin.Context) {
	resp, err := s.policySvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListPolicies(c *gin.Context) {
	holder := strings.TrimSpace(c.Query("holder"))
	flight := strings.TrimSpace(c.Query("flight"))

	switch {
	case holder != "":
		ids, err := s.policySvc.ListIDsByHolder(c.Request.Context(), holder)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": ids})
	case flight != "":
		ids, err := s.policySvc.ListIDsByFlight(c.Request.Context(), flight)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": ids})
	default:
		AbortWithError(c, ErrInvalidRequest)
	}
}

func (s *Server) UpdateFlightStatus(c *gin.Context) {
	caller := Caller(c)
	if caller == "" {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req policydomain.UpdateFlightStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.policySvc.UpdateFlightStatus(c.Request.Context(), caller, c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ProcessPayout(c *gin.Context) {
	caller := Caller(c)
	if caller == "" {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	resp, err := s.policySvc.ProcessPayout(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CancelPolicy(c *gin.Context) {
	caller := Caller(c)
	if caller == "" {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	resp, err := s.policySvc.CancelPolicy(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
