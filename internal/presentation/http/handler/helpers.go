package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetIssuerID extracts the issuer ID from the Gin context
func GetIssuerID(c *gin.Context) *uuid.UUID {
	issuerIDVal, exists := c.Get("issuer_id")
	if !exists {
		return nil
	}
	issuerID, ok := issuerIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &issuerID
}

// GetIssuerCUIT extracts the issuer CUIT from the Gin context
func GetIssuerCUIT(c *gin.Context) string {
	cuit, exists := c.Get("issuer_cuit")
	if !exists {
		return ""
	}
	return cuit.(string)
}
