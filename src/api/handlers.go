package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/trustlens/trustlens/src/budget"
	"github.com/trustlens/trustlens/src/factcheck/report"
)

type verifyRequest struct {
	Text          string `json:"text" binding:"required,min=1,max=100000"`
	Question      string `json:"question"`
	Source        string `json:"source"`
	Lang          string `json:"lang"`
	EvidenceCheck bool   `json:"evidenceCheck"`
}

func verifyHandler(reporter Reporter) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req verifyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
			return
		}

		requestID := uuid.NewString()
		user := userID(c)
		log.Printf("api: verify request id=%s user=%s textLen=%d evidence=%t", requestID, user, len(req.Text), req.EvidenceCheck)

		rep, err := reporter.Generate(c.Request.Context(), report.Request{
			Text:          req.Text,
			Question:      req.Question,
			Source:        req.Source,
			Lang:          req.Lang,
			UserID:        user,
			EvidenceCheck: req.EvidenceCheck,
		})
		if err != nil {
			if budget.IsExhausted(err) {
				c.JSON(http.StatusPaymentRequired, gin.H{"err": err.Error(), "requestId": requestID})
				return
			}
			log.Printf("api: verify id=%s failed: %v", requestID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"err": "verification failed", "requestId": requestID})
			return
		}

		c.JSON(http.StatusOK, gin.H{"requestId": requestID, "report": rep})
	}
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
