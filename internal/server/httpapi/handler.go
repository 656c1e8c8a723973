package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/authz"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrBadSignature),
		errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as a JSON error. Access denials carry their
// reason code; credential failures answer 401 with no body.
func (s *HTTPServer) respondError(c *gin.Context, err error) {
	code := statusCode(err)

	var (
		denied *authz.DeniedError
		verr   *common.ValidationError
	)

	switch {
	case errors.As(err, &denied):
		c.JSON(code, gin.H{"error": string(denied.Reason)})
	case errors.As(err, &verr):
		c.JSON(code, gin.H{"error": common.ErrValidation.Error(), "fields": verr.Fields})
	case code == http.StatusConflict:
		c.JSON(code, gin.H{"error": "already exists"})
	case code == http.StatusUnauthorized:
		c.Status(code)
	case code == http.StatusForbidden:
		c.JSON(code, gin.H{"error": "forbidden"})
	case code == http.StatusNotFound:
		c.JSON(code, gin.H{"error": "not found"})
	default:
		s.logger.Error(c.Request.Context(), "request failed",
			"request_id", c.GetString(requestIDKey),
			"error", err.Error(),
		)
		c.JSON(code, gin.H{"error": "internal error"})
	}
}

func (s *HTTPServer) register(c *gin.Context) {
	var in services.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	id, err := s.users.Register(c.Request.Context(), in)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, id)
}

// login answers 401 with an empty body on any credential failure.
func (s *HTTPServer) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	id, err := s.users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		s.respondError(c, err)
		return
	}

	token, err := s.issuer.IssueToken(id)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (s *HTTPServer) roles(c *gin.Context) {
	roles, err := s.users.AssignableRoles(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, roles)
}

func (s *HTTPServer) me(c *gin.Context) {
	claims, ok := claimsFrom(c)
	if !ok {
		c.Status(http.StatusUnauthorized)
		return
	}

	userID, err := claims.UserID()
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	id, err := s.users.IdentityByID(c.Request.Context(), userID)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, id)
}

func (s *HTTPServer) sample(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Sample : OK"})
}

func (s *HTTPServer) samplePublic(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Sample/Public : OK"})
}
