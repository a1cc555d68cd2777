package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"contacts-api/internal/adapter/gin/middleware"
	domain "contacts-api/internal/domain/user"
	"contacts-api/internal/usecase/contact"
)

// Date is a calendar date serialized as "2006-01-02" in JSON.
type Date struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" || s == `""` {
		return nil
	}
	t, err := time.Parse(`"2006-01-02"`, s)
	if err != nil {
		return fmt.Errorf("invalid date %s: expected YYYY-MM-DD", s)
	}
	d.Time = t
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(d.Format(`"2006-01-02"`)), nil
}

// ContactHandler handles HTTP requests for contact operations
type ContactHandler struct {
	uc  contact.Usecase
	log *zap.Logger
}

// NewContactHandler creates a new ContactHandler instance
func NewContactHandler(uc contact.Usecase, log *zap.Logger) *ContactHandler {
	return &ContactHandler{
		uc:  uc,
		log: log,
	}
}

// ContactRequest represents the HTTP request body for creating or updating a contact
type ContactRequest struct {
	FirstName      string `json:"first_name" binding:"required"`
	LastName       string `json:"last_name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	PhoneNumber    string `json:"phone_number" binding:"required"`
	Birthday       Date   `json:"birthday" binding:"required"`
	AdditionalInfo string `json:"additional_info" binding:"omitempty,max=500"`
}

// ContactResponse represents the HTTP response for contact data
type ContactResponse struct {
	ID             int64  `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	PhoneNumber    string `json:"phone_number"`
	Birthday       Date   `json:"birthday"`
	AdditionalInfo string `json:"additional_info,omitempty"`
}

func toContactResponse(c *contact.Contact) ContactResponse {
	return ContactResponse{
		ID:             c.ID,
		FirstName:      c.FirstName,
		LastName:       c.LastName,
		Email:          c.Email,
		PhoneNumber:    c.PhoneNumber,
		Birthday:       Date{c.Birthday},
		AdditionalInfo: c.AdditionalInfo,
	}
}

// currentUser returns the authenticated user stored by the auth middleware.
func currentUser(c *gin.Context) (*domain.User, bool) {
	v, ok := c.Get(middleware.CurrentUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*domain.User)
	return u, ok
}

func (h *ContactHandler) mustUser(c *gin.Context) (*domain.User, bool) {
	u, ok := currentUser(c)
	if !ok {
		h.log.Error("missing authenticated user in context")
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Not authenticated",
		})
	}
	return u, ok
}

func parseIDParam(c *gin.Context) (int64, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Contact ID must be a valid number",
		})
		return 0, false
	}
	return id, true
}

// CreateContact handles POST /contacts/
func (h *ContactHandler) CreateContact(c *gin.Context) {
	u, ok := h.mustUser(c)
	if !ok {
		return
	}

	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid create contact request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	resp, err := h.uc.CreateContact(c.Request.Context(), u.ID, contact.ContactInput{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		PhoneNumber:    req.PhoneNumber,
		Birthday:       req.Birthday.Time,
		AdditionalInfo: req.AdditionalInfo,
	})
	if err != nil {
		h.log.Warn("CreateContact failed", zap.Error(err))
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toContactResponse(resp))
}

// ListContacts handles GET /contacts/
func (h *ContactHandler) ListContacts(c *gin.Context) {
	u, ok := h.mustUser(c)
	if !ok {
		return
	}

	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		skip = 0
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit < 1 {
		limit = 100
	}

	contacts, err := h.uc.ListContacts(c.Request.Context(), u.ID, contact.ListContactsRequest{
		Skip:  skip,
		Limit: limit,
	})
	if err != nil {
		h.log.Error("ListContacts failed", zap.Error(err))
		handleError(c, err)
		return
	}

	out := make([]ContactResponse, len(contacts))
	for i := range contacts {
		out[i] = toContactResponse(&contacts[i])
	}
	c.JSON(http.StatusOK, out)
}

// GetContact handles GET /contacts/:id
func (h *ContactHandler) GetContact(c *gin.Context) {
	u, ok := h.mustUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	resp, err := h.uc.GetContact(c.Request.Context(), u.ID, id)
	if err != nil {
		h.log.Warn("GetContact failed", zap.Int64("id", id), zap.Error(err))
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toContactResponse(resp))
}

// UpdateContact handles PUT /contacts/:id
func (h *ContactHandler) UpdateContact(c *gin.Context) {
	u, ok := h.mustUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid update contact request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	resp, err := h.uc.UpdateContact(c.Request.Context(), u.ID, id, contact.ContactInput{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		PhoneNumber:    req.PhoneNumber,
		Birthday:       req.Birthday.Time,
		AdditionalInfo: req.AdditionalInfo,
	})
	if err != nil {
		h.log.Warn("UpdateContact failed", zap.Int64("id", id), zap.Error(err))
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toContactResponse(resp))
}

// DeleteContact handles DELETE /contacts/:id
func (h *ContactHandler) DeleteContact(c *gin.Context) {
	u, ok := h.mustUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	resp, err := h.uc.DeleteContact(c.Request.Context(), u.ID, id)
	if err != nil {
		h.log.Warn("DeleteContact failed", zap.Int64("id", id), zap.Error(err))
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toContactResponse(resp))
}

// UpcomingBirthdays handles GET /contacts/upcoming_birthdays/
func (h *ContactHandler) UpcomingBirthdays(c *gin.Context) {
	u, ok := h.mustUser(c)
	if !ok {
		return
	}

	contacts, err := h.uc.UpcomingBirthdays(c.Request.Context(), u.ID)
	if err != nil {
		h.log.Error("UpcomingBirthdays failed", zap.Error(err))
		handleError(c, err)
		return
	}

	out := make([]ContactResponse, len(contacts))
	for i := range contacts {
		out[i] = toContactResponse(&contacts[i])
	}
	c.JSON(http.StatusOK, out)
}
