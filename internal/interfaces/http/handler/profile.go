package handler

import (
	"github.com/gin-gonic/gin"
	partnerapp "github.com/supplychain/backend/internal/application/partner"
)

// ProfileHandler handles the caller's retailer profile
type ProfileHandler struct {
	BaseHandler
	profileService *partnerapp.ProfileService
}

// NewProfileHandler creates a new retailer profile handler
func NewProfileHandler(profileService *partnerapp.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// ProfileRequest is the body for creating or updating a retailer profile
type ProfileRequest struct {
	BusinessName    string         `json:"business_name" binding:"required,min=2,max=200" example:"Sharma General Store"`
	BusinessType    string         `json:"business_type" binding:"max=100" example:"Kirana"`
	ContactPerson   string         `json:"contact_person" binding:"required,max=100" example:"R. Sharma"`
	Email           string         `json:"email" binding:"omitempty,email,max=254"`
	Phone           string         `json:"phone" binding:"required,max=20" example:"+91-9123456780"`
	GSTIN           string         `json:"gstin" binding:"omitempty,len=15,alphanum"`
	EstablishedYear *int           `json:"established_year" binding:"omitempty,gte=1800,lte=2100" example:"2009"`
	Address         AddressRequest `json:"address"`
}

func (h *ProfileHandler) bindProfile(c *gin.Context) (partnerapp.ProfileInput, bool) {
	var req ProfileRequest
	if !h.BindJSON(c, &req) {
		return partnerapp.ProfileInput{}, false
	}
	addr, err := req.Address.toAddress()
	if err != nil {
		h.HandleError(c, err)
		return partnerapp.ProfileInput{}, false
	}
	return partnerapp.ProfileInput{
		BusinessName:    req.BusinessName,
		BusinessType:    req.BusinessType,
		ContactPerson:   req.ContactPerson,
		Email:           req.Email,
		Phone:           req.Phone,
		GSTIN:           req.GSTIN,
		EstablishedYear: req.EstablishedYear,
		Address:         addr,
	}, true
}

// CreateProfile godoc
// @Summary      Create the caller's retailer profile
// @Tags         retailer-profile
// @Accept       json
// @Produce      json
// @Param        request body ProfileRequest true "Profile details"
// @Success      201 {object} dto.Response{data=partnerapp.ProfileResponse}
// @Failure      400 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /retailer-profile [post]
func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	input, ok := h.bindProfile(c)
	if !ok {
		return
	}
	profile, err := h.profileService.Create(c.Request.Context(), actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, profile)
}

// GetProfile godoc
// @Summary      Get the caller's retailer profile
// @Tags         retailer-profile
// @Produce      json
// @Success      200 {object} dto.Response{data=partnerapp.ProfileResponse}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /retailer-profile [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	profile, err := h.profileService.Get(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, profile)
}

// UpdateProfile godoc
// @Summary      Update the caller's retailer profile
// @Tags         retailer-profile
// @Accept       json
// @Produce      json
// @Param        request body ProfileRequest true "Profile details"
// @Success      200 {object} dto.Response{data=partnerapp.ProfileResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /retailer-profile [put]
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	input, ok := h.bindProfile(c)
	if !ok {
		return
	}
	profile, err := h.profileService.Update(c.Request.Context(), actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, profile)
}

// GetCounts godoc
// @Summary      Retailer dashboard counts
// @Description  Connected companies, pending requests and orders for the caller's profile
// @Tags         retailer-profile
// @Produce      json
// @Success      200 {object} dto.Response{data=partnerapp.RetailerCounts}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /retailer-profile/counts [get]
func (h *ProfileHandler) GetCounts(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	counts, err := h.profileService.Counts(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, counts)
}
