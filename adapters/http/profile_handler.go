package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	profileUC "github.com/careerhub/careerhub-api/internal/application/usecase/profile"
	"github.com/careerhub/careerhub-api/internal/domain/profile"
	"github.com/careerhub/careerhub-api/pkg/apperror"
	"github.com/careerhub/careerhub-api/pkg/logger"
)

type ProfileHandler struct {
	createUseCase       *profileUC.CreateProfileUseCase
	getUseCase          *profileUC.GetProfileUseCase
	updateUseCase       *profileUC.UpdateProfileUseCase
	deleteUseCase       *profileUC.DeleteProfileUseCase
	listUseCase         *profileUC.ListPublicProfilesUseCase
	completenessUseCase *profileUC.RecomputeCompletenessUseCase
	checkSlugUseCase    *profileUC.CheckSlugUseCase
	uploadPhotoUseCase  *profileUC.UploadPhotoUseCase
	logger              logger.Logger
}

func NewProfileHandler(
	createUC *profileUC.CreateProfileUseCase,
	getUC *profileUC.GetProfileUseCase,
	updateUC *profileUC.UpdateProfileUseCase,
	deleteUC *profileUC.DeleteProfileUseCase,
	listUC *profileUC.ListPublicProfilesUseCase,
	completenessUC *profileUC.RecomputeCompletenessUseCase,
	checkSlugUC *profileUC.CheckSlugUseCase,
	uploadPhotoUC *profileUC.UploadPhotoUseCase,
	log logger.Logger,
) *ProfileHandler {
	return &ProfileHandler{
		createUseCase:       createUC,
		getUseCase:          getUC,
		updateUseCase:       updateUC,
		deleteUseCase:       deleteUC,
		listUseCase:         listUC,
		completenessUseCase: completenessUC,
		checkSlugUseCase:    checkSlugUC,
		uploadPhotoUseCase:  uploadPhotoUC,
		logger:              log,
	}
}

func pageParams(c *gin.Context) (int, int) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	return limit, offset
}

func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("userID not found in context"))
		return
	}

	var req CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for profile create", err))
		return
	}

	input := profileUC.CreateProfileInput{
		UserID:          userID,
		Slug:            req.Slug,
		Headline:        req.Headline,
		Summary:         req.Summary,
		Location:        req.Location,
		Contact:         req.Contact,
		DraftData:       req.DraftData,
		ProfilePhotoURL: req.ProfilePhotoURL,
	}
	if req.Visibility != nil {
		vis := profile.Visibility(*req.Visibility)
		input.Visibility = &vis
	}

	output, err := h.createUseCase.Execute(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, ToProfileDTO(output.Profile, true))
}

func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("userID not found in context"))
		return
	}

	output, err := h.getUseCase.ExecuteMine(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToProfileDTO(output.Profile, true))
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	output, err := h.getUseCase.Execute(c.Request.Context(), profileUC.GetProfileInput{
		ProfileID: c.Param("id"),
		ViewerID:  viewerID(c),
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToProfileDTO(output.Profile, output.IsOwner))
}

func (h *ProfileHandler) GetProfileBySlug(c *gin.Context) {
	output, err := h.getUseCase.ExecuteBySlug(c.Request.Context(), profileUC.GetProfileBySlugInput{
		Slug:     c.Param("slug"),
		ViewerID: viewerID(c),
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToProfileDTO(output.Profile, output.IsOwner))
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("userID not found in context"))
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for profile update", err))
		return
	}

	output, err := h.updateUseCase.Execute(c.Request.Context(), profileUC.UpdateProfileInput{
		ProfileID: c.Param("id"),
		CallerID:  userID,
		Patch:     req.ToDomainPatch(),
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToProfileDTO(output.Profile, true))
}

func (h *ProfileHandler) DeleteProfile(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("userID not found in context"))
		return
	}

	err := h.deleteUseCase.Execute(c.Request.Context(), profileUC.DeleteProfileInput{
		ProfileID: c.Param("id"),
		CallerID:  userID,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ProfileHandler) ListPublicProfiles(c *gin.Context) {
	limit, offset := pageParams(c)
	output, err := h.listUseCase.Execute(c.Request.Context(), profileUC.ListPublicProfilesInput{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToProfileSummaryDTOs(output.Profiles))
}

func (h *ProfileHandler) SearchPublicProfiles(c *gin.Context) {
	limit, offset := pageParams(c)
	output, err := h.listUseCase.Search(c.Request.Context(), profileUC.SearchPublicProfilesInput{
		Query:  c.Query("q"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToProfileSummaryDTOs(output.Profiles))
}

// RecomputeCompleteness exists so the owner can force a refresh of the
// derived score, the worker keeps it current otherwise.
func (h *ProfileHandler) RecomputeCompleteness(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("userID not found in context"))
		return
	}

	output, err := h.completenessUseCase.Execute(c.Request.Context(), profileUC.RecomputeCompletenessInput{
		ProfileID: c.Param("id"),
		CallerID:  userID,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"completenessScore": output.Score})
}

// CheckSlugAvailable takes an optional excludeProfileId query param so
// an owner checking their own current slug reads it as available.
func (h *ProfileHandler) CheckSlugAvailable(c *gin.Context) {
	output, err := h.checkSlugUseCase.Execute(c.Request.Context(), profileUC.CheckSlugInput{
		Slug:             c.Param("slug"),
		ExcludeProfileID: c.Query("excludeProfileId"),
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"slug": output.Slug, "available": output.Available})
}

func (h *ProfileHandler) UploadPhoto(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("userID not found in context"))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.Error(apperror.NewInvalidInput("a 'file' form field is required", err))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.NewInternal("failed to open uploaded file", err))
		return
	}
	defer file.Close()

	output, err := h.uploadPhotoUseCase.Execute(c.Request.Context(), profileUC.UploadPhotoInput{
		ProfileID: c.Param("id"),
		CallerID:  userID,
		File:      file,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profilePhotoUrl": output.PhotoURL})
}
