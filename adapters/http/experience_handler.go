package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	experienceUC "github.com/careerhub/careerhub-api/internal/application/usecase/experience"
	"github.com/careerhub/careerhub-api/internal/domain/experience"
	"github.com/careerhub/careerhub-api/pkg/apperror"
	"github.com/careerhub/careerhub-api/pkg/logger"
	"github.com/careerhub/careerhub-api/pkg/patch"
)

type ExperienceHandler struct {
	useCase *experienceUC.ExperienceUseCase
	logger  logger.Logger
}

func NewExperienceHandler(uc *experienceUC.ExperienceUseCase, log logger.Logger) *ExperienceHandler {
	return &ExperienceHandler{useCase: uc, logger: log}
}

func parseWireDate(value string) (time.Time, error) {
	return time.Parse(wireDateLayout, value)
}

func (h *ExperienceHandler) CreateExperience(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("userID not found in context"))
		return
	}

	var req CreateExperienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for experience create", err))
		return
	}

	startDate, err := parseWireDate(req.StartDate)
	if err != nil {
		c.Error(apperror.NewValidation(apperror.FieldError{Field: "startDate", Message: "start date must match YYYY-MM-DD"}))
		return
	}
	var endDate *time.Time
	if req.EndDate != nil {
		parsed, err := parseWireDate(*req.EndDate)
		if err != nil {
			c.Error(apperror.NewValidation(apperror.FieldError{Field: "endDate", Message: "end date must match YYYY-MM-DD"}))
			return
		}
		endDate = &parsed
	}

	exp, err := h.useCase.Create(c.Request.Context(), experienceUC.CreateExperienceInput{
		ProfileID:        c.Param("id"),
		CallerID:         userID,
		CompanyName:      req.CompanyName,
		CompanyWebsite:   req.CompanyWebsite,
		CompanySize:      req.CompanySize,
		Industry:         req.Industry,
		CompanyLocation:  req.CompanyLocation,
		Position:         req.Position,
		EmploymentType:   req.EmploymentType,
		StartDate:        startDate,
		EndDate:          endDate,
		IsCurrent:        req.IsCurrent,
		Description:      req.Description,
		Responsibilities: req.Responsibilities,
		Technologies:     req.Technologies,
		DisplayOrder:     req.DisplayOrder,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, ToExperienceDTO(exp))
}

func (h *ExperienceHandler) GetExperience(c *gin.Context) {
	exp, err := h.useCase.Get(c.Request.Context(), experienceUC.GetExperienceInput{
		ExperienceID: c.Param("id"),
		ViewerID:     viewerID(c),
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToExperienceDTO(exp))
}

func (h *ExperienceHandler) ListExperiences(c *gin.Context) {
	experiences, err := h.useCase.ListForProfile(c.Request.Context(), experienceUC.ListExperiencesInput{
		ProfileID: c.Param("id"),
		ViewerID:  viewerID(c),
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToExperienceDTOs(experiences))
}

func (h *ExperienceHandler) UpdateExperience(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("userID not found in context"))
		return
	}

	var req UpdateExperienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for experience update", err))
		return
	}

	p := experience.Patch{
		CompanyName:      req.CompanyName,
		CompanyWebsite:   req.CompanyWebsite,
		CompanySize:      req.CompanySize,
		Industry:         req.Industry,
		CompanyLocation:  req.CompanyLocation,
		Position:         req.Position,
		EmploymentType:   req.EmploymentType,
		IsCurrent:        req.IsCurrent,
		Description:      req.Description,
		Responsibilities: req.Responsibilities,
		Technologies:     req.Technologies,
	}
	if req.StartDate != nil {
		parsed, err := parseWireDate(*req.StartDate)
		if err != nil {
			c.Error(apperror.NewValidation(apperror.FieldError{Field: "startDate", Message: "start date must match YYYY-MM-DD"}))
			return
		}
		p.StartDate = &parsed
	}
	if req.EndDate.Set {
		if req.EndDate.Valid {
			parsed, err := parseWireDate(req.EndDate.Value)
			if err != nil {
				c.Error(apperror.NewValidation(apperror.FieldError{Field: "endDate", Message: "end date must match YYYY-MM-DD"}))
				return
			}
			p.EndDate = patch.Of(parsed)
		} else {
			p.EndDate = patch.Null[time.Time]()
		}
	}

	exp, err := h.useCase.Update(c.Request.Context(), experienceUC.UpdateExperienceInput{
		ExperienceID: c.Param("id"),
		CallerID:     userID,
		Patch:        p,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToExperienceDTO(exp))
}

func (h *ExperienceHandler) DeleteExperience(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("userID not found in context"))
		return
	}

	if err := h.useCase.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ExperienceHandler) ReorderExperiences(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("userID not found in context"))
		return
	}

	var req ReorderExperiencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for experience reorder", err))
		return
	}

	err := h.useCase.Reorder(c.Request.Context(), experienceUC.ReorderExperiencesInput{
		ProfileID:     c.Param("id"),
		CallerID:      userID,
		ExperienceIDs: req.ExperienceIDs,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "experiences reordered"})
}

func (h *ExperienceHandler) listMutation(c *gin.Context, mutate func(experienceUC.ListMutation) (*experience.Experience, error)) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("userID not found in context"))
		return
	}

	var req ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("a 'value' field is required", err))
		return
	}

	exp, err := mutate(experienceUC.ListMutation{
		ExperienceID: c.Param("id"),
		CallerID:     userID,
		Value:        req.Value,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToExperienceDTO(exp))
}

func (h *ExperienceHandler) AddResponsibility(c *gin.Context) {
	h.listMutation(c, func(in experienceUC.ListMutation) (*experience.Experience, error) {
		return h.useCase.AddResponsibility(c.Request.Context(), in)
	})
}

func (h *ExperienceHandler) RemoveResponsibility(c *gin.Context) {
	h.listMutation(c, func(in experienceUC.ListMutation) (*experience.Experience, error) {
		return h.useCase.RemoveResponsibility(c.Request.Context(), in)
	})
}

func (h *ExperienceHandler) AddTechnology(c *gin.Context) {
	h.listMutation(c, func(in experienceUC.ListMutation) (*experience.Experience, error) {
		return h.useCase.AddTechnology(c.Request.Context(), in)
	})
}

func (h *ExperienceHandler) RemoveTechnology(c *gin.Context) {
	h.listMutation(c, func(in experienceUC.ListMutation) (*experience.Experience, error) {
		return h.useCase.RemoveTechnology(c.Request.Context(), in)
	})
}
