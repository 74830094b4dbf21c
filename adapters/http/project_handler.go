package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	projectUC "github.com/careerhub/careerhub-api/internal/application/usecase/project"
	"github.com/careerhub/careerhub-api/internal/domain/project"
	"github.com/careerhub/careerhub-api/pkg/apperror"
	"github.com/careerhub/careerhub-api/pkg/logger"
)

type ProjectHandler struct {
	useCase *projectUC.ProjectUseCase
	logger  logger.Logger
}

func NewProjectHandler(uc *projectUC.ProjectUseCase, log logger.Logger) *ProjectHandler {
	return &ProjectHandler{useCase: uc, logger: log}
}

func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("userID not found in context"))
		return
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for project create", err))
		return
	}

	input := projectUC.CreateProjectInput{
		ProfileID:    c.Param("id"),
		CallerID:     userID,
		Name:         req.Name,
		Description:  req.Description,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Client:       req.Client,
		Technologies: req.Technologies,
		Achievements: req.Achievements,
		Challenges:   req.Challenges,
	}
	if req.Status != nil {
		input.Status = project.Status(*req.Status)
	}
	if req.Category != nil {
		input.Category = project.Category(*req.Category)
	}
	if req.Scale != nil {
		input.Scale = project.Scale(*req.Scale)
	}

	prj, err := h.useCase.Create(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, ToProjectDTO(prj))
}

func (h *ProjectHandler) GetProject(c *gin.Context) {
	prj, err := h.useCase.Get(c.Request.Context(), projectUC.GetProjectInput{
		ProjectID: c.Param("id"),
		ViewerID:  viewerID(c),
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToProjectDTO(prj))
}

func (h *ProjectHandler) ListProjects(c *gin.Context) {
	projects, err := h.useCase.ListForProfile(c.Request.Context(), projectUC.ListProjectsInput{
		ProfileID: c.Param("id"),
		ViewerID:  viewerID(c),
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToProjectDTOs(projects))
}

func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("userID not found in context"))
		return
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for project update", err))
		return
	}

	prj, err := h.useCase.Update(c.Request.Context(), projectUC.UpdateProjectInput{
		ProjectID: c.Param("id"),
		CallerID:  userID,
		Patch:     req.ToDomainPatch(),
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToProjectDTO(prj))
}

func (h *ProjectHandler) DeleteProject(c *gin.Context) {
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

func (h *ProjectHandler) ReorderProjects(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("userID not found in context"))
		return
	}

	var req ReorderProjectsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for project reorder", err))
		return
	}

	err := h.useCase.Reorder(c.Request.Context(), projectUC.ReorderProjectsInput{
		ProfileID:  c.Param("id"),
		CallerID:   userID,
		ProjectIDs: req.ProjectIDs,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "projects reordered"})
}
