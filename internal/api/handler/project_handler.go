package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/projecthub/tracker-api/internal/api/metrics"
	"github.com/projecthub/tracker-api/internal/core/ports"
	"github.com/projecthub/tracker-api/internal/core/validation"
)

// ProjectHandler handles HTTP requests for project operations.
type ProjectHandler struct {
	service ports.ProjectService
}

func NewProjectHandler(service ports.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

// List returns projects the caller created or is a member of.
//
// @Summary      List projects
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        page      query     int     false  "Page (default 1)"
// @Param        limit     query     int     false  "Page size (default 10, max 100)"
// @Param        search    query     string  false  "Matches name, description or tags"
// @Param        status    query     string  false  "planning | in-progress | completed | on-hold | cancelled"
// @Param        priority  query     string  false  "low | medium | high | urgent"
// @Param        client    query     string  false  "Client id"
// @Param        isActive  query     bool    false  "Active flag (default true)"
// @Success      200       {object}  projectListResponse
// @Failure      400       {object}  map[string]any
// @Failure      401       {object}  map[string]any
// @Router       /projects [get]
func (h *ProjectHandler) List(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	var q listProjectsQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}

	res, err := h.service.List(c.Request().Context(), caller, ports.ListProjectsInput{
		Search:   q.Search,
		Status:   q.Status,
		Priority: q.Priority,
		ClientID: q.Client,
		IsActive: optionalBool(q.IsActive),
		Page:     q.Page,
		Limit:    q.Limit,
	})
	if err != nil {
		return err
	}

	metrics.ListResultSize.WithLabelValues("project").Observe(float64(len(res.Items)))
	return c.JSON(http.StatusOK, projectListResponse{
		Projects:   toProjectResponses(res.Items),
		Pagination: res.Pagination,
	})
}

// Get returns one project.
//
// @Summary      Get project
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Project id"
// @Success      200  {object}  projectResponse
// @Failure      400  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /projects/{id} [get]
func (h *ProjectHandler) Get(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	d, err := h.service.Get(c.Request().Context(), caller, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProjectResponse(*d))
}

// Create stores a project owned by the caller.
//
// @Summary      Create project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      ports.ProjectInput  true  "Project"
// @Success      201   {object}  projectEnvelope
// @Failure      400   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /projects [post]
func (h *ProjectHandler) Create(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	var in ports.ProjectInput
	if err := decodeBody(c, validation.Project, &in); err != nil {
		return err
	}

	d, err := h.service.Create(c.Request().Context(), caller, in)
	if err != nil {
		return err
	}

	metrics.ResourceChangesTotal.WithLabelValues("project", "create").Inc()
	return c.JSON(http.StatusCreated, projectEnvelope{Message: "Project created successfully", Project: toProjectResponse(*d)})
}

// Update replaces the project's fields.
//
// @Summary      Update project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Project id"
// @Param        body  body      ports.ProjectInput  true  "Project"
// @Success      200   {object}  projectEnvelope
// @Failure      400   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /projects/{id} [put]
func (h *ProjectHandler) Update(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	var in ports.ProjectInput
	if err := decodeBody(c, validation.ProjectUpdate, &in); err != nil {
		return err
	}

	d, err := h.service.Update(c.Request().Context(), caller, c.Param("id"), in)
	if err != nil {
		return err
	}

	metrics.ResourceChangesTotal.WithLabelValues("project", "update").Inc()
	return c.JSON(http.StatusOK, projectEnvelope{Message: "Project updated successfully", Project: toProjectResponse(*d)})
}

// Delete soft-deletes a project. Only its creator or an admin may do this.
//
// @Summary      Delete project
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Project id"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /projects/{id} [delete]
func (h *ProjectHandler) Delete(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), caller, c.Param("id")); err != nil {
		return err
	}

	metrics.ResourceChangesTotal.WithLabelValues("project", "delete").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Project deleted successfully"})
}

// UpdateStatus moves the project to another status.
//
// @Summary      Change project status
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Project id"
// @Param        body  body      statusRequest  true  "New status"
// @Success      200   {object}  projectEnvelope
// @Failure      400   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /projects/{id}/status [patch]
func (h *ProjectHandler) UpdateStatus(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	var in statusRequest
	if err := decodeBody(c, validation.StatusChange, &in); err != nil {
		return err
	}

	d, err := h.service.UpdateStatus(c.Request().Context(), caller, c.Param("id"), in.Status)
	if err != nil {
		return err
	}

	metrics.ProjectStatusChangesTotal.WithLabelValues(string(d.Project.Status)).Inc()
	return c.JSON(http.StatusOK, projectEnvelope{Message: "Project status updated successfully", Project: toProjectResponse(*d)})
}

// AddTeamMember adds a user to the project team.
//
// @Summary      Add team member
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Project id"
// @Param        body  body      teamMemberRequest  true  "User to add"
// @Success      200   {object}  teamResponse
// @Failure      400   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /projects/{id}/team-members [post]
func (h *ProjectHandler) AddTeamMember(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	var in teamMemberRequest
	if err := decodeBody(c, validation.TeamMember, &in); err != nil {
		return err
	}

	team, err := h.service.AddTeamMember(c.Request().Context(), caller, c.Param("id"), in.UserID)
	if err != nil {
		return err
	}

	metrics.TeamMemberChangesTotal.WithLabelValues("add").Inc()
	return c.JSON(http.StatusOK, teamResponse{Message: "Team member added successfully", TeamMembers: team})
}

// RemoveTeamMember drops a user from the project team. Removing a user that is
// not on the team succeeds.
//
// @Summary      Remove team member
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      string  true  "Project id"
// @Param        userId  path      string  true  "User id"
// @Success      200     {object}  teamResponse
// @Failure      400     {object}  map[string]any
// @Failure      404     {object}  map[string]any
// @Router       /projects/{id}/team-members/{userId} [delete]
func (h *ProjectHandler) RemoveTeamMember(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	team, err := h.service.RemoveTeamMember(c.Request().Context(), caller, c.Param("id"), c.Param("userId"))
	if err != nil {
		return err
	}

	metrics.TeamMemberChangesTotal.WithLabelValues("remove").Inc()
	return c.JSON(http.StatusOK, teamResponse{Message: "Team member removed successfully", TeamMembers: team})
}
