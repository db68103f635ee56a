package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/projecthub/tracker-api/internal/api/metrics"
	"github.com/projecthub/tracker-api/internal/core/ports"
	"github.com/projecthub/tracker-api/internal/core/validation"
)

// ClientHandler handles HTTP requests for client operations.
type ClientHandler struct {
	service ports.ClientService
}

func NewClientHandler(service ports.ClientService) *ClientHandler {
	return &ClientHandler{service: service}
}

// List returns the caller's clients.
//
// @Summary      List clients
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        page      query     int     false  "Page (default 1)"
// @Param        limit     query     int     false  "Page size (default 10, max 100)"
// @Param        search    query     string  false  "Matches name, email or company"
// @Param        isActive  query     bool    false  "Active flag (default true)"
// @Success      200       {object}  clientListResponse
// @Failure      400       {object}  map[string]any
// @Failure      401       {object}  map[string]any
// @Router       /clients [get]
func (h *ClientHandler) List(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	var q listClientsQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}

	res, err := h.service.List(c.Request().Context(), caller, ports.ListClientsInput{
		Search:   q.Search,
		IsActive: optionalBool(q.IsActive),
		Page:     q.Page,
		Limit:    q.Limit,
	})
	if err != nil {
		return err
	}

	metrics.ListResultSize.WithLabelValues("client").Observe(float64(len(res.Items)))
	return c.JSON(http.StatusOK, clientListResponse{
		Clients:    toClientResponses(res.Items),
		Pagination: res.Pagination,
	})
}

// Get returns one client.
//
// @Summary      Get client
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Client id"
// @Success      200  {object}  clientResponse
// @Failure      400  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /clients/{id} [get]
func (h *ClientHandler) Get(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	d, err := h.service.Get(c.Request().Context(), caller, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toClientResponse(*d))
}

// Create stores a client owned by the caller.
//
// @Summary      Create client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      ports.ClientInput  true  "Client"
// @Success      201   {object}  clientEnvelope
// @Failure      400   {object}  map[string]any
// @Router       /clients [post]
func (h *ClientHandler) Create(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	var in ports.ClientInput
	if err := decodeBody(c, validation.Client, &in); err != nil {
		return err
	}

	d, err := h.service.Create(c.Request().Context(), caller, in)
	if err != nil {
		return err
	}

	metrics.ResourceChangesTotal.WithLabelValues("client", "create").Inc()
	return c.JSON(http.StatusCreated, clientEnvelope{Message: "Client created successfully", Client: toClientResponse(*d)})
}

// Update replaces the client's fields.
//
// @Summary      Update client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Client id"
// @Param        body  body      ports.ClientInput  true  "Client"
// @Success      200   {object}  clientEnvelope
// @Failure      400   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /clients/{id} [put]
func (h *ClientHandler) Update(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	var in ports.ClientInput
	if err := decodeBody(c, validation.ClientUpdate, &in); err != nil {
		return err
	}

	d, err := h.service.Update(c.Request().Context(), caller, c.Param("id"), in)
	if err != nil {
		return err
	}

	metrics.ResourceChangesTotal.WithLabelValues("client", "update").Inc()
	return c.JSON(http.StatusOK, clientEnvelope{Message: "Client updated successfully", Client: toClientResponse(*d)})
}

// Delete soft-deletes a client. Admin only.
//
// @Summary      Delete client
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Client id"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  map[string]any
// @Failure      403  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /clients/{id} [delete]
func (h *ClientHandler) Delete(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), caller, c.Param("id")); err != nil {
		return err
	}

	metrics.ResourceChangesTotal.WithLabelValues("client", "delete").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Client deleted successfully"})
}

// Projects lists the projects of one client.
//
// @Summary      List client projects
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id        path      string  true   "Client id"
// @Param        page      query     int     false  "Page (default 1)"
// @Param        limit     query     int     false  "Page size (default 10)"
// @Param        status    query     string  false  "Project status"
// @Param        isActive  query     bool    false  "Active flag (default true)"
// @Success      200       {object}  clientProjectsResponse
// @Failure      404       {object}  map[string]any
// @Router       /clients/{id}/projects [get]
func (h *ClientHandler) Projects(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	var q listClientProjectsQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}

	res, err := h.service.ListProjects(c.Request().Context(), caller, c.Param("id"), ports.ListClientProjectsInput{
		Status:   q.Status,
		IsActive: optionalBool(q.IsActive),
		Page:     q.Page,
		Limit:    q.Limit,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, clientProjectsResponse{
		Client:     res.Client,
		Projects:   toProjectResponses(res.Items),
		Pagination: res.Pagination,
	})
}
