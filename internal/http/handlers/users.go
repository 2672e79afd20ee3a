package handlers

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	intconfig "usersadmin/internal/config"
	"usersadmin/internal/domain"
	"usersadmin/internal/domain/models"
	"usersadmin/internal/events"
	"usersadmin/internal/http/middleware"
	"usersadmin/internal/repositories"
	"usersadmin/internal/services"
)

// UserHandler serves /api/users. A nil DB falls back to the shared pool.
type UserHandler struct {
	DB              *sql.DB
	Events          events.Publisher
	DefaultPageSize int
}

type createUserRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

type updateUserRequest struct {
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Role   *string `json:"role"`
	Status *string `json:"status"`
}

// DeleteUserResponse confirms a removal with the removed record.
type DeleteUserResponse struct {
	Deleted bool        `json:"deleted"`
	Item    models.User `json:"item"`
}

func (h UserHandler) repo() repositories.UserRepository {
	if h.DB != nil {
		return repositories.UserRepository{DB: h.DB}
	}
	return repositories.UserRepository{DB: intconfig.DB}
}

func (h UserHandler) lister(c *gin.Context) services.UserListService {
	return services.UserListService{Repo: h.repo(), RequestID: middleware.GetRequestID(c)}
}

func (h UserHandler) mutator(c *gin.Context) services.UserMutationService {
	return services.UserMutationService{Repo: h.repo(), Events: h.Events, RequestID: middleware.GetRequestID(c)}
}

func (h UserHandler) pageSize() int {
	if h.DefaultPageSize > 0 {
		return h.DefaultPageSize
	}
	return domain.DefaultPageSize
}

// List handles GET /api/users?page=&limit=&sort=field:order&filter[field]=v
func (h UserHandler) List(c *gin.Context) {
	req, err := h.listRequestFromQuery(c)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	h.list(c, req, explicitPage(req))
}

// Query handles POST /api/users/query with a JSON ListRequest.
func (h UserHandler) Query(c *gin.Context) {
	var req domain.ListRequest
	if c.Request.ContentLength != 0 {
		if !BindJSONOrError(c, &req) {
			return
		}
	}
	if req.Limit == 0 {
		req.Limit = h.pageSize()
	}
	h.list(c, req, req.PageRequest())
}

func (h UserHandler) list(c *gin.Context, req domain.ListRequest, page domain.PageRequest) {
	res, err := h.lister(c).List(c.Request.Context(), req.Filter, req.Sort, page)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res.ToListResponse())
}

// Get handles GET /api/users/:id
func (h UserHandler) Get(c *gin.Context) {
	u, err := h.mutator(c).Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// Create handles POST /api/users
func (h UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	u, err := h.mutator(c).Create(c.Request.Context(), models.CreateUserInput{
		Name:   req.Name,
		Email:  req.Email,
		Role:   models.Role(req.Role),
		Status: models.Status(req.Status),
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// Update handles PUT and PATCH /api/users/:id. Absent fields are left unchanged.
func (h UserHandler) Update(c *gin.Context) {
	var req updateUserRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	in := models.UpdateUserInput{Name: req.Name, Email: req.Email}
	if req.Role != nil {
		r := models.Role(*req.Role)
		in.Role = &r
	}
	if req.Status != nil {
		s := models.Status(*req.Status)
		in.Status = &s
	}

	u, err := h.mutator(c).Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// Delete handles DELETE /api/users/:id
func (h UserHandler) Delete(c *gin.Context) {
	u, err := h.mutator(c).Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, DeleteUserResponse{Deleted: true, Item: u})
}

// Report handles GET /api/users/report.pdf with the list query params.
func (h UserHandler) Report(c *gin.Context) {
	req, err := h.listRequestFromQuery(c)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	svc := services.UserReportService{Lister: h.lister(c), RequestID: middleware.GetRequestID(c)}
	pdfBytes, filename, err := svc.Render(c.Request.Context(), req.Filter, req.Sort, explicitPage(req))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

func (h UserHandler) listRequestFromQuery(c *gin.Context) (domain.ListRequest, error) {
	req := domain.ListRequest{Page: domain.DefaultPage, Limit: h.pageSize()}

	if raw := strings.TrimSpace(c.Query("page")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return req, domain.ValidationError{Field: "page", Code: domain.CodeInvalidPage, Msg: "page must be an integer"}
		}
		req.Page = n
	}
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return req, domain.ValidationError{Field: "limit", Code: domain.CodeInvalidPage, Msg: "limit must be an integer"}
		}
		req.Limit = n
	}

	req.Sort = parseSortParam(c.Query("sort"), c.Query("order"))

	if fm := c.QueryMap("filter"); len(fm) > 0 {
		req.Filter = domain.FilterSpec(fm)
	}
	return req, nil
}

// explicitPage keeps query-string values as given so page=0 is rejected
// rather than defaulted.
func explicitPage(req domain.ListRequest) domain.PageRequest {
	return domain.PageRequest{Page: req.Page, PageSize: req.Limit}
}

// parseSortParam accepts "field:order" or a bare field with a separate order.
func parseSortParam(sort, order string) *domain.SortSpec {
	sort = strings.TrimSpace(sort)
	if sort == "" {
		return nil
	}
	field, dir, found := strings.Cut(sort, ":")
	if !found {
		dir = order
	}
	field = strings.TrimSpace(field)
	if field == "" {
		return nil
	}
	return &domain.SortSpec{Field: field, Order: domain.ParseSortOrder(dir)}
}
