package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/aros-club/aros-api/internal/application"
	"github.com/aros-club/aros-api/pkg/helpers"
	"github.com/aros-club/aros-api/pkg/response"
	"github.com/aros-club/aros-api/pkg/validation"
)

// ImageField is the multipart field carrying the optional news image.
const ImageField = "image"

type NewsHandler struct {
	Svc    *application.NewsService
	Logger *logrus.Logger
}

func NewNewsHandler(svc *application.NewsService, logger *logrus.Logger) *NewsHandler {
	return &NewsHandler{Svc: svc, Logger: logger}
}

type notFoundError struct {
	Error string `json:"error"`
}

func (h *NewsHandler) logError(c *gin.Context, err error, msg string) {
	helpers.LogError(h.Logger, msg, err, logrus.Fields{"request_id": c.GetString("request_id")})
}

// openImage returns the uploaded image, or nil when the request has none.
func openImage(c *gin.Context) (multipart.File, error) {
	fh, err := c.FormFile(ImageField)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return fh.Open()
}

// Create publishes a news item from a multipart form.
func (h *NewsHandler) Create(c *gin.Context) {
	createdAt, err := application.ParseCreatedAt(c.PostForm("createdAt"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Could not create news", map[string]string{"createdAt": "must be a valid date"})
		return
	}

	file, err := openImage(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Could not create news", map[string]string{ImageField: "could not read upload"})
		return
	}
	in := application.CreateNewsInput{
		Title:         c.PostForm("title"),
		ShortSynopsis: c.PostForm("shortSynopsis"),
		Synopsis:      c.PostForm("synopsis"),
		CreatedAt:     createdAt,
	}
	if file != nil {
		defer func() { _ = file.Close() }()
		in.Image = file
	}

	n, err := h.Svc.Create(c.Request.Context(), in)
	var ve *validation.Error
	switch {
	case errors.As(err, &ve):
		response.Error(c, http.StatusBadRequest, "Could not create news", ve.Fields)
	case errors.Is(err, application.ErrInvalidImage):
		response.Error(c, http.StatusBadRequest, "Invalid image", map[string]string{ImageField: "must be a jpg or png within the size limit"})
	case errors.Is(err, application.ErrUploadUnavailable):
		response.Message(c, http.StatusInternalServerError, "Image upload is not available")
	case err != nil:
		h.logError(c, err, "create news failed")
		response.Message(c, http.StatusInternalServerError, "Could not create news")
	default:
		response.JSON(c, http.StatusCreated, n)
	}
}

// List returns the newest news items.
func (h *NewsHandler) List(c *gin.Context) {
	items, err := h.Svc.List(c.Request.Context())
	if err != nil {
		h.logError(c, err, "list news failed")
		response.Message(c, http.StatusInternalServerError, "Could not fetch news")
		return
	}
	response.JSON(c, http.StatusOK, items)
}

func (h *NewsHandler) Get(c *gin.Context) {
	n, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, application.ErrNewsNotFound) {
		response.JSON(c, http.StatusNotFound, notFoundError{Error: "Not found"})
		return
	}
	if err != nil {
		h.logError(c, err, "get news failed")
		response.Message(c, http.StatusInternalServerError, "Could not fetch news")
		return
	}
	response.JSON(c, http.StatusOK, n)
}

// Search runs a full-text query given in ?q=.
func (h *NewsHandler) Search(c *gin.Context) {
	items, err := h.Svc.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.logError(c, err, "search news failed")
		response.Message(c, http.StatusInternalServerError, "Could not search news")
		return
	}
	response.JSON(c, http.StatusOK, items)
}
