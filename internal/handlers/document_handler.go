package handlers

import (
	"net/http"

	"github.com/ahmed7gendy/hr-edecs/internal/apperror"
	"github.com/ahmed7gendy/hr-edecs/internal/models"
	"github.com/ahmed7gendy/hr-edecs/internal/services"
	"github.com/ahmed7gendy/hr-edecs/internal/utils"
)

const maxUploadSize = 10 << 20 // 10MB

// DocumentHandler handles employee documents.
type DocumentHandler struct {
	documents *services.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(ds *services.DocumentService) *DocumentHandler {
	return &DocumentHandler{documents: ds}
}

// UploadDocument handles multipart POST /documents/upload with fields file,
// userId, title and category.
func (h *DocumentHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	ac, ok := caller(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1<<20)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		utils.RespondWithAppError(w, apperror.New(apperror.KindValidation, "Invalid multipart form or file too large"))
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		utils.RespondWithAppError(w, apperror.Validation(map[string]string{"file": "File is required"}))
		return
	}
	defer file.Close()

	if fileHeader.Size == 0 {
		utils.RespondWithAppError(w, apperror.Validation(map[string]string{"file": "Uploaded file is empty"}))
		return
	}

	userID, ok := scopeUser(w, ac, r.FormValue("userId"), models.PermManageDocuments)
	if !ok {
		return
	}

	doc, err := h.documents.Upload(r.Context(), ac.Actor(), services.UploadDocumentInput{
		UserID:   userID,
		Title:    r.FormValue("title"),
		Category: r.FormValue("category"),
		FileName: fileHeader.Filename,
		File:     file,
	})
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, doc)
}

// CreateDocument handles POST /documents for files hosted elsewhere.
func (h *DocumentHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	ac, ok := caller(w, r)
	if !ok {
		return
	}
	var doc models.Document
	if !decodeJSON(w, r, nil, &doc) {
		return
	}
	userID, ok := scopeUser(w, ac, doc.UserID, models.PermManageDocuments)
	if !ok {
		return
	}
	doc.UserID = userID

	created, err := h.documents.Create(r.Context(), ac.Actor(), doc)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, created)
}

// ListDocuments handles GET /documents?userId=&category=
func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	ac, ok := caller(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	userID, ok := scopeUser(w, ac, q.Get("userId"), models.PermManageDocuments, models.PermViewEmployees)
	if !ok {
		return
	}
	items, err := h.documents.List(r.Context(), userID, q.Get("category"))
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, items)
}

// DeleteDocument handles DELETE /documents/{id}
func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	ac, ok := caller(w, r)
	if !ok {
		return
	}
	if err := h.documents.Delete(r.Context(), ac.Actor(), pathVar(r, "id")); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Document deleted")
}
