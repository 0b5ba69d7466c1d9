package controllers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"guest-registration-backend/services"
	"guest-registration-backend/utils"
)

// RegistrationController exposes the public self-registration flow: draft
// lifecycle, per-guest document uploads, and final submission.
type RegistrationController struct {
	Drafts        *services.DraftService
	Uploads       *services.UploadService
	Registrations *services.RegistrationService
}

func NewRegistrationController(
	drafts *services.DraftService,
	uploads *services.UploadService,
	registrations *services.RegistrationService,
) *RegistrationController {
	return &RegistrationController{
		Drafts:        drafts,
		Uploads:       uploads,
		Registrations: registrations,
	}
}

type draftResponse struct {
	Token            string                 `json:"token"`
	ExpiresAt        time.Time              `json:"expiresAt"`
	NumberOfGuests   int                    `json:"numberOfGuests"`
	Documents        []services.DocumentRef `json:"documents"`
	AdditionalGuests []services.GuestSlot   `json:"additionalGuests"`
}

func toDraftResponse(d services.Draft) draftResponse {
	resp := draftResponse{
		Token:            d.Token,
		ExpiresAt:        d.ExpiresAt,
		NumberOfGuests:   d.NumberOfGuests,
		Documents:        d.Primary,
		AdditionalGuests: d.Additional,
	}
	if resp.Documents == nil {
		resp.Documents = []services.DocumentRef{}
	}
	if resp.AdditionalGuests == nil {
		resp.AdditionalGuests = []services.GuestSlot{}
	}
	return resp
}

// POST /api/registrations/drafts
func (rc *RegistrationController) CreateDraft(ctx *gin.Context) {
	draft := rc.Drafts.Create()
	utils.JSONSuccess(ctx, http.StatusCreated, toDraftResponse(draft))
}

// GET /api/registrations/drafts/:token
func (rc *RegistrationController) GetDraft(ctx *gin.Context) {
	draft, err := rc.Drafts.Get(ctx.Param("token"))
	if err != nil {
		respondDraftError(ctx, err)
		return
	}
	utils.JSONSuccess(ctx, http.StatusOK, toDraftResponse(draft))
}

type guestCountPayload struct {
	NumberOfGuests int `json:"numberOfGuests" binding:"required,min=1,max=10"`
}

// PUT /api/registrations/drafts/:token/guest-count
func (rc *RegistrationController) SetGuestCount(ctx *gin.Context) {
	var payload guestCountPayload
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "number of guests must be between 1 and 10")
		return
	}

	if err := rc.Drafts.Resize(ctx.Param("token"), payload.NumberOfGuests); err != nil {
		respondDraftError(ctx, err)
		return
	}

	draft, err := rc.Drafts.Get(ctx.Param("token"))
	if err != nil {
		respondDraftError(ctx, err)
		return
	}
	utils.JSONSuccess(ctx, http.StatusOK, toDraftResponse(draft))
}

// PUT /api/registrations/drafts/:token/guests/:index
func (rc *RegistrationController) UpdateAdditionalGuest(ctx *gin.Context) {
	index, err := strconv.Atoi(ctx.Param("index"))
	if err != nil || index < 0 {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid guest index")
		return
	}

	var form services.AdditionalGuestForm
	if err := ctx.ShouldBindJSON(&form); err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, err.Error())
		return
	}

	if err := rc.Drafts.UpdateAdditionalGuest(ctx.Param("token"), index, form); err != nil {
		respondDraftError(ctx, err)
		return
	}
	utils.JSONSuccess(ctx, http.StatusOK, gin.H{"updated": index})
}

// POST /api/registrations/drafts/:token/documents
// Multipart form: "slot" is "primary" or an additional-guest index,
// "documents" carries one or more files. Files are handled independently;
// the response reports a per-file outcome.
func (rc *RegistrationController) UploadDocuments(ctx *gin.Context) {
	slot, ok := parseSlot(ctx.PostForm("slot"))
	if !ok {
		utils.JSONError(ctx, http.StatusBadRequest, "slot must be \"primary\" or an additional-guest index")
		return
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid multipart form")
		return
	}
	headers := form.File["documents"]
	if len(headers) == 0 {
		utils.JSONError(ctx, http.StatusBadRequest, "no documents attached")
		return
	}

	files := make([]services.FileUpload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			utils.JSONError(ctx, http.StatusBadRequest, "cannot read uploaded file "+fh.Filename)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			utils.JSONError(ctx, http.StatusBadRequest, "cannot read uploaded file "+fh.Filename)
			return
		}
		files = append(files, services.FileUpload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	results, err := rc.Uploads.SubmitFiles(ctx.Request.Context(), ctx.Param("token"), slot, files)
	if err != nil {
		respondDraftError(ctx, err)
		return
	}
	utils.JSONSuccess(ctx, http.StatusOK, results)
}

// DELETE /api/registrations/drafts/:token/documents/:slot/:index
func (rc *RegistrationController) RemoveDocument(ctx *gin.Context) {
	slot, ok := parseSlot(ctx.Param("slot"))
	if !ok {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid slot")
		return
	}
	index, err := strconv.Atoi(ctx.Param("index"))
	if err != nil || index < 0 {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid document index")
		return
	}

	if err := rc.Drafts.RemoveDocument(ctx.Param("token"), slot, index); err != nil {
		respondDraftError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// POST /api/registrations/drafts/:token/submit
func (rc *RegistrationController) Submit(ctx *gin.Context) {
	var req services.SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, err.Error())
		return
	}

	record, err := rc.Registrations.Submit(ctx.Request.Context(), ctx.Param("token"), req)
	if err != nil {
		respondDraftError(ctx, err)
		return
	}
	utils.JSONSuccess(ctx, http.StatusCreated, record)
}

// DELETE /api/registrations/drafts/:token
func (rc *RegistrationController) AbandonDraft(ctx *gin.Context) {
	if err := rc.Drafts.Abandon(ctx.Param("token")); err != nil {
		respondDraftError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func parseSlot(raw string) (int, bool) {
	if raw == "" || raw == "primary" {
		return services.SlotPrimary, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func respondDraftError(ctx *gin.Context, err error) {
	var vErr *services.ValidationError
	var storeErr *services.StoreError
	switch {
	case errors.As(err, &vErr):
		utils.JSONFieldErrors(ctx, http.StatusBadRequest, vErr.Fields)
	case errors.Is(err, services.ErrDraftNotFound):
		utils.JSONError(ctx, http.StatusNotFound, "registration session not found")
	case errors.Is(err, services.ErrDraftExpired):
		utils.JSONError(ctx, http.StatusGone, "registration session expired")
	case errors.As(err, &storeErr):
		utils.JSONError(ctx, http.StatusBadGateway, "could not save the registration, please try again")
	default:
		utils.JSONError(ctx, http.StatusInternalServerError, err.Error())
	}
}
