package controllers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"guest-registration-backend/services"
	"guest-registration-backend/store"
	"guest-registration-backend/utils"
)

// AdminController is the moderation surface: list/filter registrations,
// approve or reject them, delete, export, and the analytics summary.
type AdminController struct {
	Guests    store.GuestStore
	Export    *services.ExportService
	Analytics *services.AnalyticsService
}

func NewAdminController(guests store.GuestStore, export *services.ExportService, analytics *services.AnalyticsService) *AdminController {
	return &AdminController{Guests: guests, Export: export, Analytics: analytics}
}

// GET /api/admin/guests?search=&status=
func (ac *AdminController) ListGuests(ctx *gin.Context) {
	filter := store.ListFilter{
		Search: ctx.Query("search"),
		Status: ctx.Query("status"),
	}

	records, err := ac.Guests.List(ctx.Request.Context(), filter)
	if err != nil {
		if errors.Is(err, store.ErrInvalidStatus) {
			utils.JSONError(ctx, http.StatusBadRequest, "invalid status filter")
			return
		}
		utils.JSONError(ctx, http.StatusInternalServerError, "failed to fetch guest records")
		return
	}
	utils.JSONSuccess(ctx, http.StatusOK, records)
}

// GET /api/admin/guests/:id
func (ac *AdminController) GetGuest(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	record, err := ac.Guests.Get(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			utils.JSONError(ctx, http.StatusNotFound, "guest record not found")
			return
		}
		utils.JSONError(ctx, http.StatusInternalServerError, "failed to fetch guest record")
		return
	}
	utils.JSONSuccess(ctx, http.StatusOK, record)
}

type statusPayload struct {
	Status string `json:"status" binding:"required,oneof=pending approved rejected"`
}

// PATCH /api/admin/guests/:id/status
func (ac *AdminController) UpdateGuestStatus(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var payload statusPayload
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "status must be pending, approved or rejected")
		return
	}

	if err := ac.Guests.UpdateStatus(ctx.Request.Context(), id, payload.Status); err != nil {
		switch {
		case errors.Is(err, store.ErrRecordNotFound):
			utils.JSONError(ctx, http.StatusNotFound, "guest record not found")
		case errors.Is(err, store.ErrInvalidStatus):
			utils.JSONError(ctx, http.StatusBadRequest, "invalid status value")
		default:
			utils.JSONError(ctx, http.StatusInternalServerError, "failed to update status")
		}
		return
	}
	utils.JSONSuccess(ctx, http.StatusOK, gin.H{"id": id, "status": payload.Status})
}

// DELETE /api/admin/guests/:id
func (ac *AdminController) DeleteGuest(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	if err := ac.Guests.Delete(ctx.Request.Context(), id); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			utils.JSONError(ctx, http.StatusNotFound, "guest record not found")
			return
		}
		utils.JSONError(ctx, http.StatusInternalServerError, "failed to delete guest record")
		return
	}
	ctx.Status(http.StatusNoContent)
}

// GET /api/admin/guests/export?format=csv|xlsx&search=&status=
// Exports the same filtered listing the panel shows.
func (ac *AdminController) ExportGuests(ctx *gin.Context) {
	filter := store.ListFilter{
		Search: ctx.Query("search"),
		Status: ctx.Query("status"),
	}

	records, err := ac.Guests.List(ctx.Request.Context(), filter)
	if err != nil {
		if errors.Is(err, store.ErrInvalidStatus) {
			utils.JSONError(ctx, http.StatusBadRequest, "invalid status filter")
			return
		}
		utils.JSONError(ctx, http.StatusInternalServerError, "failed to fetch guest records")
		return
	}

	stamp := time.Now().Format("2006-01-02")
	var buf bytes.Buffer

	switch ctx.DefaultQuery("format", "csv") {
	case "csv":
		if err := ac.Export.WriteCSV(&buf, records); err != nil {
			utils.JSONError(ctx, http.StatusInternalServerError, "export failed")
			return
		}
		ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=guest-registrations-%s.csv", stamp))
		ctx.Data(http.StatusOK, "text/csv", buf.Bytes())
	case "xlsx":
		if err := ac.Export.WriteXLSX(&buf, records); err != nil {
			utils.JSONError(ctx, http.StatusInternalServerError, "export failed")
			return
		}
		ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=guest-registrations-%s.xlsx", stamp))
		ctx.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
	default:
		utils.JSONError(ctx, http.StatusBadRequest, "format must be csv or xlsx")
	}
}

// GET /api/admin/analytics
func (ac *AdminController) AnalyticsSummary(ctx *gin.Context) {
	summary, err := ac.Analytics.Summary(ctx.Request.Context())
	if err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "failed to compute analytics")
		return
	}
	utils.JSONSuccess(ctx, http.StatusOK, summary)
}

func parseID(ctx *gin.Context) (uint, bool) {
	id64, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil || id64 == 0 {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid guest record id")
		return 0, false
	}
	return uint(id64), true
}
