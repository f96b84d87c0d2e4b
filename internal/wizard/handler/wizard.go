package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"studiobook/internal/wizard/service"
	httputil "studiobook/pkg/http"
	"studiobook/pkg/logger"
	"studiobook/pkg/model"
)

type WizardHandler struct {
	service service.WizardService
	log     *logger.Logger
}

func NewWizardHandler(service service.WizardService, log *logger.Logger) *WizardHandler {
	return &WizardHandler{
		service: service,
		log:     log,
	}
}

func (h *WizardHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/catalog", h.GetCatalog)

	router.POST("/api/v1/wizard/sessions", h.StartSession)
	router.GET("/api/v1/wizard/sessions/:sid", h.GetDraft)
	router.DELETE("/api/v1/wizard/sessions/:sid", h.DeleteSession)

	router.PUT("/api/v1/wizard/sessions/:sid/client-info", h.UpdateClientInfo)
	router.PUT("/api/v1/wizard/sessions/:sid/event-details", h.UpdateEventDetails)

	router.POST("/api/v1/wizard/sessions/:sid/functions", h.AddFunction)
	router.PUT("/api/v1/wizard/sessions/:sid/functions/:fid", h.UpdateFunction)
	router.DELETE("/api/v1/wizard/sessions/:sid/functions/:fid", h.RemoveFunction)
	router.POST("/api/v1/wizard/sessions/:sid/toggle-function", h.ToggleFunction)

	router.PUT("/api/v1/wizard/sessions/:sid/album", h.SetAlbum)
	router.POST("/api/v1/wizard/sessions/:sid/toggle-video-addon", h.ToggleVideoAddon)
	router.PUT("/api/v1/wizard/sessions/:sid/complimentary-item", h.SetComplimentaryItem)
	router.PUT("/api/v1/wizard/sessions/:sid/signature", h.SetSignature)

	router.POST("/api/v1/wizard/sessions/:sid/price", h.Price)
}

func (h *WizardHandler) GetCatalog(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	snapshot, err := h.service.Catalog(r.Context())
	if err != nil {
		h.writeError(w, "GetCatalog", err)
		return
	}
	h.writeSuccess(w, "GetCatalog", snapshot)
}

func (h *WizardHandler) StartSession(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	draft, err := h.service.StartSession(r.Context())
	if err != nil {
		h.writeError(w, "StartSession", err)
		return
	}
	if err := httputil.WriteCreated(w, draft); err != nil {
		h.log.Error("failed to write created response", "handler", "StartSession", "error", err)
	}
}

func (h *WizardHandler) GetDraft(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	draft, err := h.service.GetDraft(r.Context(), ps.ByName("sid"))
	if err != nil {
		h.writeError(w, "GetDraft", err)
		return
	}
	h.writeSuccess(w, "GetDraft", draft)
}

func (h *WizardHandler) DeleteSession(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.service.DeleteSession(r.Context(), ps.ByName("sid"))
	httputil.WriteNoContent(w)
}

func (h *WizardHandler) UpdateClientInfo(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var info model.ClientInfo
	if !h.decode(w, r, "UpdateClientInfo", &info) {
		return
	}

	draft, err := h.service.UpdateClientInfo(r.Context(), ps.ByName("sid"), info)
	if err != nil {
		h.writeError(w, "UpdateClientInfo", err)
		return
	}
	h.writeSuccess(w, "UpdateClientInfo", draft)
}

func (h *WizardHandler) UpdateEventDetails(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var details model.EventDetails
	if !h.decode(w, r, "UpdateEventDetails", &details) {
		return
	}

	draft, err := h.service.UpdateEventDetails(r.Context(), ps.ByName("sid"), details)
	if err != nil {
		h.writeError(w, "UpdateEventDetails", err)
		return
	}
	h.writeSuccess(w, "UpdateEventDetails", draft)
}

func (h *WizardHandler) AddFunction(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var fn model.SelectedFunction
	if !h.decode(w, r, "AddFunction", &fn) {
		return
	}

	draft, err := h.service.AddFunction(r.Context(), ps.ByName("sid"), fn)
	if err != nil {
		h.writeError(w, "AddFunction", err)
		return
	}
	h.writeSuccess(w, "AddFunction", draft)
}

func (h *WizardHandler) UpdateFunction(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var fn model.SelectedFunction
	if !h.decode(w, r, "UpdateFunction", &fn) {
		return
	}

	draft, err := h.service.UpdateFunction(r.Context(), ps.ByName("sid"), ps.ByName("fid"), fn)
	if err != nil {
		h.writeError(w, "UpdateFunction", err)
		return
	}
	h.writeSuccess(w, "UpdateFunction", draft)
}

func (h *WizardHandler) RemoveFunction(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	draft, err := h.service.RemoveFunction(r.Context(), ps.ByName("sid"), ps.ByName("fid"))
	if err != nil {
		h.writeError(w, "RemoveFunction", err)
		return
	}
	h.writeSuccess(w, "RemoveFunction", draft)
}

func (h *WizardHandler) ToggleFunction(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req struct {
		FunctionID string              `json:"function_id"`
		Group      model.FunctionGroup `json:"group"`
	}
	if !h.decode(w, r, "ToggleFunction", &req) {
		return
	}
	if req.Group == "" {
		req.Group = model.GroupMain
	}

	draft, err := h.service.ToggleFunction(r.Context(), ps.ByName("sid"), req.FunctionID, req.Group)
	if err != nil {
		h.writeError(w, "ToggleFunction", err)
		return
	}
	h.writeSuccess(w, "ToggleFunction", draft)
}

func (h *WizardHandler) SetAlbum(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var album model.AlbumSelection
	if !h.decode(w, r, "SetAlbum", &album) {
		return
	}

	draft, err := h.service.SetAlbum(r.Context(), ps.ByName("sid"), album)
	if err != nil {
		h.writeError(w, "SetAlbum", err)
		return
	}
	h.writeSuccess(w, "SetAlbum", draft)
}

func (h *WizardHandler) ToggleVideoAddon(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req struct {
		Slug string `json:"slug"`
	}
	if !h.decode(w, r, "ToggleVideoAddon", &req) {
		return
	}

	draft, err := h.service.ToggleVideoAddon(r.Context(), ps.ByName("sid"), req.Slug)
	if err != nil {
		h.writeError(w, "ToggleVideoAddon", err)
		return
	}
	h.writeSuccess(w, "ToggleVideoAddon", draft)
}

func (h *WizardHandler) SetComplimentaryItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req struct {
		Slug string `json:"slug"`
	}
	if !h.decode(w, r, "SetComplimentaryItem", &req) {
		return
	}

	draft, err := h.service.SetComplimentaryItem(r.Context(), ps.ByName("sid"), req.Slug)
	if err != nil {
		h.writeError(w, "SetComplimentaryItem", err)
		return
	}
	h.writeSuccess(w, "SetComplimentaryItem", draft)
}

func (h *WizardHandler) SetSignature(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req struct {
		Signature     string `json:"signature"`
		TermsAccepted bool   `json:"terms_accepted"`
	}
	if !h.decode(w, r, "SetSignature", &req) {
		return
	}

	draft, err := h.service.SetSignature(r.Context(), ps.ByName("sid"), req.Signature, req.TermsAccepted)
	if err != nil {
		h.writeError(w, "SetSignature", err)
		return
	}
	h.writeSuccess(w, "SetSignature", draft)
}

func (h *WizardHandler) Price(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	draft, err := h.service.Price(r.Context(), ps.ByName("sid"))
	if err != nil {
		h.writeError(w, "Price", err)
		return
	}
	h.writeSuccess(w, "Price", draft)
}

func (h *WizardHandler) decode(w http.ResponseWriter, r *http.Request, handler string, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", handler, "error", writeErr)
		}
		return false
	}
	return true
}

func (h *WizardHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "error", writeErr)
	}
}

func (h *WizardHandler) writeSuccess(w http.ResponseWriter, handler string, data any) {
	if err := httputil.WriteSuccess(w, data); err != nil {
		h.log.Error("failed to write success response", "handler", handler, "error", err)
	}
}
