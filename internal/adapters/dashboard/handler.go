// Package dashboard exposes the coordination core over HTTP. The
// adapter is a thin relay: reads go straight to the service's query
// layer, mutations acquire a capability from the gate and surface rule
// rejections as structured errors.
package dashboard

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"wavecore/internal/core"
	"wavecore/pkg/domain"
)

const apiPrefix = "/api/v1/"

// Handler routes dashboard API requests to the service.
type Handler struct {
	Service *core.Service
	Gate    *core.Gate
}

// NewHandler constructs the dashboard HTTP handler.
func NewHandler(service *core.Service, gate *core.Gate) *Handler {
	return &Handler{Service: service, Gate: gate}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.Service == nil || h.Gate == nil {
		writeError(w, http.StatusInternalServerError, "dashboard not configured")
		return
	}
	path := strings.TrimSuffix(r.URL.Path, "/")
	if !strings.HasPrefix(path, strings.TrimSuffix(apiPrefix, "/")) {
		http.NotFound(w, r)
		return
	}
	rest := strings.TrimPrefix(path, apiPrefix)
	segments := strings.Split(rest, "/")

	switch segments[0] {
	case "auth":
		h.handleAuth(w, r, segments[1:])
	case "programs":
		h.handlePrograms(w, r, segments[1:])
	case "sessions":
		h.handleSessions(w, r, segments[1:])
	case "smes":
		h.handleSMEs(w, r, segments[1:])
	case "contacts":
		h.handleContacts(w, r, segments[1:])
	case "admins":
		h.handleAdmins(w, r, segments[1:])
	case "activity":
		h.handleActivity(w, r)
	case "stats":
		h.handleStats(w, r)
	case "capacity":
		h.handleCapacity(w, r)
	default:
		http.NotFound(w, r)
	}
}

// capability resolves the caller's mutation token, writing the error
// response itself on failure.
func (h *Handler) capability(w http.ResponseWriter) (core.Capability, bool) {
	cap, err := h.Gate.Capability()
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return core.Capability{}, false
	}
	return cap, true
}

func (h *Handler) handleAuth(w http.ResponseWriter, r *http.Request, segments []string) {
	if len(segments) != 1 {
		http.NotFound(w, r)
		return
	}
	switch segments[0] {
	case "login":
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		var req struct {
			Password string `json:"password"`
		}
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid login payload")
			return
		}
		if !h.Gate.Login(req.Password) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		principal, _ := h.Gate.CurrentPrincipal()
		writeJSON(w, http.StatusOK, map[string]any{"admin": true, "principal": principal})
	case "logout":
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h.Gate.Logout()
		writeJSON(w, http.StatusOK, map[string]any{"admin": false})
	case "session":
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		resp := map[string]any{"admin": h.Gate.IsAdmin()}
		if principal, ok := h.Gate.CurrentPrincipal(); ok {
			resp["principal"] = principal
		}
		if url := h.Gate.LoginURL(); url != "" {
			resp["login_url"] = url
		}
		writeJSON(w, http.StatusOK, resp)
	default:
		http.NotFound(w, r)
	}
}

func (h *Handler) handlePrograms(w http.ResponseWriter, r *http.Request, segments []string) {
	switch len(segments) {
	case 0:
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, map[string]any{"programs": h.Service.ListPrograms()})
		case http.MethodPost:
			cap, ok := h.capability(w)
			if !ok {
				return
			}
			var p domain.Program
			if err := decodeBody(r, &p); err != nil {
				writeError(w, http.StatusBadRequest, "invalid program payload")
				return
			}
			created, _, err := h.Service.AddProgram(r.Context(), cap, p)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, map[string]any{"program": created})
		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	case 1:
		h.handleProgram(w, r, segments[0])
	case 2:
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		switch segments[1] {
		case "sessions":
			sessions := h.Service.SessionsForWave(segments[0])
			if day := r.URL.Query().Get("day"); day != "" {
				sessions = h.Service.DaySchedule(segments[0], day)
			}
			writeJSON(w, http.StatusOK, map[string]any{"sessions": sessions})
		case "stats":
			writeJSON(w, http.StatusOK, map[string]any{
				"sme_names":   h.Service.WaveSMENames(segments[0]),
				"type_counts": h.Service.SessionTypeCounts(segments[0]),
			})
		default:
			http.NotFound(w, r)
		}
	default:
		http.NotFound(w, r)
	}
}

func (h *Handler) handleProgram(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		p, ok := h.Service.GetProgram(id)
		if !ok {
			writeError(w, http.StatusNotFound, "program not found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"program": p})
	case http.MethodPatch:
		cap, ok := h.capability(w)
		if !ok {
			return
		}
		var patch domain.ProgramPatch
		if err := decodeBody(r, &patch); err != nil {
			writeError(w, http.StatusBadRequest, "invalid program patch")
			return
		}
		updated, found, _, err := h.Service.UpdateProgram(r.Context(), cap, id, patch)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if !found {
			writeError(w, http.StatusNotFound, "program not found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"program": updated})
	case http.MethodDelete:
		cap, ok := h.capability(w)
		if !ok {
			return
		}
		found, _, err := h.Service.DeleteProgram(r.Context(), cap, id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"deleted": found})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) handleSessions(w http.ResponseWriter, r *http.Request, segments []string) {
	switch len(segments) {
	case 0:
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		cap, ok := h.capability(w)
		if !ok {
			return
		}
		var session domain.Session
		if err := decodeBody(r, &session); err != nil {
			writeError(w, http.StatusBadRequest, "invalid session payload")
			return
		}
		created, _, err := h.Service.AddSession(r.Context(), cap, session, r.URL.Query().Get("active_wave"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"session": created})
	case 1:
		h.handleSession(w, r, segments[0])
	case 2:
		if segments[1] != "resources" {
			http.NotFound(w, r)
			return
		}
		h.handleSessionResources(w, r, segments[0], "")
	case 3:
		if segments[1] != "resources" {
			http.NotFound(w, r)
			return
		}
		h.handleSessionResources(w, r, segments[0], segments[2])
	default:
		http.NotFound(w, r)
	}
}

func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		session, ok := h.Service.GetSession(id)
		if !ok {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"session": session})
	case http.MethodPatch:
		cap, ok := h.capability(w)
		if !ok {
			return
		}
		var patch domain.SessionPatch
		if err := decodeBody(r, &patch); err != nil {
			writeError(w, http.StatusBadRequest, "invalid session patch")
			return
		}
		updated, found, _, err := h.Service.UpdateSession(r.Context(), cap, id, patch)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if !found {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"session": updated})
	case http.MethodDelete:
		cap, ok := h.capability(w)
		if !ok {
			return
		}
		found, _, err := h.Service.DeleteSession(r.Context(), cap, id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"deleted": found})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) handleSessionResources(w http.ResponseWriter, r *http.Request, sessionID, name string) {
	switch {
	case name == "" && r.Method == http.MethodGet:
		infos, err := h.Service.ListSessionResources(r.Context(), sessionID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"resources": infos})
	case name == "" && r.Method == http.MethodPost:
		cap, ok := h.capability(w)
		if !ok {
			return
		}
		resourceName := r.URL.Query().Get("name")
		info, err := h.Service.AttachSessionResource(r.Context(), cap, sessionID, resourceName, r.Body, r.Header.Get("Content-Type"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"resource": info})
	case name != "" && r.Method == http.MethodGet:
		info, body, err := h.Service.OpenSessionResource(r.Context(), sessionID, name)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		defer func() { _ = body.Close() }()
		if info.ContentType != "" {
			w.Header().Set("Content-Type", info.ContentType)
		}
		w.WriteHeader(http.StatusOK)
		_, _ = io.Copy(w, body)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) handleSMEs(w http.ResponseWriter, r *http.Request, segments []string) {
	switch len(segments) {
	case 0:
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, map[string]any{"smes": h.Service.ListSMEs()})
		case http.MethodPost:
			cap, ok := h.capability(w)
			if !ok {
				return
			}
			var sme domain.SME
			if err := decodeBody(r, &sme); err != nil {
				writeError(w, http.StatusBadRequest, "invalid sme payload")
				return
			}
			created, _, err := h.Service.AddSME(r.Context(), cap, sme)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, map[string]any{"sme": created})
		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	case 1:
		switch r.Method {
		case http.MethodPatch:
			cap, ok := h.capability(w)
			if !ok {
				return
			}
			var patch domain.SMEPatch
			if err := decodeBody(r, &patch); err != nil {
				writeError(w, http.StatusBadRequest, "invalid sme patch")
				return
			}
			updated, found, _, err := h.Service.UpdateSME(r.Context(), cap, segments[0], patch)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			if !found {
				writeError(w, http.StatusNotFound, "sme not found")
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"sme": updated})
		case http.MethodDelete:
			cap, ok := h.capability(w)
			if !ok {
				return
			}
			found, _, err := h.Service.DeleteSME(r.Context(), cap, segments[0])
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"deleted": found})
		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	default:
		http.NotFound(w, r)
	}
}

func (h *Handler) handleContacts(w http.ResponseWriter, r *http.Request, segments []string) {
	switch len(segments) {
	case 0:
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, map[string]any{"contacts": h.Service.ListVendorContacts()})
		case http.MethodPost:
			cap, ok := h.capability(w)
			if !ok {
				return
			}
			var contact domain.VendorContact
			if err := decodeBody(r, &contact); err != nil {
				writeError(w, http.StatusBadRequest, "invalid contact payload")
				return
			}
			created, _, err := h.Service.AddVendorContact(r.Context(), cap, contact)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, map[string]any{"contact": created})
		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	case 1:
		switch r.Method {
		case http.MethodPatch:
			cap, ok := h.capability(w)
			if !ok {
				return
			}
			var patch domain.VendorContactPatch
			if err := decodeBody(r, &patch); err != nil {
				writeError(w, http.StatusBadRequest, "invalid contact patch")
				return
			}
			updated, found, _, err := h.Service.UpdateVendorContact(r.Context(), cap, segments[0], patch)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			if !found {
				writeError(w, http.StatusNotFound, "contact not found")
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"contact": updated})
		case http.MethodDelete:
			cap, ok := h.capability(w)
			if !ok {
				return
			}
			found, _, err := h.Service.DeleteVendorContact(r.Context(), cap, segments[0])
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"deleted": found})
		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	default:
		http.NotFound(w, r)
	}
}

func (h *Handler) handleAdmins(w http.ResponseWriter, r *http.Request, segments []string) {
	switch len(segments) {
	case 0:
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, map[string]any{"admins": h.Service.ListAdminUsers()})
		case http.MethodPost:
			cap, ok := h.capability(w)
			if !ok {
				return
			}
			var admin domain.AdminUser
			if err := decodeBody(r, &admin); err != nil {
				writeError(w, http.StatusBadRequest, "invalid admin payload")
				return
			}
			created, _, err := h.Service.AddAdminUser(r.Context(), cap, admin)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, map[string]any{"admin": created})
		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	case 1:
		if r.Method != http.MethodDelete {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		cap, ok := h.capability(w)
		if !ok {
			return
		}
		found, _, err := h.Service.RemoveAdminUser(r.Context(), cap, segments[0])
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"deleted": found})
	default:
		http.NotFound(w, r)
	}
}

func (h *Handler) handleActivity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	writeJSON(w, http.StatusOK, map[string]any{"activity": h.Service.RecentActivity(limit)})
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total_sessions":   h.Service.TotalSessionCount(),
		"sessions_by_wave": h.Service.SessionCountsByWave(),
		"smes_by_location": h.Service.SMECountsByLocation(),
	})
}

func (h *Handler) handleCapacity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req struct {
		Pairs []core.VendorLocation `json:"pairs"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid capacity request")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"matrix": h.Service.VendorCapacityMatrix(req.Pairs)})
}

func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// writeServiceError maps service failures onto HTTP statuses: missing
// admin standing is 401, blocked transactions are 409 with the rule's
// message, everything else is 500.
func writeServiceError(w http.ResponseWriter, err error) {
	var violation domain.RuleViolationError
	switch {
	case errors.Is(err, core.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, core.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &violation):
		writeError(w, http.StatusConflict, violation.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
