package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"spws/application"
	"spws/domain/sharepoint"
	"spws/infrastructure/export"
	"spws/infrastructure/spclient"
	"spws/interfaces/web/presenters"
	"spws/logging"
)

// maxBatchBodyBytes bounds the JSON body of a batch request.
const maxBatchBodyBytes = 8 << 20

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ListHandlers handles list-related HTTP endpoints.
type ListHandlers struct {
	service   application.ListItemsService
	presenter presenters.ListPresenterInterface
	logger    *logging.Logger
}

// NewListHandlers creates a new list handlers instance.
func NewListHandlers(service application.ListItemsService, presenter presenters.ListPresenterInterface) *ListHandlers {
	return &ListHandlers{
		service:   service,
		presenter: presenter,
		logger:    logging.Default().WithComponent("list_handler"),
	}
}

// RegisterRoutes mounts the list API under /api/lists.
func (h *ListHandlers) RegisterRoutes(r chi.Router) {
	r.Route("/api/lists", func(r chi.Router) {
		r.Get("/", h.ListLists)
		r.Route("/{list}", func(r chi.Router) {
			r.Get("/", h.GetList)
			r.Get("/items", h.GetItems)
			r.Post("/items/batch", h.SubmitBatch)
			r.Get("/export.xlsx", h.ExportXLSX)
			r.Get("/changes", h.CompareWithLatest)
			r.Post("/snapshots", h.CreateSnapshot)
			r.Get("/snapshots", h.ListSnapshots)
			r.Get("/snapshots/latest", h.LatestSnapshot)
		})
	})
}

// BatchRequest is the JSON body of a batch submission. Mutations use the flat
// form {"id": .., "command": .., "<field>": ..}; raw is appended verbatim
// after the generated methods.
type BatchRequest struct {
	Options   BatchOptionsRequest          `json:"options"`
	Mutations []sharepoint.MutationRequest `json:"mutations"`
	Raw       string                       `json:"raw,omitempty"`
}

// BatchOptionsRequest mirrors sharepoint.BatchOptions.
type BatchOptionsRequest struct {
	ViewName    string `json:"view_name"`
	OnError     string `json:"on_error"`
	ListVersion string `json:"list_version"`
	Version     string `json:"version"`
}

func (o BatchOptionsRequest) toDomain() sharepoint.BatchOptions {
	return sharepoint.BatchOptions{
		ViewName:    o.ViewName,
		OnError:     sharepoint.OnErrorPolicy(o.OnError),
		ListVersion: o.ListVersion,
		Version:     o.Version,
	}
}

// ListLists returns list summaries; ?hidden=true includes hidden lists and
// ?q= filters by title or name.
func (h *ListHandlers) ListLists(w http.ResponseWriter, r *http.Request) {
	includeHidden, err := boolParam(r.URL.Query().Get("hidden"), false)
	if err != nil {
		WriteError(w, r, badRequest("hidden: "+err.Error()))
		return
	}

	lists, err := h.service.ListLists(r.Context(), includeHidden)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, h.presenter.ToListsViewModel(lists, r.URL.Query().Get("q")))
}

// GetList returns one list's metadata.
func (h *ListHandlers) GetList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.GetList(r.Context(), chi.URLParam(r, "list"))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, list)
}

// GetItems queries list items. A caml parameter is embedded as the query body.
func (h *ListHandlers) GetItems(w http.ResponseWriter, r *http.Request) {
	listName := chi.URLParam(r, "list")
	opts, err := queryOptionsFromRequest(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	var query spclient.QueryBuilder
	if caml := r.URL.Query().Get("caml"); caml != "" {
		query = spclient.RawXML(caml)
	}

	items, err := h.service.QueryItems(r.Context(), listName, opts, query)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"list":  listName,
		"count": len(items),
		"items": items,
	})
}

// SubmitBatch applies a batch of mutations. Per-method failures are part of
// a 200 response; only transport or server faults fail the request.
func (h *ListHandlers) SubmitBatch(w http.ResponseWriter, r *http.Request) {
	listName := chi.URLParam(r, "list")

	var req BatchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBatchBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		WriteError(w, r, badRequest("invalid batch request: "+err.Error()))
		return
	}

	var raw spclient.QueryBuilder
	if req.Raw != "" {
		raw = spclient.RawXML(req.Raw)
	}

	outcome, err := h.service.ApplyMutations(r.Context(), listName, req.Options.toDomain(), req.Mutations, raw)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	h.logger.Info("Batch applied",
		"list", listName,
		"mutations", len(req.Mutations),
		"succeeded", outcome.Succeeded,
		"failed", outcome.Failed)
	WriteJSON(w, http.StatusOK, outcome)
}

// ExportXLSX streams the list items as a workbook.
func (h *ListHandlers) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	listName := chi.URLParam(r, "list")
	opts, err := queryOptionsFromRequest(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	buf, err := h.service.ExportList(r.Context(), listName, opts)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.SheetName(listName)+".xlsx"))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("Failed to write export", "list", listName, "error", err)
	}
}

// CreateSnapshot stores the list's current items; ?view= selects the view.
func (h *ListHandlers) CreateSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.service.SnapshotList(r.Context(), chi.URLParam(r, "list"), r.URL.Query().Get("view"))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, h.presenter.ToSnapshotSummary(snapshot))
}

// ListSnapshots returns snapshot headers, newest first; ?limit= bounds the count.
func (h *ListHandlers) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", 20)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	snapshots, err := h.service.ListSnapshots(r.Context(), chi.URLParam(r, "list"), limit)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, h.presenter.ToSnapshotSummaries(snapshots))
}

// LatestSnapshot returns the newest snapshot with its items.
func (h *ListHandlers) LatestSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.service.LatestSnapshot(r.Context(), chi.URLParam(r, "list"))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, snapshot)
}

// CompareWithLatest reports item changes since the newest snapshot.
func (h *ListHandlers) CompareWithLatest(w http.ResponseWriter, r *http.Request) {
	diff, err := h.service.CompareWithLatest(r.Context(), chi.URLParam(r, "list"))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, diff)
}
