// Package v0 provides the REST API handlers for managing instances,
// project pairs, user mappings, sync runs, conflicts and the audit log.
package v0

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/issuebridge/issuebridge-server/internal/api/common"
	"github.com/issuebridge/issuebridge-server/internal/logger"
	"github.com/issuebridge/issuebridge-server/internal/store"
	pkgsync "github.com/issuebridge/issuebridge-server/internal/sync"
)

// SyncRunner triggers sync work for a pair. *sync.Engine implements it.
type SyncRunner interface {
	RunCycle(ctx context.Context, pairID uuid.UUID) (*pkgsync.CycleSummary, error)
	RepairMappings(ctx context.Context, pairID uuid.UUID) (int, error)
}

// Routes defines the routes for the management API.
type Routes struct {
	store  store.Store
	runner SyncRunner
}

// NewRoutes creates a new Routes instance.
func NewRoutes(st store.Store, runner SyncRunner) *Routes {
	return &Routes{store: st, runner: runner}
}

// Router creates the /api/v0 router.
func Router(st store.Store, runner SyncRunner) http.Handler {
	routes := NewRoutes(st, runner)

	r := chi.NewRouter()

	r.Route("/instances", func(r chi.Router) {
		r.Get("/", routes.listInstances)
		r.Post("/", routes.createInstance)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", routes.getInstance)
			r.Put("/", routes.updateInstance)
			r.Delete("/", routes.deleteInstance)
		})
	})

	r.Route("/pairs", func(r chi.Router) {
		r.Get("/", routes.listPairs)
		r.Post("/", routes.createPair)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", routes.getPair)
			r.Put("/", routes.updatePair)
			r.Delete("/", routes.deletePair)
			r.Post("/sync", routes.triggerSync)
			r.Post("/repair-mappings", routes.repairMappings)
			r.Get("/issues", routes.listPairIssues)
			r.Get("/logs", routes.listPairLogs)
		})
	})

	r.Route("/user-mappings", func(r chi.Router) {
		r.Get("/", routes.listUserMappings)
		r.Post("/", routes.createUserMapping)
		r.Delete("/{id}", routes.deleteUserMapping)
	})

	r.Get("/logs", routes.listLogs)

	r.Route("/conflicts", func(r chi.Router) {
		r.Get("/", routes.listConflicts)
		r.Post("/{id}/resolve", routes.resolveConflict)
	})

	r.Get("/dashboard/stats", routes.dashboardStats)
	r.Get("/dashboard/activity", routes.dashboardActivity)

	return r
}

// Instance is the API representation of a GitLab instance. The access
// token is write-only and never echoed back.
type Instance struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	URL              string    `json:"url"`
	Description      string    `json:"description,omitempty"`
	CatchAllUsername string    `json:"catch_all_username,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type instanceRequest struct {
	Name             string `json:"name"`
	URL              string `json:"url"`
	AccessToken      string `json:"access_token"`
	Description      string `json:"description"`
	CatchAllUsername string `json:"catch_all_username"`
}

func (req *instanceRequest) validate() error {
	if strings.TrimSpace(req.Name) == "" {
		return errors.New("name is required")
	}
	parsed, err := url.Parse(req.URL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return errors.New("url must be a valid http(s) URL")
	}
	return nil
}

func instanceResponse(inst store.Instance) Instance {
	return Instance{
		ID:               inst.ID,
		Name:             inst.Name,
		URL:              inst.URL,
		Description:      inst.Description,
		CatchAllUsername: inst.CatchAllUsername,
		CreatedAt:        inst.CreatedAt,
		UpdatedAt:        inst.UpdatedAt,
	}
}

// ProjectPair is the API representation of a project pair.
type ProjectPair struct {
	ID               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	SourceInstanceID uuid.UUID  `json:"source_instance_id"`
	SourceProject    string     `json:"source_project"`
	TargetInstanceID uuid.UUID  `json:"target_instance_id"`
	TargetProject    string     `json:"target_project"`
	Bidirectional    bool       `json:"bidirectional"`
	Enabled          bool       `json:"enabled"`
	SyncInterval     string     `json:"sync_interval,omitempty"`
	LastCycleAt      *time.Time `json:"last_cycle_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type pairRequest struct {
	Name             string    `json:"name"`
	SourceInstanceID uuid.UUID `json:"source_instance_id"`
	SourceProject    string    `json:"source_project"`
	TargetInstanceID uuid.UUID `json:"target_instance_id"`
	TargetProject    string    `json:"target_project"`
	Bidirectional    bool      `json:"bidirectional"`
	Enabled          *bool     `json:"enabled"`
	SyncInterval     string    `json:"sync_interval"`
}

func (req *pairRequest) toPair() (store.ProjectPair, error) {
	if strings.TrimSpace(req.Name) == "" {
		return store.ProjectPair{}, errors.New("name is required")
	}
	if strings.TrimSpace(req.SourceProject) == "" || strings.TrimSpace(req.TargetProject) == "" {
		return store.ProjectPair{}, errors.New("source_project and target_project are required")
	}
	if req.SourceInstanceID == uuid.Nil || req.TargetInstanceID == uuid.Nil {
		return store.ProjectPair{}, errors.New("source_instance_id and target_instance_id are required")
	}

	var interval time.Duration
	if req.SyncInterval != "" {
		parsed, err := time.ParseDuration(req.SyncInterval)
		if err != nil || parsed <= 0 {
			return store.ProjectPair{}, errors.New("sync_interval must be a positive duration such as \"10m\"")
		}
		interval = parsed
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	return store.ProjectPair{
		Name:             req.Name,
		SourceInstanceID: req.SourceInstanceID,
		SourceProject:    req.SourceProject,
		TargetInstanceID: req.TargetInstanceID,
		TargetProject:    req.TargetProject,
		Bidirectional:    req.Bidirectional,
		Enabled:          enabled,
		SyncInterval:     interval,
	}, nil
}

func pairResponse(pair store.ProjectPair) ProjectPair {
	resp := ProjectPair{
		ID:               pair.ID,
		Name:             pair.Name,
		SourceInstanceID: pair.SourceInstanceID,
		SourceProject:    pair.SourceProject,
		TargetInstanceID: pair.TargetInstanceID,
		TargetProject:    pair.TargetProject,
		Bidirectional:    pair.Bidirectional,
		Enabled:          pair.Enabled,
		LastCycleAt:      pair.LastCycleAt,
		CreatedAt:        pair.CreatedAt,
		UpdatedAt:        pair.UpdatedAt,
	}
	if pair.SyncInterval > 0 {
		resp.SyncInterval = pair.SyncInterval.String()
	}
	return resp
}

// UserMapping is the API representation of a username mapping.
type UserMapping struct {
	ID               uuid.UUID `json:"id"`
	SourceInstanceID uuid.UUID `json:"source_instance_id"`
	SourceUsername   string    `json:"source_username"`
	TargetInstanceID uuid.UUID `json:"target_instance_id"`
	TargetUsername   string    `json:"target_username"`
	CreatedAt        time.Time `json:"created_at"`
}

type userMappingRequest struct {
	SourceInstanceID uuid.UUID `json:"source_instance_id"`
	SourceUsername   string    `json:"source_username"`
	TargetInstanceID uuid.UUID `json:"target_instance_id"`
	TargetUsername   string    `json:"target_username"`
}

func mappingResponse(m store.UserMapping) UserMapping {
	return UserMapping{
		ID:               m.ID,
		SourceInstanceID: m.SourceInstanceID,
		SourceUsername:   m.SourceUsername,
		TargetInstanceID: m.TargetInstanceID,
		TargetUsername:   m.TargetUsername,
		CreatedAt:        m.CreatedAt,
	}
}

// IssueLink is the API representation of a synced-issue record.
type IssueLink struct {
	PairID       uuid.UUID `json:"pair_id"`
	SourceIID    int64     `json:"source_iid"`
	TargetIID    int64     `json:"target_iid"`
	LastSyncedAt time.Time `json:"last_synced_at"`
}

// Conflict is the API representation of a recorded conflict.
type Conflict struct {
	ID              uuid.UUID       `json:"id"`
	PairID          uuid.UUID       `json:"pair_id"`
	SourceIID       int64           `json:"source_iid"`
	TargetIID       *int64          `json:"target_iid,omitempty"`
	Type            string          `json:"type"`
	Description     string          `json:"description"`
	SourceSnapshot  json.RawMessage `json:"source_snapshot,omitempty"`
	TargetSnapshot  json.RawMessage `json:"target_snapshot,omitempty"`
	Resolved        bool            `json:"resolved"`
	ResolvedAt      *time.Time      `json:"resolved_at,omitempty"`
	ResolutionNotes string          `json:"resolution_notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

func conflictResponse(c store.Conflict) Conflict {
	return Conflict{
		ID:              c.ID,
		PairID:          c.PairID,
		SourceIID:       c.SourceIID,
		TargetIID:       c.TargetIID,
		Type:            c.Type,
		Description:     c.Description,
		SourceSnapshot:  c.SourceSnapshot,
		TargetSnapshot:  c.TargetSnapshot,
		Resolved:        c.Resolved,
		ResolvedAt:      c.ResolvedAt,
		ResolutionNotes: c.ResolutionNotes,
		CreatedAt:       c.CreatedAt,
	}
}

// LogEntry is the API representation of an audit log row.
type LogEntry struct {
	ID        int64     `json:"id"`
	PairID    uuid.UUID `json:"pair_id"`
	Direction string    `json:"direction"`
	Status    string    `json:"status"`
	SourceIID *int64    `json:"source_iid,omitempty"`
	TargetIID *int64    `json:"target_iid,omitempty"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func logResponse(e store.LogEntry) LogEntry {
	return LogEntry{
		ID:        e.ID,
		PairID:    e.PairID,
		Direction: string(e.Direction),
		Status:    string(e.Status),
		SourceIID: e.SourceIID,
		TargetIID: e.TargetIID,
		Message:   e.Message,
		CreatedAt: e.CreatedAt,
	}
}

// writeStoreError maps store errors onto HTTP statuses.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		common.WriteErrorResponse(w, "not found", http.StatusNotFound)
	case errors.Is(err, store.ErrAlreadyExists):
		common.WriteErrorResponse(w, "already exists", http.StatusConflict)
	default:
		logger.Errorf("Store operation failed: %v", err)
		common.WriteErrorResponse(w, "internal error", http.StatusInternalServerError)
	}
}

func (rr *Routes) listInstances(w http.ResponseWriter, r *http.Request) {
	instances, err := rr.store.ListInstances(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	out := make([]Instance, 0, len(instances))
	for _, inst := range instances {
		out = append(out, instanceResponse(inst))
	}
	common.WriteJSONResponse(w, out, http.StatusOK)
}

func (rr *Routes) createInstance(w http.ResponseWriter, r *http.Request) {
	var req instanceRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := req.validate(); err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.AccessToken == "" {
		common.WriteErrorResponse(w, "access_token is required", http.StatusBadRequest)
		return
	}

	created, err := rr.store.CreateInstance(r.Context(), store.Instance{
		Name:             req.Name,
		URL:              strings.TrimSuffix(req.URL, "/"),
		AccessToken:      req.AccessToken,
		Description:      req.Description,
		CatchAllUsername: req.CatchAllUsername,
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}
	common.WriteJSONResponse(w, instanceResponse(created), http.StatusCreated)
}

func (rr *Routes) getInstance(w http.ResponseWriter, r *http.Request) {
	id, err := common.GetUUIDParam(r, "id")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	inst, err := rr.store.GetInstance(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	common.WriteJSONResponse(w, instanceResponse(inst), http.StatusOK)
}

func (rr *Routes) updateInstance(w http.ResponseWriter, r *http.Request) {
	id, err := common.GetUUIDParam(r, "id")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	var req instanceRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := req.validate(); err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	existing, err := rr.store.GetInstance(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	existing.Name = req.Name
	existing.URL = strings.TrimSuffix(req.URL, "/")
	existing.Description = req.Description
	existing.CatchAllUsername = req.CatchAllUsername
	// An empty token on update means "keep the current one".
	if req.AccessToken != "" {
		existing.AccessToken = req.AccessToken
	}

	updated, err := rr.store.UpdateInstance(r.Context(), existing)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	common.WriteJSONResponse(w, instanceResponse(updated), http.StatusOK)
}

func (rr *Routes) deleteInstance(w http.ResponseWriter, r *http.Request) {
	id, err := common.GetUUIDParam(r, "id")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := rr.store.DeleteInstance(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rr *Routes) listPairs(w http.ResponseWriter, r *http.Request) {
	pairs, err := rr.store.ListPairs(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	out := make([]ProjectPair, 0, len(pairs))
	for _, pair := range pairs {
		out = append(out, pairResponse(pair))
	}
	common.WriteJSONResponse(w, out, http.StatusOK)
}

func (rr *Routes) createPair(w http.ResponseWriter, r *http.Request) {
	var req pairRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	pair, err := req.toPair()
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Both instances must exist before a pair can reference them.
	for _, instID := range []uuid.UUID{pair.SourceInstanceID, pair.TargetInstanceID} {
		if _, err := rr.store.GetInstance(r.Context(), instID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				common.WriteErrorResponse(w, "instance "+instID.String()+" does not exist", http.StatusBadRequest)
				return
			}
			writeStoreError(w, err)
			return
		}
	}

	created, err := rr.store.CreatePair(r.Context(), pair)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	common.WriteJSONResponse(w, pairResponse(created), http.StatusCreated)
}

func (rr *Routes) getPair(w http.ResponseWriter, r *http.Request) {
	id, err := common.GetUUIDParam(r, "id")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	pair, err := rr.store.GetPair(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	common.WriteJSONResponse(w, pairResponse(pair), http.StatusOK)
}

func (rr *Routes) updatePair(w http.ResponseWriter, r *http.Request) {
	id, err := common.GetUUIDParam(r, "id")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	var req pairRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	pair, err := req.toPair()
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	pair.ID = id

	updated, err := rr.store.UpdatePair(r.Context(), pair)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	common.WriteJSONResponse(w, pairResponse(updated), http.StatusOK)
}

func (rr *Routes) deletePair(w http.ResponseWriter, r *http.Request) {
	id, err := common.GetUUIDParam(r, "id")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := rr.store.DeletePair(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rr *Routes) triggerSync(w http.ResponseWriter, r *http.Request) {
	id, err := common.GetUUIDParam(r, "id")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	pair, err := rr.store.GetPair(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if !pair.Enabled {
		common.WriteErrorResponse(w, "pair is disabled", http.StatusConflict)
		return
	}

	summary, err := rr.runner.RunCycle(r.Context(), id)
	if errors.Is(err, pkgsync.ErrAlreadyRunning) {
		common.WriteErrorResponse(w, "sync already running for this pair", http.StatusConflict)
		return
	}
	if err != nil {
		logger.Errorf("Manual sync for pair %s failed: %v", id, err)
		common.WriteErrorResponse(w, "sync failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	common.WriteJSONResponse(w, summary, http.StatusOK)
}

func (rr *Routes) repairMappings(w http.ResponseWriter, r *http.Request) {
	id, err := common.GetUUIDParam(r, "id")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	repaired, err := rr.runner.RepairMappings(r.Context(), id)
	if errors.Is(err, pkgsync.ErrAlreadyRunning) {
		common.WriteErrorResponse(w, "sync already running for this pair", http.StatusConflict)
		return
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeStoreError(w, err)
			return
		}
		logger.Errorf("Repair for pair %s failed: %v", id, err)
		common.WriteErrorResponse(w, "repair failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	common.WriteJSONResponse(w, map[string]int{"repaired": repaired}, http.StatusOK)
}

func (rr *Routes) listPairIssues(w http.ResponseWriter, r *http.Request) {
	id, err := common.GetUUIDParam(r, "id")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	limit, offset, err := common.ParsePagination(r)
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	links, err := rr.store.ListIssueLinks(r.Context(), id, limit, offset)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	out := make([]IssueLink, 0, len(links))
	for _, link := range links {
		out = append(out, IssueLink{
			PairID:       link.PairID,
			SourceIID:    link.SourceIID,
			TargetIID:    link.TargetIID,
			LastSyncedAt: link.LastSyncedAt,
		})
	}
	common.WriteJSONResponse(w, out, http.StatusOK)
}

func (rr *Routes) listPairLogs(w http.ResponseWriter, r *http.Request) {
	id, err := common.GetUUIDParam(r, "id")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	limit, offset, err := common.ParsePagination(r)
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	entries, err := rr.store.ListLogsForPair(r.Context(), id, limit, offset)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	rr.writeLogs(w, entries)
}

func (rr *Routes) listLogs(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := common.ParsePagination(r)
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	entries, err := rr.store.ListLogs(r.Context(), limit, offset)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	rr.writeLogs(w, entries)
}

func (*Routes) writeLogs(w http.ResponseWriter, entries []store.LogEntry) {
	out := make([]LogEntry, 0, len(entries))
	for _, entry := range entries {
		out = append(out, logResponse(entry))
	}
	common.WriteJSONResponse(w, out, http.StatusOK)
}

func (rr *Routes) listUserMappings(w http.ResponseWriter, r *http.Request) {
	mappings, err := rr.store.ListUserMappings(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	out := make([]UserMapping, 0, len(mappings))
	for _, m := range mappings {
		out = append(out, mappingResponse(m))
	}
	common.WriteJSONResponse(w, out, http.StatusOK)
}

func (rr *Routes) createUserMapping(w http.ResponseWriter, r *http.Request) {
	var req userMappingRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.SourceUsername == "" || req.TargetUsername == "" {
		common.WriteErrorResponse(w, "source_username and target_username are required", http.StatusBadRequest)
		return
	}
	if req.SourceInstanceID == uuid.Nil || req.TargetInstanceID == uuid.Nil {
		common.WriteErrorResponse(w, "source_instance_id and target_instance_id are required", http.StatusBadRequest)
		return
	}

	created, err := rr.store.CreateUserMapping(r.Context(), store.UserMapping{
		SourceInstanceID: req.SourceInstanceID,
		SourceUsername:   req.SourceUsername,
		TargetInstanceID: req.TargetInstanceID,
		TargetUsername:   req.TargetUsername,
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}
	common.WriteJSONResponse(w, mappingResponse(created), http.StatusCreated)
}

func (rr *Routes) deleteUserMapping(w http.ResponseWriter, r *http.Request) {
	id, err := common.GetUUIDParam(r, "id")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := rr.store.DeleteUserMapping(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rr *Routes) listConflicts(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := common.ParsePagination(r)
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	includeResolved := r.URL.Query().Get("include_resolved") == "true"

	conflicts, err := rr.store.ListConflicts(r.Context(), includeResolved, limit, offset)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	out := make([]Conflict, 0, len(conflicts))
	for _, c := range conflicts {
		out = append(out, conflictResponse(c))
	}
	common.WriteJSONResponse(w, out, http.StatusOK)
}

func (rr *Routes) resolveConflict(w http.ResponseWriter, r *http.Request) {
	id, err := common.GetUUIDParam(r, "id")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	var req struct {
		Notes string `json:"notes"`
	}
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	resolved, err := rr.store.ResolveConflict(r.Context(), id, req.Notes)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	common.WriteJSONResponse(w, conflictResponse(resolved), http.StatusOK)
}

// DashboardStats summarizes the service state for the dashboard.
type DashboardStats struct {
	TotalPairs    int64            `json:"total_pairs"`
	EnabledPairs  int64            `json:"enabled_pairs"`
	LinkedIssues  int64            `json:"linked_issues"`
	OpenConflicts int64            `json:"open_conflicts"`
	Last24h       map[string]int64 `json:"last_24h"`
}

func (rr *Routes) dashboardStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	pairCounts, err := rr.store.CountPairs(ctx)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	linked, err := rr.store.CountIssueLinks(ctx)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	openConflicts, err := rr.store.CountOpenConflicts(ctx)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	byStatus, err := rr.store.CountLogsByStatusSince(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	last24h := make(map[string]int64, len(byStatus))
	for _, sc := range byStatus {
		last24h[string(sc.Status)] = sc.Count
	}

	common.WriteJSONResponse(w, DashboardStats{
		TotalPairs:    pairCounts.Total,
		EnabledPairs:  pairCounts.Enabled,
		LinkedIssues:  linked,
		OpenConflicts: openConflicts,
		Last24h:       last24h,
	}, http.StatusOK)
}

func (rr *Routes) dashboardActivity(w http.ResponseWriter, r *http.Request) {
	entries, err := rr.store.ListLogs(r.Context(), 20, 0)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	rr.writeLogs(w, entries)
}
