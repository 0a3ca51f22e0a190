package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"

	"github.com/aweos-lab/wikireminder/pkg/domain/interfaces"
	"github.com/aweos-lab/wikireminder/pkg/domain/model"
	"github.com/aweos-lab/wikireminder/pkg/domain/types"
	"github.com/aweos-lab/wikireminder/pkg/usecase"
	"github.com/aweos-lab/wikireminder/pkg/utils/errutil"
)

type collectionRequest struct {
	WikiCollectionID string `json:"wikiCollectionId"`
	Name             string `json:"name"`
}

type leaderRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	ChatID     string `json:"chatId"`
	WikiUserID string `json:"wikiUserId"`
	Active     *bool  `json:"active"`

	// Collections replaces the assignments when present. Omitting the
	// field leaves them untouched on update.
	Collections []collectionRequest `json:"collections"`
}

type collectionResponse struct {
	ID               string     `json:"id"`
	WikiCollectionID string     `json:"wikiCollectionId"`
	Name             string     `json:"name"`
	LastCheckedAt    *time.Time `json:"lastCheckedAt,omitempty"`
}

type reminderLogResponse struct {
	ID            string     `json:"id"`
	TeamLeaderID  string     `json:"teamLeaderId"`
	ReminderCount int        `json:"reminderCount"`
	Status        string     `json:"status"`
	SentAt        time.Time  `json:"sentAt"`
	ResponseType  string     `json:"responseType,omitempty"`
	Comment       string     `json:"comment,omitempty"`
	RespondedAt   *time.Time `json:"respondedAt,omitempty"`
}

type leaderResponse struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	ChatID        string     `json:"chatId,omitempty"`
	WikiUserID    string     `json:"wikiUserId,omitempty"`
	Active        bool       `json:"active"`
	ReminderCount int        `json:"reminderCount"`
	SnoozeUntil   *time.Time `json:"snoozeUntil,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`

	Collections []collectionResponse  `json:"collections"`
	RecentLogs  []reminderLogResponse `json:"recentLogs"`
}

func toLogResponse(log *model.ReminderLog) reminderLogResponse {
	return reminderLogResponse{
		ID:            log.ID.String(),
		TeamLeaderID:  log.LeaderID.String(),
		ReminderCount: log.ReminderCount,
		Status:        log.Status.String(),
		SentAt:        log.SentAt,
		ResponseType:  log.ResponseType.String(),
		Comment:       log.Comment,
		RespondedAt:   log.RespondedAt,
	}
}

func toLeaderResponse(detail *usecase.LeaderDetail) leaderResponse {
	resp := leaderResponse{
		ID:            detail.Leader.ID.String(),
		Name:          detail.Leader.Name,
		Email:         detail.Leader.Email,
		ChatID:        detail.Leader.ChatID,
		WikiUserID:    detail.Leader.WikiUserID,
		Active:        detail.Leader.Active,
		ReminderCount: detail.Leader.ReminderCount,
		SnoozeUntil:   detail.Leader.SnoozeUntil,
		CreatedAt:     detail.Leader.CreatedAt,
		UpdatedAt:     detail.Leader.UpdatedAt,
		Collections:   []collectionResponse{},
		RecentLogs:    []reminderLogResponse{},
	}
	for _, col := range detail.Collections {
		resp.Collections = append(resp.Collections, collectionResponse{
			ID:               col.ID.String(),
			WikiCollectionID: col.WikiCollectionID,
			Name:             col.Name,
			LastCheckedAt:    col.LastCheckedAt,
		})
	}
	for _, log := range detail.RecentLogs {
		resp.RecentLogs = append(resp.RecentLogs, toLogResponse(log))
	}
	return resp
}

func requestCollections(reqs []collectionRequest) []*model.WikiCollection {
	if reqs == nil {
		return nil
	}
	collections := make([]*model.WikiCollection, 0, len(reqs))
	for _, c := range reqs {
		collections = append(collections, &model.WikiCollection{
			WikiCollectionID: c.WikiCollectionID,
			Name:             c.Name,
		})
	}
	return collections
}

// actorEmail identifies the admin behind a change in the audit log.
// Optional; API token setups usually have no per-user identity.
func actorEmail(r *http.Request) string {
	return r.Header.Get("X-Actor-Email")
}

func listLeadersHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		details, err := uc.ListLeaders(r.Context())
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
			return
		}

		resp := make([]leaderResponse, 0, len(details))
		for _, detail := range details {
			resp = append(resp, toLeaderResponse(detail))
		}
		writeJSON(r.Context(), w, http.StatusOK, resp)
	}
}

func createLeaderHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req leaderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}

		detail, err := uc.CreateLeader(r.Context(), &model.TeamLeader{
			Name:       req.Name,
			Email:      req.Email,
			ChatID:     req.ChatID,
			WikiUserID: req.WikiUserID,
		}, requestCollections(req.Collections), actorEmail(r))
		switch {
		case errors.Is(err, interfaces.ErrDuplicateEmail):
			writeJSON(r.Context(), w, http.StatusConflict, errorResponse{Error: err.Error()})
			return
		case err != nil:
			writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		writeJSON(r.Context(), w, http.StatusCreated, toLeaderResponse(detail))
	}
}

func updateLeaderHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := types.LeaderID(chi.URLParam(r, "id"))

		existing, err := uc.GetLeader(r.Context(), id)
		if errors.Is(err, interfaces.ErrNotFound) {
			writeJSON(r.Context(), w, http.StatusNotFound, errorResponse{Error: "team leader not found"})
			return
		}
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
			return
		}

		var req leaderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}

		leader := existing.Leader
		if req.Name != "" {
			leader.Name = req.Name
		}
		if req.Email != "" {
			leader.Email = req.Email
		}
		leader.ChatID = req.ChatID
		leader.WikiUserID = req.WikiUserID
		if req.Active != nil {
			leader.Active = *req.Active
		}

		detail, err := uc.UpdateLeader(r.Context(), leader, requestCollections(req.Collections), actorEmail(r))
		switch {
		case errors.Is(err, interfaces.ErrDuplicateEmail):
			writeJSON(r.Context(), w, http.StatusConflict, errorResponse{Error: err.Error()})
			return
		case err != nil:
			writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, toLeaderResponse(detail))
	}
}

func deleteLeaderHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := types.LeaderID(chi.URLParam(r, "id"))

		err := uc.DeleteLeader(r.Context(), id, actorEmail(r))
		if errors.Is(err, interfaces.ErrNotFound) {
			writeJSON(r.Context(), w, http.StatusNotFound, errorResponse{Error: "team leader not found"})
			return
		}
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to delete team leader"), http.StatusInternalServerError)
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, successResponse{Success: true})
	}
}
