package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/aweos-lab/wikireminder/pkg/domain/types"
	"github.com/aweos-lab/wikireminder/pkg/service/worker"
	"github.com/aweos-lab/wikireminder/pkg/usecase"
	"github.com/aweos-lab/wikireminder/pkg/utils/errutil"
)

const defaultHistoryLimit = 100

func listRemindersHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultHistoryLimit
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				limit = n
			}
		}

		logs, err := uc.ListReminderLogs(r.Context(), limit)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
			return
		}

		resp := make([]reminderLogResponse, 0, len(logs))
		for _, log := range logs {
			resp = append(resp, toLogResponse(log))
		}
		writeJSON(r.Context(), w, http.StatusOK, resp)
	}
}

type auditResponse struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	EntityType string    `json:"entityType,omitempty"`
	EntityID   string    `json:"entityId,omitempty"`
	Details    string    `json:"details,omitempty"`
	ActorEmail string    `json:"actorEmail,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func listAuditHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := uc.ListAuditLog(r.Context(), defaultHistoryLimit)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
			return
		}

		resp := make([]auditResponse, 0, len(entries))
		for _, e := range entries {
			resp = append(resp, auditResponse{
				ID:         e.ID.String(),
				Action:     e.Action.String(),
				EntityType: e.EntityType,
				EntityID:   e.EntityID,
				Details:    e.Details,
				ActorEmail: e.ActorEmail,
				CreatedAt:  e.CreatedAt,
			})
		}
		writeJSON(r.Context(), w, http.StatusOK, resp)
	}
}

func triggerCheckHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := uc.RunReminderCheck(r.Context())
		if errors.Is(err, usecase.ErrCheckRunning) {
			writeJSON(r.Context(), w, http.StatusConflict, errorResponse{Error: err.Error()})
			return
		}
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, result)
	}
}

func schedulerStatusHandler(scheduler *worker.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if scheduler == nil {
			writeJSON(r.Context(), w, http.StatusOK, worker.Status{})
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, scheduler.Status())
	}
}

func statusHandler(uc *usecase.UseCases, scheduler *worker.Scheduler) http.HandlerFunc {
	type response struct {
		Services  *usecase.SystemStatus `json:"services"`
		Scheduler worker.Status         `json:"scheduler"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		resp := response{Services: uc.Status(r.Context())}
		if scheduler != nil {
			resp.Scheduler = scheduler.Status()
		}
		writeJSON(r.Context(), w, http.StatusOK, resp)
	}
}

func exportRemindersHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filename := "reminder-historie-" + time.Now().UTC().Format("2006-01-02") + ".csv"
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

		if err := uc.ExportReminderHistory(r.Context(), w); err != nil {
			errutil.Handle(r.Context(), err, "failed to export reminder history")
		}
	}
}

func exportLeadersHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filename := "teamleiter-" + time.Now().UTC().Format("2006-01-02") + ".csv"
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

		if err := uc.ExportLeaders(r.Context(), w); err != nil {
			errutil.Handle(r.Context(), err, "failed to export team leaders")
		}
	}
}

type testReminderRequest struct {
	TeamLeaderID string `json:"teamLeaderId"`
	Email        string `json:"email"`
}

func testReminderHandler(uc *usecase.UseCases) http.HandlerFunc {
	type response struct {
		Success     bool   `json:"success"`
		ResponseURL string `json:"responseUrl"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req testReminderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}

		url, err := uc.SendTestReminder(r.Context(), types.LeaderID(req.TeamLeaderID), req.Email)
		if err != nil {
			writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, response{Success: true, ResponseURL: url})
	}
}

func testChatHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := uc.SendTestChat(r.Context()); err != nil {
			writeJSON(r.Context(), w, http.StatusBadGateway, errorResponse{Error: err.Error()})
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, successResponse{Success: true})
	}
}

func testMailHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := uc.SendTestMail(r.Context()); err != nil {
			writeJSON(r.Context(), w, http.StatusBadGateway, errorResponse{Error: err.Error()})
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, successResponse{Success: true})
	}
}

func wikiCollectionsHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		collections, err := uc.ListWikiCollections(r.Context())
		if err != nil {
			writeJSON(r.Context(), w, http.StatusBadGateway, errorResponse{Error: err.Error()})
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, collections)
	}
}

func wikiUsersHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := uc.ListWikiUsers(r.Context())
		if err != nil {
			writeJSON(r.Context(), w, http.StatusBadGateway, errorResponse{Error: err.Error()})
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, users)
	}
}

func directoryUsersHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := uc.ListDirectoryUsers(r.Context(), r.URL.Query().Get("orgUnit"))
		if err != nil {
			writeJSON(r.Context(), w, http.StatusBadGateway, errorResponse{Error: err.Error()})
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, users)
	}
}

type directoryImportRequest struct {
	OrgUnitPath     string   `json:"orgUnitPath"`
	Emails          []string `json:"emails"`
	ReplaceExisting bool     `json:"replaceExisting"`
}

func directoryImportHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req directoryImportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}

		result, err := uc.ImportDirectoryUsers(r.Context(), usecase.ImportOptions{
			OrgUnitPath:     req.OrgUnitPath,
			Emails:          req.Emails,
			ReplaceExisting: req.ReplaceExisting,
		}, actorEmail(r))
		if err != nil {
			writeJSON(r.Context(), w, http.StatusBadGateway, errorResponse{Error: err.Error()})
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, result)
	}
}
