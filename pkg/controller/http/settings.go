package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/aweos-lab/wikireminder/pkg/domain/model"
	"github.com/aweos-lab/wikireminder/pkg/service/worker"
	"github.com/aweos-lab/wikireminder/pkg/usecase"
	"github.com/aweos-lab/wikireminder/pkg/utils/errutil"
	"github.com/aweos-lab/wikireminder/pkg/utils/logging"
)

type settingsPayload struct {
	ManagerEmail        string `json:"managerEmail"`
	EscalationThreshold int    `json:"escalationThreshold"`
	CronSchedule        string `json:"cronSchedule"`
}

func toSettingsPayload(s *model.Settings) settingsPayload {
	return settingsPayload{
		ManagerEmail:        s.ManagerEmail,
		EscalationThreshold: s.EscalationThreshold,
		CronSchedule:        s.CronSchedule,
	}
}

func getSettingsHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settings, err := uc.GetSettings(r.Context())
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, toSettingsPayload(settings))
	}
}

func updateSettingsHandler(uc *usecase.UseCases, scheduler *worker.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req settingsPayload
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}

		updated, err := uc.UpdateSettings(r.Context(), &model.Settings{
			ManagerEmail:        req.ManagerEmail,
			EscalationThreshold: req.EscalationThreshold,
			CronSchedule:        req.CronSchedule,
		}, actorEmail(r))
		if err != nil {
			writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		// The scheduler keeps running beyond this request.
		if scheduler != nil {
			ctx := context.WithoutCancel(r.Context())
			if err := scheduler.Start(ctx, updated.CronSchedule); err != nil {
				logging.From(r.Context()).Error("failed to restart scheduler", "error", err)
			}
		}

		writeJSON(r.Context(), w, http.StatusOK, toSettingsPayload(updated))
	}
}
