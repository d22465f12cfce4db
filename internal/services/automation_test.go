package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cogniapply/internal/models"
	"github.com/desertthunder/cogniapply/internal/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutomationService(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /apply", func(w http.ResponseWriter, r *http.Request) {
		var criteria models.SearchCriteria
		json.NewDecoder(r.Body).Decode(&criteria)
		if criteria.JobTitle == "busy" {
			http.Error(w, `{"detail":"An automation task is already running"}`, http.StatusBadRequest)
			return
		}
		w.Write([]byte(`{"message":"Job application process started"}`))
	})
	mux.HandleFunc("POST /stop-automation", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"No active automation session found"}`, http.StatusBadRequest)
	})
	mux.HandleFunc("GET /applications", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"job_id":"1","job_title":"Engineer","company":"Acme","status":"Applied","applied_date":"2025-03-01"}]`))
	})
	mux.HandleFunc("GET /profile", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"full_name":"Ada"}`))
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	svcs := New(shared.BackendConfig{BaseURL: server.URL, TimeoutSeconds: 5}, loggedIn(), log.New(io.Discard))

	t.Run("Apply", func(t *testing.T) {
		err := svcs.Automation.Apply(context.Background(), models.SearchCriteria{JobTitle: "Go", Location: "Remote", ApplicationsLimit: 3})
		require.NoError(t, err)

		err = svcs.Automation.Apply(context.Background(), models.SearchCriteria{JobTitle: "busy", Location: "Remote", ApplicationsLimit: 3})
		assert.Equal(t, "An automation task is already running", shared.UserMessage(err))
	})

	t.Run("Stop", func(t *testing.T) {
		err := svcs.Automation.Stop(context.Background())
		assert.Equal(t, "No active automation session found", shared.UserMessage(err))
	})

	t.Run("Applications", func(t *testing.T) {
		apps, err := svcs.Automation.Applications(context.Background())
		require.NoError(t, err)
		require.Len(t, apps, 1)
		assert.Equal(t, "Engineer", apps[0].JobTitle)
		assert.Equal(t, "2025-03-01", apps[0].Timestamp)
	})

	t.Run("LoadDashboard", func(t *testing.T) {
		d, err := svcs.LoadDashboard(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Ada", d.Profile.FullName)
		assert.Len(t, d.Applications, 1)
	})
}
