package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/cogniapply/internal/models"
)

var _ list.Item = applicationItem{}

// applicationItem wraps [models.JobApplication] to implement [list.Item].
type applicationItem struct {
	app models.JobApplication
}

func (i applicationItem) FilterValue() string { return i.app.JobTitle + " " + i.app.Company }
func (i applicationItem) Title() string {
	if i.app.Company == "" {
		return i.app.JobTitle
	}
	return fmt.Sprintf("%s • %s", i.app.JobTitle, i.app.Company)
}
func (i applicationItem) Description() string {
	desc := string(i.app.Status)
	if i.app.Timestamp != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.app.Timestamp)
	}
	return desc
}

func applicationItems(apps []models.JobApplication) []list.Item {
	items := make([]list.Item, len(apps))
	for i, app := range apps {
		items[i] = applicationItem{app: app}
	}
	return items
}

func newApplicationList() list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Applications"
	l.SetShowStatusBar(false)
	l.KeyMap.Quit.SetEnabled(false)
	l.SetStatusBarItemName("application", "applications")
	return l
}
