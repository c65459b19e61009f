package server

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Tiliavir/remylog/internal/model"
	"github.com/Tiliavir/remylog/internal/summary"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// FormTimeLayout is the value format of the page's datetime-local input.
const FormTimeLayout = "2006-01-02T15:04"

func parsePage() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/index.html.tmpl")
}

// pageData is the view-model of the logging page. It is built per request;
// form selection and flash messages travel in the query string.
type pageData struct {
	Title      string
	Activities []activityOption
	FormTime   string
	Flash      string
	Error      string
	Recency    []recencyView
	Days       []dayView
}

type activityOption struct {
	Type     model.ActivityType
	Emoji    string
	Selected bool
}

type recencyView struct {
	Label string
	Text  string
	Stale bool
}

type dayView struct {
	Title   string
	Summary summary.DaySummary
	Events  []eventView
}

type eventView struct {
	ID    int64
	Clock string
	Type  model.ActivityType
	Emoji string
	Notes string
	Bold  bool
}

// ----------------------------------------------------------------------------
// GET /
// ----------------------------------------------------------------------------

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	events, err := s.store.List(r.Context())
	if err != nil {
		s.serverError(w, r, "listing events", err)
		return
	}

	q := r.URL.Query()
	data := s.buildPage(events, s.now(), model.ActivityType(q.Get("type")))
	if logged := q.Get("logged"); logged != "" {
		data.Flash = "Logged " + logged
	}
	data.Error = q.Get("error")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, data); err != nil {
		s.requestLogger(r).Error("rendering page failed", "error", err)
	}
}

func (s *Server) buildPage(events []model.Event, now time.Time, selected model.ActivityType) pageData {
	data := pageData{
		Title:    "Remy Log",
		FormTime: now.In(s.loc).Format(FormTimeLayout),
	}
	for _, a := range model.Activities {
		data.Activities = append(data.Activities, activityOption{
			Type:     a.Type,
			Emoji:    a.Emoji,
			Selected: a.Type == selected,
		})
	}
	for _, rep := range s.reporter.All(events, now) {
		data.Recency = append(data.Recency, recencyView{
			Label: rep.Type.Emoji() + " " + string(rep.Type),
			Text:  rep.String(),
			Stale: rep.Stale,
		})
	}
	for _, day := range summary.Build(events, s.loc) {
		dv := dayView{
			Title:   day.Day.Start(s.loc).Format("Monday, January 2, 2006"),
			Summary: day.Summary,
		}
		for _, e := range day.Events {
			dv.Events = append(dv.Events, eventView{
				ID:    e.ID,
				Clock: e.Time.In(s.loc).Format("3:04 PM"),
				Type:  e.Type,
				Emoji: e.Type.Emoji(),
				Notes: e.Notes,
				Bold:  e.Type == model.Meal,
			})
		}
		data.Days = append(data.Days, dv)
	}
	return data
}

// ----------------------------------------------------------------------------
// POST /log
// ----------------------------------------------------------------------------

func (s *Server) handleFormLog(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, "invalid form")
		return
	}

	ts := s.now()
	if v := strings.TrimSpace(r.PostForm.Get("time")); v != "" {
		parsed, err := time.ParseInLocation(FormTimeLayout, v, s.loc)
		if err != nil {
			redirectWithError(w, r, "invalid time "+strconv.Quote(v))
			return
		}
		ts = parsed
	}

	ev, err := s.store.Append(r.Context(), model.NewEvent{
		Type:  model.ActivityType(strings.TrimSpace(r.PostForm.Get("type"))),
		Time:  ts,
		Notes: strings.TrimSpace(r.PostForm.Get("notes")),
	})
	if errors.Is(err, model.ErrNoActivity) {
		redirectWithError(w, r, err.Error())
		return
	}
	if err != nil {
		s.serverError(w, r, "appending event", err)
		return
	}

	s.metrics.logged(ev.Type)
	http.Redirect(w, r, "/?logged="+url.QueryEscape(string(ev.Type)), http.StatusSeeOther)
}

// ----------------------------------------------------------------------------
// POST /delete/{id}
// ----------------------------------------------------------------------------

func (s *Server) handleFormDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		redirectWithError(w, r, "invalid id")
		return
	}
	if err := s.store.Remove(r.Context(), id); err != nil {
		s.serverError(w, r, "removing event", err)
		return
	}
	s.metrics.eventsDeleted.Inc()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func redirectWithError(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, "/?error="+url.QueryEscape(msg), http.StatusSeeOther)
}
