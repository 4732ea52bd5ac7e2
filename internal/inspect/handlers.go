package inspect

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/joeycumines/lifesim/internal/decision"
	"github.com/joeycumines/lifesim/internal/event"
)

// listDecisions serves query(limit) after parsing ?limit.
func (s *Server) listDecisions(w http.ResponseWriter, r *http.Request, query func(limit int) []*decision.Record) {
	limit, err := limitParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	recs := query(limit)
	if recs == nil {
		recs = []*decision.Record{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) listEvents(w http.ResponseWriter, r *http.Request, query func(limit int) []event.Event) {
	limit, err := limitParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	evs := query(limit)
	if evs == nil {
		evs = []event.Event{}
	}
	writeJSON(w, http.StatusOK, evs)
}

func (s *Server) recentDecisions(w http.ResponseWriter, r *http.Request) {
	s.listDecisions(w, r, s.decisions.Recent)
}

func (s *Server) decisionStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.decisions.Stats())
}

func (s *Server) getDecision(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid decision id")
		return
	}
	rec, ok := s.decisions.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "decision not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) actorDecisions(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.listDecisions(w, r, func(limit int) []*decision.Record { return s.decisions.ByActor(id, limit) })
}

func (s *Server) dayDecisions(w http.ResponseWriter, r *http.Request) {
	day, err := intParam(r, "day")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.listDecisions(w, r, func(limit int) []*decision.Record { return s.decisions.ByDay(day, limit) })
}

func (s *Server) actionDecisions(w http.ResponseWriter, r *http.Request) {
	a, err := decision.ParseAction(chi.URLParam(r, "action"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.listDecisions(w, r, func(limit int) []*decision.Record { return s.decisions.ByAction(a, limit) })
}

func (s *Server) recentEvents(w http.ResponseWriter, r *http.Request) {
	s.listEvents(w, r, s.events.Recent)
}

func (s *Server) eventStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.events.Stats())
}

func (s *Server) actorEvents(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.listEvents(w, r, func(limit int) []event.Event { return s.events.ByEntity(id, limit) })
}

func (s *Server) dayEvents(w http.ResponseWriter, r *http.Request) {
	day, err := intParam(r, "day")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.listEvents(w, r, func(limit int) []event.Event { return s.events.ByDay(day, limit) })
}

func (s *Server) typeEvents(w http.ResponseWriter, r *http.Request) {
	t, err := event.ParseType(chi.URLParam(r, "type"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if t == event.AllTypes {
		s.recentEvents(w, r)
		return
	}
	s.listEvents(w, r, func(limit int) []event.Event { return s.events.ByType(t, limit) })
}

func (s *Server) runs(w http.ResponseWriter, _ *http.Request) {
	if s.archive == nil {
		writeError(w, http.StatusNotFound, "no archive configured")
		return
	}
	runs, err := s.archive.Runs()
	if err != nil {
		s.logger.Error("list runs", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, runs)
}
